package interviewsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/config"
	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/logx"
	"github.com/Abraxas-365/hireflow/pkg/metrics"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview"
	"github.com/Abraxas-365/hireflow/pkg/validatex"
	"github.com/google/uuid"
)

// InterviewService is the boundary callers go through for every interview
// operation: fetch, derive, dispatch and persist.
type InterviewService struct {
	interviews interview.InterviewRepository
	reviews    interview.ReviewRepository
	submitter  interview.ReviewSubmitter
	candidates interview.CandidateStatusUpdater
	directory  interview.CandidateDirectory
	locker     interview.Locker
	notifier   interview.Notifier
	metrics    *metrics.Metrics

	lockTTL time.Duration
	loc     *time.Location
	now     func() time.Time
}

func NewInterviewService(
	interviews interview.InterviewRepository,
	reviews interview.ReviewRepository,
	submitter interview.ReviewSubmitter,
	candidates interview.CandidateStatusUpdater,
	directory interview.CandidateDirectory,
	locker interview.Locker,
	notifier interview.Notifier,
	m *metrics.Metrics,
	cfg *config.InterviewConfig,
) *InterviewService {
	loc := cfg.Location()
	return &InterviewService{
		interviews: interviews,
		reviews:    reviews,
		submitter:  submitter,
		candidates: candidates,
		directory:  directory,
		locker:     locker,
		notifier:   notifier,
		metrics:    m,
		lockTTL:    cfg.LockTTL,
		loc:        loc,
		now:        func() time.Time { return time.Now().In(loc) },
	}
}

// ============================================================================
// Scheduling
// ============================================================================

// Schedule creates a Pending interview. Moving the candidate to the
// interview stage and mailing the invitation are best effort: their
// failures are logged and never undo the interview.
func (s *InterviewService) Schedule(ctx context.Context, req interview.ScheduleRequest) (*InterviewView, error) {
	if err := interview.FieldErrors(validatex.Fields(req)).Err(); err != nil {
		s.reject(interview.OpSchedule, err)
		return nil, err
	}

	now := s.now()
	iv, err := interview.NewInterview(kernel.NewInterviewID(uuid.NewString()), req, now)
	if err != nil {
		s.reject(interview.OpSchedule, err)
		return nil, err
	}

	if err := s.interviews.Create(ctx, *iv); err != nil {
		s.reject(interview.OpSchedule, err)
		return nil, err
	}
	s.metrics.Transition(string(interview.OpSchedule), string(iv.Status))

	logx.WithFields(logx.Fields{
		"interview_id": iv.ID,
		"candidate_id": iv.CandidateID,
		"start":        iv.ScheduledStart,
	}).Info("Interview scheduled")

	if err := s.candidates.MarkInterviewing(ctx, iv.CandidateID); err != nil {
		logx.WithFields(logx.Fields{
			"interview_id": iv.ID,
			"candidate_id": iv.CandidateID,
		}).WithError(err).Warn("Could not move candidate to interviewing")
	}

	view := newView(iv, now, interview.LangVI)
	s.enrich(ctx, []*InterviewView{view})
	s.notifyScheduled(ctx, view)
	return view, nil
}

func (s *InterviewService) notifyScheduled(ctx context.Context, view *InterviewView) {
	if s.notifier == nil || view.Candidate == nil {
		return
	}
	who := *view.Candidate
	if view.JobTitle != "" {
		who.JobTitle = view.JobTitle
	}
	if err := s.notifier.InterviewScheduled(ctx, *view.Interview, who); err != nil {
		logx.WithFields(logx.Fields{
			"interview_id": view.ID,
			"candidate_id": view.CandidateID,
		}).WithError(err).Warn("Interview invitation was not sent")
	}
}

// Reschedule edits the schedulable fields of a Pending interview
func (s *InterviewService) Reschedule(ctx context.Context, id kernel.InterviewID, patch interview.EditRequest) (*InterviewView, error) {
	if err := interview.FieldErrors(validatex.Fields(patch)).Err(); err != nil {
		s.reject(interview.OpEdit, err)
		return nil, err
	}

	var updated *interview.Interview
	err := s.withLock(ctx, id, func() error {
		iv, err := s.interviews.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := iv.Edit(patch, s.now()); err != nil {
			return err
		}
		if err := s.interviews.Update(ctx, *iv); err != nil {
			return err
		}
		updated = iv
		return nil
	})
	if err != nil {
		s.reject(interview.OpEdit, err)
		return nil, err
	}

	s.metrics.Transition(string(interview.OpEdit), string(updated.Status))
	logx.WithFields(logx.Fields{"interview_id": id}).Info("Interview rescheduled")

	view := newView(updated, s.now(), interview.LangVI)
	s.enrich(ctx, []*InterviewView{view})
	return view, nil
}

// ============================================================================
// Transitions
// ============================================================================

// EndEarly closes an interview that is currently in progress
func (s *InterviewService) EndEarly(ctx context.Context, id kernel.InterviewID) (*InterviewView, error) {
	return s.transition(ctx, id, interview.OpEndEarly, func(iv *interview.Interview, now time.Time) error {
		return iv.EndEarly(now)
	})
}

// Cancel stops a non-terminal interview
func (s *InterviewService) Cancel(ctx context.Context, id kernel.InterviewID) (*InterviewView, error) {
	return s.transition(ctx, id, interview.OpCancel, func(iv *interview.Interview, now time.Time) error {
		return iv.Cancel(now)
	})
}

// transition runs a status-only operation under the interview lock and
// persists it guarded by the status that was read.
func (s *InterviewService) transition(
	ctx context.Context,
	id kernel.InterviewID,
	op interview.Operation,
	apply func(iv *interview.Interview, now time.Time) error,
) (*InterviewView, error) {
	var (
		result *interview.Interview
		from   interview.Status
		now    time.Time
	)
	err := s.withLock(ctx, id, func() error {
		iv, err := s.interviews.FindByID(ctx, id)
		if err != nil {
			return err
		}

		now = s.now()
		from = iv.Status
		if err := apply(iv, now); err != nil {
			return err
		}
		if err := s.interviews.UpdateStatus(ctx, id, from, iv.Status, now); err != nil {
			return err
		}
		result = iv
		return nil
	})
	if err != nil {
		s.reject(op, err)
		return nil, err
	}

	s.metrics.Transition(string(op), string(result.Status))
	logx.WithFields(logx.Fields{
		"interview_id": id,
		"operation":    op,
		"from":         from,
		"to":           result.Status,
	}).Info("Interview status changed")

	view := newView(result, now, interview.LangVI)
	s.enrich(ctx, []*InterviewView{view})
	return view, nil
}

// SubmitReview completes an interview awaiting review. The status change
// and the review insert land together or not at all.
func (s *InterviewService) SubmitReview(ctx context.Context, id kernel.InterviewID, req interview.ReviewRequest) (*interview.Review, error) {
	if err := interview.FieldErrors(validatex.Fields(req)).Err(); err != nil {
		s.reject(interview.OpSubmitReview, err)
		return nil, err
	}

	var review *interview.Review
	err := s.withLock(ctx, id, func() error {
		iv, err := s.interviews.FindByID(ctx, id)
		if err != nil {
			return err
		}

		from := iv.Status
		rv, err := iv.SubmitReview(kernel.NewReviewID(uuid.NewString()), req, s.now())
		if err != nil {
			return err
		}
		if err := s.submitter.CompleteWithReview(ctx, *iv, from, *rv); err != nil {
			return err
		}
		review = rv
		return nil
	})
	if err != nil {
		s.reject(interview.OpSubmitReview, err)
		return nil, err
	}

	s.metrics.Transition(string(interview.OpSubmitReview), string(interview.StatusCompleted))
	logx.WithFields(logx.Fields{
		"interview_id": id,
		"review_id":    review.ID,
		"rating":       review.Rating,
		"outcome":      review.Outcome,
	}).Info("Interview review submitted")
	return review, nil
}

// Rerate changes the rating and notes of an existing review. The interview
// stays Completed and the outcome is kept.
func (s *InterviewService) Rerate(ctx context.Context, reviewID kernel.ReviewID, req interview.RerateRequest) (*interview.Review, error) {
	if err := interview.FieldErrors(validatex.Fields(req)).Err(); err != nil {
		s.reject(interview.OpRerate, err)
		return nil, err
	}

	current, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		s.reject(interview.OpRerate, err)
		return nil, err
	}

	var rv *interview.Review
	err = s.withLock(ctx, current.InterviewID, func() error {
		fresh, err := s.reviews.FindByID(ctx, reviewID)
		if err != nil {
			return err
		}
		if err := fresh.Rerate(req.Rating, req.Notes, s.now()); err != nil {
			return err
		}
		if err := s.reviews.Update(ctx, *fresh); err != nil {
			return err
		}
		rv = fresh
		return nil
	})
	if err != nil {
		s.reject(interview.OpRerate, err)
		return nil, err
	}

	s.metrics.Transition(string(interview.OpRerate), string(interview.StatusCompleted))
	logx.WithFields(logx.Fields{
		"review_id": rv.ID,
		"rating":    rv.Rating,
	}).Info("Interview review re-rated")
	return rv, nil
}

// Delete removes an interview outright. It sits outside the lifecycle and
// is refused once the interview is completed.
func (s *InterviewService) Delete(ctx context.Context, id kernel.InterviewID) error {
	err := s.withLock(ctx, id, func() error {
		iv, err := s.interviews.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := iv.CanDelete(); err != nil {
			return err
		}
		return s.interviews.Delete(ctx, id)
	})
	if err != nil {
		s.reject(interview.OpDelete, err)
		return err
	}

	s.metrics.Transition(string(interview.OpDelete), "DELETED")
	logx.WithFields(logx.Fields{"interview_id": id}).Info("Interview deleted")
	return nil
}

// ============================================================================
// Queries
// ============================================================================

// Get returns one interview with its review when there is one
func (s *InterviewService) Get(ctx context.Context, id kernel.InterviewID, lang interview.Lang) (*InterviewView, error) {
	iv, err := s.interviews.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := newView(iv, s.now(), lang)
	s.enrich(ctx, []*InterviewView{view})

	if iv.Status == interview.StatusCompleted {
		rv, err := s.reviews.FindByInterviewID(ctx, id)
		switch {
		case err == nil:
			view.Review = rv
		case !errx.IsCode(err, interview.CodeReviewNotFound):
			return nil, err
		}
	}
	return view, nil
}

// List returns interviews newest first, each derived at the same instant
func (s *InterviewService) List(ctx context.Context, q ListQuery) ([]*InterviewView, error) {
	ivs, err := s.interviews.Find(ctx, q.Filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]*InterviewView, 0, len(ivs))
	for _, iv := range ivs {
		views = append(views, newView(iv, now, q.Lang))
	}
	s.enrich(ctx, views)

	out := views[:0]
	for _, v := range views {
		if v.matches(q) {
			out = append(out, v)
		}
	}
	return out, nil
}

// Summary counts interviews per effective status
func (s *InterviewService) Summary(ctx context.Context, filter interview.ListFilter) (interview.Summary, error) {
	ivs, err := s.interviews.Find(ctx, filter)
	if err != nil {
		return interview.Summary{}, err
	}
	return interview.Summarize(ivs, s.now()), nil
}

// PendingReviews lists interviews whose effective status is AwaitingReview
func (s *InterviewService) PendingReviews(ctx context.Context, lang interview.Lang) ([]*InterviewView, error) {
	return s.List(ctx, ListQuery{
		Filter: interview.ListFilter{
			Statuses: []interview.Status{
				interview.StatusPending,
				interview.StatusInProgress,
				interview.StatusAwaitingReview,
			},
		},
		Statuses: []interview.Status{interview.StatusAwaitingReview},
		Lang:     lang,
	})
}

// Reviews returns the latest review of each interview, newest first
func (s *InterviewService) Reviews(ctx context.Context, filter interview.ReviewFilter) ([]*interview.Review, error) {
	all, err := s.reviews.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return interview.LatestPerInterview(all), nil
}

// ReviewStats aggregates the reviews dashboard numbers
func (s *InterviewService) ReviewStats(ctx context.Context, filter interview.ReviewFilter) (interview.ReviewStats, error) {
	all, err := s.reviews.Find(ctx, filter)
	if err != nil {
		return interview.ReviewStats{}, err
	}
	return interview.ComputeReviewStats(all), nil
}

// ============================================================================
// Helpers
// ============================================================================

func (s *InterviewService) withLock(ctx context.Context, id kernel.InterviewID, fn func() error) error {
	release, err := s.locker.Acquire(ctx, "interview:"+id.String(), s.lockTTL)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

// enrich attaches candidate and job display data. Lookup failures degrade
// the view instead of failing the request.
func (s *InterviewService) enrich(ctx context.Context, views []*InterviewView) {
	if s.directory == nil || len(views) == 0 {
		return
	}

	candidateIDs := make([]kernel.CandidateID, 0, len(views))
	jobIDs := make([]kernel.JobID, 0, len(views))
	seenC := map[kernel.CandidateID]bool{}
	seenJ := map[kernel.JobID]bool{}
	for _, v := range views {
		if !seenC[v.CandidateID] {
			seenC[v.CandidateID] = true
			candidateIDs = append(candidateIDs, v.CandidateID)
		}
		if !seenJ[v.JobID] {
			seenJ[v.JobID] = true
			jobIDs = append(jobIDs, v.JobID)
		}
	}

	people, err := s.directory.Lookup(ctx, candidateIDs)
	if err != nil {
		logx.WithError(err).Warn("Candidate lookup failed")
	}
	titles, err := s.directory.JobTitles(ctx, jobIDs)
	if err != nil {
		logx.WithError(err).Warn("Job title lookup failed")
	}

	for _, v := range views {
		v.attach(people, titles)
	}
}

func (s *InterviewService) reject(op interview.Operation, err error) {
	reason := rejectionReason(err)
	s.metrics.Rejection(string(op), reason)

	entry := logx.WithFields(logx.Fields{"operation": op, "reason": reason}).WithError(err)
	if reason == "error" {
		entry.Error("Interview operation failed")
		return
	}
	entry.Debug("Interview operation refused")
}

func rejectionReason(err error) string {
	switch {
	case errx.IsCode(err, interview.CodeValidation):
		return "validation"
	case errx.IsCode(err, interview.CodeInvalidState):
		return "invalid_state"
	case errx.IsCode(err, interview.CodeStaleRecord),
		errx.IsCode(err, interview.CodeConcurrentModification),
		errx.IsCode(err, interview.CodeReviewExists):
		return "conflict"
	case errx.IsCode(err, interview.CodeNotFound),
		errx.IsCode(err, interview.CodeReviewNotFound):
		return "not_found"
	default:
		return "error"
	}
}
