package interview

import (
	"strings"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/kernel"
)

// DeriveEffectiveStatus projects the persisted status of iv onto now. It is
// pure: the result is for display and is never written back by itself.
//
// Rules, first match wins:
//   - AwaitingReview, Completed and Cancelled are returned unchanged.
//   - Same calendar day as the start (in now's location) and start not yet
//     passed: InProgress.
//   - Start passed and now not after the end of the slot: InProgress. The
//     end instant itself still counts as in progress.
//   - Slot over: AwaitingReview if the record is still Pending, otherwise
//     the persisted value.
//   - Otherwise Pending.
func DeriveEffectiveStatus(iv *Interview, now time.Time) Status {
	if iv.Status.isManual() {
		return iv.Status
	}

	start := iv.ScheduledStart.In(now.Location())
	isPast := start.Before(now)

	if !isPast && sameCalendarDay(start, now) {
		return StatusInProgress
	}

	if isPast {
		if !now.After(iv.ScheduledEnd()) {
			return StatusInProgress
		}
		if iv.Status == StatusPending {
			return StatusAwaitingReview
		}
		return iv.Status
	}

	return StatusPending
}

// NewInterview validates a scheduling request and builds a Pending
// interview. All field problems are reported together.
func NewInterview(id kernel.InterviewID, req ScheduleRequest, now time.Time) (*Interview, error) {
	fields := FieldErrors{}

	if strings.TrimSpace(req.CandidateID) == "" {
		fields.Add("candidate_id", "candidate is required")
	}
	if strings.TrimSpace(req.JobID) == "" {
		fields.Add("job_id", "job is required")
	}
	if strings.TrimSpace(req.InterviewerName) == "" {
		fields.Add("interviewer", "interviewer is required")
	}
	validateDuration(req.DurationMinutes, fields)

	format, ok := ParseFormat(req.Format)
	if !ok {
		fields.Add("format", "format must be one of ONSITE, ONLINE, HYBRID")
	}

	var start time.Time
	if req.ScheduledAt != nil {
		start = req.ScheduledAt.In(now.Location())
		validateFutureStart(start, now, fields)
	} else {
		var dateErrs FieldErrors
		start, dateErrs = ParseSchedule(req.Date, req.Time, now.Location())
		fields.Merge(dateErrs)
		if len(dateErrs) == 0 {
			validateFutureStart(start, now, fields)
		}
	}

	if err := fields.Err(); err != nil {
		return nil, err
	}

	return &Interview{
		ID:              id,
		CandidateID:     kernel.NewCandidateID(strings.TrimSpace(req.CandidateID)),
		JobID:           kernel.NewJobID(strings.TrimSpace(req.JobID)),
		Round:           strings.TrimSpace(req.Round),
		ScheduledStart:  start,
		DurationMinutes: req.DurationMinutes,
		InterviewerName: strings.TrimSpace(req.InterviewerName),
		Format:          format,
		Location:        normalizeNotes(strings.TrimSpace(req.Location)),
		Notes:           normalizeNotes(req.Notes),
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Edit applies patch while the persisted status is Pending. Only the fields
// present in the patch are validated.
func (iv *Interview) Edit(patch EditRequest, now time.Time) error {
	if iv.Status != StatusPending {
		return invalidState(OpEdit, iv.Status)
	}

	fields := FieldErrors{}
	next := *iv

	if patch.JobID != nil {
		if strings.TrimSpace(*patch.JobID) == "" {
			fields.Add("job_id", "job is required")
		}
		next.JobID = kernel.NewJobID(strings.TrimSpace(*patch.JobID))
	}
	if patch.InterviewerName != nil {
		if strings.TrimSpace(*patch.InterviewerName) == "" {
			fields.Add("interviewer", "interviewer is required")
		}
		next.InterviewerName = strings.TrimSpace(*patch.InterviewerName)
	}
	if patch.DurationMinutes != nil {
		validateDuration(*patch.DurationMinutes, fields)
		next.DurationMinutes = *patch.DurationMinutes
	}
	if patch.Format != nil {
		format, ok := ParseFormat(*patch.Format)
		if !ok {
			fields.Add("format", "format must be one of ONSITE, ONLINE, HYBRID")
		}
		next.Format = format
	}
	if patch.Round != nil {
		next.Round = strings.TrimSpace(*patch.Round)
	}
	if patch.Location != nil {
		next.Location = normalizeNotes(strings.TrimSpace(*patch.Location))
	}
	if patch.Notes != nil {
		next.Notes = normalizeNotes(*patch.Notes)
	}

	switch {
	case patch.ScheduledAt != nil:
		next.ScheduledStart = patch.ScheduledAt.In(now.Location())
		validateFutureStart(next.ScheduledStart, now, fields)
	case patch.Date != nil || patch.Time != nil:
		date, clock := SplitSchedule(iv.ScheduledStart, now.Location())
		if patch.Date != nil {
			date = *patch.Date
		}
		if patch.Time != nil {
			clock = *patch.Time
		}
		start, dateErrs := ParseSchedule(date, clock, now.Location())
		fields.Merge(dateErrs)
		if len(dateErrs) == 0 {
			next.ScheduledStart = start
			validateFutureStart(start, now, fields)
		}
	}

	if err := fields.Err(); err != nil {
		return err
	}

	next.UpdatedAt = now
	*iv = next
	return nil
}

// EndEarly closes an interview whose slot is currently active. No end time
// is recorded; only the status moves to AwaitingReview.
func (iv *Interview) EndEarly(now time.Time) error {
	if effective := iv.EffectiveStatus(now); effective != StatusInProgress {
		return invalidState(OpEndEarly, effective)
	}

	iv.Status = StatusAwaitingReview
	iv.UpdatedAt = now
	return nil
}

// SubmitReview completes an interview awaiting review and returns the new
// review. This is the only way into Completed.
func (iv *Interview) SubmitReview(id kernel.ReviewID, req ReviewRequest, now time.Time) (*Review, error) {
	if effective := iv.EffectiveStatus(now); effective != StatusAwaitingReview {
		return nil, invalidState(OpSubmitReview, effective)
	}

	fields := FieldErrors{}
	validateRating(req.Rating, fields)
	outcome, ok := ParseOutcome(req.Outcome)
	if !ok {
		fields.Add("outcome", "outcome must be PASS or FAIL")
	}
	if err := fields.Err(); err != nil {
		return nil, err
	}

	iv.Status = StatusCompleted
	iv.UpdatedAt = now

	return &Review{
		ID:          id,
		InterviewID: iv.ID,
		Rating:      req.Rating,
		Outcome:     outcome,
		Notes:       normalizeNotes(req.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Cancel is allowed from every non-terminal status
func (iv *Interview) Cancel(now time.Time) error {
	if iv.Status.IsTerminal() {
		return invalidState(OpCancel, iv.Status)
	}

	iv.Status = StatusCancelled
	iv.UpdatedAt = now
	return nil
}

// CanDelete reports whether the hard delete is offered. Completed
// interviews keep their review history.
func (iv *Interview) CanDelete() error {
	if iv.Status == StatusCompleted {
		return invalidState(OpDelete, iv.Status)
	}
	return nil
}

func validateDuration(minutes int, fields FieldErrors) {
	if minutes < MinDurationMinutes {
		fields.Add("duration", "duration must be at least 5 minutes")
	}
}

func validateFutureStart(start, now time.Time, fields FieldErrors) {
	if !start.After(now) {
		fields.Add("interview_date", "interview must be scheduled in the future")
	}
}
