package interviewsrv

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/config"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/metrics"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview/interviewinfra"
)

var ict = time.FixedZone("ICT", 7*3600)

// clock fixed at Monday 2025-03-10 10:00 ICT
var testNow = time.Date(2025, 3, 10, 10, 0, 0, 0, ict)

type memStore struct {
	mu         sync.Mutex
	interviews map[kernel.InterviewID]interview.Interview
	reviews    map[kernel.ReviewID]interview.Review
	reminded   []kernel.InterviewID
}

func newMemStore() *memStore {
	return &memStore{
		interviews: map[kernel.InterviewID]interview.Interview{},
		reviews:    map[kernel.ReviewID]interview.Review{},
	}
}

func (m *memStore) put(iv interview.Interview) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interviews[iv.ID] = iv
}

func (m *memStore) get(id kernel.InterviewID) interview.Interview {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interviews[id]
}

// memInterviews implements interview.InterviewRepository
type memInterviews struct{ *memStore }

func (r memInterviews) FindByID(_ context.Context, id kernel.InterviewID) (*interview.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.interviews[id]
	if !ok {
		return nil, interview.ErrNotFound()
	}
	return &iv, nil
}

func (r memInterviews) Find(_ context.Context, f interview.ListFilter) ([]*interview.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*interview.Interview
	for _, iv := range r.interviews {
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, iv.Status) {
			continue
		}
		if f.CandidateID != nil && iv.CandidateID != *f.CandidateID {
			continue
		}
		if f.JobID != nil && iv.JobID != *f.JobID {
			continue
		}
		cp := iv
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledStart.After(out[j].ScheduledStart) })
	return out, nil
}

func (r memInterviews) Create(_ context.Context, iv interview.Interview) error {
	r.put(iv)
	return nil
}

func (r memInterviews) UpdateStatus(_ context.Context, id kernel.InterviewID, expected, next interview.Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.interviews[id]
	if !ok {
		return interview.ErrNotFound()
	}
	if iv.Status != expected {
		return interview.ErrStaleRecord()
	}
	iv.Status = next
	iv.UpdatedAt = at
	r.interviews[id] = iv
	return nil
}

func (r memInterviews) Update(_ context.Context, iv interview.Interview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.interviews[iv.ID]
	if !ok {
		return interview.ErrNotFound()
	}
	if cur.Status != interview.StatusPending {
		return interview.ErrStaleRecord()
	}
	r.interviews[iv.ID] = iv
	return nil
}

func (r memInterviews) Delete(_ context.Context, id kernel.InterviewID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.interviews[id]; !ok {
		return interview.ErrNotFound()
	}
	delete(r.interviews, id)
	return nil
}

func (r memInterviews) FindDueForReminder(_ context.Context, from, to time.Time) ([]*interview.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*interview.Interview
	for _, iv := range r.interviews {
		if iv.Status == interview.StatusPending && iv.ReminderSentAt == nil &&
			!iv.ScheduledStart.Before(from) && iv.ScheduledStart.Before(to) {
			cp := iv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memInterviews) MarkReminderSent(_ context.Context, id kernel.InterviewID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv := r.interviews[id]
	iv.ReminderSentAt = &at
	r.interviews[id] = iv
	r.reminded = append(r.reminded, id)
	return nil
}

// memReviews implements interview.ReviewRepository and interview.ReviewSubmitter
type memReviews struct{ *memStore }

func (r memReviews) FindByID(_ context.Context, id kernel.ReviewID) (*interview.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[id]
	if !ok {
		return nil, interview.ErrReviewNotFound()
	}
	return &rv, nil
}

func (r memReviews) FindByInterviewID(_ context.Context, id kernel.InterviewID) (*interview.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range r.reviews {
		if rv.InterviewID == id {
			cp := rv
			return &cp, nil
		}
	}
	return nil, interview.ErrReviewNotFound()
}

func (r memReviews) Find(_ context.Context, f interview.ReviewFilter) ([]*interview.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*interview.Review
	for _, rv := range r.reviews {
		if f.Outcome != nil && rv.Outcome != *f.Outcome {
			continue
		}
		cp := rv
		out = append(out, &cp)
	}
	return out, nil
}

func (r memReviews) Update(_ context.Context, rv interview.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[rv.ID]; !ok {
		return interview.ErrReviewNotFound()
	}
	r.reviews[rv.ID] = rv
	return nil
}

func (r memReviews) CompleteWithReview(_ context.Context, iv interview.Interview, expected interview.Status, rv interview.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.interviews[iv.ID]
	if !ok {
		return interview.ErrNotFound()
	}
	if cur.Status != expected {
		return interview.ErrStaleRecord()
	}
	for _, existing := range r.reviews {
		if existing.InterviewID == iv.ID {
			return interview.ErrReviewExists()
		}
	}
	r.interviews[iv.ID] = iv
	r.reviews[rv.ID] = rv
	return nil
}

type fakeCandidates struct {
	marked []kernel.CandidateID
	err    error
	people map[kernel.CandidateID]interview.Participant
	titles map[kernel.JobID]string
}

func (f *fakeCandidates) MarkInterviewing(_ context.Context, id kernel.CandidateID) error {
	f.marked = append(f.marked, id)
	return f.err
}

func (f *fakeCandidates) Lookup(_ context.Context, ids []kernel.CandidateID) (map[kernel.CandidateID]interview.Participant, error) {
	out := map[kernel.CandidateID]interview.Participant{}
	for _, id := range ids {
		if p, ok := f.people[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeCandidates) JobTitles(_ context.Context, ids []kernel.JobID) (map[kernel.JobID]string, error) {
	out := map[kernel.JobID]string{}
	for _, id := range ids {
		if t, ok := f.titles[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

type sentMail struct {
	kind string
	iv   interview.Interview
	who  interview.Participant
}

type fakeNotifier struct {
	sent []sentMail
	err  error
}

func (n *fakeNotifier) InterviewScheduled(_ context.Context, iv interview.Interview, who interview.Participant) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMail{"scheduled", iv, who})
	return nil
}

func (n *fakeNotifier) InterviewReminder(_ context.Context, iv interview.Interview, who interview.Participant) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMail{"reminder", iv, who})
	return nil
}

var errSMTPDown = errors.New("smtp down")

type fixture struct {
	store      *memStore
	candidates *fakeCandidates
	notifier   *fakeNotifier
	locker     *interviewinfra.InMemoryLocker
	metrics    *metrics.Metrics
	cfg        *config.InterviewConfig
	svc        *InterviewService
}

func newFixture() *fixture {
	f := &fixture{
		store: newMemStore(),
		candidates: &fakeCandidates{
			people: map[kernel.CandidateID]interview.Participant{
				"cand-1": {CandidateID: "cand-1", FullName: "Nguyễn Văn A", Email: "a@example.com", JobID: "job-1", JobTitle: "Backend Engineer"},
				"cand-2": {CandidateID: "cand-2", FullName: "Trần Thị B", Email: "b@example.com"},
			},
			titles: map[kernel.JobID]string{"job-1": "Backend Engineer", "job-2": "QA Engineer"},
		},
		notifier: &fakeNotifier{},
		locker:   interviewinfra.NewInMemoryLocker(),
		metrics:  metrics.New(),
		cfg: &config.InterviewConfig{
			LockTTL:          5 * time.Second,
			ReminderEnabled:  true,
			ReminderSchedule: "@every 15m",
			ReminderLeadTime: 24 * time.Hour,
		},
	}
	f.svc = NewInterviewService(
		memInterviews{f.store}, memReviews{f.store}, memReviews{f.store},
		f.candidates, f.candidates, f.locker, f.notifier, f.metrics, f.cfg,
	)
	f.svc.now = func() time.Time { return testNow }
	return f
}

// seed stores an interview starting at start and returns its id
func (f *fixture) seed(id string, start time.Time, minutes int, status interview.Status) kernel.InterviewID {
	iv := interview.Interview{
		ID:              kernel.InterviewID(id),
		CandidateID:     "cand-1",
		JobID:           "job-1",
		Round:           "Vòng 1",
		ScheduledStart:  start,
		DurationMinutes: minutes,
		InterviewerName: "Lê Văn C",
		Format:          interview.FormatOnSite,
		Status:          status,
		CreatedAt:       testNow.Add(-72 * time.Hour),
		UpdatedAt:       testNow.Add(-72 * time.Hour),
	}
	f.store.put(iv)
	return iv.ID
}
