package interview

import (
	"context"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/kernel"
)

// InterviewRepository is the persistence contract for interviews
type InterviewRepository interface {
	FindByID(ctx context.Context, id kernel.InterviewID) (*Interview, error)
	// Find returns interviews ordered by scheduled start, newest first
	Find(ctx context.Context, filter ListFilter) ([]*Interview, error)
	Create(ctx context.Context, iv Interview) error
	// UpdateStatus moves the persisted status from expected to next and
	// fails with ErrStaleRecord when the stored status is no longer expected.
	UpdateStatus(ctx context.Context, id kernel.InterviewID, expected, next Status, at time.Time) error
	// Update writes the schedulable fields of a Pending interview
	Update(ctx context.Context, iv Interview) error
	Delete(ctx context.Context, id kernel.InterviewID) error
	// FindDueForReminder returns Pending interviews starting in [from, to)
	// that have not been reminded yet.
	FindDueForReminder(ctx context.Context, from, to time.Time) ([]*Interview, error)
	MarkReminderSent(ctx context.Context, id kernel.InterviewID, at time.Time) error
}

// ReviewRepository is the persistence contract for reviews
type ReviewRepository interface {
	FindByID(ctx context.Context, id kernel.ReviewID) (*Review, error)
	FindByInterviewID(ctx context.Context, interviewID kernel.InterviewID) (*Review, error)
	Find(ctx context.Context, filter ReviewFilter) ([]*Review, error)
	Update(ctx context.Context, r Review) error
}

// ReviewSubmitter persists a completed interview and its review in one
// unit of work: either both land or neither does.
type ReviewSubmitter interface {
	CompleteWithReview(ctx context.Context, iv Interview, expected Status, review Review) error
}

// CandidateStatusUpdater is implemented by the candidate module
type CandidateStatusUpdater interface {
	MarkInterviewing(ctx context.Context, id kernel.CandidateID) error
}

// CandidateDirectory resolves display data for candidates and jobs
type CandidateDirectory interface {
	Lookup(ctx context.Context, ids []kernel.CandidateID) (map[kernel.CandidateID]Participant, error)
	JobTitles(ctx context.Context, ids []kernel.JobID) (map[kernel.JobID]string, error)
}

// Participant is the candidate side of an interview as shown in lists and
// emails.
type Participant struct {
	CandidateID kernel.CandidateID `json:"candidate_id"`
	FullName    string             `json:"full_name"`
	Email       string             `json:"email,omitempty"`
	JobID       kernel.JobID       `json:"job_id,omitempty"`
	JobTitle    string             `json:"job_title,omitempty"`
}

// Locker serialises writes per interview
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// Notifier delivers interview notifications to candidates
type Notifier interface {
	InterviewScheduled(ctx context.Context, iv Interview, who Participant) error
	InterviewReminder(ctx context.Context, iv Interview, who Participant) error
}
