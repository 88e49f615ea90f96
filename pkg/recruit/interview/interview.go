package interview

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
)

const (
	// MinDurationMinutes is enforced whenever a duration is written
	MinDurationMinutes = 5

	// DefaultDurationMinutes is used to project stored rows whose duration
	// is missing or unusable.
	DefaultDurationMinutes = 60
)

// ============================================================================
// Interview Entity
// ============================================================================

// Interview is one scheduled meeting between a candidate and an interviewer
// for a job requisition.
type Interview struct {
	ID              kernel.InterviewID `db:"id" json:"id"`
	CandidateID     kernel.CandidateID `db:"candidate_id" json:"candidate_id"`
	JobID           kernel.JobID       `db:"job_id" json:"job_id"`
	Round           string             `db:"round" json:"round"`
	ScheduledStart  time.Time          `db:"scheduled_start" json:"scheduled_start"`
	DurationMinutes int                `db:"duration_minutes" json:"duration_minutes"`
	InterviewerName string             `db:"interviewer_name" json:"interviewer_name"`
	Format          Format             `db:"format" json:"format"`
	Location        *string            `db:"location" json:"location,omitempty"`
	Notes           *string            `db:"notes" json:"notes,omitempty"`
	Status          Status             `db:"status" json:"status"`
	ReminderSentAt  *time.Time         `db:"reminder_sent_at" json:"reminder_sent_at,omitempty"`
	CreatedAt       time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `db:"updated_at" json:"updated_at"`
}

// projectedDuration is the duration used for time projection
func (iv *Interview) projectedDuration() time.Duration {
	if iv.DurationMinutes <= 0 {
		return DefaultDurationMinutes * time.Minute
	}
	return time.Duration(iv.DurationMinutes) * time.Minute
}

// ScheduledEnd is the start plus the projected duration
func (iv *Interview) ScheduledEnd() time.Time {
	return iv.ScheduledStart.Add(iv.projectedDuration())
}

// EffectiveStatus is shorthand for DeriveEffectiveStatus(iv, now)
func (iv *Interview) EffectiveStatus(now time.Time) Status {
	return DeriveEffectiveStatus(iv, now)
}

// ============================================================================
// Operations
// ============================================================================

// Operation names a user action on an interview
type Operation string

const (
	OpSchedule     Operation = "schedule"
	OpEdit         Operation = "edit"
	OpEndEarly     Operation = "end_early"
	OpSubmitReview Operation = "submit_review"
	OpRerate       Operation = "rerate"
	OpCancel       Operation = "cancel"
	OpDelete       Operation = "delete"
)

// AllowedActions lists the operations a caller may offer for iv at now
func (iv *Interview) AllowedActions(now time.Time) []Operation {
	effective := iv.EffectiveStatus(now)

	var ops []Operation
	if iv.Status == StatusPending {
		ops = append(ops, OpEdit)
	}
	switch effective {
	case StatusInProgress:
		ops = append(ops, OpEndEarly)
	case StatusAwaitingReview:
		ops = append(ops, OpSubmitReview)
	case StatusCompleted:
		ops = append(ops, OpRerate)
	}
	if !iv.Status.IsTerminal() {
		ops = append(ops, OpCancel)
	}
	if iv.Status != StatusCompleted {
		ops = append(ops, OpDelete)
	}
	return ops
}

// ============================================================================
// DTOs
// ============================================================================

// ScheduleRequest carries the scheduling form. The start is given either as
// separate date ("2006-01-02") and time ("15:04") fields, interpreted in the
// location of the supplied clock, or as an absolute ScheduledAt.
type ScheduleRequest struct {
	CandidateID     string     `json:"candidate_id"`
	JobID           string     `json:"job_id"`
	Round           string     `json:"round" validate:"max=100"`
	Date            string     `json:"interview_date"`
	Time            string     `json:"interview_time"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	DurationMinutes int        `json:"duration"`
	InterviewerName string     `json:"interviewer"`
	Format          string     `json:"format"`
	Location        string     `json:"location" validate:"max=500"`
	Notes           string     `json:"notes" validate:"max=5000"`
}

// EditRequest is a partial update; nil fields are left untouched
type EditRequest struct {
	JobID           *string    `json:"job_id,omitempty"`
	Round           *string    `json:"round,omitempty" validate:"omitempty,max=100"`
	Date            *string    `json:"interview_date,omitempty"`
	Time            *string    `json:"interview_time,omitempty"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	DurationMinutes *int       `json:"duration,omitempty"`
	InterviewerName *string    `json:"interviewer,omitempty"`
	Format          *string    `json:"format,omitempty"`
	Location        *string    `json:"location,omitempty" validate:"omitempty,max=500"`
	Notes           *string    `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// ListFilter narrows the stored interviews
type ListFilter struct {
	Statuses    []Status
	CandidateID *kernel.CandidateID
	JobID       *kernel.JobID
	Interviewer string
	From        *time.Time
	To          *time.Time
}

// Summary counts interviews by effective status
type Summary struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"by_status"`
}

// Summarize derives every interview at now and counts the results
func Summarize(ivs []*Interview, now time.Time) Summary {
	s := Summary{ByStatus: make(map[Status]int, len(AllStatuses))}
	for _, st := range AllStatuses {
		s.ByStatus[st] = 0
	}
	for _, iv := range ivs {
		s.ByStatus[iv.EffectiveStatus(now)]++
		s.Total++
	}
	return s
}

// ============================================================================
// Field errors
// ============================================================================

// FieldErrors collects per-field validation failures, keeping the first
// reason recorded for each field.
type FieldErrors map[string]string

func (f FieldErrors) Add(field, reason string) {
	if _, exists := f[field]; !exists {
		f[field] = reason
	}
}

func (f FieldErrors) Merge(other FieldErrors) {
	for field, reason := range other {
		f.Add(field, reason)
	}
}

// Err returns nil when empty, otherwise a field-tagged validation error
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return ErrValidation().WithDetail("fields", map[string]string(f))
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("INTERVIEW")

var (
	CodeNotFound               = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Interview not found")
	CodeValidation             = ErrRegistry.Register("VALIDATION", errx.TypeValidation, http.StatusUnprocessableEntity, "Interview data is invalid")
	CodeInvalidState           = ErrRegistry.Register("INVALID_STATE", errx.TypeBusiness, http.StatusConflict, "Operation is not allowed in the current interview status")
	CodeUnknownStatus          = ErrRegistry.Register("UNKNOWN_STATUS", errx.TypeValidation, http.StatusBadRequest, "Unknown interview status")
	CodeReviewNotFound         = ErrRegistry.Register("REVIEW_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Review not found")
	CodeReviewExists           = ErrRegistry.Register("REVIEW_EXISTS", errx.TypeConflict, http.StatusConflict, "Interview already has a review")
	CodeConcurrentModification = ErrRegistry.Register("CONCURRENT_MODIFICATION", errx.TypeConflict, http.StatusConflict, "Interview is being modified by another request")
	CodeStaleRecord            = ErrRegistry.Register("STALE_RECORD", errx.TypeConflict, http.StatusConflict, "Interview changed since it was read")
)

func ErrNotFound() *errx.Error {
	return ErrRegistry.New(CodeNotFound)
}

func ErrValidation() *errx.Error {
	return ErrRegistry.New(CodeValidation)
}

func ErrInvalidState() *errx.Error {
	return ErrRegistry.New(CodeInvalidState)
}

func ErrUnknownStatus() *errx.Error {
	return ErrRegistry.New(CodeUnknownStatus)
}

func ErrReviewNotFound() *errx.Error {
	return ErrRegistry.New(CodeReviewNotFound)
}

func ErrReviewExists() *errx.Error {
	return ErrRegistry.New(CodeReviewExists)
}

func ErrConcurrentModification() *errx.Error {
	return ErrRegistry.New(CodeConcurrentModification)
}

func ErrStaleRecord() *errx.Error {
	return ErrRegistry.New(CodeStaleRecord)
}

func invalidState(op Operation, current Status) *errx.Error {
	return ErrInvalidState().
		WithDetail("operation", op).
		WithDetail("status", current)
}
