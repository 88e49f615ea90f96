package candidate

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
)

// Status is the pipeline stage of a candidate
type Status string

const (
	StatusNew          Status = "NEW"
	StatusScreening    Status = "SCREENING"
	StatusInterviewing Status = "INTERVIEWING"
	StatusAccepted     Status = "ACCEPTED"
	StatusRejected     Status = "REJECTED"
)

var statusLabels = map[Status]string{
	StatusNew:          "Mới",
	StatusScreening:    "Sàng lọc",
	StatusInterviewing: "Phỏng vấn",
	StatusAccepted:     "Chấp nhận",
	StatusRejected:     "Từ chối",
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// IsDecided reports whether a hiring decision was already taken
func (s Status) IsDecided() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Candidate is the subset of the candidate record the interview flow reads
type Candidate struct {
	ID        kernel.CandidateID `db:"id" json:"id"`
	FullName  string             `db:"full_name" json:"full_name"`
	Email     string             `db:"email" json:"email"`
	Phone     *string            `db:"phone" json:"phone,omitempty"`
	JobID     *kernel.JobID      `db:"job_id" json:"job_id,omitempty"`
	JobTitle  *string            `db:"job_title" json:"job_title,omitempty"`
	Status    Status             `db:"status" json:"status"`
	CreatedAt time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt time.Time          `db:"updated_at" json:"updated_at"`
}

// MarkInterviewing moves the candidate into the interview stage. Candidates
// with a decision keep it.
func (c *Candidate) MarkInterviewing(now time.Time) error {
	if c.Status.IsDecided() {
		return ErrInvalidStatus().
			WithDetail("candidate_id", c.ID.String()).
			WithDetail("current_status", c.Status)
	}
	c.Status = StatusInterviewing
	c.UpdatedAt = now
	return nil
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("CANDIDATE")

var (
	CodeCandidateNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Candidate not found")
	CodeInvalidStatus     = ErrRegistry.Register("INVALID_STATUS", errx.TypeBusiness, http.StatusConflict, "Candidate status does not allow this change")
)

func ErrCandidateNotFound() *errx.Error {
	return ErrRegistry.New(CodeCandidateNotFound)
}

func ErrInvalidStatus() *errx.Error {
	return ErrRegistry.New(CodeInvalidStatus)
}
