package candidate

import (
	"context"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/kernel"
)

// CandidateRepository reads candidates and writes their pipeline status
type CandidateRepository interface {
	FindByID(ctx context.Context, id kernel.CandidateID) (*Candidate, error)
	FindByIDs(ctx context.Context, ids []kernel.CandidateID) ([]*Candidate, error)
	UpdateStatus(ctx context.Context, id kernel.CandidateID, status Status, at time.Time) error
	JobTitles(ctx context.Context, ids []kernel.JobID) (map[kernel.JobID]string, error)
}
