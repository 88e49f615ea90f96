package candidatesrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/recruit/candidate"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview"
)

// CandidateService exposes the candidate operations the interview flow
// depends on.
type CandidateService struct {
	repo candidate.CandidateRepository
	now  func() time.Time
}

func NewCandidateService(repo candidate.CandidateRepository) *CandidateService {
	return &CandidateService{
		repo: repo,
		now:  time.Now,
	}
}

// MarkInterviewing implements interview.CandidateStatusUpdater
func (s *CandidateService) MarkInterviewing(ctx context.Context, id kernel.CandidateID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if c.Status == candidate.StatusInterviewing {
		return nil
	}

	now := s.now()
	if err := c.MarkInterviewing(now); err != nil {
		return err
	}

	return s.repo.UpdateStatus(ctx, c.ID, c.Status, now)
}

// Lookup implements interview.CandidateDirectory
func (s *CandidateService) Lookup(ctx context.Context, ids []kernel.CandidateID) (map[kernel.CandidateID]interview.Participant, error) {
	out := make(map[kernel.CandidateID]interview.Participant, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	candidates, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, c := range candidates {
		p := interview.Participant{
			CandidateID: c.ID,
			FullName:    c.FullName,
			Email:       c.Email,
		}
		if c.JobID != nil {
			p.JobID = *c.JobID
		}
		if c.JobTitle != nil {
			p.JobTitle = *c.JobTitle
		}
		out[c.ID] = p
	}
	return out, nil
}

// JobTitles implements interview.CandidateDirectory
func (s *CandidateService) JobTitles(ctx context.Context, ids []kernel.JobID) (map[kernel.JobID]string, error) {
	if len(ids) == 0 {
		return map[kernel.JobID]string{}, nil
	}
	return s.repo.JobTitles(ctx, ids)
}
