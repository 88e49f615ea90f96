package candidatesrv

import (
	"context"
	"testing"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/ptrx"
	"github.com/Abraxas-365/hireflow/pkg/recruit/candidate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCandidates struct {
	rows    map[kernel.CandidateID]*candidate.Candidate
	titles  map[kernel.JobID]string
	updates int
}

func (m *memCandidates) FindByID(_ context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	c, ok := m.rows[id]
	if !ok {
		return nil, candidate.ErrCandidateNotFound()
	}
	cp := *c
	return &cp, nil
}

func (m *memCandidates) FindByIDs(_ context.Context, ids []kernel.CandidateID) ([]*candidate.Candidate, error) {
	var out []*candidate.Candidate
	for _, id := range ids {
		if c, ok := m.rows[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCandidates) UpdateStatus(_ context.Context, id kernel.CandidateID, status candidate.Status, at time.Time) error {
	m.updates++
	m.rows[id].Status = status
	m.rows[id].UpdatedAt = at
	return nil
}

func (m *memCandidates) JobTitles(_ context.Context, ids []kernel.JobID) (map[kernel.JobID]string, error) {
	out := map[kernel.JobID]string{}
	for _, id := range ids {
		if t, ok := m.titles[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

func newRepo() *memCandidates {
	job := kernel.JobID("job-1")
	return &memCandidates{
		rows: map[kernel.CandidateID]*candidate.Candidate{
			"new":      {ID: "new", FullName: "Trần Thị B", Email: "b@example.com", Status: candidate.StatusNew, JobID: &job, JobTitle: ptrx.String("Backend Engineer")},
			"busy":     {ID: "busy", FullName: "C", Status: candidate.StatusInterviewing},
			"accepted": {ID: "accepted", FullName: "D", Status: candidate.StatusAccepted},
		},
		titles: map[kernel.JobID]string{"job-1": "Backend Engineer"},
	}
}

func TestMarkInterviewing(t *testing.T) {
	ctx := context.Background()

	t.Run("moves a new candidate", func(t *testing.T) {
		repo := newRepo()
		svc := NewCandidateService(repo)
		require.NoError(t, svc.MarkInterviewing(ctx, "new"))
		assert.Equal(t, candidate.StatusInterviewing, repo.rows["new"].Status)
		assert.Equal(t, 1, repo.updates)
	})

	t.Run("already interviewing is a no-op", func(t *testing.T) {
		repo := newRepo()
		svc := NewCandidateService(repo)
		require.NoError(t, svc.MarkInterviewing(ctx, "busy"))
		assert.Zero(t, repo.updates)
	})

	t.Run("decided candidate keeps its status", func(t *testing.T) {
		repo := newRepo()
		svc := NewCandidateService(repo)
		err := svc.MarkInterviewing(ctx, "accepted")
		assert.True(t, errx.IsCode(err, candidate.CodeInvalidStatus))
		assert.Equal(t, candidate.StatusAccepted, repo.rows["accepted"].Status)
	})

	t.Run("unknown candidate", func(t *testing.T) {
		svc := NewCandidateService(newRepo())
		err := svc.MarkInterviewing(ctx, "ghost")
		assert.True(t, errx.IsCode(err, candidate.CodeCandidateNotFound))
	})
}

func TestLookup(t *testing.T) {
	svc := NewCandidateService(newRepo())

	got, err := svc.Lookup(context.Background(), []kernel.CandidateID{"new", "ghost"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	p := got["new"]
	assert.Equal(t, "Trần Thị B", p.FullName)
	assert.Equal(t, kernel.JobID("job-1"), p.JobID)
	assert.Equal(t, "Backend Engineer", p.JobTitle)

	empty, err := svc.Lookup(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
