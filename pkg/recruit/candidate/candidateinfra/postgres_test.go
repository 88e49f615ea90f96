package candidateinfra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/recruit/candidate"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var candidateColumns = []string{
	"id", "full_name", "email", "phone", "job_id", "job_title", "status", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (candidate.CandidateRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresCandidateRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestPostgresCandidateRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`SELECT .* FROM candidates c LEFT JOIN jobs j ON j.id = c.job_id WHERE c.id = \$1`).
			WithArgs("cand-1").
			WillReturnRows(sqlmock.NewRows(candidateColumns).
				AddRow("cand-1", "Nguyễn Văn A", "a@example.com", nil, "job-1", "Backend Engineer", "SCREENING", created, created))

		c, err := repo.FindByID(ctx, kernel.CandidateID("cand-1"))
		require.NoError(t, err)
		assert.Equal(t, "Nguyễn Văn A", c.FullName)
		assert.Equal(t, candidate.StatusScreening, c.Status)
		require.NotNil(t, c.JobID)
		assert.Equal(t, kernel.JobID("job-1"), *c.JobID)
		require.NotNil(t, c.JobTitle)
		assert.Equal(t, "Backend Engineer", *c.JobTitle)
		assert.Nil(t, c.Phone)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`FROM candidates c`).
			WithArgs("nope").
			WillReturnRows(sqlmock.NewRows(candidateColumns))

		_, err := repo.FindByID(ctx, kernel.CandidateID("nope"))
		assert.True(t, errx.IsCode(err, candidate.CodeCandidateNotFound))
	})

	t.Run("driver failure is internal", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`FROM candidates c`).WillReturnError(errors.New("connection reset"))

		_, err := repo.FindByID(ctx, kernel.CandidateID("cand-1"))
		assert.True(t, errx.IsType(err, errx.TypeInternal))
	})
}

func TestPostgresCandidateRepository_FindByIDs(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`WHERE c.id = ANY\(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(candidateColumns).
			AddRow("c1", "A", "a@example.com", nil, nil, nil, "NEW", now, now).
			AddRow("c2", "B", "b@example.com", "0901", "job-2", "QA", "INTERVIEWING", now, now))

	got, err := repo.FindByIDs(context.Background(), []kernel.CandidateID{"c1", "c2"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Nil(t, got[0].JobID)
	assert.Equal(t, candidate.StatusInterviewing, got[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCandidateRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)

	t.Run("updated", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(`UPDATE candidates SET status = \$1, updated_at = \$2 WHERE id = \$3`).
			WithArgs("INTERVIEWING", at, "c1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateStatus(ctx, "c1", candidate.StatusInterviewing, at))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(`UPDATE candidates`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(ctx, "c1", candidate.StatusInterviewing, at)
		assert.True(t, errx.IsCode(err, candidate.CodeCandidateNotFound))
	})
}

func TestPostgresCandidateRepository_JobTitles(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT id, title FROM jobs WHERE id = ANY\(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).
			AddRow("job-1", "Backend Engineer").
			AddRow("job-2", "QA"))

	titles, err := repo.JobTitles(context.Background(), []kernel.JobID{"job-1", "job-2"})
	require.NoError(t, err)
	assert.Equal(t, map[kernel.JobID]string{"job-1": "Backend Engineer", "job-2": "QA"}, titles)
}
