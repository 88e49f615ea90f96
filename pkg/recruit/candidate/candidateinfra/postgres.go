package candidateinfra

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/recruit/candidate"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const selectCandidate = `
		SELECT
			c.id, c.full_name, c.email, c.phone, c.job_id, j.title AS job_title,
			c.status, c.created_at, c.updated_at
		FROM candidates c
		LEFT JOIN jobs j ON j.id = c.job_id`

// PostgresCandidateRepository implements candidate.CandidateRepository
type PostgresCandidateRepository struct {
	db *sqlx.DB
}

func NewPostgresCandidateRepository(db *sqlx.DB) candidate.CandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

func (r *PostgresCandidateRepository) FindByID(ctx context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	query := selectCandidate + `
		WHERE c.id = $1`

	var c candidate.Candidate
	if err := r.db.GetContext(ctx, &c, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, candidate.ErrCandidateNotFound().WithDetail("candidate_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find candidate", errx.TypeInternal).
			WithDetail("candidate_id", id.String())
	}
	return &c, nil
}

func (r *PostgresCandidateRepository) FindByIDs(ctx context.Context, ids []kernel.CandidateID) ([]*candidate.Candidate, error) {
	query := selectCandidate + `
		WHERE c.id = ANY($1)`

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	var rows []candidate.Candidate
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(raw)); err != nil {
		return nil, errx.Wrap(err, "failed to find candidates", errx.TypeInternal).
			WithDetail("count", len(ids))
	}

	result := make([]*candidate.Candidate, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

func (r *PostgresCandidateRepository) UpdateStatus(ctx context.Context, id kernel.CandidateID, status candidate.Status, at time.Time) error {
	query := `UPDATE candidates SET status = $1, updated_at = $2 WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, string(status), at, id.String())
	if err != nil {
		return errx.Wrap(err, "failed to update candidate status", errx.TypeInternal).
			WithDetail("candidate_id", id.String())
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}
	if n == 0 {
		return candidate.ErrCandidateNotFound().WithDetail("candidate_id", id.String())
	}
	return nil
}

func (r *PostgresCandidateRepository) JobTitles(ctx context.Context, ids []kernel.JobID) (map[kernel.JobID]string, error) {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	var rows []struct {
		ID    kernel.JobID `db:"id"`
		Title string       `db:"title"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, title FROM jobs WHERE id = ANY($1)`, pq.Array(raw)); err != nil {
		return nil, errx.Wrap(err, "failed to load job titles", errx.TypeInternal)
	}

	titles := make(map[kernel.JobID]string, len(rows))
	for _, row := range rows {
		titles[row.ID] = row.Title
	}
	return titles, nil
}
