package interviewinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const interviewColumns = `
			id, candidate_id, job_id, round, scheduled_start, duration_minutes,
			interviewer_name, format, location, notes, status, reminder_sent_at,
			created_at, updated_at`

// PostgresInterviewRepository implements interview.InterviewRepository
type PostgresInterviewRepository struct {
	db *sqlx.DB
}

func NewPostgresInterviewRepository(db *sqlx.DB) *PostgresInterviewRepository {
	return &PostgresInterviewRepository{db: db}
}

func (r *PostgresInterviewRepository) FindByID(ctx context.Context, id kernel.InterviewID) (*interview.Interview, error) {
	query := `SELECT` + interviewColumns + `
		FROM interviews
		WHERE id = $1`

	var iv interview.Interview
	if err := r.db.GetContext(ctx, &iv, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, interview.ErrNotFound().WithDetail("interview_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find interview", errx.TypeInternal).
			WithDetail("interview_id", id.String())
	}
	return &iv, nil
}

func (r *PostgresInterviewRepository) Find(ctx context.Context, filter interview.ListFilter) ([]*interview.Interview, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Statuses) > 0 {
		raw := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			raw[i] = string(s)
		}
		conds = append(conds, "status = ANY("+arg(pq.Array(raw))+")")
	}
	if filter.CandidateID != nil {
		conds = append(conds, "candidate_id = "+arg(filter.CandidateID.String()))
	}
	if filter.JobID != nil {
		conds = append(conds, "job_id = "+arg(filter.JobID.String()))
	}
	if s := strings.TrimSpace(filter.Interviewer); s != "" {
		conds = append(conds, "interviewer_name ILIKE "+arg("%"+escapeLike(s)+"%"))
	}
	if filter.From != nil {
		conds = append(conds, "scheduled_start >= "+arg(*filter.From))
	}
	if filter.To != nil {
		conds = append(conds, "scheduled_start < "+arg(*filter.To))
	}

	query := `SELECT` + interviewColumns + `
		FROM interviews`
	if len(conds) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conds, " AND ")
	}
	query += "\n\t\tORDER BY scheduled_start DESC"

	var rows []interview.Interview
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errx.Wrap(err, "failed to list interviews", errx.TypeInternal)
	}
	return toPointers(rows), nil
}

func (r *PostgresInterviewRepository) Create(ctx context.Context, iv interview.Interview) error {
	query := `
		INSERT INTO interviews (
			id, candidate_id, job_id, round, scheduled_start, duration_minutes,
			interviewer_name, format, location, notes, status, reminder_sent_at,
			created_at, updated_at
		) VALUES (
			:id, :candidate_id, :job_id, :round, :scheduled_start, :duration_minutes,
			:interviewer_name, :format, :location, :notes, :status, :reminder_sent_at,
			:created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, iv); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return interview.ErrValidation().
				WithDetail("fields", map[string]string{foreignKeyField(pqErr.Constraint): "does not exist"})
		}
		return errx.Wrap(err, "failed to create interview", errx.TypeInternal).
			WithDetail("interview_id", iv.ID.String())
	}
	return nil
}

func (r *PostgresInterviewRepository) UpdateStatus(ctx context.Context, id kernel.InterviewID, expected, next interview.Status, at time.Time) error {
	query := `
		UPDATE interviews
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4`

	res, err := r.db.ExecContext(ctx, query, string(next), at, id.String(), string(expected))
	if err != nil {
		return errx.Wrap(err, "failed to update interview status", errx.TypeInternal).
			WithDetail("interview_id", id.String())
	}
	return r.checkAffected(ctx, res, id)
}

func (r *PostgresInterviewRepository) Update(ctx context.Context, iv interview.Interview) error {
	query := `
		UPDATE interviews SET
			job_id = :job_id,
			round = :round,
			scheduled_start = :scheduled_start,
			duration_minutes = :duration_minutes,
			interviewer_name = :interviewer_name,
			format = :format,
			location = :location,
			notes = :notes,
			updated_at = :updated_at
		WHERE id = :id AND status = 'PENDING'`

	res, err := r.db.NamedExecContext(ctx, query, iv)
	if err != nil {
		return errx.Wrap(err, "failed to update interview", errx.TypeInternal).
			WithDetail("interview_id", iv.ID.String())
	}
	return r.checkAffected(ctx, res, iv.ID)
}

func (r *PostgresInterviewRepository) Delete(ctx context.Context, id kernel.InterviewID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM interviews WHERE id = $1`, id.String())
	if err != nil {
		return errx.Wrap(err, "failed to delete interview", errx.TypeInternal).
			WithDetail("interview_id", id.String())
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}
	if n == 0 {
		return interview.ErrNotFound().WithDetail("interview_id", id.String())
	}
	return nil
}

func (r *PostgresInterviewRepository) FindDueForReminder(ctx context.Context, from, to time.Time) ([]*interview.Interview, error) {
	query := `SELECT` + interviewColumns + `
		FROM interviews
		WHERE status = 'PENDING'
			AND reminder_sent_at IS NULL
			AND scheduled_start >= $1
			AND scheduled_start < $2
		ORDER BY scheduled_start ASC`

	var rows []interview.Interview
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, errx.Wrap(err, "failed to find interviews due for reminder", errx.TypeInternal)
	}
	return toPointers(rows), nil
}

func (r *PostgresInterviewRepository) MarkReminderSent(ctx context.Context, id kernel.InterviewID, at time.Time) error {
	query := `UPDATE interviews SET reminder_sent_at = $1 WHERE id = $2`

	if _, err := r.db.ExecContext(ctx, query, at, id.String()); err != nil {
		return errx.Wrap(err, "failed to mark reminder sent", errx.TypeInternal).
			WithDetail("interview_id", id.String())
	}
	return nil
}

// checkAffected turns a guarded update that touched nothing into NotFound
// or StaleRecord depending on whether the row still exists.
func (r *PostgresInterviewRepository) checkAffected(ctx context.Context, res sql.Result, id kernel.InterviewID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM interviews WHERE id = $1)`, id.String()); err != nil {
		return errx.Wrap(err, "failed to check interview existence", errx.TypeInternal)
	}
	if !exists {
		return interview.ErrNotFound().WithDetail("interview_id", id.String())
	}
	return interview.ErrStaleRecord().WithDetail("interview_id", id.String())
}

func toPointers(rows []interview.Interview) []*interview.Interview {
	result := make([]*interview.Interview, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func foreignKeyField(constraint string) string {
	switch {
	case strings.Contains(constraint, "candidate"):
		return "candidate_id"
	case strings.Contains(constraint, "job"):
		return "job_id"
	default:
		return "interview"
	}
}
