package interviewinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	reviewColumns = `id, interview_id, rating, outcome, notes, created_at, updated_at`

	uniqueViolation       = "23505"
	reviewPerInterviewKey = "interview_reviews_interview_id_key"
)

// PostgresReviewRepository implements interview.ReviewRepository and
// interview.ReviewSubmitter.
type PostgresReviewRepository struct {
	db *sqlx.DB
}

func NewPostgresReviewRepository(db *sqlx.DB) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db}
}

func (r *PostgresReviewRepository) FindByID(ctx context.Context, id kernel.ReviewID) (*interview.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM interview_reviews WHERE id = $1`

	var rv interview.Review
	if err := r.db.GetContext(ctx, &rv, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, interview.ErrReviewNotFound().WithDetail("review_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find review", errx.TypeInternal).
			WithDetail("review_id", id.String())
	}
	return &rv, nil
}

func (r *PostgresReviewRepository) FindByInterviewID(ctx context.Context, interviewID kernel.InterviewID) (*interview.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM interview_reviews WHERE interview_id = $1`

	var rv interview.Review
	if err := r.db.GetContext(ctx, &rv, query, interviewID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, interview.ErrReviewNotFound().WithDetail("interview_id", interviewID.String())
		}
		return nil, errx.Wrap(err, "failed to find review by interview", errx.TypeInternal).
			WithDetail("interview_id", interviewID.String())
	}
	return &rv, nil
}

func (r *PostgresReviewRepository) Find(ctx context.Context, filter interview.ReviewFilter) ([]*interview.Review, error) {
	var (
		conds []string
		args  []any
	)
	if len(filter.InterviewIDs) > 0 {
		raw := make([]string, len(filter.InterviewIDs))
		for i, id := range filter.InterviewIDs {
			raw[i] = id.String()
		}
		args = append(args, pq.Array(raw))
		conds = append(conds, fmt.Sprintf("interview_id = ANY($%d)", len(args)))
	}
	if filter.Outcome != nil {
		args = append(args, string(*filter.Outcome))
		conds = append(conds, fmt.Sprintf("outcome = $%d", len(args)))
	}

	query := `SELECT ` + reviewColumns + ` FROM interview_reviews`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	var rows []interview.Review
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errx.Wrap(err, "failed to list reviews", errx.TypeInternal)
	}

	result := make([]*interview.Review, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

func (r *PostgresReviewRepository) Update(ctx context.Context, rv interview.Review) error {
	query := `
		UPDATE interview_reviews SET
			rating = :rating,
			notes = :notes,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, rv)
	if err != nil {
		return errx.Wrap(err, "failed to update review", errx.TypeInternal).
			WithDetail("review_id", rv.ID.String())
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}
	if n == 0 {
		return interview.ErrReviewNotFound().WithDetail("review_id", rv.ID.String())
	}
	return nil
}

// CompleteWithReview moves the interview to its new status and inserts the
// review in a single transaction.
func (r *PostgresReviewRepository) CompleteWithReview(ctx context.Context, iv interview.Interview, expected interview.Status, rv interview.Review) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errx.Wrap(err, "failed to begin transaction", errx.TypeInternal)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE interviews
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4`,
		string(iv.Status), iv.UpdatedAt, iv.ID.String(), string(expected))
	if err != nil {
		return errx.Wrap(err, "failed to complete interview", errx.TypeInternal).
			WithDetail("interview_id", iv.ID.String())
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}
	if n == 0 {
		return interview.ErrStaleRecord().WithDetail("interview_id", iv.ID.String())
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO interview_reviews (`+reviewColumns+`)
		VALUES (:id, :interview_id, :rating, :outcome, :notes, :created_at, :updated_at)`, rv)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == reviewPerInterviewKey {
			return interview.ErrReviewExists().WithDetail("interview_id", iv.ID.String())
		}
		return errx.Wrap(err, "failed to insert review", errx.TypeInternal).
			WithDetail("interview_id", iv.ID.String())
	}

	if err = tx.Commit(); err != nil {
		return errx.Wrap(err, "failed to commit review", errx.TypeInternal)
	}
	return nil
}
