package interviewinfra

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ivColumns = []string{
	"id", "candidate_id", "job_id", "round", "scheduled_start", "duration_minutes",
	"interviewer_name", "format", "location", "notes", "status", "reminder_sent_at",
	"created_at", "updated_at",
}

var start = time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func ivRow(rows *sqlmock.Rows, id string, status interview.Status) *sqlmock.Rows {
	return rows.AddRow(id, "cand-1", "job-1", "Vòng 1", start, 45,
		"Lê Văn C", "ONLINE", nil, "bring laptop", string(status), nil, start, start)
}

func TestPostgresInterviewRepository_FindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("scans the row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgresInterviewRepository(db)

		mock.ExpectQuery(`SELECT .* FROM interviews WHERE id = \$1`).
			WithArgs("iv-1").
			WillReturnRows(ivRow(sqlmock.NewRows(ivColumns), "iv-1", interview.StatusPending))

		iv, err := repo.FindByID(ctx, "iv-1")
		require.NoError(t, err)
		assert.Equal(t, kernel.InterviewID("iv-1"), iv.ID)
		assert.Equal(t, interview.FormatOnline, iv.Format)
		assert.Equal(t, 45, iv.DurationMinutes)
		assert.Nil(t, iv.Location)
		require.NotNil(t, iv.Notes)
		assert.Equal(t, "bring laptop", *iv.Notes)
		assert.True(t, iv.ScheduledStart.Equal(start))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgresInterviewRepository(db)
		mock.ExpectQuery(`FROM interviews`).WillReturnRows(sqlmock.NewRows(ivColumns))

		_, err := repo.FindByID(ctx, "missing")
		assert.True(t, errx.IsCode(err, interview.CodeNotFound))
	})
}

func TestPostgresInterviewRepository_Find(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresInterviewRepository(db)

	cand := kernel.CandidateID("cand-1")
	from := start.Add(-24 * time.Hour)
	filter := interview.ListFilter{
		Statuses:    []interview.Status{interview.StatusPending, interview.StatusAwaitingReview},
		CandidateID: &cand,
		Interviewer: "50%_off",
		From:        &from,
	}

	mock.ExpectQuery(`FROM interviews WHERE status = ANY\(\$1\) AND candidate_id = \$2 AND interviewer_name ILIKE \$3 AND scheduled_start >= \$4 ORDER BY scheduled_start DESC`).
		WithArgs(sqlmock.AnyArg(), "cand-1", `%50\%\_off%`, from).
		WillReturnRows(ivRow(ivRow(sqlmock.NewRows(ivColumns), "iv-2", interview.StatusAwaitingReview), "iv-1", interview.StatusPending))

	got, err := repo.Find(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, interview.StatusAwaitingReview, got[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInterviewRepository_FindWithoutFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresInterviewRepository(db)

	mock.ExpectQuery(`FROM interviews ORDER BY scheduled_start DESC`).
		WithoutArgs().
		WillReturnRows(sqlmock.NewRows(ivColumns))

	got, err := repo.Find(context.Background(), interview.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPostgresInterviewRepository_Create(t *testing.T) {
	ctx := context.Background()
	iv := interview.Interview{
		ID: "iv-1", CandidateID: "cand-1", JobID: "job-1", ScheduledStart: start,
		DurationMinutes: 60, InterviewerName: "C", Format: interview.FormatOnSite,
		Status: interview.StatusPending, CreatedAt: start, UpdatedAt: start,
	}

	t.Run("inserts", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`INSERT INTO interviews`).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewPostgresInterviewRepository(db).Create(ctx, iv))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown candidate is a field error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`INSERT INTO interviews`).
			WillReturnError(&pq.Error{Code: "23503", Constraint: "interviews_candidate_id_fkey"})

		err := NewPostgresInterviewRepository(db).Create(ctx, iv)
		require.True(t, errx.IsCode(err, interview.CodeValidation))
		e, _ := errx.As(err)
		assert.Equal(t, map[string]string{"candidate_id": "does not exist"}, e.Details["fields"])
	})
}

func TestPostgresInterviewRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	at := start.Add(time.Hour)

	t.Run("guarded update succeeds", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE interviews SET status = \$1, updated_at = \$2 WHERE id = \$3 AND status = \$4`).
			WithArgs("CANCELLED", at, "iv-1", "PENDING").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewPostgresInterviewRepository(db).UpdateStatus(ctx, "iv-1", interview.StatusPending, interview.StatusCancelled, at)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("status moved underneath", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE interviews`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).WithArgs("iv-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := NewPostgresInterviewRepository(db).UpdateStatus(ctx, "iv-1", interview.StatusPending, interview.StatusCancelled, at)
		assert.True(t, errx.IsCode(err, interview.CodeStaleRecord))
	})

	t.Run("row gone", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE interviews`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err := NewPostgresInterviewRepository(db).UpdateStatus(ctx, "iv-1", interview.StatusPending, interview.StatusCancelled, at)
		assert.True(t, errx.IsCode(err, interview.CodeNotFound))
	})
}

func TestPostgresInterviewRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`UPDATE interviews SET .* WHERE id = \$\d+ AND status = 'PENDING'`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewPostgresInterviewRepository(db).Update(context.Background(), interview.Interview{ID: "iv-1", UpdatedAt: start})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInterviewRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresInterviewRepository(db)

	mock.ExpectExec(`DELETE FROM interviews WHERE id = \$1`).WithArgs("iv-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM interviews`).WithArgs("iv-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "iv-1"))
	assert.True(t, errx.IsCode(repo.Delete(context.Background(), "iv-1"), interview.CodeNotFound))
}

func TestPostgresInterviewRepository_Reminders(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresInterviewRepository(db)
	to := start.Add(24 * time.Hour)

	mock.ExpectQuery(`WHERE status = 'PENDING' AND reminder_sent_at IS NULL AND scheduled_start >= \$1 AND scheduled_start < \$2`).
		WithArgs(start, to).
		WillReturnRows(ivRow(sqlmock.NewRows(ivColumns), "iv-1", interview.StatusPending))
	mock.ExpectExec(`UPDATE interviews SET reminder_sent_at = \$1 WHERE id = \$2`).
		WithArgs(start, "iv-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	due, err := repo.FindDueForReminder(context.Background(), start, to)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.NoError(t, repo.MarkReminderSent(context.Background(), due[0].ID, start))
	assert.NoError(t, mock.ExpectationsWereMet())
}
