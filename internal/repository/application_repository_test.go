package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/longlong7211/intern-manager-sub000/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "postgres"), mock
}

func TestApplicationRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	mock.ExpectExec("INSERT INTO internship_applications").
		WillReturnResult(sqlmock.NewResult(0, 1))

	app := &models.InternshipApplication{
		StudentID:         "student-1",
		UnitID:            "unit-1",
		PositionTitle:     "Backend Intern",
		ExpectedStartDate: time.Now().Add(14 * 24 * time.Hour),
		ExpectedHours:     320,
	}
	require.NoError(t, repo.Create(context.Background(), app))
	require.NotEmpty(t, app.ID)
	require.Equal(t, models.ApplicationStatusDraft, app.Status)
	require.False(t, app.AppliedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryCreateUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	mock.ExpectExec("INSERT INTO internship_applications").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uniq_applications_student_in_flight"})

	err := repo.Create(context.Background(), &models.InternshipApplication{
		StudentID: "student-1", UnitID: "unit-1", Status: models.ApplicationStatusSubmitted,
	})
	require.ErrorIs(t, err, ErrUniqueViolation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "student_id", "unit_id", "position_title", "description",
		"expected_start_date", "expected_hours", "status", "applied_at", "created_at", "updated_at"}).
		AddRow("app-1", "student-1", "unit-1", "Backend Intern", "API work", now, 320, "SUBMITTED", now, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM internship_applications WHERE id = $1")).
		WithArgs("app-1").
		WillReturnRows(rows)

	app, err := repo.GetByID(context.Background(), "app-1")
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusSubmitted, app.Status)
	require.Equal(t, "student-1", app.StudentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryUpdateStatusConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	// Zero rows affected means another writer transitioned the row first.
	mock.ExpectExec("UPDATE internship_applications SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), UpdateApplicationStatusParams{
		ID:       "app-1",
		Expected: models.ApplicationStatusSubmitted,
		Next:     models.ApplicationStatusApprovedL1,
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryUpdateStatusStampsReviewer(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("l1_reviewer_id = $")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	reviewer := "rev-1"
	reviewedAt := time.Now().UTC()
	err := repo.UpdateStatus(context.Background(), UpdateApplicationStatusParams{
		ID:           "app-1",
		Expected:     models.ApplicationStatusSubmitted,
		Next:         models.ApplicationStatusApprovedL1,
		L1ReviewerID: &reviewer,
		L1ReviewedAt: &reviewedAt,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryUpdateStatusUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	// Submitting a second application while one is in flight trips the
	// partial unique index on the status flip, not the insert.
	mock.ExpectExec("UPDATE internship_applications SET").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uniq_applications_student_in_flight"})

	err := repo.UpdateStatus(context.Background(), UpdateApplicationStatusParams{
		ID:       "app-2",
		Expected: models.ApplicationStatusDraft,
		Next:     models.ApplicationStatusSubmitted,
	})
	require.ErrorIs(t, err, ErrUniqueViolation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryCountInFlight(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM internship_applications WHERE student_id = $1 AND status IN")).
		WithArgs("student-1", models.ApplicationStatusSubmitted, models.ApplicationStatusApprovedL1,
			models.ApplicationStatusRevisionL1, models.ApplicationStatusApprovedL2, models.ApplicationStatusRevisionL2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := repo.CountInFlight(context.Background(), "student-1")
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryListFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "student_id", "unit_id", "position_title", "description",
		"expected_start_date", "expected_hours", "status", "applied_at", "created_at", "updated_at"}).
		AddRow("app-1", "student-1", "unit-1", "Backend Intern", "", now, 320, "APPROVED_L1", now, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("status IN ($1) AND unit_id = $2")).
		WithArgs(models.ApplicationStatusApprovedL1, "unit-1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM internship_applications")).
		WithArgs(models.ApplicationStatusApprovedL1, "unit-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	apps, total, err := repo.List(context.Background(), models.ApplicationFilter{
		Status: []models.ApplicationStatus{models.ApplicationStatusApprovedL1},
		UnitID: "unit-1",
		Page:   1, PageSize: 20,
	})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
