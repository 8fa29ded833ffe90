package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/longlong7211/intern-manager-sub000/internal/models"
)

func TestTerminationRepositoryCreateDefaults(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTerminationRepository(db)

	mock.ExpectExec("INSERT INTO termination_requests").
		WillReturnResult(sqlmock.NewResult(0, 1))

	request := &models.TerminationRequest{InternshipID: "internship-1", StudentID: "student-1"}
	require.NoError(t, repo.Create(context.Background(), request))
	require.NotEmpty(t, request.ID)
	require.Equal(t, models.TerminationStatusPending, request.Status)
	require.False(t, request.RequestedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTerminationRepositoryCreatePendingConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTerminationRepository(db)

	mock.ExpectExec("INSERT INTO termination_requests").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uniq_termination_pending"})

	err := repo.Create(context.Background(), &models.TerminationRequest{
		InternshipID: "internship-1", StudentID: "student-1",
	})
	require.ErrorIs(t, err, ErrUniqueViolation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTerminationRepositoryHasPending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTerminationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM termination_requests WHERE internship_id = $1 AND status = $2")).
		WithArgs("internship-1", models.TerminationStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	pending, err := repo.HasPending(context.Background(), "internship-1")
	require.NoError(t, err)
	require.True(t, pending)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTerminationRepositoryResolveOnlyPending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTerminationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("status = 'PENDING'")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Resolve(context.Background(), ResolveTerminationParams{
		ID:          "term-1",
		Status:      models.TerminationStatusApproved,
		ProcessorID: "rev-2",
		ProcessedAt: time.Now().UTC(),
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTerminationRepositoryListPendingByUnit(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTerminationRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "internship_id", "student_id", "status", "requested_at"}).
		AddRow("term-1", "internship-1", "student-1", "PENDING", now)
	mock.ExpectQuery(regexp.QuoteMeta("JOIN internships i ON i.id = t.internship_id")).
		WithArgs(models.TerminationStatusPending, "unit-1").
		WillReturnRows(rows)

	requests, err := repo.ListPendingByUnit(context.Background(), "unit-1")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	require.Equal(t, models.TerminationStatusPending, requests[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
