package repository

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/longlong7211/intern-manager-sub000/internal/models"
)

func TestHourEntryAppendAndRecompute(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHourEntryRepository(db)

	// Append, recompute, and the cached-total write share one transaction.
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO hour_entries").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(hours), 0) FROM hour_entries WHERE internship_id = $1")).
		WithArgs("internship-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(12.5))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE internships SET total_hours = $2")).
		WithArgs("internship-1", 12.5, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	entry := &models.HourEntry{
		InternshipID: "internship-1",
		Hours:        4.5,
		Reason:       "afternoon shift at the help desk",
		ApproverID:   "rev-1",
		ApproverRole: models.RoleL1Reviewer,
	}
	total, err := repo.AppendAndRecompute(context.Background(), entry)
	require.NoError(t, err)
	require.Equal(t, 12.5, total)
	require.NotEmpty(t, entry.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHourEntryAppendRollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHourEntryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO hour_entries").
		WillReturnError(fmt.Errorf("connection reset"))
	mock.ExpectRollback()

	_, err := repo.AppendAndRecompute(context.Background(), &models.HourEntry{
		InternshipID: "internship-1",
		Hours:        2,
		Reason:       "pair programming session hours",
		ApproverID:   "rev-1",
		ApproverRole: models.RoleL1Reviewer,
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHourEntryListByInternship(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHourEntryRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "internship_id", "hours", "reason", "approver_id", "approver_role", "created_at"}).
		AddRow("entry-2", "internship-1", -1.5, "reverses a double entry", "rev-1", "L1_REVIEWER", now).
		AddRow("entry-1", "internship-1", 8.0, "full day on the reporting module", "rev-1", "L1_REVIEWER", now.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("FROM hour_entries WHERE internship_id = $1 ORDER BY created_at DESC")).
		WithArgs("internship-1").
		WillReturnRows(rows)

	entries, err := repo.ListByInternship(context.Background(), "internship-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, -1.5, entries[0].Hours)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHourEntrySumByInternship(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHourEntryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(hours), 0) FROM hour_entries WHERE internship_id = $1")).
		WithArgs("internship-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(6.5))

	total, err := repo.SumByInternship(context.Background(), "internship-1")
	require.NoError(t, err)
	require.Equal(t, 6.5, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
