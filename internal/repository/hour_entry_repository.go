package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/longlong7211/intern-manager-sub000/internal/models"
)

const hourEntryColumns = `id, internship_id, hours, reason, approver_id, approver_role, scope_date, tags, created_at`

// HourEntryRepository persists the append-only hour ledger. Entries are never
// updated or deleted; the internship's cached total is recomputed from the
// full entry set inside the same transaction as every append.
type HourEntryRepository struct {
	db *sqlx.DB
}

// NewHourEntryRepository constructs the repository.
func NewHourEntryRepository(db *sqlx.DB) *HourEntryRepository {
	return &HourEntryRepository{db: db}
}

// AppendAndRecompute inserts a ledger entry, recomputes the sum of all entries
// for the internship, and writes the cached total, all in one transaction.
// Returns the recomputed total.
func (r *HourEntryRepository) AppendAndRecompute(ctx context.Context, entry *models.HourEntry) (float64, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin ledger tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertQuery = `INSERT INTO hour_entries (id, internship_id, hours, reason, approver_id, approver_role, scope_date, tags, created_at)
	VALUES (:id, :internship_id, :hours, :reason, :approver_id, :approver_role, :scope_date, :tags, :created_at)`
	if _, err := tx.NamedExecContext(ctx, insertQuery, entry); err != nil {
		return 0, fmt.Errorf("append hour entry: %w", err)
	}

	var total float64
	const sumQuery = `SELECT COALESCE(SUM(hours), 0) FROM hour_entries WHERE internship_id = $1`
	if err := tx.GetContext(ctx, &total, sumQuery, entry.InternshipID); err != nil {
		return 0, fmt.Errorf("recompute hour total: %w", err)
	}

	const updateQuery = `UPDATE internships SET total_hours = $2, updated_at = $3 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, updateQuery, entry.InternshipID, total, time.Now().UTC()); err != nil {
		return 0, fmt.Errorf("update cached hour total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit ledger tx: %w", err)
	}
	return total, nil
}

// ListByInternship returns all entries for an internship, newest first.
func (r *HourEntryRepository) ListByInternship(ctx context.Context, internshipID string) ([]models.HourEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM hour_entries WHERE internship_id = $1 ORDER BY created_at DESC`, hourEntryColumns)
	var entries []models.HourEntry
	if err := r.db.SelectContext(ctx, &entries, query, internshipID); err != nil {
		return nil, fmt.Errorf("list hour entries: %w", err)
	}
	return entries, nil
}

// SumByInternship sums the entries independently of the cached total.
func (r *HourEntryRepository) SumByInternship(ctx context.Context, internshipID string) (float64, error) {
	const query = `SELECT COALESCE(SUM(hours), 0) FROM hour_entries WHERE internship_id = $1`
	var total float64
	if err := r.db.GetContext(ctx, &total, query, internshipID); err != nil {
		return 0, fmt.Errorf("sum hour entries: %w", err)
	}
	return total, nil
}
