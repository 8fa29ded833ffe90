package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/longlong7211/intern-manager-sub000/internal/models"
)

const terminationColumns = `id, internship_id, student_id, reason, status, processor_id, processed_at, processor_comment, requested_at`

// TerminationRepository persists termination requests.
type TerminationRepository struct {
	db *sqlx.DB
}

// NewTerminationRepository constructs the repository.
func NewTerminationRepository(db *sqlx.DB) *TerminationRepository {
	return &TerminationRepository{db: db}
}

// Create inserts a new request. A partial unique index on
// (internship_id) WHERE status = 'PENDING' backs the one-pending-per-
// internship invariant; violations surface as ErrUniqueViolation.
func (r *TerminationRepository) Create(ctx context.Context, request *models.TerminationRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.RequestedAt.IsZero() {
		request.RequestedAt = time.Now().UTC()
	}
	if request.Status == "" {
		request.Status = models.TerminationStatusPending
	}
	const query = `INSERT INTO termination_requests (id, internship_id, student_id, reason, status, processor_id, processed_at, processor_comment, requested_at)
	VALUES (:id, :internship_id, :student_id, :reason, :status, :processor_id, :processed_at, :processor_comment, :requested_at)`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		if isUniqueViolation(err) {
			return ErrUniqueViolation
		}
		return fmt.Errorf("create termination request: %w", err)
	}
	return nil
}

// GetByID fetches a request by identifier.
func (r *TerminationRepository) GetByID(ctx context.Context, id string) (*models.TerminationRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM termination_requests WHERE id = $1`, terminationColumns)
	var request models.TerminationRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		return nil, err
	}
	return &request, nil
}

// HasPending reports whether the internship already has a pending request.
func (r *TerminationRepository) HasPending(ctx context.Context, internshipID string) (bool, error) {
	const query = `SELECT COUNT(*) FROM termination_requests WHERE internship_id = $1 AND status = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, internshipID, models.TerminationStatusPending); err != nil {
		return false, fmt.Errorf("count pending terminations: %w", err)
	}
	return count > 0, nil
}

// ListPendingByUnit returns pending requests scoped to one unit, oldest first.
func (r *TerminationRepository) ListPendingByUnit(ctx context.Context, unitID string) ([]models.TerminationRequest, error) {
	const query = `SELECT t.id, t.internship_id, t.student_id, t.reason, t.status, t.processor_id, t.processed_at, t.processor_comment, t.requested_at
	FROM termination_requests t
	JOIN internships i ON i.id = t.internship_id
	WHERE t.status = $1 AND i.unit_id = $2
	ORDER BY t.requested_at ASC`
	var requests []models.TerminationRequest
	if err := r.db.SelectContext(ctx, &requests, query, models.TerminationStatusPending, unitID); err != nil {
		return nil, fmt.Errorf("list pending terminations: %w", err)
	}
	return requests, nil
}

// ListPending returns every pending request, oldest first.
func (r *TerminationRepository) ListPending(ctx context.Context) ([]models.TerminationRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM termination_requests WHERE status = $1 ORDER BY requested_at ASC`, terminationColumns)
	var requests []models.TerminationRequest
	if err := r.db.SelectContext(ctx, &requests, query, models.TerminationStatusPending); err != nil {
		return nil, fmt.Errorf("list pending terminations: %w", err)
	}
	return requests, nil
}

// ResolveTerminationParams groups the resolution columns.
type ResolveTerminationParams struct {
	ID          string
	Status      models.TerminationStatus
	ProcessorID string
	ProcessedAt time.Time
	Comment     *string
}

// Resolve records the reviewer verdict, guarded on PENDING status so a request
// can only be resolved once. Returns sql.ErrNoRows when already resolved.
func (r *TerminationRepository) Resolve(ctx context.Context, params ResolveTerminationParams) error {
	const query = `UPDATE termination_requests
	SET status = :status, processor_id = :processor_id, processed_at = :processed_at, processor_comment = :processor_comment
	WHERE id = :id AND status = 'PENDING'`
	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":                params.ID,
		"status":            params.Status,
		"processor_id":      params.ProcessorID,
		"processed_at":      params.ProcessedAt,
		"processor_comment": params.Comment,
	})
	if err != nil {
		return fmt.Errorf("resolve termination request: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check termination update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
