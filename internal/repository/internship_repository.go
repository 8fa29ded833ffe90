package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/longlong7211/intern-manager-sub000/internal/models"
)

const internshipColumns = `id, application_id, student_id, unit_id, status, start_date, actual_start_date, end_date, total_hours, created_at, updated_at`

// InternshipRepository persists internship execution records.
type InternshipRepository struct {
	db *sqlx.DB
}

// NewInternshipRepository constructs the repository.
func NewInternshipRepository(db *sqlx.DB) *InternshipRepository {
	return &InternshipRepository{db: db}
}

// Create inserts a new internship row.
func (r *InternshipRepository) Create(ctx context.Context, internship *models.Internship) error {
	if internship.ID == "" {
		internship.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if internship.CreatedAt.IsZero() {
		internship.CreatedAt = now
	}
	internship.UpdatedAt = now
	if internship.Status == "" {
		internship.Status = models.InternshipStatusActive
	}
	const query = `INSERT INTO internships
	(id, application_id, student_id, unit_id, status, start_date, actual_start_date, end_date, total_hours, created_at, updated_at)
	VALUES (:id, :application_id, :student_id, :unit_id, :status, :start_date, :actual_start_date, :end_date, :total_hours, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, internship); err != nil {
		if isUniqueViolation(err) {
			return ErrUniqueViolation
		}
		return fmt.Errorf("create internship: %w", err)
	}
	return nil
}

// GetByID fetches an internship by identifier.
func (r *InternshipRepository) GetByID(ctx context.Context, id string) (*models.Internship, error) {
	query := fmt.Sprintf(`SELECT %s FROM internships WHERE id = $1`, internshipColumns)
	var internship models.Internship
	if err := r.db.GetContext(ctx, &internship, query, id); err != nil {
		return nil, err
	}
	return &internship, nil
}

// GetByApplicationID fetches the internship spawned by an application.
func (r *InternshipRepository) GetByApplicationID(ctx context.Context, applicationID string) (*models.Internship, error) {
	query := fmt.Sprintf(`SELECT %s FROM internships WHERE application_id = $1`, internshipColumns)
	var internship models.Internship
	if err := r.db.GetContext(ctx, &internship, query, applicationID); err != nil {
		return nil, err
	}
	return &internship, nil
}

// UpdateInternshipStatusParams groups the columns a status flip may stamp.
type UpdateInternshipStatusParams struct {
	ID              string
	Expected        models.InternshipStatus
	Next            models.InternshipStatus
	EndDate         *time.Time
	ActualStartDate *time.Time
}

// UpdateStatus performs a conditional status flip, failing with sql.ErrNoRows
// when the internship no longer carries the expected status.
func (r *InternshipRepository) UpdateStatus(ctx context.Context, params UpdateInternshipStatusParams) error {
	setParts := []string{"status = :next", "updated_at = :updated_at"}
	if params.EndDate != nil {
		setParts = append(setParts, "end_date = :end_date")
	}
	if params.ActualStartDate != nil {
		setParts = append(setParts, "actual_start_date = :actual_start_date")
	}
	query := fmt.Sprintf("UPDATE internships SET %s WHERE id = :id AND status = :expected", strings.Join(setParts, ", "))
	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":                params.ID,
		"expected":          params.Expected,
		"next":              params.Next,
		"updated_at":        time.Now().UTC(),
		"end_date":          params.EndDate,
		"actual_start_date": params.ActualStartDate,
	})
	if err != nil {
		return fmt.Errorf("update internship status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check internship update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetActualStartDate stamps the real start of an internship once.
func (r *InternshipRepository) SetActualStartDate(ctx context.Context, id string, startedAt time.Time) error {
	const query = `UPDATE internships SET actual_start_date = $2, updated_at = $3 WHERE id = $1 AND actual_start_date IS NULL`
	result, err := r.db.ExecContext(ctx, query, id, startedAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set actual start date: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check start date rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
