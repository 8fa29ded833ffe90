package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/longlong7211/intern-manager-sub000/internal/models"
)

const applicationColumns = `id, student_id, unit_id, position_title, description, expected_start_date, expected_hours, status,
       applied_at, submitted_at, l1_reviewer_id, l1_reviewed_at, l1_comment, l2_reviewer_id, l2_reviewed_at, l2_comment,
       final_approver_id, final_approved_at, created_by_staff_id, created_at, updated_at`

// ErrUniqueViolation marks inserts rejected by a uniqueness constraint, such
// as the partial index guarding one in-flight application per student.
var ErrUniqueViolation = errors.New("unique constraint violation")

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// ApplicationRepository persists internship applications.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs the repository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts a new application row.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.InternshipApplication) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if app.AppliedAt.IsZero() {
		app.AppliedAt = now
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = models.ApplicationStatusDraft
	}
	const query = `INSERT INTO internship_applications
	(id, student_id, unit_id, position_title, description, expected_start_date, expected_hours, status,
	 applied_at, submitted_at, l1_reviewer_id, l1_reviewed_at, l1_comment, l2_reviewer_id, l2_reviewed_at, l2_comment,
	 final_approver_id, final_approved_at, created_by_staff_id, created_at, updated_at)
	VALUES (:id, :student_id, :unit_id, :position_title, :description, :expected_start_date, :expected_hours, :status,
	 :applied_at, :submitted_at, :l1_reviewer_id, :l1_reviewed_at, :l1_comment, :l2_reviewer_id, :l2_reviewed_at, :l2_comment,
	 :final_approver_id, :final_approved_at, :created_by_staff_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		if isUniqueViolation(err) {
			return ErrUniqueViolation
		}
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

// GetByID fetches an application by identifier.
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*models.InternshipApplication, error) {
	query := fmt.Sprintf(`SELECT %s FROM internship_applications WHERE id = $1`, applicationColumns)
	var app models.InternshipApplication
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		return nil, err
	}
	return &app, nil
}

// List returns applications matching the filter (latest submissions first)
// with a total count.
func (r *ApplicationRepository) List(ctx context.Context, filter models.ApplicationFilter) ([]models.InternshipApplication, int, error) {
	conditions := make([]string, 0, 3)
	args := make([]interface{}, 0, 6)

	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)))
	}
	if filter.UnitID != "" {
		args = append(args, filter.UnitID)
		conditions = append(conditions, fmt.Sprintf("unit_id = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s FROM internship_applications%s ORDER BY applied_at DESC LIMIT %d OFFSET %d",
		applicationColumns, where, pageSize, offset)

	var apps []models.InternshipApplication
	if err := r.db.SelectContext(ctx, &apps, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM internship_applications%s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	return apps, total, nil
}

// CountInFlight returns how many in-flight applications a student holds.
func (r *ApplicationRepository) CountInFlight(ctx context.Context, studentID string) (int, error) {
	placeholders := make([]string, len(models.InFlightStatuses))
	args := make([]interface{}, 0, len(models.InFlightStatuses)+1)
	args = append(args, studentID)
	for i, status := range models.InFlightStatuses {
		args = append(args, status)
		placeholders[i] = fmt.Sprintf("$%d", len(args))
	}
	query := fmt.Sprintf("SELECT COUNT(*) FROM internship_applications WHERE student_id = $1 AND status IN (%s)",
		strings.Join(placeholders, ","))
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count in-flight applications: %w", err)
	}
	return count, nil
}

// UpdateApplicationStatusParams groups the columns a transition may stamp.
// Only non-nil stamps are written.
type UpdateApplicationStatusParams struct {
	ID              string
	Expected        models.ApplicationStatus
	Next            models.ApplicationStatus
	SubmittedAt     *time.Time
	L1ReviewerID    *string
	L1ReviewedAt    *time.Time
	L1Comment       *string
	L2ReviewerID    *string
	L2ReviewedAt    *time.Time
	L2Comment       *string
	FinalApproverID *string
	FinalApprovedAt *time.Time
}

// UpdateStatus performs a conditional transition: the row is only written when
// it still carries the expected status. Returns sql.ErrNoRows when another
// writer transitioned the application first.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, params UpdateApplicationStatusParams) error {
	setParts := []string{"status = :next", "updated_at = :updated_at"}
	if params.SubmittedAt != nil {
		setParts = append(setParts, "submitted_at = :submitted_at")
	}
	if params.L1ReviewerID != nil {
		setParts = append(setParts, "l1_reviewer_id = :l1_reviewer_id", "l1_reviewed_at = :l1_reviewed_at", "l1_comment = :l1_comment")
	}
	if params.L2ReviewerID != nil {
		setParts = append(setParts, "l2_reviewer_id = :l2_reviewer_id", "l2_reviewed_at = :l2_reviewed_at", "l2_comment = :l2_comment")
	}
	if params.FinalApproverID != nil {
		setParts = append(setParts, "final_approver_id = :final_approver_id", "final_approved_at = :final_approved_at")
	}
	query := fmt.Sprintf("UPDATE internship_applications SET %s WHERE id = :id AND status = :expected",
		strings.Join(setParts, ", "))
	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":                params.ID,
		"expected":          params.Expected,
		"next":              params.Next,
		"updated_at":        time.Now().UTC(),
		"submitted_at":      params.SubmittedAt,
		"l1_reviewer_id":    params.L1ReviewerID,
		"l1_reviewed_at":    params.L1ReviewedAt,
		"l1_comment":        params.L1Comment,
		"l2_reviewer_id":    params.L2ReviewerID,
		"l2_reviewed_at":    params.L2ReviewedAt,
		"l2_comment":        params.L2Comment,
		"final_approver_id": params.FinalApproverID,
		"final_approved_at": params.FinalApprovedAt,
	})
	if err != nil {
		// Moving a DRAFT into the pipeline can trip the partial index guarding
		// one in-flight application per student.
		if isUniqueViolation(err) {
			return ErrUniqueViolation
		}
		return fmt.Errorf("update application status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check application update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
