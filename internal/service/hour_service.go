package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/longlong7211/intern-manager-sub000/internal/dto"
	"github.com/longlong7211/intern-manager-sub000/internal/models"
	"github.com/longlong7211/intern-manager-sub000/pkg/config"
	appErrors "github.com/longlong7211/intern-manager-sub000/pkg/errors"
	"github.com/longlong7211/intern-manager-sub000/pkg/export"
)

type hourLedgerStore interface {
	AppendAndRecompute(ctx context.Context, entry *models.HourEntry) (float64, error)
	ListByInternship(ctx context.Context, internshipID string) ([]models.HourEntry, error)
	SumByInternship(ctx context.Context, internshipID string) (float64, error)
}

type internshipReader interface {
	GetByID(ctx context.Context, id string) (*models.Internship, error)
}

type applicationReader interface {
	GetByID(ctx context.Context, id string) (*models.InternshipApplication, error)
}

type userReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type adjustmentRecorder interface {
	RecordHourAdjustment(direction string)
}

type statementRenderer interface {
	Render(st export.Statement) ([]byte, error)
}

// Statement export formats.
const (
	StatementFormatPDF = "pdf"
	StatementFormatCSV = "csv"
)

// HourService maintains the append-only hour ledger of active internships.
// The ledger is the source of truth; the internship's cached total is only
// ever rewritten inside the same transaction as an append.
type HourService struct {
	ledger       hourLedgerStore
	internships  internshipReader
	applications applicationReader
	users        userReader
	audit        auditLogger
	notify       notifier
	metrics      adjustmentRecorder
	workflow     config.WorkflowConfig
	renderers    map[string]statementRenderer
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewHourService wires the hour ledger service.
func NewHourService(
	ledger hourLedgerStore,
	internships internshipReader,
	applications applicationReader,
	users userReader,
	audit auditLogger,
	notify notifier,
	metrics adjustmentRecorder,
	workflow config.WorkflowConfig,
	logger *zap.Logger,
) *HourService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HourService{
		ledger:       ledger,
		internships:  internships,
		applications: applications,
		users:        users,
		audit:        audit,
		notify:       notify,
		metrics:      metrics,
		workflow:     workflow,
		renderers: map[string]statementRenderer{
			StatementFormatPDF: export.NewPDFExporter(),
			StatementFormatCSV: export.NewCSVExporter(),
		},
		validator: validator.New(),
		logger:    logger,
	}
}

// AddAdjustment appends one signed ledger entry and returns it together with
// the freshly recomputed total. Entries are capped per adjustment and must
// carry a substantive reason; corrections are new entries with the opposite
// sign, never edits.
func (s *HourService) AddAdjustment(ctx context.Context, actor *models.JWTClaims, internshipID string, req dto.AddHourAdjustmentRequest) (*models.HourEntry, float64, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid hour adjustment payload")
	}
	if req.Hours == 0 {
		return nil, 0, appErrors.Clone(appErrors.ErrValidation, "hour adjustment must be non-zero")
	}
	if math.Abs(req.Hours) > s.workflow.MaxAdjustmentHours {
		return nil, 0, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("hour adjustment magnitude must not exceed %.1f hours", s.workflow.MaxAdjustmentHours))
	}
	reason := strings.TrimSpace(req.Reason)
	if len(reason) < s.workflow.MinReasonLength {
		return nil, 0, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("adjustment reason must be at least %d characters", s.workflow.MinReasonLength))
	}

	internship, err := s.getInternship(ctx, internshipID)
	if err != nil {
		return nil, 0, err
	}

	approverRole, err := resolveApproverRole(actor, internship.UnitID)
	if err != nil {
		return nil, 0, err
	}
	if internship.Status != models.InternshipStatusActive {
		return nil, 0, appErrors.Clone(appErrors.ErrInvalidState,
			fmt.Sprintf("hours can only be adjusted while the internship is %s, current status is %s",
				models.InternshipStatusActive, internship.Status))
	}

	entry := &models.HourEntry{
		InternshipID: internship.ID,
		Hours:        req.Hours,
		Reason:       reason,
		ApproverID:   actor.UserID,
		ApproverRole: approverRole,
		ScopeDate:    req.ScopeDate,
		Tags:         req.Tags,
	}
	total, err := s.ledger.AppendAndRecompute(ctx, entry)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to append hour entry")
	}

	s.emitAudit(ctx, actor.UserID, internship, entry, total)
	if s.metrics != nil {
		direction := "credit"
		if req.Hours < 0 {
			direction = "debit"
		}
		s.metrics.RecordHourAdjustment(direction)
	}
	s.notify.NotifyUser(ctx, internship.StudentID, models.NotificationHourAdjusted,
		"Internship hours adjusted",
		fmt.Sprintf("%+.2f hours recorded: %s. New total: %.2f hours.", req.Hours, reason, total))

	return entry, total, nil
}

// GetHours returns the full ledger of an internship with a total summed from
// the entries themselves, bypassing the cached aggregate.
func (s *HourService) GetHours(ctx context.Context, actor *models.JWTClaims, internshipID string) (*models.HourSummary, error) {
	internship, err := s.getInternship(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	if err := authorizeInternshipRead(actor, internship); err != nil {
		return nil, err
	}

	entries, err := s.ledger.ListByInternship(ctx, internship.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list hour entries")
	}
	total, err := s.ledger.SumByInternship(ctx, internship.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum hour entries")
	}
	if entries == nil {
		entries = []models.HourEntry{}
	}
	return &models.HourSummary{InternshipID: internship.ID, Entries: entries, TotalHours: total}, nil
}

// ExportStatement renders the hour ledger as a downloadable statement.
// Returns the document bytes and its content type.
func (s *HourService) ExportStatement(ctx context.Context, actor *models.JWTClaims, internshipID, format string) ([]byte, string, error) {
	renderer, ok := s.renderers[strings.ToLower(format)]
	if !ok {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported statement format %q", format))
	}

	summary, err := s.GetHours(ctx, actor, internshipID)
	if err != nil {
		return nil, "", err
	}
	internship, err := s.getInternship(ctx, internshipID)
	if err != nil {
		return nil, "", err
	}

	st := export.Statement{
		InternshipID: internship.ID,
		UnitID:       internship.UnitID,
		GeneratedAt:  time.Now().UTC(),
		TotalHours:   summary.TotalHours,
	}
	if student, err := s.users.FindByID(ctx, internship.StudentID); err == nil {
		st.StudentName = student.FullName
	} else {
		s.logger.Warn("failed to resolve student for statement", zap.Error(err))
		st.StudentName = internship.StudentID
	}
	if app, err := s.applications.GetByID(ctx, internship.ApplicationID); err == nil {
		st.PositionTitle = app.PositionTitle
	} else {
		s.logger.Warn("failed to resolve application for statement", zap.Error(err))
	}

	lines := make([]export.StatementLine, 0, len(summary.Entries))
	for _, entry := range summary.Entries {
		lines = append(lines, export.StatementLine{
			RecordedAt: entry.CreatedAt,
			Hours:      entry.Hours,
			Reason:     entry.Reason,
			ApproverID: entry.ApproverID,
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].RecordedAt.Before(lines[j].RecordedAt) })
	st.Lines = lines

	payload, err := renderer.Render(st)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render statement")
	}

	contentType := "application/pdf"
	if strings.ToLower(format) == StatementFormatCSV {
		contentType = "text/csv"
	}
	return payload, contentType, nil
}

func (s *HourService) getInternship(ctx context.Context, id string) (*models.Internship, error) {
	internship, err := s.internships.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "internship not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load internship")
	}
	return internship, nil
}

func (s *HourService) emitAudit(ctx context.Context, userID string, internship *models.Internship, entry *models.HourEntry, total float64) {
	oldValues, _ := json.Marshal(map[string]interface{}{"total_hours": internship.TotalHours})
	newValues, _ := json.Marshal(map[string]interface{}{
		"total_hours": total,
		"entry_id":    entry.ID,
		"hours":       entry.Hours,
		"reason":      entry.Reason,
	})
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &userID,
		Action:     models.AuditActionHourAdjustment,
		Resource:   "internship",
		ResourceID: &internship.ID,
		OldValues:  oldValues,
		NewValues:  newValues,
		IPAddress:  "system",
		UserAgent:  "hour-service",
	}); err != nil {
		s.logger.Warn("failed to record hour adjustment audit log", zap.Error(err))
	}
}

// resolveApproverRole picks the role under which the actor signs the entry.
// Admins act everywhere; level-two reviewers only within their unit; level-one
// reviewers across units.
func resolveApproverRole(actor *models.JWTClaims, unitID string) (models.UserRole, error) {
	switch {
	case actor.HasRole(models.RoleAdmin):
		return models.RoleAdmin, nil
	case actor.HasRole(models.RoleL2Reviewer) && actor.InUnit(unitID):
		return models.RoleL2Reviewer, nil
	case actor.HasRole(models.RoleL1Reviewer):
		return models.RoleL1Reviewer, nil
	case actor.HasRole(models.RoleL2Reviewer):
		return "", appErrors.Clone(appErrors.ErrForbidden, "level-two reviewers may only adjust hours within their own unit")
	}
	return "", appErrors.Clone(appErrors.ErrForbidden, "adjusting hours requires a reviewer role")
}

func authorizeInternshipRead(actor *models.JWTClaims, internship *models.Internship) error {
	switch {
	case actor.HasAnyRole(models.RoleAdmin, models.RoleSupervisor, models.RoleL1Reviewer):
		return nil
	case actor.HasRole(models.RoleL2Reviewer) && actor.InUnit(internship.UnitID):
		return nil
	case internship.StudentID == actor.UserID:
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "not allowed to view this internship")
}
