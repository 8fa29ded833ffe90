package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/longlong7211/intern-manager-sub000/internal/dto"
	"github.com/longlong7211/intern-manager-sub000/internal/models"
	"github.com/longlong7211/intern-manager-sub000/internal/repository"
	appErrors "github.com/longlong7211/intern-manager-sub000/pkg/errors"
)

type terminationStore interface {
	Create(ctx context.Context, request *models.TerminationRequest) error
	GetByID(ctx context.Context, id string) (*models.TerminationRequest, error)
	HasPending(ctx context.Context, internshipID string) (bool, error)
	ListPendingByUnit(ctx context.Context, unitID string) ([]models.TerminationRequest, error)
	ListPending(ctx context.Context) ([]models.TerminationRequest, error)
	Resolve(ctx context.Context, params repository.ResolveTerminationParams) error
}

// TerminationService handles the early-termination lifecycle of active
// internships. A request parks the internship in TERMINATION_REQUESTED until
// a reviewer approves (completing the internship) or rejects (restoring it).
type TerminationService struct {
	repo        terminationStore
	internships internshipStore
	audit       auditLogger
	notify      notifier
	metrics     transitionRecorder
	logger      *zap.Logger
}

// NewTerminationService wires the termination workflow service.
func NewTerminationService(repo terminationStore, internships internshipStore, audit auditLogger, notify notifier, metrics transitionRecorder, logger *zap.Logger) *TerminationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TerminationService{repo: repo, internships: internships, audit: audit, notify: notify, metrics: metrics, logger: logger}
}

// Request files a termination request for the student's own active
// internship. At most one pending request may exist per internship.
func (s *TerminationService) Request(ctx context.Context, actor *models.JWTClaims, internshipID string, req dto.RequestTerminationRequest) (*models.TerminationRequest, error) {
	internship, err := s.getInternship(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	if internship.StudentID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the owning student may request termination")
	}
	if internship.Status != models.InternshipStatusActive {
		return nil, appErrors.Clone(appErrors.ErrInvalidState,
			fmt.Sprintf("termination can only be requested for an %s internship, current status is %s",
				models.InternshipStatusActive, internship.Status))
	}

	pending, err := s.repo.HasPending(ctx, internship.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check pending terminations")
	}
	if pending {
		return nil, appErrors.Clone(appErrors.ErrConflictingRequest, "internship already has a pending termination request")
	}

	request := &models.TerminationRequest{
		InternshipID: internship.ID,
		StudentID:    actor.UserID,
		Status:       models.TerminationStatusPending,
	}
	if reason := strings.TrimSpace(req.Reason); reason != "" {
		request.Reason = &reason
	}
	if err := s.repo.Create(ctx, request); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, appErrors.Clone(appErrors.ErrConflictingRequest, "internship already has a pending termination request")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create termination request")
	}

	if err := s.internships.UpdateStatus(ctx, repository.UpdateInternshipStatusParams{
		ID:       internship.ID,
		Expected: models.InternshipStatusActive,
		Next:     models.InternshipStatusTerminationRequested,
	}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidState, "internship status changed while filing the request")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to park internship for termination")
	}
	s.recordTransition(models.InternshipStatusTerminationRequested)

	s.emitAudit(ctx, actor.UserID, models.AuditActionTerminationRequested, request, nil)
	s.notify.NotifyUnitRole(ctx, internship.UnitID, models.RoleL2Reviewer, models.NotificationTerminationRequested,
		"Termination requested",
		fmt.Sprintf("Internship %s has a pending termination request.", internship.ID))
	return request, nil
}

// Process resolves a pending termination request. Approval completes the
// internship and stamps its end date; rejection restores it to ACTIVE. A
// request can only be resolved once.
func (s *TerminationService) Process(ctx context.Context, actor *models.JWTClaims, requestID string, req dto.ProcessTerminationRequest) (*models.TerminationRequest, error) {
	request, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "termination request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load termination request")
	}
	if request.Status != models.TerminationStatusPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidState,
			fmt.Sprintf("termination request is already %s", request.Status))
	}

	internship, err := s.getInternship(ctx, request.InternshipID)
	if err != nil {
		return nil, err
	}
	if !actor.HasRole(models.RoleAdmin) &&
		!(actor.HasRole(models.RoleL2Reviewer) && actor.InUnit(internship.UnitID)) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "processing terminations requires a level-two reviewer of the unit or an admin")
	}

	status := models.TerminationStatusRejected
	if req.Approve {
		status = models.TerminationStatusApproved
	}
	now := time.Now().UTC()
	comment := optionalString(strings.TrimSpace(req.Comment))

	old := *request
	if err := s.repo.Resolve(ctx, repository.ResolveTerminationParams{
		ID:          request.ID,
		Status:      status,
		ProcessorID: actor.UserID,
		ProcessedAt: now,
		Comment:     comment,
	}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidState, "termination request was already processed")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve termination request")
	}
	request.Status = status
	request.ProcessorID = &actor.UserID
	request.ProcessedAt = &now
	request.ProcessorComment = comment

	flip := repository.UpdateInternshipStatusParams{
		ID:       internship.ID,
		Expected: models.InternshipStatusTerminationRequested,
		Next:     models.InternshipStatusActive,
	}
	if req.Approve {
		flip.Next = models.InternshipStatusCompleted
		flip.EndDate = &now
	}
	if err := s.internships.UpdateStatus(ctx, flip); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("internship was not awaiting termination during processing",
				zap.String("internship_id", internship.ID))
		} else {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update internship status")
		}
	} else {
		s.recordTransition(flip.Next)
	}

	s.emitAudit(ctx, actor.UserID, models.AuditActionTerminationProcessed, request, &old)
	outcome := "rejected"
	if req.Approve {
		outcome = "approved"
	}
	body := fmt.Sprintf("Your termination request for internship %s was %s.", internship.ID, outcome)
	if comment != nil {
		body += " Comment: " + *comment
	}
	s.notify.NotifyUser(ctx, request.StudentID, models.NotificationTerminationOutcome, "Termination request processed", body)
	return request, nil
}

// ListPending returns the pending queue visible to the caller: unit-scoped
// for level-two reviewers, global for supervisors and admins.
func (s *TerminationService) ListPending(ctx context.Context, actor *models.JWTClaims) ([]models.TerminationRequest, error) {
	var (
		requests []models.TerminationRequest
		err      error
	)
	switch {
	case actor.HasAnyRole(models.RoleAdmin, models.RoleSupervisor):
		requests, err = s.repo.ListPending(ctx)
	case actor.HasRole(models.RoleL2Reviewer):
		if actor.UnitID == nil {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "level-two reviewers must belong to a unit")
		}
		requests, err = s.repo.ListPendingByUnit(ctx, *actor.UnitID)
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "no termination queue for the caller's roles")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending terminations")
	}
	if requests == nil {
		requests = []models.TerminationRequest{}
	}
	return requests, nil
}

func (s *TerminationService) getInternship(ctx context.Context, id string) (*models.Internship, error) {
	internship, err := s.internships.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "internship not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load internship")
	}
	return internship, nil
}

func (s *TerminationService) emitAudit(ctx context.Context, userID, action string, current *models.TerminationRequest, old *models.TerminationRequest) {
	log := &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "termination_request",
		ResourceID: &current.ID,
		IPAddress:  "system",
		UserAgent:  "termination-service",
	}
	if old != nil {
		if raw, err := json.Marshal(old); err == nil {
			log.OldValues = raw
		}
	}
	if raw, err := json.Marshal(current); err == nil {
		log.NewValues = raw
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record termination audit log", zap.String("action", action), zap.Error(err))
	}
}

func (s *TerminationService) recordTransition(status models.InternshipStatus) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordWorkflowTransition("internship", string(status))
}
