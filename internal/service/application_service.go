package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/longlong7211/intern-manager-sub000/internal/dto"
	"github.com/longlong7211/intern-manager-sub000/internal/models"
	"github.com/longlong7211/intern-manager-sub000/internal/repository"
	"github.com/longlong7211/intern-manager-sub000/pkg/config"
	appErrors "github.com/longlong7211/intern-manager-sub000/pkg/errors"
)

type applicationStore interface {
	Create(ctx context.Context, app *models.InternshipApplication) error
	GetByID(ctx context.Context, id string) (*models.InternshipApplication, error)
	List(ctx context.Context, filter models.ApplicationFilter) ([]models.InternshipApplication, int, error)
	CountInFlight(ctx context.Context, studentID string) (int, error)
	UpdateStatus(ctx context.Context, params repository.UpdateApplicationStatusParams) error
}

type internshipStore interface {
	Create(ctx context.Context, internship *models.Internship) error
	GetByID(ctx context.Context, id string) (*models.Internship, error)
	GetByApplicationID(ctx context.Context, applicationID string) (*models.Internship, error)
	UpdateStatus(ctx context.Context, params repository.UpdateInternshipStatusParams) error
	SetActualStartDate(ctx context.Context, id string, startedAt time.Time) error
}

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// notifier is the workflow-facing slice of the notification service. All
// methods are fire and forget.
type notifier interface {
	NotifyUser(ctx context.Context, userID string, nType models.NotificationType, title, body string)
	NotifyRole(ctx context.Context, role models.UserRole, nType models.NotificationType, title, body string)
	NotifyUnitRole(ctx context.Context, unitID string, role models.UserRole, nType models.NotificationType, title, body string)
}

type transitionRecorder interface {
	RecordWorkflowTransition(resource string, status string)
}

const pendingCachePrefix = "applications:pending"

// cachedApplicationPage is the shape stored in Redis for review queues.
type cachedApplicationPage struct {
	Applications []models.InternshipApplication `json:"applications"`
	TotalCount   int                            `json:"total_count"`
}

// ApplicationService drives internship applications through the review gates:
// submission, L1 review, L2 review, final approval, and internship start.
// Every transition is written conditionally on the expected current status so
// concurrent reviewers cannot double-apply a decision.
type ApplicationService struct {
	repo        applicationStore
	internships internshipStore
	audit       auditLogger
	notify      notifier
	cache       cacheStore
	metrics     transitionRecorder
	workflow    config.WorkflowConfig
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewApplicationService wires the application workflow service.
func NewApplicationService(
	repo applicationStore,
	internships internshipStore,
	audit auditLogger,
	notify notifier,
	cache cacheStore,
	metrics transitionRecorder,
	workflow config.WorkflowConfig,
	logger *zap.Logger,
) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{
		repo:        repo,
		internships: internships,
		audit:       audit,
		notify:      notify,
		cache:       cache,
		metrics:     metrics,
		workflow:    workflow,
		validator:   validator.New(),
		logger:      logger,
	}
}

// Register creates an application for the authenticated student. With
// SubmitNow set the application enters the L1 queue immediately, otherwise it
// stays in DRAFT until an explicit Submit.
func (s *ApplicationService) Register(ctx context.Context, studentID string, req dto.RegisterApplicationRequest) (*models.InternshipApplication, error) {
	return s.register(ctx, studentID, req, nil)
}

// RegisterForStudent lets staff create an application on a student's behalf.
// The acting staff member is recorded on the application.
func (s *ApplicationService) RegisterForStudent(ctx context.Context, staff *models.JWTClaims, req dto.RegisterForStudentRequest) (*models.InternshipApplication, error) {
	if !staff.HasAnyRole(models.RoleL1Reviewer, models.RoleAdmin) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only level-one reviewers or admins may register on behalf of a student")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	return s.register(ctx, req.StudentID, req.RegisterApplicationRequest, &staff.UserID)
}

func (s *ApplicationService) register(ctx context.Context, studentID string, req dto.RegisterApplicationRequest, staffID *string) (*models.InternshipApplication, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	if req.ExpectedHours < s.workflow.MinExpectedHours || req.ExpectedHours > s.workflow.MaxExpectedHours {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("expected hours must be between %d and %d", s.workflow.MinExpectedHours, s.workflow.MaxExpectedHours))
	}

	inFlight, err := s.repo.CountInFlight(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check in-flight applications")
	}
	if inFlight > 0 {
		return nil, appErrors.Clone(appErrors.ErrConflictingRequest, "student already has an application under review")
	}

	now := time.Now().UTC()
	app := &models.InternshipApplication{
		StudentID:         studentID,
		UnitID:            req.UnitID,
		PositionTitle:     req.PositionTitle,
		Description:       req.Description,
		ExpectedStartDate: req.ExpectedStartDate,
		ExpectedHours:     req.ExpectedHours,
		Status:            models.ApplicationStatusDraft,
		CreatedByStaffID:  staffID,
	}
	if req.SubmitNow {
		app.Status = models.ApplicationStatusSubmitted
		app.SubmittedAt = &now
	}

	if err := s.repo.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, appErrors.Clone(appErrors.ErrConflictingRequest, "student already has an application under review")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create application")
	}

	actorID := studentID
	if staffID != nil {
		actorID = *staffID
	}
	s.emitAudit(ctx, actorID, models.AuditActionApplicationRegister, app.ID, nil, app)
	s.recordTransition("application", app.Status)

	if app.Status == models.ApplicationStatusSubmitted {
		s.notify.NotifyRole(ctx, models.RoleL1Reviewer, models.NotificationAwaitingReview,
			"New application awaiting review",
			fmt.Sprintf("Application %s for position %q is waiting for level-one review.", app.ID, app.PositionTitle))
		s.invalidatePendingCache(ctx)
	}
	return app, nil
}

// Submit moves a DRAFT or revision-requested application back into the review
// pipeline. Resubmission returns the application to the stage that asked for
// the revision.
func (s *ApplicationService) Submit(ctx context.Context, actor *models.JWTClaims, applicationID string) (*models.InternshipApplication, error) {
	app, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.StudentID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the owning student may submit an application")
	}

	var next models.ApplicationStatus
	switch app.Status {
	case models.ApplicationStatusDraft, models.ApplicationStatusRevisionL1:
		next = models.ApplicationStatusSubmitted
	case models.ApplicationStatusRevisionL2:
		next = models.ApplicationStatusApprovedL1
	default:
		return nil, appErrors.Clone(appErrors.ErrInvalidState,
			fmt.Sprintf("application in status %s cannot be submitted", app.Status))
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, repository.UpdateApplicationStatusParams{
		ID:          app.ID,
		Expected:    app.Status,
		Next:        next,
		SubmittedAt: &now,
	}); err != nil {
		return s.transitionFailure(err, "failed to submit application")
	}

	old := *app
	app.Status = next
	app.SubmittedAt = &now
	s.emitAudit(ctx, actor.UserID, models.AuditActionApplicationSubmit, app.ID, &old, app)
	s.recordTransition("application", next)

	if next == models.ApplicationStatusSubmitted {
		s.notify.NotifyRole(ctx, models.RoleL1Reviewer, models.NotificationAwaitingReview,
			"Application awaiting review",
			fmt.Sprintf("Application %s is waiting for level-one review.", app.ID))
	} else {
		s.notify.NotifyUnitRole(ctx, app.UnitID, models.RoleL2Reviewer, models.NotificationAwaitingReview,
			"Resubmitted application awaiting review",
			fmt.Sprintf("Application %s was resubmitted and is waiting for level-two review.", app.ID))
	}
	s.invalidatePendingCache(ctx)
	return app, nil
}

// ReviewL1 applies a level-one reviewer decision to a SUBMITTED application.
func (s *ApplicationService) ReviewL1(ctx context.Context, reviewer *models.JWTClaims, applicationID string, req dto.ReviewRequest) (*models.InternshipApplication, error) {
	if !reviewer.HasAnyRole(models.RoleL1Reviewer, models.RoleAdmin) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "level-one review requires the L1_REVIEWER role")
	}

	next, err := mapDecision(req.Decision, models.ApplicationStatusApprovedL1, models.ApplicationStatusRejectedL1, models.ApplicationStatusRevisionL1)
	if err != nil {
		return nil, err
	}

	app, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationStatusSubmitted {
		return nil, appErrors.Clone(appErrors.ErrInvalidState,
			fmt.Sprintf("level-one review requires status %s, application is %s", models.ApplicationStatusSubmitted, app.Status))
	}

	now := time.Now().UTC()
	comment := optionalString(req.Comment)
	if err := s.repo.UpdateStatus(ctx, repository.UpdateApplicationStatusParams{
		ID:           app.ID,
		Expected:     app.Status,
		Next:         next,
		L1ReviewerID: &reviewer.UserID,
		L1ReviewedAt: &now,
		L1Comment:    comment,
	}); err != nil {
		return s.transitionFailure(err, "failed to record level-one review")
	}

	old := *app
	app.Status = next
	app.L1ReviewerID = &reviewer.UserID
	app.L1ReviewedAt = &now
	app.L1Comment = comment
	s.emitAudit(ctx, reviewer.UserID, models.AuditActionApplicationReviewL1, app.ID, &old, app)
	s.recordTransition("application", next)

	s.notify.NotifyUser(ctx, app.StudentID, models.NotificationReviewOutcome,
		"Level-one review completed",
		reviewOutcomeBody(app.ID, req.Decision, req.Comment))
	if next == models.ApplicationStatusApprovedL1 {
		s.notify.NotifyUnitRole(ctx, app.UnitID, models.RoleL2Reviewer, models.NotificationAwaitingReview,
			"Application awaiting level-two review",
			fmt.Sprintf("Application %s passed level-one review and is waiting for level-two review.", app.ID))
	}
	s.invalidatePendingCache(ctx)
	return app, nil
}

// ReviewL2 applies a level-two reviewer decision to an application that passed
// level one. Approval spawns the internship record in ACTIVE status.
func (s *ApplicationService) ReviewL2(ctx context.Context, reviewer *models.JWTClaims, applicationID string, req dto.ReviewRequest) (*models.InternshipApplication, error) {
	if !reviewer.HasAnyRole(models.RoleL2Reviewer, models.RoleAdmin) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "level-two review requires the L2_REVIEWER role")
	}

	next, err := mapDecision(req.Decision, models.ApplicationStatusApprovedL2, models.ApplicationStatusRejectedL2, models.ApplicationStatusRevisionL2)
	if err != nil {
		return nil, err
	}

	app, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !reviewer.HasRole(models.RoleAdmin) && !reviewer.InUnit(app.UnitID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "level-two reviewers may only review applications of their own unit")
	}
	if app.Status != models.ApplicationStatusApprovedL1 {
		return nil, appErrors.Clone(appErrors.ErrInvalidState,
			fmt.Sprintf("level-two review requires status %s, application is %s", models.ApplicationStatusApprovedL1, app.Status))
	}

	now := time.Now().UTC()
	comment := optionalString(req.Comment)
	if err := s.repo.UpdateStatus(ctx, repository.UpdateApplicationStatusParams{
		ID:           app.ID,
		Expected:     app.Status,
		Next:         next,
		L2ReviewerID: &reviewer.UserID,
		L2ReviewedAt: &now,
		L2Comment:    comment,
	}); err != nil {
		return s.transitionFailure(err, "failed to record level-two review")
	}

	old := *app
	app.Status = next
	app.L2ReviewerID = &reviewer.UserID
	app.L2ReviewedAt = &now
	app.L2Comment = comment
	s.emitAudit(ctx, reviewer.UserID, models.AuditActionApplicationReviewL2, app.ID, &old, app)
	s.recordTransition("application", next)

	if next == models.ApplicationStatusApprovedL2 {
		internship := &models.Internship{
			ApplicationID: app.ID,
			StudentID:     app.StudentID,
			UnitID:        app.UnitID,
			Status:        models.InternshipStatusActive,
			StartDate:     app.ExpectedStartDate,
		}
		if err := s.internships.Create(ctx, internship); err != nil && !errors.Is(err, repository.ErrUniqueViolation) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create internship record")
		}
		s.recordTransition("internship", internship.Status)
		s.notify.NotifyRole(ctx, models.RoleSupervisor, models.NotificationAwaitingReview,
			"Application awaiting final approval",
			fmt.Sprintf("Application %s passed level-two review and is waiting for final approval.", app.ID))
	}

	s.notify.NotifyUser(ctx, app.StudentID, models.NotificationReviewOutcome,
		"Level-two review completed",
		reviewOutcomeBody(app.ID, req.Decision, req.Comment))
	s.invalidatePendingCache(ctx)
	return app, nil
}

// FinalApprove stamps the supervisor sign-off on a level-two approved
// application, moving it to its terminal approved status.
func (s *ApplicationService) FinalApprove(ctx context.Context, approver *models.JWTClaims, applicationID string) (*models.InternshipApplication, error) {
	if !approver.HasAnyRole(models.RoleSupervisor, models.RoleAdmin) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "final approval requires the SUPERVISOR role")
	}

	app, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationStatusApprovedL2 {
		return nil, appErrors.Clone(appErrors.ErrInvalidState,
			fmt.Sprintf("final approval requires status %s, application is %s", models.ApplicationStatusApprovedL2, app.Status))
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, repository.UpdateApplicationStatusParams{
		ID:              app.ID,
		Expected:        app.Status,
		Next:            models.ApplicationStatusFinal,
		FinalApproverID: &approver.UserID,
		FinalApprovedAt: &now,
	}); err != nil {
		return s.transitionFailure(err, "failed to record final approval")
	}

	old := *app
	app.Status = models.ApplicationStatusFinal
	app.FinalApproverID = &approver.UserID
	app.FinalApprovedAt = &now
	s.emitAudit(ctx, approver.UserID, models.AuditActionApplicationFinalize, app.ID, &old, app)
	s.recordTransition("application", app.Status)

	s.notify.NotifyUser(ctx, app.StudentID, models.NotificationReviewOutcome,
		"Application fully approved",
		fmt.Sprintf("Application %s received final approval. Your internship can now start.", app.ID))
	s.invalidatePendingCache(ctx)
	return app, nil
}

// StartInternship stamps the actual start of the internship behind a fully
// approved application. The stamp is written once; repeated starts fail.
func (s *ApplicationService) StartInternship(ctx context.Context, actor *models.JWTClaims, applicationID string) (*models.Internship, error) {
	if !actor.HasAnyRole(models.RoleL2Reviewer, models.RoleSupervisor, models.RoleAdmin) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "starting an internship requires a reviewer or supervisor role")
	}

	app, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationStatusFinal {
		return nil, appErrors.Clone(appErrors.ErrInvalidState,
			fmt.Sprintf("internship can only start after final approval, application is %s", app.Status))
	}
	if actor.HasRole(models.RoleL2Reviewer) && !actor.HasAnyRole(models.RoleSupervisor, models.RoleAdmin) && !actor.InUnit(app.UnitID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "level-two reviewers may only start internships of their own unit")
	}

	internship, err := s.internships.GetByApplicationID(ctx, app.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no internship record exists for this application")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load internship")
	}

	now := time.Now().UTC()
	if err := s.internships.SetActualStartDate(ctx, internship.ID, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidState, "internship has already started")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start internship")
	}
	internship.ActualStartDate = &now

	s.emitAudit(ctx, actor.UserID, models.AuditActionInternshipStart, internship.ID, nil, internship)
	s.notify.NotifyUser(ctx, internship.StudentID, models.NotificationInternshipStarted,
		"Internship started",
		fmt.Sprintf("Your internship started on %s.", now.Format("2006-01-02")))
	return internship, nil
}

// ListPending returns the caller's review queue: submitted applications for
// level-one reviewers, level-one approved applications of the reviewer's unit
// for level two, level-two approved applications for supervisors, and every
// in-flight application for admins. Pages are briefly cached.
func (s *ApplicationService) ListPending(ctx context.Context, actor *models.JWTClaims, page, pageSize int) ([]models.InternshipApplication, *models.Pagination, error) {
	filter := models.ApplicationFilter{Page: page, PageSize: pageSize}
	var queue string
	switch {
	case actor.HasRole(models.RoleAdmin):
		queue = "admin"
		filter.Status = models.InFlightStatuses
	case actor.HasRole(models.RoleSupervisor):
		queue = "supervisor"
		filter.Status = []models.ApplicationStatus{models.ApplicationStatusApprovedL2}
	case actor.HasRole(models.RoleL2Reviewer):
		if actor.UnitID == nil {
			return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "level-two reviewers must belong to a unit")
		}
		queue = "l2"
		filter.Status = []models.ApplicationStatus{models.ApplicationStatusApprovedL1}
		filter.UnitID = *actor.UnitID
	case actor.HasRole(models.RoleL1Reviewer):
		queue = "l1"
		filter.Status = []models.ApplicationStatus{models.ApplicationStatusSubmitted}
	default:
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "no review queue for the caller's roles")
	}

	key := fmt.Sprintf("%s:%s:%s:%d:%d", pendingCachePrefix, queue, filter.UnitID, normalizePage(page), normalizePageSize(pageSize))
	if s.cache != nil {
		var cached cachedApplicationPage
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached.Applications, &models.Pagination{Page: normalizePage(page), PageSize: normalizePageSize(pageSize), TotalCount: cached.TotalCount}, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("pending queue cache lookup failed", zap.Error(err))
		}
	}

	apps, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending applications")
	}
	if apps == nil {
		apps = []models.InternshipApplication{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, cachedApplicationPage{Applications: apps, TotalCount: total}, s.workflow.PendingCacheTTL); err != nil {
			s.logger.Warn("pending queue cache write failed", zap.Error(err))
		}
	}
	return apps, &models.Pagination{Page: normalizePage(page), PageSize: normalizePageSize(pageSize), TotalCount: total}, nil
}

// Get returns a single application, scoped to what the caller may see.
func (s *ApplicationService) Get(ctx context.Context, actor *models.JWTClaims, applicationID string) (*models.InternshipApplication, error) {
	app, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	switch {
	case actor.HasAnyRole(models.RoleAdmin, models.RoleSupervisor, models.RoleL1Reviewer):
	case actor.HasRole(models.RoleL2Reviewer) && actor.InUnit(app.UnitID):
	case app.StudentID == actor.UserID:
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to view this application")
	}
	return app, nil
}

func (s *ApplicationService) getApplication(ctx context.Context, id string) (*models.InternshipApplication, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	return app, nil
}

// transitionFailure maps a conditional update miss to a state conflict: the
// row no longer carried the expected status when the write landed.
func (s *ApplicationService) transitionFailure(err error, message string) (*models.InternshipApplication, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "application was transitioned by another request")
	}
	if errors.Is(err, repository.ErrUniqueViolation) {
		return nil, appErrors.Clone(appErrors.ErrConflictingRequest, "student already has an application in flight")
	}
	return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func (s *ApplicationService) emitAudit(ctx context.Context, userID, action, resourceID string, old, current interface{}) {
	log := &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "internship_application",
		ResourceID: &resourceID,
		IPAddress:  "system",
		UserAgent:  "application-service",
	}
	if action == models.AuditActionInternshipStart {
		log.Resource = "internship"
	}
	if old != nil {
		if raw, err := json.Marshal(old); err == nil {
			log.OldValues = raw
		}
	}
	if current != nil {
		if raw, err := json.Marshal(current); err == nil {
			log.NewValues = raw
		}
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record audit log", zap.String("action", action), zap.Error(err))
	}
}

func (s *ApplicationService) recordTransition(resource string, status interface{}) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordWorkflowTransition(resource, fmt.Sprintf("%v", status))
}

func (s *ApplicationService) invalidatePendingCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, pendingCachePrefix+":*"); err != nil {
		s.logger.Warn("failed to invalidate pending queue cache", zap.Error(err))
	}
}

func mapDecision(decision models.ReviewDecision, approved, rejected, revision models.ApplicationStatus) (models.ApplicationStatus, error) {
	switch decision {
	case models.DecisionApproved:
		return approved, nil
	case models.DecisionRejected:
		return rejected, nil
	case models.DecisionRevisionRequested:
		return revision, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown review decision %q", decision))
}

func reviewOutcomeBody(applicationID string, decision models.ReviewDecision, comment string) string {
	body := fmt.Sprintf("Application %s review decision: %s.", applicationID, decision)
	if comment != "" {
		body += " Comment: " + comment
	}
	return body
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
