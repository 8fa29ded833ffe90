package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/longlong7211/intern-manager-sub000/internal/dto"
	"github.com/longlong7211/intern-manager-sub000/internal/models"
	"github.com/longlong7211/intern-manager-sub000/internal/repository"
	"github.com/longlong7211/intern-manager-sub000/pkg/config"
	appErrors "github.com/longlong7211/intern-manager-sub000/pkg/errors"
)

type applicationRepoStub struct {
	apps       map[string]*models.InternshipApplication
	nextID     int
	lastFilter models.ApplicationFilter
}

func newApplicationRepoStub() *applicationRepoStub {
	return &applicationRepoStub{apps: make(map[string]*models.InternshipApplication)}
}

func (s *applicationRepoStub) Create(ctx context.Context, app *models.InternshipApplication) error {
	if app.ID == "" {
		s.nextID++
		app.ID = fmt.Sprintf("app-%d", s.nextID)
	}
	for _, existing := range s.apps {
		if existing.StudentID != app.StudentID {
			continue
		}
		for _, status := range models.InFlightStatuses {
			if existing.Status == status && app.Status == models.ApplicationStatusSubmitted {
				return repository.ErrUniqueViolation
			}
		}
	}
	copied := *app
	s.apps[app.ID] = &copied
	return nil
}

func (s *applicationRepoStub) GetByID(ctx context.Context, id string) (*models.InternshipApplication, error) {
	app, ok := s.apps[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *app
	return &copied, nil
}

func (s *applicationRepoStub) List(ctx context.Context, filter models.ApplicationFilter) ([]models.InternshipApplication, int, error) {
	s.lastFilter = filter
	var result []models.InternshipApplication
	for _, app := range s.apps {
		if filter.UnitID != "" && app.UnitID != filter.UnitID {
			continue
		}
		if len(filter.Status) > 0 {
			match := false
			for _, status := range filter.Status {
				if app.Status == status {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		result = append(result, *app)
	}
	return result, len(result), nil
}

func (s *applicationRepoStub) CountInFlight(ctx context.Context, studentID string) (int, error) {
	count := 0
	for _, app := range s.apps {
		if app.StudentID != studentID {
			continue
		}
		for _, status := range models.InFlightStatuses {
			if app.Status == status {
				count++
				break
			}
		}
	}
	return count, nil
}

func (s *applicationRepoStub) UpdateStatus(ctx context.Context, params repository.UpdateApplicationStatusParams) error {
	app, ok := s.apps[params.ID]
	if !ok || app.Status != params.Expected {
		return sql.ErrNoRows
	}
	// Mirrors the partial unique index: a DRAFT entering the pipeline collides
	// with any other in-flight application of the same student.
	if app.Status == models.ApplicationStatusDraft {
		for _, existing := range s.apps {
			if existing.ID == app.ID || existing.StudentID != app.StudentID {
				continue
			}
			for _, status := range models.InFlightStatuses {
				if existing.Status == status {
					return repository.ErrUniqueViolation
				}
			}
		}
	}
	app.Status = params.Next
	if params.SubmittedAt != nil {
		app.SubmittedAt = params.SubmittedAt
	}
	if params.L1ReviewerID != nil {
		app.L1ReviewerID = params.L1ReviewerID
		app.L1ReviewedAt = params.L1ReviewedAt
		app.L1Comment = params.L1Comment
	}
	if params.L2ReviewerID != nil {
		app.L2ReviewerID = params.L2ReviewerID
		app.L2ReviewedAt = params.L2ReviewedAt
		app.L2Comment = params.L2Comment
	}
	if params.FinalApproverID != nil {
		app.FinalApproverID = params.FinalApproverID
		app.FinalApprovedAt = params.FinalApprovedAt
	}
	return nil
}

type internshipRepoStub struct {
	internships map[string]*models.Internship
	nextID      int
}

func newInternshipRepoStub() *internshipRepoStub {
	return &internshipRepoStub{internships: make(map[string]*models.Internship)}
}

func (s *internshipRepoStub) Create(ctx context.Context, internship *models.Internship) error {
	if internship.ID == "" {
		s.nextID++
		internship.ID = fmt.Sprintf("internship-%d", s.nextID)
	}
	for _, existing := range s.internships {
		if existing.ApplicationID == internship.ApplicationID {
			return repository.ErrUniqueViolation
		}
	}
	copied := *internship
	s.internships[internship.ID] = &copied
	return nil
}

func (s *internshipRepoStub) GetByID(ctx context.Context, id string) (*models.Internship, error) {
	internship, ok := s.internships[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *internship
	return &copied, nil
}

func (s *internshipRepoStub) GetByApplicationID(ctx context.Context, applicationID string) (*models.Internship, error) {
	for _, internship := range s.internships {
		if internship.ApplicationID == applicationID {
			copied := *internship
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *internshipRepoStub) UpdateStatus(ctx context.Context, params repository.UpdateInternshipStatusParams) error {
	internship, ok := s.internships[params.ID]
	if !ok || internship.Status != params.Expected {
		return sql.ErrNoRows
	}
	internship.Status = params.Next
	if params.EndDate != nil {
		internship.EndDate = params.EndDate
	}
	if params.ActualStartDate != nil {
		internship.ActualStartDate = params.ActualStartDate
	}
	return nil
}

func (s *internshipRepoStub) SetActualStartDate(ctx context.Context, id string, startedAt time.Time) error {
	internship, ok := s.internships[id]
	if !ok || internship.ActualStartDate != nil {
		return sql.ErrNoRows
	}
	internship.ActualStartDate = &startedAt
	return nil
}

type auditStub struct {
	logs []*models.AuditLog
}

func (a *auditStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

type notifierStub struct {
	users []string
	types []models.NotificationType
}

func (n *notifierStub) NotifyUser(ctx context.Context, userID string, nType models.NotificationType, title, body string) {
	n.users = append(n.users, userID)
	n.types = append(n.types, nType)
}

func (n *notifierStub) NotifyRole(ctx context.Context, role models.UserRole, nType models.NotificationType, title, body string) {
	n.users = append(n.users, "role:"+string(role))
	n.types = append(n.types, nType)
}

func (n *notifierStub) NotifyUnitRole(ctx context.Context, unitID string, role models.UserRole, nType models.NotificationType, title, body string) {
	n.users = append(n.users, "unit:"+unitID+":"+string(role))
	n.types = append(n.types, nType)
}

func testWorkflowConfig() config.WorkflowConfig {
	return config.WorkflowConfig{
		MaxAdjustmentHours: 8,
		MinReasonLength:    10,
		MinExpectedHours:   100,
		MaxExpectedHours:   2000,
		PendingCacheTTL:    time.Minute,
		UnreadCacheTTL:     5 * time.Minute,
	}
}

func studentClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Roles: models.RoleList{models.RoleStudent}}
}

func l1Claims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Roles: models.RoleList{models.RoleL1Reviewer}}
}

func l2Claims(id, unit string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Roles: models.RoleList{models.RoleL2Reviewer}, UnitID: &unit}
}

func supervisorClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Roles: models.RoleList{models.RoleSupervisor}}
}

func newTestApplicationService() (*ApplicationService, *applicationRepoStub, *internshipRepoStub, *auditStub, *notifierStub) {
	repo := newApplicationRepoStub()
	internships := newInternshipRepoStub()
	audit := &auditStub{}
	notify := &notifierStub{}
	svc := NewApplicationService(repo, internships, audit, notify, nil, nil, testWorkflowConfig(), nil)
	return svc, repo, internships, audit, notify
}

func registerRequest() dto.RegisterApplicationRequest {
	return dto.RegisterApplicationRequest{
		UnitID:            "unit-1",
		PositionTitle:     "Backend Intern",
		Description:       "API work",
		ExpectedStartDate: time.Now().Add(14 * 24 * time.Hour),
		ExpectedHours:     320,
	}
}

func requireCode(t *testing.T, err error, want string) {
	t.Helper()
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected app error, got %v", err)
	require.Equal(t, want, appErr.Code)
}

func TestApplicationFullApprovalFlow(t *testing.T) {
	svc, _, internships, audit, _ := newTestApplicationService()
	ctx := context.Background()

	req := registerRequest()
	req.SubmitNow = true
	app, err := svc.Register(ctx, "student-1", req)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusSubmitted, app.Status)
	require.NotNil(t, app.SubmittedAt)

	app, err = svc.ReviewL1(ctx, l1Claims("rev-1"), app.ID, dto.ReviewRequest{Decision: models.DecisionApproved, Comment: "solid"})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusApprovedL1, app.Status)
	require.Equal(t, "rev-1", *app.L1ReviewerID)

	app, err = svc.ReviewL2(ctx, l2Claims("rev-2", "unit-1"), app.ID, dto.ReviewRequest{Decision: models.DecisionApproved})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusApprovedL2, app.Status)

	internship, err := internships.GetByApplicationID(ctx, app.ID)
	require.NoError(t, err)
	require.Equal(t, models.InternshipStatusActive, internship.Status)
	require.Equal(t, "student-1", internship.StudentID)

	app, err = svc.FinalApprove(ctx, supervisorClaims("boss-1"), app.ID)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusFinal, app.Status)
	require.Equal(t, "boss-1", *app.FinalApproverID)

	started, err := svc.StartInternship(ctx, supervisorClaims("boss-1"), app.ID)
	require.NoError(t, err)
	require.NotNil(t, started.ActualStartDate)

	require.NotEmpty(t, audit.logs)
}

func TestApplicationRevisionLoop(t *testing.T) {
	svc, _, _, _, _ := newTestApplicationService()
	ctx := context.Background()

	req := registerRequest()
	req.SubmitNow = true
	app, err := svc.Register(ctx, "student-1", req)
	require.NoError(t, err)

	app, err = svc.ReviewL1(ctx, l1Claims("rev-1"), app.ID, dto.ReviewRequest{Decision: models.DecisionRevisionRequested, Comment: "expand the description"})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusRevisionL1, app.Status)

	app, err = svc.Submit(ctx, studentClaims("student-1"), app.ID)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusSubmitted, app.Status)
}

func TestApplicationL2RevisionResubmitReturnsToL2Queue(t *testing.T) {
	svc, _, _, _, _ := newTestApplicationService()
	ctx := context.Background()

	req := registerRequest()
	req.SubmitNow = true
	app, err := svc.Register(ctx, "student-1", req)
	require.NoError(t, err)

	_, err = svc.ReviewL1(ctx, l1Claims("rev-1"), app.ID, dto.ReviewRequest{Decision: models.DecisionApproved})
	require.NoError(t, err)
	app, err = svc.ReviewL2(ctx, l2Claims("rev-2", "unit-1"), app.ID, dto.ReviewRequest{Decision: models.DecisionRevisionRequested})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusRevisionL2, app.Status)

	// Resubmission skips level one: the application returns to the stage
	// that asked for the revision.
	app, err = svc.Submit(ctx, studentClaims("student-1"), app.ID)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusApprovedL1, app.Status)
}

func TestApplicationL2CannotReviewSubmitted(t *testing.T) {
	svc, _, _, _, _ := newTestApplicationService()
	ctx := context.Background()

	req := registerRequest()
	req.SubmitNow = true
	app, err := svc.Register(ctx, "student-1", req)
	require.NoError(t, err)

	_, err = svc.ReviewL2(ctx, l2Claims("rev-2", "unit-1"), app.ID, dto.ReviewRequest{Decision: models.DecisionApproved})
	requireCode(t, err, appErrors.ErrInvalidState.Code)
}

func TestApplicationRejectionIsIdempotentlyRefused(t *testing.T) {
	svc, _, _, _, _ := newTestApplicationService()
	ctx := context.Background()

	req := registerRequest()
	req.SubmitNow = true
	app, err := svc.Register(ctx, "student-1", req)
	require.NoError(t, err)

	app, err = svc.ReviewL1(ctx, l1Claims("rev-1"), app.ID, dto.ReviewRequest{Decision: models.DecisionRejected})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusRejectedL1, app.Status)

	_, err = svc.ReviewL1(ctx, l1Claims("rev-1"), app.ID, dto.ReviewRequest{Decision: models.DecisionRejected})
	requireCode(t, err, appErrors.ErrInvalidState.Code)
}

func TestApplicationRegisterConflictsWithInFlight(t *testing.T) {
	svc, _, _, _, _ := newTestApplicationService()
	ctx := context.Background()

	req := registerRequest()
	req.SubmitNow = true
	_, err := svc.Register(ctx, "student-1", req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "student-1", req)
	requireCode(t, err, appErrors.ErrConflictingRequest.Code)
}

func TestApplicationDraftDoesNotBlockNewRegistration(t *testing.T) {
	svc, _, _, _, _ := newTestApplicationService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "student-1", registerRequest())
	require.NoError(t, err)

	// A draft is not in-flight.
	_, err = svc.Register(ctx, "student-1", registerRequest())
	require.NoError(t, err)
}

func TestApplicationSubmitDraftConflictsWithInFlight(t *testing.T) {
	svc, _, _, _, _ := newTestApplicationService()
	ctx := context.Background()

	draft, err := svc.Register(ctx, "student-1", registerRequest())
	require.NoError(t, err)

	req := registerRequest()
	req.SubmitNow = true
	_, err = svc.Register(ctx, "student-1", req)
	require.NoError(t, err)

	// The in-flight index blocks the draft's submission; the caller sees a
	// conflict, not an internal error.
	_, err = svc.Submit(ctx, studentClaims("student-1"), draft.ID)
	requireCode(t, err, appErrors.ErrConflictingRequest.Code)
}

func TestApplicationExpectedHoursBounds(t *testing.T) {
	svc, _, _, _, _ := newTestApplicationService()
	ctx := context.Background()

	req := registerRequest()
	req.ExpectedHours = 99
	_, err := svc.Register(ctx, "student-1", req)
	requireCode(t, err, appErrors.ErrValidation.Code)

	req.ExpectedHours = 2001
	_, err = svc.Register(ctx, "student-1", req)
	requireCode(t, err, appErrors.ErrValidation.Code)
}

func TestApplicationRegisterForStudentRequiresStaffRole(t *testing.T) {
	svc, _, _, _, _ := newTestApplicationService()
	ctx := context.Background()

	req := dto.RegisterForStudentRequest{StudentID: "student-9", RegisterApplicationRequest: registerRequest()}
	_, err := svc.RegisterForStudent(ctx, studentClaims("student-1"), req)
	requireCode(t, err, appErrors.ErrForbidden.Code)

	app, err := svc.RegisterForStudent(ctx, l1Claims("staff-1"), req)
	require.NoError(t, err)
	require.Equal(t, "student-9", app.StudentID)
	require.Equal(t, "staff-1", *app.CreatedByStaffID)
}

func TestApplicationSubmitOnlyByOwner(t *testing.T) {
	svc, _, _, _, _ := newTestApplicationService()
	ctx := context.Background()

	app, err := svc.Register(ctx, "student-1", registerRequest())
	require.NoError(t, err)

	_, err = svc.Submit(ctx, studentClaims("student-2"), app.ID)
	requireCode(t, err, appErrors.ErrForbidden.Code)
}

func TestApplicationReviewL2CrossUnitForbidden(t *testing.T) {
	svc, _, _, _, _ := newTestApplicationService()
	ctx := context.Background()

	req := registerRequest()
	req.SubmitNow = true
	app, err := svc.Register(ctx, "student-1", req)
	require.NoError(t, err)
	_, err = svc.ReviewL1(ctx, l1Claims("rev-1"), app.ID, dto.ReviewRequest{Decision: models.DecisionApproved})
	require.NoError(t, err)

	_, err = svc.ReviewL2(ctx, l2Claims("rev-2", "unit-other"), app.ID, dto.ReviewRequest{Decision: models.DecisionApproved})
	requireCode(t, err, appErrors.ErrForbidden.Code)
}

func TestApplicationUnknownDecisionRejected(t *testing.T) {
	svc, _, _, _, _ := newTestApplicationService()
	ctx := context.Background()

	req := registerRequest()
	req.SubmitNow = true
	app, err := svc.Register(ctx, "student-1", req)
	require.NoError(t, err)

	_, err = svc.ReviewL1(ctx, l1Claims("rev-1"), app.ID, dto.ReviewRequest{Decision: "MAYBE"})
	requireCode(t, err, appErrors.ErrValidation.Code)
}

func TestApplicationListPendingQueues(t *testing.T) {
	svc, repo, _, _, _ := newTestApplicationService()
	ctx := context.Background()

	_, _, err := svc.ListPending(ctx, l1Claims("rev-1"), 1, 20)
	require.NoError(t, err)
	require.Equal(t, []models.ApplicationStatus{models.ApplicationStatusSubmitted}, repo.lastFilter.Status)
	require.Empty(t, repo.lastFilter.UnitID)

	_, _, err = svc.ListPending(ctx, l2Claims("rev-2", "unit-1"), 1, 20)
	require.NoError(t, err)
	require.Equal(t, []models.ApplicationStatus{models.ApplicationStatusApprovedL1}, repo.lastFilter.Status)
	require.Equal(t, "unit-1", repo.lastFilter.UnitID)

	_, _, err = svc.ListPending(ctx, supervisorClaims("boss-1"), 1, 20)
	require.NoError(t, err)
	require.Equal(t, []models.ApplicationStatus{models.ApplicationStatusApprovedL2}, repo.lastFilter.Status)

	_, _, err = svc.ListPending(ctx, studentClaims("student-1"), 1, 20)
	requireCode(t, err, appErrors.ErrForbidden.Code)
}

func TestApplicationStartInternshipOnlyOnce(t *testing.T) {
	svc, _, _, _, _ := newTestApplicationService()
	ctx := context.Background()

	req := registerRequest()
	req.SubmitNow = true
	app, err := svc.Register(ctx, "student-1", req)
	require.NoError(t, err)
	_, err = svc.ReviewL1(ctx, l1Claims("rev-1"), app.ID, dto.ReviewRequest{Decision: models.DecisionApproved})
	require.NoError(t, err)
	_, err = svc.ReviewL2(ctx, l2Claims("rev-2", "unit-1"), app.ID, dto.ReviewRequest{Decision: models.DecisionApproved})
	require.NoError(t, err)
	_, err = svc.FinalApprove(ctx, supervisorClaims("boss-1"), app.ID)
	require.NoError(t, err)

	_, err = svc.StartInternship(ctx, supervisorClaims("boss-1"), app.ID)
	require.NoError(t, err)

	_, err = svc.StartInternship(ctx, supervisorClaims("boss-1"), app.ID)
	requireCode(t, err, appErrors.ErrInvalidState.Code)
}
