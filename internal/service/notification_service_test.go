package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/longlong7211/intern-manager-sub000/internal/models"
	appErrors "github.com/longlong7211/intern-manager-sub000/pkg/errors"
)

type notificationRepoStub struct {
	notifications map[string]*models.Notification
	nextID        int
	failCreate    bool
}

func newNotificationRepoStub() *notificationRepoStub {
	return &notificationRepoStub{notifications: make(map[string]*models.Notification)}
}

func (s *notificationRepoStub) Create(ctx context.Context, notification *models.Notification) error {
	if s.failCreate {
		return fmt.Errorf("sink unavailable")
	}
	if notification.ID == "" {
		s.nextID++
		notification.ID = fmt.Sprintf("notif-%d", s.nextID)
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	copied := *notification
	s.notifications[notification.ID] = &copied
	return nil
}

func (s *notificationRepoStub) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error) {
	var result []models.Notification
	for _, notification := range s.notifications {
		if notification.UserID != filter.UserID {
			continue
		}
		if filter.OnlyUnread && notification.Read {
			continue
		}
		result = append(result, *notification)
	}
	return result, len(result), nil
}

func (s *notificationRepoStub) MarkRead(ctx context.Context, id, userID string) error {
	notification, ok := s.notifications[id]
	if !ok || notification.UserID != userID || notification.Read {
		return sql.ErrNoRows
	}
	notification.Read = true
	now := time.Now().UTC()
	notification.ReadAt = &now
	return nil
}

func (s *notificationRepoStub) UnreadCount(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, notification := range s.notifications {
		if notification.UserID == userID && !notification.Read {
			count++
		}
	}
	return count, nil
}

type audienceStub struct {
	byRole     map[models.UserRole][]models.User
	byUnitRole map[string][]models.User
}

func (s *audienceStub) FindActiveByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	return s.byRole[role], nil
}

func (s *audienceStub) FindActiveByUnitRole(ctx context.Context, unitID string, role models.UserRole) ([]models.User, error) {
	return s.byUnitRole[unitID+":"+string(role)], nil
}

func newTestNotificationService() (*NotificationService, *notificationRepoStub, *audienceStub) {
	repo := newNotificationRepoStub()
	audience := &audienceStub{
		byRole: map[models.UserRole][]models.User{
			models.RoleL1Reviewer: {{ID: "rev-1"}, {ID: "rev-2"}},
		},
		byUnitRole: map[string][]models.User{
			"unit-1:" + string(models.RoleL2Reviewer): {{ID: "rev-3"}},
		},
	}
	svc := NewNotificationService(repo, audience, nil, time.Minute, nil)
	return svc, repo, audience
}

func TestNotifyUserRecordsNotification(t *testing.T) {
	svc, repo, _ := newTestNotificationService()
	ctx := context.Background()

	svc.NotifyUser(ctx, "student-1", models.NotificationReviewOutcome, "Application reviewed", "Approved at level one.")
	require.Len(t, repo.notifications, 1)

	count, err := svc.UnreadCount(ctx, "student-1")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestNotifyUserSwallowsSinkFailure(t *testing.T) {
	svc, repo, _ := newTestNotificationService()
	repo.failCreate = true

	// Must not panic or propagate; delivery is best effort.
	svc.NotifyUser(context.Background(), "student-1", models.NotificationReviewOutcome, "t", "b")
	require.Empty(t, repo.notifications)
}

func TestNotifyRoleFansOut(t *testing.T) {
	svc, repo, _ := newTestNotificationService()
	ctx := context.Background()

	svc.NotifyRole(ctx, models.RoleL1Reviewer, models.NotificationApplicationSubmitted, "New application", "Awaiting review.")
	require.Len(t, repo.notifications, 2)

	svc.NotifyUnitRole(ctx, "unit-1", models.RoleL2Reviewer, models.NotificationApplicationSubmitted, "New application", "Awaiting review.")
	require.Len(t, repo.notifications, 3)

	// No audience, no delivery.
	svc.NotifyUnitRole(ctx, "unit-9", models.RoleL2Reviewer, models.NotificationApplicationSubmitted, "New application", "Awaiting review.")
	require.Len(t, repo.notifications, 3)
}

func TestNotificationListFiltersUnread(t *testing.T) {
	svc, _, _ := newTestNotificationService()
	ctx := context.Background()

	svc.NotifyUser(ctx, "student-1", models.NotificationReviewOutcome, "first", "")
	svc.NotifyUser(ctx, "student-1", models.NotificationReviewOutcome, "second", "")
	svc.NotifyUser(ctx, "student-2", models.NotificationReviewOutcome, "other", "")

	all, pagination, err := svc.List(ctx, "student-1", false, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, 1, pagination.Page)
	require.Equal(t, 20, pagination.PageSize)

	require.NoError(t, svc.MarkRead(ctx, all[0].ID, "student-1"))

	unread, _, err := svc.List(ctx, "student-1", true, 1, 20)
	require.NoError(t, err)
	require.Len(t, unread, 1)
}

func TestNotificationMarkReadGuards(t *testing.T) {
	svc, repo, _ := newTestNotificationService()
	ctx := context.Background()

	svc.NotifyUser(ctx, "student-1", models.NotificationReviewOutcome, "first", "")
	var id string
	for key := range repo.notifications {
		id = key
	}

	err := svc.MarkRead(ctx, id, "student-2")
	requireCode(t, err, appErrors.ErrNotFound.Code)

	require.NoError(t, svc.MarkRead(ctx, id, "student-1"))
	err = svc.MarkRead(ctx, id, "student-1")
	requireCode(t, err, appErrors.ErrNotFound.Code)

	err = svc.MarkRead(ctx, "missing", "student-1")
	requireCode(t, err, appErrors.ErrNotFound.Code)
}

func TestNotificationUnreadCountTracksReads(t *testing.T) {
	svc, repo, _ := newTestNotificationService()
	ctx := context.Background()

	svc.NotifyUser(ctx, "student-1", models.NotificationReviewOutcome, "first", "")
	svc.NotifyUser(ctx, "student-1", models.NotificationReviewOutcome, "second", "")

	count, err := svc.UnreadCount(ctx, "student-1")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	var id string
	for key := range repo.notifications {
		id = key
		break
	}
	require.NoError(t, svc.MarkRead(ctx, id, "student-1"))

	count, err = svc.UnreadCount(ctx, "student-1")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
