package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/longlong7211/intern-manager-sub000/internal/models"
	appErrors "github.com/longlong7211/intern-manager-sub000/pkg/errors"
)

// cacheStore is the slice of the cache repository the services rely on.
type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type notificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error)
	MarkRead(ctx context.Context, id, userID string) error
	UnreadCount(ctx context.Context, userID string) (int, error)
}

type audienceStore interface {
	FindActiveByRole(ctx context.Context, role models.UserRole) ([]models.User, error)
	FindActiveByUnitRole(ctx context.Context, unitID string, role models.UserRole) ([]models.User, error)
}

// NotificationService fans workflow events out to per-user notifications.
// Delivery is best effort: the Notify* methods log failures instead of
// propagating them so a broken sink never rolls back a workflow write.
type NotificationService struct {
	repo      notificationStore
	users     audienceStore
	cache     cacheStore
	logger    *zap.Logger
	unreadTTL time.Duration
}

// NewNotificationService wires the notification sink.
func NewNotificationService(repo notificationStore, users audienceStore, cache cacheStore, unreadTTL time.Duration, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, users: users, cache: cache, logger: logger, unreadTTL: unreadTTL}
}

func unreadCountKey(userID string) string {
	return fmt.Sprintf("notifications:unread:%s", userID)
}

// NotifyUser records a notification for a single user.
func (s *NotificationService) NotifyUser(ctx context.Context, userID string, nType models.NotificationType, title, body string) {
	notification := &models.Notification{
		UserID: userID,
		Type:   nType,
		Title:  title,
		Body:   body,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.Warn("failed to deliver notification",
			zap.String("user_id", userID),
			zap.String("type", string(nType)),
			zap.Error(err))
		return
	}
	s.invalidateUnread(ctx, userID)
}

// NotifyRole notifies every active user carrying the role.
func (s *NotificationService) NotifyRole(ctx context.Context, role models.UserRole, nType models.NotificationType, title, body string) {
	users, err := s.users.FindActiveByRole(ctx, role)
	if err != nil {
		s.logger.Warn("failed to resolve notification audience",
			zap.String("role", string(role)),
			zap.Error(err))
		return
	}
	for _, user := range users {
		s.NotifyUser(ctx, user.ID, nType, title, body)
	}
}

// NotifyUnitRole notifies active users of one unit carrying the role.
func (s *NotificationService) NotifyUnitRole(ctx context.Context, unitID string, role models.UserRole, nType models.NotificationType, title, body string) {
	users, err := s.users.FindActiveByUnitRole(ctx, unitID, role)
	if err != nil {
		s.logger.Warn("failed to resolve unit notification audience",
			zap.String("unit_id", unitID),
			zap.String("role", string(role)),
			zap.Error(err))
		return
	}
	for _, user := range users {
		s.NotifyUser(ctx, user.ID, nType, title, body)
	}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string, onlyUnread bool, page, pageSize int) ([]models.Notification, *models.Pagination, error) {
	notifications, total, err := s.repo.List(ctx, models.NotificationFilter{
		UserID:     userID,
		OnlyUnread: onlyUnread,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, &models.Pagination{Page: normalizePage(page), PageSize: normalizePageSize(pageSize), TotalCount: total}, nil
}

// MarkRead flips a notification's read flag for its owner.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "notification not found or already read")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

// UnreadCount returns the user's unread badge count, cached briefly.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	key := unreadCountKey(userID)
	if s.cache != nil {
		var cached int
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("unread count cache lookup failed", zap.Error(err))
		}
	}

	count, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count unread notifications")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, count, s.unreadTTL); err != nil {
			s.logger.Warn("unread count cache write failed", zap.Error(err))
		}
	}
	return count, nil
}

func (s *NotificationService) invalidateUnread(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, unreadCountKey(userID)); err != nil {
		s.logger.Warn("failed to invalidate unread count cache", zap.Error(err))
	}
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePageSize(pageSize int) int {
	if pageSize <= 0 || pageSize > 100 {
		return 20
	}
	return pageSize
}
