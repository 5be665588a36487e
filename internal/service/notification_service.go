package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deartime/deartime-backend/internal/common"
	"github.com/deartime/deartime-backend/internal/domain"
	"github.com/deartime/deartime-backend/internal/repository"
	"github.com/deartime/deartime-backend/pkg/cache"
	pkglogger "github.com/deartime/deartime-backend/pkg/logger"
	"gorm.io/gorm"
)

// Notifier is the fire-and-forget boundary content services dispatch through.
// Failures are logged by the implementation and never propagate.
type Notifier interface {
	Notify(receiverID uint64, eventKind string, relatedResourceID uint64)
}

// NotificationService stores and serves in-app notifications. The unread
// count is cached in redis and invalidated on every write for the user.
type NotificationService interface {
	Notifier
	GetList(userID uint64, page, limit int) ([]*domain.Notification, *common.Meta, error)
	GetUnreadCount(userID uint64) (*domain.NotificationSummaryResponse, error)
	MarkAsRead(userID, notificationID uint64) error
	MarkAllAsRead(userID uint64) error
}

type notificationService struct {
	repo  repository.NotificationRepository
	cache cache.Service
}

// NewNotificationService creates a new NotificationService. cacheSvc may be
// nil when redis is unavailable.
func NewNotificationService(repo repository.NotificationRepository, cacheSvc cache.Service) NotificationService {
	return &notificationService{repo: repo, cache: cacheSvc}
}

// notification messages per event kind
var notificationMessages = map[string]string{
	domain.NotificationLetterReceived:  "새로운 편지가 도착했습니다",
	domain.NotificationCapsuleReceived: "새로운 타임캡슐이 도착했습니다",
	domain.NotificationFriendRequest:   "새로운 친구 요청이 있습니다",
}

// Notify records an in-app notification. Best-effort: any failure is logged
// and swallowed so the parent operation always succeeds.
func (s *notificationService) Notify(receiverID uint64, eventKind string, relatedResourceID uint64) {
	message, ok := notificationMessages[eventKind]
	if !ok {
		message = "새로운 알림이 있습니다"
	}

	n := &domain.Notification{
		UserID:            receiverID,
		Type:              eventKind,
		Message:           message,
		RelatedResourceID: relatedResourceID,
	}
	if err := s.repo.Create(n); err != nil {
		pkglogger.GetLogger().Error().
			Err(err).
			Uint64("receiver_id", receiverID).
			Str("event_kind", eventKind).
			Msg("notification dispatch failed")
		return
	}
	s.invalidateUnread(receiverID)
}

func (s *notificationService) GetList(userID uint64, page, limit int) ([]*domain.Notification, *common.Meta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	notifications, total, err := s.repo.FindByUser(userID, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return notifications, &common.Meta{Page: page, Limit: limit, Total: total}, nil
}

func (s *notificationService) GetUnreadCount(userID uint64) (*domain.NotificationSummaryResponse, error) {
	ctx := context.Background()
	key := unreadCountKey(userID)

	if s.cache != nil && s.cache.IsAvailable() {
		var cached int
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &domain.NotificationSummaryResponse{TotalUnread: cached}, nil
		}
	}

	count, err := s.repo.CountUnread(userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.cache.IsAvailable() {
		if err := s.cache.Set(ctx, key, int(count), cache.TTLShort); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Msg("unread count cache set failed")
		}
	}

	return &domain.NotificationSummaryResponse{TotalUnread: int(count)}, nil
}

func (s *notificationService) MarkAsRead(userID, notificationID uint64) error {
	n, err := s.repo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrItemNotFound
		}
		return err
	}
	if n.UserID != userID {
		return common.ErrForbidden
	}
	if err := s.repo.MarkAsRead(notificationID); err != nil {
		return err
	}
	s.invalidateUnread(userID)
	return nil
}

func (s *notificationService) MarkAllAsRead(userID uint64) error {
	if err := s.repo.MarkAllAsRead(userID); err != nil {
		return err
	}
	s.invalidateUnread(userID)
	return nil
}

func (s *notificationService) invalidateUnread(userID uint64) {
	if s.cache == nil || !s.cache.IsAvailable() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, unreadCountKey(userID)); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("unread count cache invalidation failed")
	}
}

func unreadCountKey(userID uint64) string {
	return fmt.Sprintf("%s%d:unread", cache.PrefixNotification, userID)
}
