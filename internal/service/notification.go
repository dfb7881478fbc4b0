package service

import (
	"context"

	"skillswap/internal/model"
	"skillswap/internal/repository"
)

// NotificationService handles reading and acknowledging notifications.
// Rows are written by the stream workers, not by this service.
type NotificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// List returns the user's most recent notifications with an unread count.
func (s *NotificationService) List(ctx context.Context, userID int64, limit int) (*model.NotificationListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	notifications, unread, err := s.repo.List(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	return &model.NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
	}, nil
}

// MarkAsRead marks the given notifications as read. The repository scopes
// the update to the caller, so foreign ids are silently ignored.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID int64, notificationIDs []int64) error {
	if len(notificationIDs) == 0 {
		return nil
	}
	return s.repo.MarkAsRead(ctx, userID, notificationIDs)
}

// MarkAllAsRead marks every unread notification as read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
