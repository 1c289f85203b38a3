package services

import (
	"errors"

	"giglink_backend/internal/models"
	"giglink_backend/internal/repositories"
	"giglink_backend/pkg/apperrors"
)

// NotificationService is the read/ack surface for the notifications the core
// emits, plus the delivery-miss hook the realtime gateway calls when a
// message's receiver has no live connection.
type NotificationService struct {
	notifRepo repositories.NotificationRepository
}

func NewNotificationService(notifRepo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{notifRepo: notifRepo}
}

func (s *NotificationService) List(userID string, limit, offset int) ([]models.Notification, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	notifications, total, err := s.notifRepo.FindUserNotifications(userID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.TransientStoreError(err)
	}
	return notifications, total, nil
}

func (s *NotificationService) MarkRead(notificationID, userID string) error {
	err := s.notifRepo.MarkAsRead(notificationID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.NotFoundError("notification", "Notification not found")
		}
		return apperrors.TransientStoreError(err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(userID string) error {
	if err := s.notifRepo.MarkAllAsRead(userID); err != nil {
		return apperrors.TransientStoreError(err)
	}
	return nil
}

func (s *NotificationService) UnreadCount(userID string) (int64, error) {
	count, err := s.notifRepo.GetUnreadCount(userID)
	if err != nil {
		return 0, apperrors.TransientStoreError(err)
	}
	return count, nil
}

// NotifyMissedMessage records a new_message notification for a receiver who
// was offline when the message was broadcast.
func (s *NotificationService) NotifyMissedMessage(receiverID, senderName, conversationID string) error {
	if err := s.notifRepo.CreateNewMessageNotification(receiverID, senderName, conversationID); err != nil {
		return apperrors.TransientStoreError(err)
	}
	return nil
}
