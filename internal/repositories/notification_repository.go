package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"giglink_backend/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

const (
	NotificationTypeBookingRequest  = "booking_request"
	NotificationTypeBookingAccepted = "booking_accepted"
	NotificationTypeBookingRejected = "booking_rejected"
	NotificationTypeNewMessage      = "new_message"
)

type NotificationRepository interface {
	Create(notification *models.Notification) error
	FindUserNotifications(userID string, limit, offset int) ([]models.Notification, int64, error)
	MarkAsRead(notificationID, userID string) error
	MarkAllAsRead(userID string) error
	GetUnreadCount(userID string) (int64, error)

	// Factory methods for the notification types the core emits.
	CreateBookingRequestNotification(receiverID, bookingID string, eventDate time.Time) error
	CreateBookingAcceptedNotification(senderID, bookingID string) error
	CreateBookingRejectedNotification(senderID, bookingID string) error
	CreateNewMessageNotification(receiverID, senderName, conversationID string) error
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindUserNotifications(userID string, limit, offset int) ([]models.Notification, int64, error) {
	var total int64
	if err := r.db.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(notificationID, userID string) error {
	now := time.Now()
	res := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(userID string) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now}).Error
}

func (r *NotificationRepositoryImpl) GetUnreadCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// --- factory methods ---

func (r *NotificationRepositoryImpl) CreateBookingRequestNotification(receiverID, bookingID string, eventDate time.Time) error {
	data, _ := json.Marshal(map[string]string{"booking_id": bookingID})
	return r.Create(&models.Notification{
		UserID:    receiverID,
		Type:      NotificationTypeBookingRequest,
		Title:     "New Booking Request",
		Message:   fmt.Sprintf("You have a new booking request for %s", eventDate.Format("2006-01-02")),
		Data:      datatypes.JSON(data),
		RelatedID: &bookingID,
	})
}

func (r *NotificationRepositoryImpl) CreateBookingAcceptedNotification(senderID, bookingID string) error {
	data, _ := json.Marshal(map[string]string{"booking_id": bookingID})
	return r.Create(&models.Notification{
		UserID:    senderID,
		Type:      NotificationTypeBookingAccepted,
		Title:     "Booking Accepted",
		Message:   "Your booking request has been accepted!",
		Data:      datatypes.JSON(data),
		RelatedID: &bookingID,
	})
}

func (r *NotificationRepositoryImpl) CreateBookingRejectedNotification(senderID, bookingID string) error {
	data, _ := json.Marshal(map[string]string{"booking_id": bookingID})
	return r.Create(&models.Notification{
		UserID:    senderID,
		Type:      NotificationTypeBookingRejected,
		Title:     "Booking Declined",
		Message:   "Your booking request was declined.",
		Data:      datatypes.JSON(data),
		RelatedID: &bookingID,
	})
}

func (r *NotificationRepositoryImpl) CreateNewMessageNotification(receiverID, senderName, conversationID string) error {
	data, _ := json.Marshal(map[string]string{"conversation_id": conversationID})
	return r.Create(&models.Notification{
		UserID:    receiverID,
		Type:      NotificationTypeNewMessage,
		Title:     "New Message",
		Message:   fmt.Sprintf("New message from %s", senderName),
		Data:      datatypes.JSON(data),
		RelatedID: &conversationID,
	})
}
