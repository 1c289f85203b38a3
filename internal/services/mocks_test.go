package services

import (
	"time"

	"github.com/stretchr/testify/mock"

	"giglink_backend/internal/models"
	"giglink_backend/internal/models/chat"
	"giglink_backend/internal/repositories"
)

type mockConversationRepo struct{ mock.Mock }

func (m *mockConversationRepo) GetOrCreate(userA, userB, seedPreview string) (*chat.Conversation, bool, error) {
	args := m.Called(userA, userB, seedPreview)
	conv, _ := args.Get(0).(*chat.Conversation)
	return conv, args.Bool(1), args.Error(2)
}

func (m *mockConversationRepo) FindByID(id string) (*chat.Conversation, error) {
	args := m.Called(id)
	conv, _ := args.Get(0).(*chat.Conversation)
	return conv, args.Error(1)
}

func (m *mockConversationRepo) FindByPair(userA, userB string) (*chat.Conversation, error) {
	args := m.Called(userA, userB)
	conv, _ := args.Get(0).(*chat.Conversation)
	return conv, args.Error(1)
}

func (m *mockConversationRepo) ListForUser(userID string) ([]chat.Conversation, error) {
	args := m.Called(userID)
	convs, _ := args.Get(0).([]chat.Conversation)
	return convs, args.Error(1)
}

func (m *mockConversationRepo) Touch(conversationID, preview string, at time.Time) error {
	args := m.Called(conversationID, preview, at)
	return args.Error(0)
}

type mockMessageRepo struct{ mock.Mock }

func (m *mockMessageRepo) Create(message *chat.Message) error {
	args := m.Called(message)
	return args.Error(0)
}

func (m *mockMessageRepo) FindByID(id string) (*chat.Message, error) {
	args := m.Called(id)
	msg, _ := args.Get(0).(*chat.Message)
	return msg, args.Error(1)
}

func (m *mockMessageRepo) Page(conversationID string, limit, offset int) ([]chat.Message, error) {
	args := m.Called(conversationID, limit, offset)
	msgs, _ := args.Get(0).([]chat.Message)
	return msgs, args.Error(1)
}

func (m *mockMessageRepo) MarkConversationRead(conversationID, readerID string) (int64, error) {
	args := m.Called(conversationID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMessageRepo) MarkMessageRead(messageID, readerID string) error {
	args := m.Called(messageID, readerID)
	return args.Error(0)
}

func (m *mockMessageRepo) UnreadCountForUser(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMessageRepo) UnreadCountInConversation(conversationID, userID string) (int64, error) {
	args := m.Called(conversationID, userID)
	return args.Get(0).(int64), args.Error(1)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *mockUserRepo) FindByID(id string) (*models.User, error) {
	args := m.Called(id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) FindByIDs(ids []string) (map[string]models.User, error) {
	args := m.Called(ids)
	users, _ := args.Get(0).(map[string]models.User)
	return users, args.Error(1)
}

func (m *mockUserRepo) UpdateRating(userID string, rating float64) error {
	args := m.Called(userID, rating)
	return args.Error(0)
}

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) Create(booking *models.BookingRequest) error {
	args := m.Called(booking)
	return args.Error(0)
}

func (m *mockBookingRepo) FindByID(id string) (*models.BookingRequest, error) {
	args := m.Called(id)
	booking, _ := args.Get(0).(*models.BookingRequest)
	return booking, args.Error(1)
}

func (m *mockBookingRepo) FindSentByUser(userID string) ([]models.BookingRequest, error) {
	args := m.Called(userID)
	bookings, _ := args.Get(0).([]models.BookingRequest)
	return bookings, args.Error(1)
}

func (m *mockBookingRepo) FindReceivedByUser(userID string) ([]models.BookingRequest, error) {
	args := m.Called(userID)
	bookings, _ := args.Get(0).([]models.BookingRequest)
	return bookings, args.Error(1)
}

func (m *mockBookingRepo) TransitionStatus(id string, from, to models.BookingStatus, guard repositories.ActorGuard, actorID string) (bool, error) {
	args := m.Called(id, from, to, guard, actorID)
	return args.Bool(0), args.Error(1)
}

type mockReviewRepo struct{ mock.Mock }

func (m *mockReviewRepo) Create(review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *mockReviewRepo) FindByBookingAndReviewer(bookingID, reviewerID string) (*models.Review, error) {
	args := m.Called(bookingID, reviewerID)
	review, _ := args.Get(0).(*models.Review)
	return review, args.Error(1)
}

func (m *mockReviewRepo) FindByReviewedUser(reviewedID string) ([]models.Review, error) {
	args := m.Called(reviewedID)
	reviews, _ := args.Get(0).([]models.Review)
	return reviews, args.Error(1)
}

func (m *mockReviewRepo) AverageRatingFor(reviewedID string) (float64, error) {
	args := m.Called(reviewedID)
	return args.Get(0).(float64), args.Error(1)
}

type mockNotificationRepo struct{ mock.Mock }

func (m *mockNotificationRepo) Create(notification *models.Notification) error {
	args := m.Called(notification)
	return args.Error(0)
}

func (m *mockNotificationRepo) FindUserNotifications(userID string, limit, offset int) ([]models.Notification, int64, error) {
	args := m.Called(userID, limit, offset)
	notifications, _ := args.Get(0).([]models.Notification)
	return notifications, args.Get(1).(int64), args.Error(2)
}

func (m *mockNotificationRepo) MarkAsRead(notificationID, userID string) error {
	args := m.Called(notificationID, userID)
	return args.Error(0)
}

func (m *mockNotificationRepo) MarkAllAsRead(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *mockNotificationRepo) GetUnreadCount(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationRepo) CreateBookingRequestNotification(receiverID, bookingID string, eventDate time.Time) error {
	args := m.Called(receiverID, bookingID, eventDate)
	return args.Error(0)
}

func (m *mockNotificationRepo) CreateBookingAcceptedNotification(senderID, bookingID string) error {
	args := m.Called(senderID, bookingID)
	return args.Error(0)
}

func (m *mockNotificationRepo) CreateBookingRejectedNotification(senderID, bookingID string) error {
	args := m.Called(senderID, bookingID)
	return args.Error(0)
}

func (m *mockNotificationRepo) CreateNewMessageNotification(receiverID, senderName, conversationID string) error {
	args := m.Called(receiverID, senderName, conversationID)
	return args.Error(0)
}

type mockEmailProvider struct{ mock.Mock }

func (m *mockEmailProvider) Send(to, subject, htmlBody string) error {
	args := m.Called(to, subject, htmlBody)
	return args.Error(0)
}

type stubPresence struct {
	online map[string]bool
}

func (s *stubPresence) IsOnline(userID string) bool {
	return s.online[userID]
}
