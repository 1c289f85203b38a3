package handlers

import (
	"giglink_backend/internal/services"
	"giglink_backend/internal/validator"
)

// AppHandlers bundles the constructed HTTP handlers for route registration.
type AppHandlers struct {
	Chat         *ChatHandler
	Booking      *BookingHandler
	Notification *NotificationHandler
}

func NewAppHandlers(v *validator.Validator, svc *services.ServiceContainer) *AppHandlers {
	base := NewBaseHandler(v)
	return &AppHandlers{
		Chat:         NewChatHandler(base, svc.ChatService),
		Booking:      NewBookingHandler(base, svc.BookingService),
		Notification: NewNotificationHandler(base, svc.NotificationService),
	}
}
