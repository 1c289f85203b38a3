package services

// ServiceContainer bundles the constructed services for wiring into handlers
// and the websocket layer.
type ServiceContainer struct {
	ChatService         *ChatService
	BookingService      *BookingService
	NotificationService *NotificationService
}
