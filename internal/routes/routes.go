package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"giglink_backend/internal/handlers"
	"giglink_backend/internal/middleware"
	"giglink_backend/ws"
)

// RegisterRoutes mounts the full HTTP surface: the authenticated /api/v1 REST
// group, the websocket upgrade endpoint and a health probe.
func RegisterRoutes(engine *gin.Engine, h *handlers.AppHandlers, wsHandler *ws.Handler) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// The websocket endpoint authenticates inside the handler so browser
	// clients can pass the token as a query parameter.
	engine.GET("/ws", wsHandler.Serve)

	api := engine.Group("/api/v1")
	api.Use(middleware.AuthMiddleware())
	{
		h.Chat.RegisterRoutes(api)
		h.Booking.RegisterRoutes(api)
		h.Notification.RegisterRoutes(api)
	}
}
