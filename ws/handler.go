package ws

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"giglink_backend/internal/auth"
	"giglink_backend/internal/config"
	"giglink_backend/internal/logger"
)

// Handler upgrades authenticated HTTP requests to websocket connections and
// hands them to the manager.
type Handler struct {
	manager  *Manager
	chat     ChatAPI
	notifier NotifierAPI
	upgrader websocket.Upgrader
	sendBuf  int
}

func NewHandler(manager *Manager, chatAPI ChatAPI, notifier NotifierAPI, cfg *config.Config) *Handler {
	allowed := cfg.WS.AllowedOrigins
	return &Handler{
		manager:  manager,
		chat:     chatAPI,
		notifier: notifier,
		sendBuf:  cfg.WS.SendBufferSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowed),
		},
	}
}

// originChecker allows everything when no origins are configured (local
// development); otherwise the Origin header must match the list exactly.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// Serve authenticates the request and, only then, upgrades it. A missing,
// malformed or expired token is rejected with 401 before the upgrade so no
// unauthenticated socket ever registers.
func (h *Handler) Serve(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	claims, err := auth.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(claims.UserID, conn, h.manager, h.chat, h.notifier, h.sendBuf)
	h.manager.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// bearerToken pulls the JWT from the Authorization header or, for browser
// websocket clients that cannot set headers, from the token query parameter.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}
