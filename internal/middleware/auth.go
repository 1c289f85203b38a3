package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"giglink_backend/internal/auth"
	"giglink_backend/internal/logger"
)

const (
	ContextUserIDKey = "userID"
	ContextKindKey   = "accountKind"
)

// AuthMiddleware validates the Bearer token and binds the caller's identity to
// the gin context. Requests without a valid credential never reach a handler.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextKindKey, claims.Kind)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// UserID returns the authenticated user id bound by AuthMiddleware.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}
