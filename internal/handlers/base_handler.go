package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"giglink_backend/internal/logger"
	"giglink_backend/internal/middleware"
	"giglink_backend/internal/validator"
	"giglink_backend/pkg/apperrors"
)

// BaseHandler carries the shared request plumbing: binding, validation, error
// rendering and identity extraction. Concrete handlers embed it.
type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{validator: v}
}

// BindAndValidateJSON binds the JSON body and runs the domain validation
// rules. On failure it writes the error response and returns false.
func (h *BaseHandler) BindAndValidateJSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWarn(ctx, "failed to bind JSON body", "path", c.Request.URL.Path, "error", err)
		h.renderError(c, apperrors.ValidationError("Invalid request body: "+err.Error()))
		return false
	}

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "validation failed", "path", c.Request.URL.Path, "errors", vErr.Errors)
			h.renderError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxError(ctx, "internal validator error", "path", c.Request.URL.Path, "error", err)
			h.renderError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

// HandleServiceError maps a service error onto the wire. Anything that is not
// an *AppError is reported as a generic internal error so internals never
// leak.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		logger.CtxWarn(ctx, "service error",
			"code", string(appErr.Code),
			"message", appErr.Message,
			"path", c.Request.URL.Path,
		)
		h.renderError(c, appErr)
		return
	}

	logger.CtxError(ctx, "internal server error", "path", c.Request.URL.Path, "error", err)
	h.renderError(c, apperrors.InternalError(err))
}

func (h *BaseHandler) renderError(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.HTTPCode, gin.H{"error": appErr})
}

// AuthorizedUserID pulls the authenticated user id set by AuthMiddleware; a
// missing id means the middleware chain is broken and the request is rejected.
func (h *BaseHandler) AuthorizedUserID(c *gin.Context) (string, bool) {
	userID := middleware.UserID(c)
	if userID == "" {
		logger.CtxWarn(c.Request.Context(), "request without authenticated user",
			"path", c.Request.URL.Path, "ip", c.ClientIP())
		h.renderError(c, apperrors.UnauthorizedError("User not authenticated"))
		return "", false
	}
	return userID, true
}

// ParseQueryInt reads an integer query parameter, falling back on absence or
// junk.
func ParseQueryInt(c *gin.Context, key string, defaultValue int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
