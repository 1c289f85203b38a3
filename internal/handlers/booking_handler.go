package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"giglink_backend/internal/models"
	"giglink_backend/internal/services"
	"giglink_backend/internal/services/dto"
)

type BookingHandler struct {
	*BaseHandler
	bookingService *services.BookingService
}

func NewBookingHandler(base *BaseHandler, bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{
		BaseHandler:    base,
		bookingService: bookingService,
	}
}

func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.Create)
		bookings.GET("/sent", h.GetSent)
		bookings.GET("/received", h.GetReceived)
		bookings.PUT("/:id/accept", h.Accept)
		bookings.PUT("/:id/reject", h.Reject)
		bookings.PUT("/:id/cancel", h.Cancel)
		bookings.PUT("/:id/complete", h.Complete)
		bookings.POST("/:id/review", h.AddReview)
	}
}

func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	booking, err := h.bookingService.Create(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) GetSent(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	bookings, err := h.bookingService.GetSent(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"total":    len(bookings),
	})
}

func (h *BookingHandler) GetReceived(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	bookings, err := h.bookingService.GetReceived(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"total":    len(bookings),
	})
}

func (h *BookingHandler) Accept(c *gin.Context) {
	h.runTransition(c, h.bookingService.Accept)
}

func (h *BookingHandler) Reject(c *gin.Context) {
	h.runTransition(c, h.bookingService.Reject)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	h.runTransition(c, h.bookingService.Cancel)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	h.runTransition(c, h.bookingService.Complete)
}

// runTransition is the shared shape of the four status endpoints: extract the
// actor, run the edge, return the updated booking.
func (h *BookingHandler) runTransition(c *gin.Context, fn func(bookingID, actorID string) (*models.BookingRequest, error)) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}
	bookingID := c.Param("id")

	booking, err := fn(bookingID, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) AddReview(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}
	bookingID := c.Param("id")

	var req dto.AddReviewRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	review, err := h.bookingService.AddReview(bookingID, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}
