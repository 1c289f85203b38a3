package dto

import "time"

type CreateBookingRequest struct {
	ReceiverID          string    `json:"receiver_id" binding:"required"`
	RequestType         string    `json:"request_type"`
	EventDate           time.Time `json:"event_date" binding:"required" validate:"future-date"`
	EventTime           *string   `json:"event_time,omitempty"`
	DurationHours       *int      `json:"duration_hours,omitempty" binding:"omitempty,min=1"`
	Budget              *float64  `json:"budget,omitempty" binding:"omitempty,min=0"`
	EventType           string    `json:"event_type"`
	SpecialRequirements string    `json:"special_requirements"`
	Message             string    `json:"message"`
}

type AddReviewRequest struct {
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	ReviewText string `json:"review_text" binding:"max=2000"`
}
