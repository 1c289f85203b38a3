package models

import "time"

// BookingRequest is a proposal from one user to another for an event
// engagement, governed by the state machine in statuses.go.
type BookingRequest struct {
	BaseModel
	SenderID            string        `gorm:"not null;index" json:"sender_id"`
	ReceiverID          string        `gorm:"not null;index" json:"receiver_id"`
	RequestType         string        `json:"request_type"`
	EventDate           time.Time     `gorm:"not null" json:"event_date"`
	EventTime           *string       `json:"event_time,omitempty"`
	DurationHours       *int          `json:"duration_hours,omitempty"`
	Budget              *float64      `json:"budget,omitempty"`
	EventType           string        `json:"event_type"`
	SpecialRequirements string        `json:"special_requirements"`
	Message             string        `json:"message"`
	Status              BookingStatus `gorm:"default:'pending';index" json:"status"`
}

func (BookingRequest) TableName() string {
	return "booking_requests"
}

// OtherParty returns the participant of the booking that is not userID, and
// whether userID is a participant at all.
func (b *BookingRequest) OtherParty(userID string) (string, bool) {
	switch userID {
	case b.SenderID:
		return b.ReceiverID, true
	case b.ReceiverID:
		return b.SenderID, true
	default:
		return "", false
	}
}
