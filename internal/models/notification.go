package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is created as a side effect of booking transitions and missed
// message delivery, and consumed by the notifications surface.
type Notification struct {
	BaseModel
	UserID    string         `gorm:"not null;index" json:"user_id"`
	Type      string         `gorm:"not null" json:"type"` // booking_request, booking_accepted, booking_rejected, new_message
	Title     string         `gorm:"not null" json:"title"`
	Message   string         `json:"message"`
	Data      datatypes.JSON `json:"data,omitempty"` // related entity ids, e.g. {"booking_id": "..."}
	RelatedID *string        `gorm:"index" json:"related_id,omitempty"`
	IsRead    bool           `gorm:"default:false" json:"is_read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
}
