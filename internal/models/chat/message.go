package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageKind string

const (
	MessageKindText  MessageKind = "text"
	MessageKindMedia MessageKind = "media"
)

// Message belongs to exactly one conversation and is append-only: no edits, no
// deletes. IsRead moves false -> true once and never reverts. CreatedAt is
// assigned by the server at persist time and orders the conversation history.
type Message struct {
	ID             string      `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID string      `gorm:"type:uuid;not null;index:idx_messages_conversation" json:"conversation_id"`
	SenderID       string      `gorm:"not null;index" json:"sender_id"`
	ReceiverID     string      `gorm:"not null;index:idx_messages_unread" json:"receiver_id"`
	Kind           MessageKind `gorm:"default:'text'" json:"kind"`
	Body           string      `gorm:"type:text" json:"body"`
	MediaURL       *string     `json:"media_url,omitempty"`
	IsRead         bool        `gorm:"default:false;index:idx_messages_unread" json:"is_read"`
	CreatedAt      time.Time   `gorm:"index:idx_messages_conversation" json:"created_at"`
}

func (Message) TableName() string {
	return "chat_messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
