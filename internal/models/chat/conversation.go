package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is the single durable relation between two users. Participants
// are an unordered pair; UserLowID/UserHighID hold them in canonical order so
// the composite unique index can enforce "at most one conversation per pair".
// The ordering carries no other meaning.
type Conversation struct {
	ID                 string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserLowID          string    `gorm:"not null;uniqueIndex:idx_conversation_pair,priority:1;index" json:"user_low_id"`
	UserHighID         string    `gorm:"not null;uniqueIndex:idx_conversation_pair,priority:2;index" json:"user_high_id"`
	LastMessagePreview string    `json:"last_message_preview"`
	LastMessageTime    time.Time `json:"last_message_time"`
	CreatedAt          time.Time `json:"created_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CanonicalPair orders two user ids for the uniqueness key.
func CanonicalPair(userA, userB string) (low, high string) {
	if userA < userB {
		return userA, userB
	}
	return userB, userA
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Conversation) HasParticipant(userID string) bool {
	return c.UserLowID == userID || c.UserHighID == userID
}

// OtherParticipant returns the participant that is not userID. The caller must
// already know userID participates.
func (c *Conversation) OtherParticipant(userID string) string {
	if c.UserLowID == userID {
		return c.UserHighID
	}
	return c.UserLowID
}
