package dto

import (
	"time"

	"giglink_backend/internal/models/chat"
)

type SendMessageInput struct {
	ConversationID string  `json:"conversation_id" binding:"required"`
	SenderID       string  `json:"-"`
	ReceiverID     string  `json:"receiver_id"`
	Kind           string  `json:"kind" validate:"message-kind"`
	Body           string  `json:"body"`
	MediaURL       *string `json:"media_url,omitempty"`
}

// ConversationSummary is one row of the conversation list: the other
// participant's display data plus the denormalized preview and unread count.
type ConversationSummary struct {
	ID                 string    `json:"id"`
	OtherUserID        string    `json:"other_user_id"`
	OtherUserName      string    `json:"other_user_name"`
	OtherUserAvatar    string    `json:"other_user_avatar"`
	OtherUserKind      string    `json:"other_user_kind"`
	OtherUserOnline    bool      `json:"other_user_online"`
	LastMessagePreview string    `json:"last_message_preview"`
	LastMessageTime    time.Time `json:"last_message_time"`
	UnreadCount        int64     `json:"unread_count"`
}

type MessagePage struct {
	Messages []chat.Message `json:"messages"`
	Count    int            `json:"count"`
}
