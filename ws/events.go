package ws

import (
	"encoding/json"
	"time"
)

// Envelope is the client->server frame: an action tag plus an action-specific
// payload.
type Envelope struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// Event is the server->client frame.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Client -> server actions.
const (
	ActionJoinConversation     = "join_conversation"
	ActionLeaveConversation    = "leave_conversation"
	ActionSendMessage          = "send_message"
	ActionTyping               = "typing"
	ActionStopTyping           = "stop_typing"
	ActionMessageRead          = "message_read"
	ActionMarkConversationRead = "mark_conversation_read"
	ActionGetOnlineUsers       = "get_online_users"
)

// Server -> client events.
const (
	EventReceiveMessage         = "receive_message"
	EventNewMessageNotification = "new_message_notification"
	EventUserTyping             = "user_typing"
	EventUserStopTyping         = "user_stop_typing"
	EventMessageReadReceipt     = "message_read_receipt"
	EventUserOnline             = "user_online"
	EventUserOffline            = "user_offline"
	EventMessageError           = "message_error"
	EventOnlineUsersList        = "online_users_list"
)

type ConversationPayload struct {
	ConversationID string `json:"conversation_id"`
}

type SendMessagePayload struct {
	ConversationID string  `json:"conversation_id"`
	ReceiverID     string  `json:"receiver_id"`
	Body           string  `json:"body"`
	Kind           string  `json:"kind"`
	MediaURL       *string `json:"media_url,omitempty"`
}

type TypingPayload struct {
	ConversationID string `json:"conversation_id"`
	ReceiverID     string `json:"receiver_id"`
}

type MessageReadPayload struct {
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
	SenderID       string `json:"sender_id"`
}

type TypingEvent struct {
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
}

type NewMessageAlert struct {
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	SenderName     string `json:"sender_name"`
	Preview        string `json:"preview"`
}

type ReadReceiptEvent struct {
	ConversationID string    `json:"conversation_id"`
	MessageID      string    `json:"message_id"`
	ReadBy         string    `json:"read_by"`
	ReadAt         time.Time `json:"read_at"`
}

type PresenceEvent struct {
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

type ErrorEvent struct {
	Message string `json:"message"`
}

type OnlineUsersEvent struct {
	Users []string `json:"users"`
}
