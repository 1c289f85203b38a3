package ws

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"

	"giglink_backend/internal/logger"
	"giglink_backend/internal/models/chat"
	"giglink_backend/internal/services/dto"
	"giglink_backend/pkg/apperrors"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// ChatAPI is the slice of the chat service the gateway needs. Every message
// mutation goes through it; the gateway itself never touches storage.
type ChatAPI interface {
	ConversationForUser(conversationID, userID string) (*chat.Conversation, error)
	SendMessage(input dto.SendMessageInput) (*chat.Message, error)
	MarkMessageRead(messageID, readerID string) (*chat.Message, error)
	MarkConversationRead(conversationID, readerID string) error
	SenderName(userID string) string
}

// NotifierAPI records a missed-message notification for offline receivers.
type NotifierAPI interface {
	NotifyMissedMessage(receiverID, senderName, conversationID string) error
}

// Client is one authenticated websocket connection. A user may hold several at
// once; each gets its own send queue and pump goroutines.
type Client struct {
	UserID string

	conn     *websocket.Conn
	send     chan Event
	manager  *Manager
	chat     ChatAPI
	notifier NotifierAPI
}

func NewClient(userID string, conn *websocket.Conn, manager *Manager, chatAPI ChatAPI, notifier NotifierAPI, sendBuffer int) *Client {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	return &Client{
		UserID:   userID,
		conn:     conn,
		send:     make(chan Event, sendBuffer),
		manager:  manager,
		chat:     chatAPI,
		notifier: notifier,
	}
}

// ReadPump consumes frames until the connection drops, dispatching each
// envelope. It owns unregistration: when it returns the connection is gone.
func (c *Client) ReadPump() {
	defer func() {
		c.manager.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WSLog("unexpected close", c.UserID)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.sendError("malformed frame")
			continue
		}
		c.handleEnvelope(env)
	}
}

// WritePump drains the send queue onto the wire and keeps the connection alive
// with pings. It exits when the send channel is closed by Unregister.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleEnvelope(env Envelope) {
	switch env.Action {
	case ActionJoinConversation:
		c.handleJoin(env.Data)
	case ActionLeaveConversation:
		c.handleLeave(env.Data)
	case ActionSendMessage:
		c.handleSendMessage(env.Data)
	case ActionTyping:
		c.handleTyping(env.Data, true)
	case ActionStopTyping:
		c.handleTyping(env.Data, false)
	case ActionMessageRead:
		c.handleMessageRead(env.Data)
	case ActionMarkConversationRead:
		c.handleMarkConversationRead(env.Data)
	case ActionGetOnlineUsers:
		c.enqueue(Event{Event: EventOnlineUsersList, Data: OnlineUsersEvent{Users: c.manager.OnlineUsers()}})
	default:
		c.sendError("unknown action")
	}
}

// handleJoin subscribes the connection to a conversation room after verifying
// the caller is a participant. Non-members get an error and no subscription.
func (c *Client) handleJoin(raw json.RawMessage) {
	var p ConversationPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.ConversationID == "" {
		c.sendError("conversation_id is required")
		return
	}

	if _, err := c.chat.ConversationForUser(p.ConversationID, c.UserID); err != nil {
		c.sendError(errorMessage(err))
		return
	}
	c.manager.JoinRoom(c, p.ConversationID)
	logger.WSLog("join "+p.ConversationID, c.UserID)
}

func (c *Client) handleLeave(raw json.RawMessage) {
	var p ConversationPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.ConversationID == "" {
		c.sendError("conversation_id is required")
		return
	}
	c.manager.LeaveRoom(c, p.ConversationID)
}

// handleSendMessage persists the message first and broadcasts only after the
// row is durable. Room members get the full message; the receiver's personal
// channel gets an alert so unopened conversations still update. A receiver
// with no live connection gets a stored notification instead.
func (c *Client) handleSendMessage(raw json.RawMessage) {
	var p SendMessagePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		c.sendError("malformed send_message payload")
		return
	}

	msg, err := c.chat.SendMessage(dto.SendMessageInput{
		ConversationID: p.ConversationID,
		SenderID:       c.UserID,
		ReceiverID:     p.ReceiverID,
		Kind:           p.Kind,
		Body:           p.Body,
		MediaURL:       p.MediaURL,
	})
	if err != nil {
		c.sendError(errorMessage(err))
		return
	}

	c.manager.BroadcastToConversation(msg.ConversationID, Event{Event: EventReceiveMessage, Data: msg})

	senderName := c.chat.SenderName(c.UserID)
	c.manager.BroadcastToUser(msg.ReceiverID, Event{
		Event: EventNewMessageNotification,
		Data: NewMessageAlert{
			ConversationID: msg.ConversationID,
			SenderID:       msg.SenderID,
			SenderName:     senderName,
			Preview:        alertPreview(msg),
		},
	})

	if !c.manager.IsOnline(msg.ReceiverID) {
		if err := c.notifier.NotifyMissedMessage(msg.ReceiverID, senderName, msg.ConversationID); err != nil {
			logger.Error("missed-message notification failed",
				"receiver_id", msg.ReceiverID, "error", err)
		}
	}
}

// handleTyping relays typing state to the other participant's personal
// channel. Nothing is persisted and errors are not reported back; a lost
// typing frame is harmless.
func (c *Client) handleTyping(raw json.RawMessage, started bool) {
	var p TypingPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.ConversationID == "" || p.ReceiverID == "" {
		return
	}

	event := EventUserStopTyping
	if started {
		event = EventUserTyping
	}
	c.manager.BroadcastToUser(p.ReceiverID, Event{
		Event: event,
		Data:  TypingEvent{ConversationID: p.ConversationID, UserID: c.UserID},
	})
}

// handleMessageRead marks a single message read and sends the receipt to the
// original sender's personal channel.
func (c *Client) handleMessageRead(raw json.RawMessage) {
	var p MessageReadPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.MessageID == "" {
		c.sendError("message_id is required")
		return
	}

	msg, err := c.chat.MarkMessageRead(p.MessageID, c.UserID)
	if err != nil {
		c.sendError(errorMessage(err))
		return
	}

	c.manager.BroadcastToUser(msg.SenderID, Event{
		Event: EventMessageReadReceipt,
		Data: ReadReceiptEvent{
			ConversationID: msg.ConversationID,
			MessageID:      msg.ID,
			ReadBy:         c.UserID,
			ReadAt:         time.Now(),
		},
	})
}

func (c *Client) handleMarkConversationRead(raw json.RawMessage) {
	var p ConversationPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.ConversationID == "" {
		c.sendError("conversation_id is required")
		return
	}

	if err := c.chat.MarkConversationRead(p.ConversationID, c.UserID); err != nil {
		c.sendError(errorMessage(err))
	}
}

// sendError reports a failure to this connection only; other participants
// never see another client's errors.
func (c *Client) sendError(message string) {
	c.enqueue(Event{Event: EventMessageError, Data: ErrorEvent{Message: message}})
}

func (c *Client) enqueue(event Event) {
	c.manager.deliver(c, event)
}

func errorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}

func alertPreview(msg *chat.Message) string {
	if msg.Kind == chat.MessageKindMedia && msg.Body == "" {
		return "Media attachment"
	}
	runes := []rune(msg.Body)
	if len(runes) > 50 {
		return string(runes[:50])
	}
	return msg.Body
}
