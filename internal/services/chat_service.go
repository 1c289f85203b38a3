package services

import (
	"errors"
	"time"

	"giglink_backend/internal/logger"
	"giglink_backend/internal/models/chat"
	"giglink_backend/internal/repositories"
	"giglink_backend/internal/services/dto"
	"giglink_backend/pkg/apperrors"
)

const (
	previewMaxLen    = 50
	touchRetryLimit  = 3
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// PresenceChecker reports whether a user currently holds a live realtime
// connection. Implemented by the websocket manager; nil means "everyone
// offline" (e.g. in tests without a gateway).
type PresenceChecker interface {
	IsOnline(userID string) bool
}

// ChatService is the conversation directory and the message log: it owns
// conversation resolution, message persistence and read state. The realtime
// gateway layers broadcast on top of it and never bypasses it.
type ChatService struct {
	convRepo repositories.ConversationRepository
	msgRepo  repositories.MessageRepository
	userRepo repositories.UserRepository
	presence PresenceChecker
}

func NewChatService(
	convRepo repositories.ConversationRepository,
	msgRepo repositories.MessageRepository,
	userRepo repositories.UserRepository,
) *ChatService {
	return &ChatService{
		convRepo: convRepo,
		msgRepo:  msgRepo,
		userRepo: userRepo,
	}
}

// SetPresenceChecker wires the realtime manager in after construction; the
// manager itself depends on this service, so the link is set late.
func (s *ChatService) SetPresenceChecker(p PresenceChecker) {
	s.presence = p
}

// GetOrCreateConversation resolves the single conversation between the caller
// and otherUserID, creating it on first contact. Exactly one conversation ever
// exists per unordered pair, even when both sides call concurrently.
func (s *ChatService) GetOrCreateConversation(userID, otherUserID string) (*chat.Conversation, error) {
	if otherUserID == "" || otherUserID == userID {
		return nil, apperrors.ValidationError("cannot start a conversation with yourself")
	}

	if _, err := s.userRepo.FindByID(otherUserID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NotFoundError("chat", "User not found")
		}
		return nil, apperrors.TransientStoreError(err)
	}

	conv, _, err := s.convRepo.GetOrCreate(userID, otherUserID, "")
	if err != nil {
		return nil, apperrors.TransientStoreError(err)
	}
	return conv, nil
}

// ConversationForUser loads a conversation the user participates in. A
// conversation the user is not part of is reported as not found rather than
// forbidden, so outsiders cannot probe which conversation ids exist.
func (s *ChatService) ConversationForUser(conversationID, userID string) (*chat.Conversation, error) {
	conv, err := s.convRepo.FindByID(conversationID)
	if err != nil {
		if errors.Is(err, repositories.ErrConversationNotFound) {
			return nil, apperrors.NotFoundError("chat", "Conversation not found")
		}
		return nil, apperrors.TransientStoreError(err)
	}
	if !conv.HasParticipant(userID) {
		return nil, apperrors.NotFoundError("chat", "Conversation not found")
	}
	return conv, nil
}

// ListConversations returns the caller's conversations newest-activity first,
// each with the other participant's display data, online flag and unread
// count.
func (s *ChatService) ListConversations(userID string) ([]dto.ConversationSummary, error) {
	convs, err := s.convRepo.ListForUser(userID)
	if err != nil {
		return nil, apperrors.TransientStoreError(err)
	}

	otherIDs := make([]string, 0, len(convs))
	for i := range convs {
		otherIDs = append(otherIDs, convs[i].OtherParticipant(userID))
	}

	users, err := s.userRepo.FindByIDs(otherIDs)
	if err != nil {
		return nil, apperrors.TransientStoreError(err)
	}

	summaries := make([]dto.ConversationSummary, 0, len(convs))
	for i := range convs {
		otherID := convs[i].OtherParticipant(userID)

		unread, err := s.msgRepo.UnreadCountInConversation(convs[i].ID, userID)
		if err != nil {
			return nil, apperrors.TransientStoreError(err)
		}

		summary := dto.ConversationSummary{
			ID:                 convs[i].ID,
			OtherUserID:        otherID,
			LastMessagePreview: convs[i].LastMessagePreview,
			LastMessageTime:    convs[i].LastMessageTime,
			UnreadCount:        unread,
		}
		if u, ok := users[otherID]; ok {
			summary.OtherUserName = u.Name
			summary.OtherUserAvatar = u.AvatarURL
			summary.OtherUserKind = string(u.Kind)
		}
		if s.presence != nil {
			summary.OtherUserOnline = s.presence.IsOnline(otherID)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// SendMessage appends a message to a conversation: validates the input,
// persists the row with is_read=false, then refreshes the conversation
// preview. Persist and touch are not one transaction; a failed touch is
// retried a few times and then dropped, because message durability outranks
// preview freshness.
func (s *ChatService) SendMessage(input dto.SendMessageInput) (*chat.Message, error) {
	kind := chat.MessageKind(input.Kind)
	if kind == "" {
		kind = chat.MessageKindText
	}
	if kind != chat.MessageKindText && kind != chat.MessageKindMedia {
		return nil, apperrors.ValidationError("unknown message kind")
	}
	if kind == chat.MessageKindText && input.Body == "" {
		return nil, apperrors.ValidationError("message body must not be empty")
	}
	if kind == chat.MessageKindMedia && (input.MediaURL == nil || *input.MediaURL == "") {
		return nil, apperrors.ValidationError("media message requires media_url")
	}

	conv, err := s.convRepo.FindByID(input.ConversationID)
	if err != nil {
		if errors.Is(err, repositories.ErrConversationNotFound) {
			return nil, apperrors.NotFoundError("chat", "Conversation not found")
		}
		return nil, apperrors.TransientStoreError(err)
	}
	if !conv.HasParticipant(input.SenderID) {
		return nil, apperrors.NotFoundError("chat", "Conversation not found")
	}

	// The receiver is always the conversation's other participant at send
	// time; a mismatched client-supplied receiver is rejected rather than
	// trusted.
	receiverID := conv.OtherParticipant(input.SenderID)
	if input.ReceiverID != "" && input.ReceiverID != receiverID {
		return nil, apperrors.ValidationError("receiver is not a participant of this conversation")
	}

	msg := &chat.Message{
		ConversationID: conv.ID,
		SenderID:       input.SenderID,
		ReceiverID:     receiverID,
		Kind:           kind,
		Body:           input.Body,
		MediaURL:       input.MediaURL,
		IsRead:         false,
	}
	if err := s.msgRepo.Create(msg); err != nil {
		return nil, apperrors.TransientStoreError(err)
	}

	s.touchWithRetry(conv.ID, previewOf(msg), msg.CreatedAt)

	return msg, nil
}

// touchWithRetry refreshes the preview after a successful append. The message
// is already durable, so on persistent failure we log and move on instead of
// rolling anything back.
func (s *ChatService) touchWithRetry(conversationID, preview string, at time.Time) {
	var err error
	for attempt := 0; attempt < touchRetryLimit; attempt++ {
		if err = s.convRepo.Touch(conversationID, preview, at); err == nil {
			return
		}
	}
	logger.Error("conversation preview update failed after retries",
		"conversation_id", conversationID, "error", err)
}

func previewOf(msg *chat.Message) string {
	if msg.Kind == chat.MessageKindMedia && msg.Body == "" {
		return "Media attachment"
	}
	runes := []rune(msg.Body)
	if len(runes) > previewMaxLen {
		return string(runes[:previewMaxLen])
	}
	return msg.Body
}

// GetMessages pages a conversation's history ascending by creation time.
func (s *ChatService) GetMessages(conversationID, requesterID string, limit, offset int) ([]chat.Message, error) {
	conv, err := s.convRepo.FindByID(conversationID)
	if err != nil {
		if errors.Is(err, repositories.ErrConversationNotFound) {
			return nil, apperrors.NotFoundError("chat", "Conversation not found")
		}
		return nil, apperrors.TransientStoreError(err)
	}
	if !conv.HasParticipant(requesterID) {
		return nil, apperrors.NotFoundError("chat", "Conversation not found")
	}

	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	msgs, err := s.msgRepo.Page(conversationID, limit, offset)
	if err != nil {
		return nil, apperrors.TransientStoreError(err)
	}
	return msgs, nil
}

// MarkConversationRead flips every unread message addressed to readerID in the
// conversation. Idempotent: the second call is a no-op. A message appended
// concurrently may or may not be included; that race is accepted.
func (s *ChatService) MarkConversationRead(conversationID, readerID string) error {
	conv, err := s.convRepo.FindByID(conversationID)
	if err != nil {
		if errors.Is(err, repositories.ErrConversationNotFound) {
			return apperrors.NotFoundError("chat", "Conversation not found")
		}
		return apperrors.TransientStoreError(err)
	}
	if !conv.HasParticipant(readerID) {
		return apperrors.NotFoundError("chat", "Conversation not found")
	}

	if _, err := s.msgRepo.MarkConversationRead(conversationID, readerID); err != nil {
		return apperrors.TransientStoreError(err)
	}
	return nil
}

// MarkMessageRead flips one message's read flag for the receipt path and
// returns the message so the gateway can address the sender.
func (s *ChatService) MarkMessageRead(messageID, readerID string) (*chat.Message, error) {
	msg, err := s.msgRepo.FindByID(messageID)
	if err != nil {
		if errors.Is(err, repositories.ErrMessageNotFound) {
			return nil, apperrors.NotFoundError("chat", "Message not found")
		}
		return nil, apperrors.TransientStoreError(err)
	}
	if msg.ReceiverID != readerID {
		return nil, apperrors.NotFoundError("chat", "Message not found")
	}

	if err := s.msgRepo.MarkMessageRead(messageID, readerID); err != nil {
		return nil, apperrors.TransientStoreError(err)
	}
	msg.IsRead = true
	return msg, nil
}

// UnreadCount is the caller's total unread messages across all conversations.
func (s *ChatService) UnreadCount(userID string) (int64, error) {
	count, err := s.msgRepo.UnreadCountForUser(userID)
	if err != nil {
		return 0, apperrors.TransientStoreError(err)
	}
	return count, nil
}

// SenderName resolves the display name used in message alerts; falls back to
// an empty string when the user row is gone.
func (s *ChatService) SenderName(userID string) string {
	u, err := s.userRepo.FindByID(userID)
	if err != nil {
		return ""
	}
	return u.Name
}
