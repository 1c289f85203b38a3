package repositories

import (
	"errors"

	"gorm.io/gorm"

	"giglink_backend/internal/models/chat"
)

var ErrMessageNotFound = errors.New("message not found")

type MessageRepository interface {
	Create(message *chat.Message) error
	FindByID(id string) (*chat.Message, error)
	// Page returns a slice of the conversation history ascending by creation
	// time, ids breaking ties, so successive pages concatenate gaplessly.
	Page(conversationID string, limit, offset int) ([]chat.Message, error)
	// MarkConversationRead flips is_read for every unread message addressed
	// to readerID in the conversation. Idempotent; returns rows affected.
	MarkConversationRead(conversationID, readerID string) (int64, error)
	// MarkMessageRead flips a single message addressed to readerID.
	MarkMessageRead(messageID, readerID string) error
	UnreadCountForUser(userID string) (int64, error)
	UnreadCountInConversation(conversationID, userID string) (int64, error)
}

type MessageRepositoryImpl struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &MessageRepositoryImpl{db: db}
}

func (r *MessageRepositoryImpl) Create(message *chat.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepositoryImpl) FindByID(id string) (*chat.Message, error) {
	var msg chat.Message
	if err := r.db.First(&msg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

func (r *MessageRepositoryImpl) Page(conversationID string, limit, offset int) ([]chat.Message, error) {
	var msgs []chat.Message
	err := r.db.
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&msgs).Error
	return msgs, err
}

func (r *MessageRepositoryImpl) MarkConversationRead(conversationID, readerID string) (int64, error) {
	res := r.db.Model(&chat.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_read = ?", conversationID, readerID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *MessageRepositoryImpl) MarkMessageRead(messageID, readerID string) error {
	// The receiver guard keeps a client from flipping someone else's flag;
	// already-read rows make this a no-op.
	return r.db.Model(&chat.Message{}).
		Where("id = ? AND receiver_id = ? AND is_read = ?", messageID, readerID, false).
		Update("is_read", true).Error
}

func (r *MessageRepositoryImpl) UnreadCountForUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&chat.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *MessageRepositoryImpl) UnreadCountInConversation(conversationID, userID string) (int64, error) {
	var count int64
	err := r.db.Model(&chat.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_read = ?", conversationID, userID, false).
		Count(&count).Error
	return count, err
}
