package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"giglink_backend/internal/models/chat"
)

var ErrConversationNotFound = errors.New("conversation not found")

type ConversationRepository interface {
	// GetOrCreate resolves the single conversation for the unordered pair,
	// inserting one when absent. The returned flag reports whether a new row
	// was created. Safe under concurrent calls from both participants.
	GetOrCreate(userA, userB string, seedPreview string) (*chat.Conversation, bool, error)
	FindByID(id string) (*chat.Conversation, error)
	FindByPair(userA, userB string) (*chat.Conversation, error)
	// ListForUser returns the user's conversations ordered by last message
	// time descending, id descending on ties.
	ListForUser(userID string) ([]chat.Conversation, error)
	// Touch refreshes the denormalized preview fields. Last write wins.
	Touch(conversationID, preview string, at time.Time) error
}

type ConversationRepositoryImpl struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &ConversationRepositoryImpl{db: db}
}

func (r *ConversationRepositoryImpl) GetOrCreate(userA, userB string, seedPreview string) (*chat.Conversation, bool, error) {
	low, high := chat.CanonicalPair(userA, userB)

	conv := chat.Conversation{
		UserLowID:          low,
		UserHighID:         high,
		LastMessagePreview: seedPreview,
		LastMessageTime:    time.Now(),
	}

	// Insert-on-conflict against the canonical pair index serializes the
	// lookup-then-insert race: the loser's insert is a no-op and both callers
	// refetch the same row.
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_low_id"}, {Name: "user_high_id"}},
		DoNothing: true,
	}).Create(&conv)
	if res.Error != nil {
		return nil, false, res.Error
	}

	if res.RowsAffected > 0 {
		return &conv, true, nil
	}

	existing, err := r.FindByPair(userA, userB)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *ConversationRepositoryImpl) FindByID(id string) (*chat.Conversation, error) {
	var conv chat.Conversation
	if err := r.db.First(&conv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conv, nil
}

func (r *ConversationRepositoryImpl) FindByPair(userA, userB string) (*chat.Conversation, error) {
	low, high := chat.CanonicalPair(userA, userB)

	var conv chat.Conversation
	err := r.db.First(&conv, "user_low_id = ? AND user_high_id = ?", low, high).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conv, nil
}

func (r *ConversationRepositoryImpl) ListForUser(userID string) ([]chat.Conversation, error) {
	var convs []chat.Conversation
	err := r.db.
		Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Order("last_message_time DESC").
		Order("id DESC").
		Find(&convs).Error
	return convs, err
}

func (r *ConversationRepositoryImpl) Touch(conversationID, preview string, at time.Time) error {
	// Explicit column map, no dynamic SQL assembly.
	return r.db.Model(&chat.Conversation{}).
		Where("id = ?", conversationID).
		Updates(map[string]interface{}{
			"last_message_preview": preview,
			"last_message_time":    at,
		}).Error
}
