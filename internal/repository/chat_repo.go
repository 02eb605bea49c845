package repository

import (
	"context"
	"errors"

	"backoffice/internal/domain"

	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	return r.db.WithContext(ctx).Create(conv).Error
}

func (r *ChatRepository) GetConversationByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.WithContext(ctx).First(&conv, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

func (r *ChatRepository) AddParticipant(ctx context.Context, conversationID, userID int64) error {
	p := &domain.ConversationParticipant{
		ConversationID: conversationID,
		UserID:         userID,
	}
	return r.db.WithContext(ctx).Create(p).Error
}

// IsParticipant checks membership before allowing reads or sends.
func (r *ChatRepository) IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *ChatRepository) GetParticipantIDs(ctx context.Context, conversationID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.ConversationParticipant{}).
		Where("conversation_id = ?", conversationID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *ChatRepository) GetUserConversations(ctx context.Context, userID int64, limit, offset int) ([]domain.Conversation, error) {
	sub := r.db.Model(&domain.ConversationParticipant{}).
		Select("conversation_id").
		Where("user_id = ?", userID)

	var convs []domain.Conversation
	err := r.db.WithContext(ctx).
		Where("id IN (?)", sub).
		Order("last_message_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&convs).Error
	return convs, err
}

// UpdateLastMessageAt is called after every sent message so the
// conversation list sorts by activity.
func (r *ChatRepository) UpdateLastMessageAt(ctx context.Context, conversationID int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", conversationID).
		Update("last_message_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

func (r *ChatRepository) CreateMessage(ctx context.Context, msg *domain.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// GetMessages returns messages in chronological order. beforeID paginates
// towards older messages.
func (r *ChatRepository) GetMessages(ctx context.Context, conversationID int64, limit int, beforeID *int64) ([]domain.Message, error) {
	query := r.db.WithContext(ctx).Where("conversation_id = ?", conversationID)
	if beforeID != nil && *beforeID > 0 {
		query = query.Where("id < ?", *beforeID)
	}

	var messages []domain.Message
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *ChatRepository) GetLastMessage(ctx context.Context, conversationID int64) (*domain.Message, error) {
	var msg domain.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

// MarkMessagesAsRead marks unread messages from other senders as read and
// returns how many were affected.
func (r *ChatRepository) MarkMessagesAsRead(ctx context.Context, conversationID, readerID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("conversation_id = ?", conversationID).
		Where("sender_id != ?", readerID).
		Where("is_read = ?", false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	return result.RowsAffected, result.Error
}

func (r *ChatRepository) CountUnread(ctx context.Context, conversationID, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("conversation_id = ?", conversationID).
		Where("sender_id != ?", userID).
		Where("is_read = ?", false).
		Count(&count).Error
	return count, err
}

func (r *ChatRepository) CountTotalUnread(ctx context.Context, userID int64) (int64, error) {
	sub := r.db.Model(&domain.ConversationParticipant{}).
		Select("conversation_id").
		Where("user_id = ?", userID)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("conversation_id IN (?)", sub).
		Where("sender_id != ?", userID).
		Where("is_read = ?", false).
		Count(&count).Error
	return count, err
}
