package chat

import (
	"context"

	"backoffice/internal/domain"
)

type Repository interface {
	CreateConversation(ctx context.Context, conv *domain.Conversation) error
	GetConversationByID(ctx context.Context, id int64) (*domain.Conversation, error)
	AddParticipant(ctx context.Context, conversationID, userID int64) error
	IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error)
	GetParticipantIDs(ctx context.Context, conversationID int64) ([]int64, error)
	GetUserConversations(ctx context.Context, userID int64, limit, offset int) ([]domain.Conversation, error)
	UpdateLastMessageAt(ctx context.Context, conversationID int64) error

	CreateMessage(ctx context.Context, msg *domain.Message) error
	GetMessages(ctx context.Context, conversationID int64, limit int, beforeID *int64) ([]domain.Message, error)
	GetLastMessage(ctx context.Context, conversationID int64) (*domain.Message, error)
	MarkMessagesAsRead(ctx context.Context, conversationID, readerID int64) (int64, error)
	CountUnread(ctx context.Context, conversationID, userID int64) (int64, error)
	CountTotalUnread(ctx context.Context, userID int64) (int64, error)
}

// UserDirectory resolves participant profiles for the conversation list.
type UserDirectory interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error)
}
