package chat

import (
	"context"
	"testing"

	"backoffice/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	args := m.Called(ctx, conv)
	if conv != nil && conv.ID == 0 {
		conv.ID = 200
	}
	return args.Error(0)
}

func (m *MockChatRepository) GetConversationByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockChatRepository) AddParticipant(ctx context.Context, conversationID, userID int64) error {
	args := m.Called(ctx, conversationID, userID)
	return args.Error(0)
}

func (m *MockChatRepository) IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error) {
	args := m.Called(ctx, conversationID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockChatRepository) GetParticipantIDs(ctx context.Context, conversationID int64) ([]int64, error) {
	args := m.Called(ctx, conversationID)
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockChatRepository) GetUserConversations(ctx context.Context, userID int64, limit, offset int) ([]domain.Conversation, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Conversation), args.Error(1)
}

func (m *MockChatRepository) UpdateLastMessageAt(ctx context.Context, conversationID int64) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}

func (m *MockChatRepository) CreateMessage(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	if msg != nil && msg.ID == 0 {
		msg.ID = 900
	}
	return args.Error(0)
}

func (m *MockChatRepository) GetMessages(ctx context.Context, conversationID int64, limit int, beforeID *int64) ([]domain.Message, error) {
	args := m.Called(ctx, conversationID, limit, beforeID)
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockChatRepository) GetLastMessage(ctx context.Context, conversationID int64) (*domain.Message, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockChatRepository) MarkMessagesAsRead(ctx context.Context, conversationID, readerID int64) (int64, error) {
	args := m.Called(ctx, conversationID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatRepository) CountUnread(ctx context.Context, conversationID, userID int64) (int64, error) {
	args := m.Called(ctx, conversationID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatRepository) CountTotalUnread(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.User), args.Error(1)
}

func TestService_CreateConversation_AlwaysIncludesCreator(t *testing.T) {
	repo := new(MockChatRepository)
	users := new(MockUserDirectory)

	repo.On("CreateConversation", mock.Anything, mock.Anything).Return(nil)

	var added []int64
	repo.On("AddParticipant", mock.Anything, int64(200), mock.Anything).Run(func(args mock.Arguments) {
		added = append(added, args.Get(2).(int64))
	}).Return(nil)
	repo.On("GetParticipantIDs", mock.Anything, int64(200)).Return([]int64{1, 2}, nil)
	users.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.User{{ID: 1}, {ID: 2}}, nil)
	repo.On("GetLastMessage", mock.Anything, int64(200)).Return(nil, nil)
	repo.On("CountUnread", mock.Anything, int64(200), int64(1)).Return(int64(0), nil)

	service := NewService(repo, users, nil)

	conv, initial, err := service.CreateConversation(context.Background(), 1, CreateConversationRequest{
		ParticipantIDs: []int64{2},
	})

	assert.NoError(t, err)
	assert.Nil(t, initial)
	assert.Len(t, added, 2)
	assert.ElementsMatch(t, []int64{1, 2}, added)
	assert.Len(t, conv.Participants, 2)
}

func TestService_CreateConversation_NeedsAnotherParticipant(t *testing.T) {
	service := NewService(new(MockChatRepository), new(MockUserDirectory), nil)

	// Only the creator, directly or via self-listing.
	_, _, err := service.CreateConversation(context.Background(), 1, CreateConversationRequest{
		ParticipantIDs: []int64{1},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_SendMessage_RequiresParticipation(t *testing.T) {
	repo := new(MockChatRepository)
	repo.On("IsParticipant", mock.Anything, int64(200), int64(9)).Return(false, nil)

	service := NewService(repo, new(MockUserDirectory), nil)

	_, err := service.SendMessage(context.Background(), 9, 200, SendMessageRequest{Content: "hola"})
	assert.ErrorIs(t, err, ErrNotParticipant)
	repo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestService_SendMessage_BumpsActivityAndBroadcasts(t *testing.T) {
	repo := new(MockChatRepository)
	repo.On("IsParticipant", mock.Anything, int64(200), int64(1)).Return(true, nil)
	repo.On("CreateMessage", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpdateLastMessageAt", mock.Anything, int64(200)).Return(nil)
	repo.On("GetParticipantIDs", mock.Anything, int64(200)).Return([]int64{1, 2}, nil)

	service := NewService(repo, new(MockUserDirectory), NewHub())

	msg, err := service.SendMessage(context.Background(), 1, 200, SendMessageRequest{Content: "  hola  "})

	assert.NoError(t, err)
	assert.Equal(t, "hola", msg.Content)
	repo.AssertCalled(t, "UpdateLastMessageAt", mock.Anything, int64(200))
}

func TestService_SendMessage_RejectsBlank(t *testing.T) {
	service := NewService(new(MockChatRepository), new(MockUserDirectory), nil)

	_, err := service.SendMessage(context.Background(), 1, 200, SendMessageRequest{Content: "   "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_GetMessages_PaginationFlag(t *testing.T) {
	repo := new(MockChatRepository)
	repo.On("IsParticipant", mock.Anything, int64(200), int64(1)).Return(true, nil)

	// Three rows against limit 2 means older messages remain.
	msgs := []domain.Message{{ID: 5}, {ID: 6}, {ID: 7}}
	repo.On("GetMessages", mock.Anything, int64(200), 3, (*int64)(nil)).Return(msgs, nil)

	service := NewService(repo, new(MockUserDirectory), nil)

	out, hasMore, err := service.GetMessages(context.Background(), 1, 200, 2, nil)

	assert.NoError(t, err)
	assert.True(t, hasMore)
	assert.Len(t, out, 2)
	assert.Equal(t, int64(6), out[0].ID)
}
