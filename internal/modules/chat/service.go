package chat

import (
	"context"
	"strings"

	"backoffice/internal/domain"
)

type Service struct {
	repo  Repository
	users UserDirectory
	hub   *Hub
}

func NewService(repo Repository, users UserDirectory, hub *Hub) *Service {
	return &Service{repo: repo, users: users, hub: hub}
}

// CreateConversation opens a thread with the creator plus the listed
// participants. The creator is always a member even if omitted from the
// request.
func (s *Service) CreateConversation(ctx context.Context, creatorID int64, req CreateConversationRequest) (*domain.Conversation, *domain.Message, error) {
	memberSet := map[int64]bool{creatorID: true}
	for _, id := range req.ParticipantIDs {
		if id > 0 {
			memberSet[id] = true
		}
	}
	if len(memberSet) < 2 {
		return nil, nil, ErrValidation
	}

	conv := &domain.Conversation{Title: req.Title}
	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		return nil, nil, err
	}
	for id := range memberSet {
		if err := s.repo.AddParticipant(ctx, conv.ID, id); err != nil {
			return nil, nil, err
		}
	}

	var initial *domain.Message
	if strings.TrimSpace(req.InitialMessage) != "" {
		msg, err := s.SendMessage(ctx, creatorID, conv.ID, SendMessageRequest{Content: req.InitialMessage})
		if err != nil {
			return nil, nil, err
		}
		initial = msg
	}

	s.decorate(ctx, conv, creatorID)
	return conv, initial, nil
}

// ListConversations returns the user's threads sorted by activity, each
// decorated with participants, last message and unread count.
func (s *Service) ListConversations(ctx context.Context, userID int64, limit, offset int) ([]domain.Conversation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	convs, err := s.repo.GetUserConversations(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range convs {
		s.decorate(ctx, &convs[i], userID)
	}
	return convs, nil
}

func (s *Service) GetMessages(ctx context.Context, userID, conversationID int64, limit int, beforeID *int64) ([]domain.Message, bool, error) {
	ok, err := s.repo.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, ErrNotParticipant
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	// Fetch one extra row to learn whether older messages remain.
	msgs, err := s.repo.GetMessages(ctx, conversationID, limit+1, beforeID)
	if err != nil {
		return nil, false, err
	}
	hasMore := len(msgs) > limit
	if hasMore {
		msgs = msgs[1:]
	}
	return msgs, hasMore, nil
}

func (s *Service) SendMessage(ctx context.Context, senderID, conversationID int64, req SendMessageRequest) (*domain.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrValidation
	}

	ok, err := s.repo.IsParticipant(ctx, conversationID, senderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotParticipant
	}

	msg := &domain.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateLastMessageAt(ctx, conversationID); err != nil {
		return nil, err
	}

	// Online participants get the message pushed; everyone else picks it
	// up on the next poll.
	if s.hub != nil {
		if ids, err := s.repo.GetParticipantIDs(ctx, conversationID); err == nil {
			s.hub.Broadcast(ids, WSEvent{Type: "new_message", Message: msg})
		}
	}

	return msg, nil
}

func (s *Service) MarkAsRead(ctx context.Context, userID, conversationID int64) (int64, error) {
	ok, err := s.repo.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrNotParticipant
	}
	return s.repo.MarkMessagesAsRead(ctx, conversationID, userID)
}

func (s *Service) TotalUnread(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountTotalUnread(ctx, userID)
}

func (s *Service) IsParticipant(ctx context.Context, conversationID, userID int64) bool {
	ok, err := s.repo.IsParticipant(ctx, conversationID, userID)
	return err == nil && ok
}

func (s *Service) decorate(ctx context.Context, conv *domain.Conversation, viewerID int64) {
	if ids, err := s.repo.GetParticipantIDs(ctx, conv.ID); err == nil && len(ids) > 0 {
		if users, err := s.users.GetByIDs(ctx, ids); err == nil {
			conv.Participants = users
		}
	}
	if last, err := s.repo.GetLastMessage(ctx, conv.ID); err == nil {
		conv.LastMessage = last
	}
	if unread, err := s.repo.CountUnread(ctx, conv.ID, viewerID); err == nil {
		conv.UnreadCount = unread
	}
}
