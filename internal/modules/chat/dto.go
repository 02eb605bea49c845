package chat

import "backoffice/internal/domain"

type CreateConversationRequest struct {
	Title          *string `json:"title"`
	ParticipantIDs []int64 `json:"participant_ids" binding:"required,min=1"`

	// Optional first message sent right after creation.
	InitialMessage string `json:"initial_message"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// WSEvent is the envelope pushed over the websocket connection.
type WSEvent struct {
	Type    string          `json:"type"`
	Message *domain.Message `json:"message,omitempty"`
}
