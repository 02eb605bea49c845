package chat

import "errors"

var (
	ErrValidation     = errors.New("validation error")
	ErrNotParticipant = errors.New("user is not a participant of this conversation")
)
