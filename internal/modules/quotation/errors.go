package quotation

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("quotation not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotPublished      = errors.New("quotation is not published")
)
