package contract

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrNotDraft         = errors.New("contract is not in draft")
	ErrTokenNotFound    = errors.New("signing token not found")
	ErrAlreadySigned    = errors.New("token has already been signed")
	ErrConsentRequired  = errors.New("both consents are required")
	ErrNoRepresentative = errors.New("no company representative available")
)
