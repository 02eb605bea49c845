package mail

import "errors"

var ErrValidation = errors.New("validation error")
