package mail

import (
	"backoffice/internal/domain"
	"backoffice/internal/pkg/mailer"
)

type SendMailRequest struct {
	To      string `json:"to" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

// SendResult pairs the stored copy with the delivery outcome. A failed
// delivery still leaves the copy in the sent folder.
type SendResult struct {
	Email    *domain.Email `json:"email"`
	Delivery mailer.Status `json:"delivery"`
}
