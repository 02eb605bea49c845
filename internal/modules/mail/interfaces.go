package mail

import (
	"context"

	"backoffice/internal/domain"
	"backoffice/internal/pkg/mailer"
)

type Repository interface {
	Create(ctx context.Context, e *domain.Email) error
	GetByID(ctx context.Context, id int64) (*domain.Email, error)
	ListFolder(ctx context.Context, ownerID int64, folder domain.MailFolder, limit, offset int) ([]domain.Email, error)
	SetFlag(ctx context.Context, ownerID, id int64, column string, value bool) error
	CountUnread(ctx context.Context, ownerID int64) (int64, error)
}

type Sender interface {
	Send(to, subject, htmlBody string) mailer.Status
}
