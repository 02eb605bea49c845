package mail

import (
	"context"
	"strings"

	"backoffice/internal/domain"
)

type Service struct {
	repo   Repository
	sender Sender
}

func NewService(repo Repository, sender Sender) *Service {
	return &Service{repo: repo, sender: sender}
}

// Send stores the message in the sender's sent folder first, then attempts
// SMTP delivery. The stored copy survives a failed delivery.
func (s *Service) Send(ctx context.Context, ownerID int64, fromAddress string, req SendMailRequest) (*SendResult, error) {
	if strings.TrimSpace(req.To) == "" || strings.TrimSpace(req.Subject) == "" {
		return nil, ErrValidation
	}

	e := &domain.Email{
		OwnerID:     ownerID,
		Folder:      domain.FolderSent,
		FromAddress: fromAddress,
		ToAddress:   req.To,
		Subject:     req.Subject,
		Body:        req.Body,
		IsRead:      true,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	status := s.sender.Send(req.To, req.Subject, req.Body)
	return &SendResult{Email: e, Delivery: status}, nil
}

// Receive files an inbound message into the owner's inbox. Used by the
// intake endpoint and the seeder.
func (s *Service) Receive(ctx context.Context, ownerID int64, fromAddress, toAddress, subject, body string) (*domain.Email, error) {
	e := &domain.Email{
		OwnerID:     ownerID,
		Folder:      domain.FolderInbox,
		FromAddress: fromAddress,
		ToAddress:   toAddress,
		Subject:     subject,
		Body:        body,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) ListFolder(ctx context.Context, ownerID int64, folder domain.MailFolder, limit, offset int) ([]domain.Email, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	switch folder {
	case domain.FolderInbox, domain.FolderSent, domain.FolderStarred, domain.FolderTrash:
	default:
		return nil, ErrValidation
	}
	return s.repo.ListFolder(ctx, ownerID, folder, limit, offset)
}

func (s *Service) Get(ctx context.Context, ownerID, id int64) (*domain.Email, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.OwnerID != ownerID {
		return nil, ErrValidation
	}
	return e, nil
}

func (s *Service) MarkRead(ctx context.Context, ownerID, id int64, read bool) error {
	return s.repo.SetFlag(ctx, ownerID, id, "is_read", read)
}

func (s *Service) Star(ctx context.Context, ownerID, id int64, starred bool) error {
	return s.repo.SetFlag(ctx, ownerID, id, "is_starred", starred)
}

// Trash moves a message in or out of the trash view without touching its
// home folder, so restore puts it back where it came from.
func (s *Service) Trash(ctx context.Context, ownerID, id int64, trashed bool) error {
	return s.repo.SetFlag(ctx, ownerID, id, "is_trashed", trashed)
}

func (s *Service) UnreadCount(ctx context.Context, ownerID int64) (int64, error) {
	return s.repo.CountUnread(ctx, ownerID)
}
