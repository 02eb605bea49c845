package contract

import (
	"context"
	"time"

	"backoffice/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, c *domain.Contract) error
	GetByID(ctx context.Context, id int64) (*domain.Contract, error)
	List(ctx context.Context, limit, offset int) ([]domain.Contract, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ContractStatus) error

	CreateToken(ctx context.Context, t *domain.ContractToken) error
	GetToken(ctx context.Context, token string) (*domain.ContractToken, error)
	GetTokensByContract(ctx context.Context, contractID int64) ([]domain.ContractToken, error)
	MarkTokenSigned(ctx context.Context, tokenID int64, signedAt time.Time) error

	CreateSignature(ctx context.Context, s *domain.ContractSignature) error

	CreateHistory(ctx context.Context, h *domain.ContractHistory) error
	ListHistory(ctx context.Context, contractID int64) ([]domain.ContractHistory, error)
}

// UserDirectory resolves the company representative filling the vacant
// signer role.
type UserDirectory interface {
	FirstAdmin(ctx context.Context) (*domain.User, error)
}

// ArtifactStore persists signing artifacts and returns their public URLs.
type ArtifactStore interface {
	Save(path string, data []byte, contentType string) (string, error)
}
