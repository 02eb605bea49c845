package repository

import (
	"context"
	"errors"
	"time"

	"backoffice/internal/domain"

	"gorm.io/gorm"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) Create(ctx context.Context, c *domain.Contract) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ContractRepository) GetByID(ctx context.Context, id int64) (*domain.Contract, error) {
	var c domain.Contract
	err := r.db.WithContext(ctx).First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ContractRepository) List(ctx context.Context, limit, offset int) ([]domain.Contract, error) {
	var cs []domain.Contract
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&cs).Error
	return cs, err
}

func (r *ContractRepository) UpdateStatus(ctx context.Context, id int64, status domain.ContractStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Contract{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// ---- tokens ----

func (r *ContractRepository) CreateToken(ctx context.Context, t *domain.ContractToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *ContractRepository) GetToken(ctx context.Context, token string) (*domain.ContractToken, error) {
	var t domain.ContractToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *ContractRepository) GetTokensByContract(ctx context.Context, contractID int64) ([]domain.ContractToken, error) {
	var ts []domain.ContractToken
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Find(&ts).Error
	return ts, err
}

func (r *ContractRepository) MarkTokenSigned(ctx context.Context, tokenID int64, signedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.ContractToken{}).
		Where("id = ?", tokenID).
		Update("signed_at", signedAt).Error
}

// ---- signatures ----

func (r *ContractRepository) CreateSignature(ctx context.Context, s *domain.ContractSignature) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// ---- history ----

func (r *ContractRepository) CreateHistory(ctx context.Context, h *domain.ContractHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *ContractRepository) ListHistory(ctx context.Context, contractID int64) ([]domain.ContractHistory, error) {
	var hs []domain.ContractHistory
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at").
		Find(&hs).Error
	return hs, err
}
