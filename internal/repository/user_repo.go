package repository

import (
	"context"
	"errors"
	"strings"

	"backoffice/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = strings.TrimSpace(strings.ToLower(u.Email))
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		// 23505 is the postgres unique_violation code; the sqlite driver
		// only gives us the message.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	var u domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	var us []domain.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&us).Error
	return us, err
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var us []domain.User
	err := r.db.WithContext(ctx).Order("name").Find(&us).Error
	return us, err
}

// FirstAdmin returns the company representative used to fill the vacant
// signer role on contracts.
func (r *UserRepository) FirstAdmin(ctx context.Context) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", domain.RoleAdmin, true).
		Order("id").
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}
