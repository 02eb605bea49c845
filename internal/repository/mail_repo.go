package repository

import (
	"context"
	"errors"

	"backoffice/internal/domain"

	"gorm.io/gorm"
)

type MailRepository struct {
	db *gorm.DB
}

func NewMailRepository(db *gorm.DB) *MailRepository {
	return &MailRepository{db: db}
}

func (r *MailRepository) Create(ctx context.Context, e *domain.Email) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *MailRepository) GetByID(ctx context.Context, id int64) (*domain.Email, error) {
	var e domain.Email
	err := r.db.WithContext(ctx).First(&e, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// ListFolder resolves the folder views: starred and trash are flag based,
// inbox/sent come from the folder column with trashed rows excluded.
func (r *MailRepository) ListFolder(ctx context.Context, ownerID int64, folder domain.MailFolder, limit, offset int) ([]domain.Email, error) {
	q := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)

	switch folder {
	case domain.FolderStarred:
		q = q.Where("is_starred = ? AND is_trashed = ?", true, false)
	case domain.FolderTrash:
		q = q.Where("is_trashed = ?", true)
	default:
		q = q.Where("folder = ? AND is_trashed = ?", folder, false)
	}

	var emails []domain.Email
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&emails).Error
	return emails, err
}

func (r *MailRepository) SetFlag(ctx context.Context, ownerID, id int64, column string, value bool) error {
	return r.db.WithContext(ctx).
		Model(&domain.Email{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Update(column, value).Error
}

func (r *MailRepository) CountUnread(ctx context.Context, ownerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Email{}).
		Where("owner_id = ? AND folder = ? AND is_read = ? AND is_trashed = ?",
			ownerID, domain.FolderInbox, false, false).
		Count(&count).Error
	return count, err
}
