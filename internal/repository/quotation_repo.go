package repository

import (
	"context"
	"errors"
	"time"

	"backoffice/internal/domain"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

func (r *QuotationRepository) Create(ctx context.Context, q *domain.Quotation) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *QuotationRepository) GetByID(ctx context.Context, id int64) (*domain.Quotation, error) {
	var q domain.Quotation
	err := r.db.WithContext(ctx).First(&q, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// GetFull loads the quotation together with its tabs, items and links.
// Tabs come back ordered by section and position.
func (r *QuotationRepository) GetFull(ctx context.Context, id int64) (*domain.Quotation, error) {
	q, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("quotation_id = ?", id).
		Order("section, position").
		Find(&q.Tabs).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("quotation_id = ?", id).
		Order("id").
		Find(&q.Items).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("quotation_id = ?", id).
		Find(&q.Links).Error; err != nil {
		return nil, err
	}
	return q, nil
}

func (r *QuotationRepository) GetByPublishToken(ctx context.Context, token string) (*domain.Quotation, error) {
	var q domain.Quotation
	err := r.db.WithContext(ctx).Where("publish_token = ?", token).First(&q).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r.GetFull(ctx, q.ID)
}

func (r *QuotationRepository) List(ctx context.Context, limit, offset int) ([]domain.Quotation, error) {
	var qs []domain.Quotation
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&qs).Error
	return qs, err
}

func (r *QuotationRepository) UpdateStatus(ctx context.Context, id int64, status domain.QuotationStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Quotation{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// MaxLineageVersion returns the highest version among the lineage of rootID:
// the root row itself plus every duplicate pointing at it.
func (r *QuotationRepository) MaxLineageVersion(ctx context.Context, rootID int64) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&domain.Quotation{}).
		Where("id = ? OR parent_id = ?", rootID, rootID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&max).Error
	return max, err
}

func (r *QuotationRepository) CreateTab(ctx context.Context, tab *domain.QuotationTab) error {
	return r.db.WithContext(ctx).Create(tab).Error
}

func (r *QuotationRepository) CreateItem(ctx context.Context, item *domain.QuotationItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *QuotationRepository) CreateLink(ctx context.Context, link *domain.TabLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

// SumItemTotals recomputes the subtotal from persisted items, ignoring the
// stored subtotal column.
func (r *QuotationRepository) SumItemTotals(ctx context.Context, quotationID int64) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).
		Model(&domain.QuotationItem{}).
		Where("quotation_id = ?", quotationID).
		Select("COALESCE(SUM(total), 0)").
		Scan(&sum).Error
	return sum, err
}

// SetPublishState stamps the publish token/date and totals in one update.
func (r *QuotationRepository) SetPublishState(ctx context.Context, id int64, token string, publishedAt time.Time, subtotal, tax, total float64) error {
	return r.db.WithContext(ctx).
		Model(&domain.Quotation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"publish_token": token,
			"published_at":  publishedAt,
			"subtotal":      subtotal,
			"tax":           tax,
			"total":         total,
		}).Error
}

func (r *QuotationRepository) SetPaylink(ctx context.Context, id int64, url, productID, priceID, linkID string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Quotation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"paylink_url":        url,
			"paylink_product_id": productID,
			"paylink_price_id":   priceID,
			"paylink_link_id":    linkID,
		}).Error
}

// ClearPublishState removes the token, publish date and every paylink field.
func (r *QuotationRepository) ClearPublishState(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.Quotation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"publish_token":      nil,
			"published_at":       nil,
			"paylink_url":        nil,
			"paylink_product_id": nil,
			"paylink_price_id":   nil,
			"paylink_link_id":    nil,
		}).Error
}

func (r *QuotationRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&domain.Quotation{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *QuotationRepository) Delete(ctx context.Context, id int64) error {
	// Children first, then the row. Same no-transaction sequencing as every
	// other multi-table write in this service.
	if err := r.db.WithContext(ctx).Where("quotation_id = ?", id).Delete(&domain.TabLink{}).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Where("quotation_id = ?", id).Delete(&domain.QuotationItem{}).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Where("quotation_id = ?", id).Delete(&domain.QuotationTab{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&domain.Quotation{}, id).Error
}
