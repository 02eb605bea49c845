package repository

import (
	"context"
	"errors"

	"backoffice/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConceptRepository struct {
	db *gorm.DB
}

func NewConceptRepository(db *gorm.DB) *ConceptRepository {
	return &ConceptRepository{db: db}
}

func (r *ConceptRepository) Create(ctx context.Context, c *domain.Concept) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ConceptRepository) GetByID(ctx context.Context, id int64) (*domain.Concept, error) {
	var c domain.Concept
	err := r.db.WithContext(ctx).First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ConceptRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Concept, error) {
	var cs []domain.Concept
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&cs).Error
	return cs, err
}

func (r *ConceptRepository) List(ctx context.Context, category string, activeOnly bool) ([]domain.Concept, error) {
	q := r.db.WithContext(ctx).Order("title")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var cs []domain.Concept
	err := q.Find(&cs).Error
	return cs, err
}

func (r *ConceptRepository) Update(ctx context.Context, c *domain.Concept) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ConceptRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Concept{}, id).Error
}

func (r *ConceptRepository) CreatePriceHistory(ctx context.Context, h *domain.PriceHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *ConceptRepository) ListPriceHistory(ctx context.Context, conceptID int64) ([]domain.PriceHistory, error) {
	var hs []domain.PriceHistory
	err := r.db.WithContext(ctx).
		Where("concept_id = ?", conceptID).
		Order("created_at DESC").
		Find(&hs).Error
	return hs, err
}

// ---- categories ----

func (r *ConceptRepository) ListCategories(ctx context.Context) ([]domain.ConceptCategory, error) {
	var cats []domain.ConceptCategory
	err := r.db.WithContext(ctx).Order("name").Find(&cats).Error
	return cats, err
}

func (r *ConceptRepository) CreateCategory(ctx context.Context, cat *domain.ConceptCategory) error {
	return r.db.WithContext(ctx).Create(cat).Error
}

// RenameCategory updates the lookup row and every concept carrying the
// old name.
func (r *ConceptRepository) RenameCategory(ctx context.Context, oldName, newName string) error {
	if err := r.db.WithContext(ctx).
		Model(&domain.ConceptCategory{}).
		Where("name = ?", oldName).
		Update("name", newName).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&domain.Concept{}).
		Where("category = ?", oldName).
		Update("category", newName).Error
}

// DeleteCategory removes the lookup row and nulls the category on affected
// concepts. The concepts themselves stay.
func (r *ConceptRepository) DeleteCategory(ctx context.Context, name string) error {
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Delete(&domain.ConceptCategory{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&domain.Concept{}).
		Where("category = ?", name).
		Update("category", nil).Error
}

// ---- collaborator price overrides ----

func (r *ConceptRepository) UpsertOverride(ctx context.Context, o *domain.PriceOverride) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "concept_id"}, {Name: "collaborator_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"price", "updated_at"}),
		}).
		Create(o).Error
}

func (r *ConceptRepository) ListOverrides(ctx context.Context, collaboratorID int64) ([]domain.PriceOverride, error) {
	var os []domain.PriceOverride
	err := r.db.WithContext(ctx).
		Where("collaborator_id = ?", collaboratorID).
		Find(&os).Error
	return os, err
}

func (r *ConceptRepository) DeleteOverride(ctx context.Context, conceptID, collaboratorID int64) error {
	return r.db.WithContext(ctx).
		Where("concept_id = ? AND collaborator_id = ?", conceptID, collaboratorID).
		Delete(&domain.PriceOverride{}).Error
}
