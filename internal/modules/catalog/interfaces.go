package catalog

import (
	"context"

	"backoffice/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, c *domain.Concept) error
	GetByID(ctx context.Context, id int64) (*domain.Concept, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Concept, error)
	List(ctx context.Context, category string, activeOnly bool) ([]domain.Concept, error)
	Update(ctx context.Context, c *domain.Concept) error
	Delete(ctx context.Context, id int64) error

	CreatePriceHistory(ctx context.Context, h *domain.PriceHistory) error
	ListPriceHistory(ctx context.Context, conceptID int64) ([]domain.PriceHistory, error)

	ListCategories(ctx context.Context) ([]domain.ConceptCategory, error)
	CreateCategory(ctx context.Context, cat *domain.ConceptCategory) error
	RenameCategory(ctx context.Context, oldName, newName string) error
	DeleteCategory(ctx context.Context, name string) error

	UpsertOverride(ctx context.Context, o *domain.PriceOverride) error
	ListOverrides(ctx context.Context, collaboratorID int64) ([]domain.PriceOverride, error)
	DeleteOverride(ctx context.Context, conceptID, collaboratorID int64) error
}
