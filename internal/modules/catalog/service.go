package catalog

import (
	"context"
	"math"
	"strings"

	"backoffice/internal/domain"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateConceptRequest) (*domain.Concept, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrValidation
	}
	c := &domain.Concept{
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Category:       req.Category,
		Unit:           req.Unit,
		Price:          req.Price,
		Brand:          req.Brand,
		Model:          req.Model,
		SATCode:        req.SATCode,
		WarrantyMonths: req.WarrantyMonths,
		ExecutionTime:  req.ExecutionTime,
		ImageURL:       req.ImageURL,
		SpecSheetURL:   req.SpecSheetURL,
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Concept, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, category string, activeOnly bool) ([]domain.Concept, error) {
	return s.repo.List(ctx, category, activeOnly)
}

// Update applies the changed fields. A price change is logged to the price
// history, but only when the rounded value actually differs.
func (s *Service) Update(ctx context.Context, id, actorID int64, req UpdateConceptRequest) (*domain.Concept, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldPrice := c.Price

	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Category != nil {
		c.Category = *req.Category
	}
	if req.Unit != nil {
		c.Unit = *req.Unit
	}
	if req.Price != nil {
		c.Price = *req.Price
	}
	if req.Brand != nil {
		c.Brand = *req.Brand
	}
	if req.Model != nil {
		c.Model = *req.Model
	}
	if req.SATCode != nil {
		c.SATCode = *req.SATCode
	}
	if req.WarrantyMonths != nil {
		c.WarrantyMonths = *req.WarrantyMonths
	}
	if req.ExecutionTime != nil {
		c.ExecutionTime = *req.ExecutionTime
	}
	if req.ImageURL != nil {
		c.ImageURL = *req.ImageURL
	}
	if req.SpecSheetURL != nil {
		c.SpecSheetURL = *req.SpecSheetURL
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	if round2(c.Price) != round2(oldPrice) {
		h := &domain.PriceHistory{
			ConceptID: c.ID,
			OldPrice:  oldPrice,
			NewPrice:  c.Price,
			ChangedBy: actorID,
		}
		if err := s.repo.CreatePriceHistory(ctx, h); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// BulkAdjustPrices multiplies each selected concept's price by
// (1 + pct/100), rounded to cents. Concepts whose rounded price did not
// move (e.g. price 0) get no history row. Rows are processed one by one;
// a mid-loop failure leaves earlier rows adjusted.
func (s *Service) BulkAdjustPrices(ctx context.Context, actorID int64, req BulkAdjustRequest) (*BulkAdjustResult, error) {
	if len(req.ConceptIDs) == 0 {
		return nil, ErrValidation
	}

	concepts, err := s.repo.GetByIDs(ctx, req.ConceptIDs)
	if err != nil {
		return nil, err
	}

	factor := 1 + req.Percent/100
	result := &BulkAdjustResult{}

	for i := range concepts {
		c := &concepts[i]
		oldPrice := c.Price
		newPrice := round2(oldPrice * factor)

		c.Price = newPrice
		if err := s.repo.Update(ctx, c); err != nil {
			return result, err
		}
		result.Adjusted++

		if newPrice == round2(oldPrice) {
			continue
		}
		h := &domain.PriceHistory{
			ConceptID: c.ID,
			OldPrice:  oldPrice,
			NewPrice:  newPrice,
			ChangedBy: actorID,
		}
		if err := s.repo.CreatePriceHistory(ctx, h); err != nil {
			return result, err
		}
		result.Logged++
	}

	return result, nil
}

func (s *Service) PriceHistory(ctx context.Context, conceptID int64) ([]domain.PriceHistory, error) {
	return s.repo.ListPriceHistory(ctx, conceptID)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ---- categories ----

func (s *Service) ListCategories(ctx context.Context) ([]domain.ConceptCategory, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, name string) (*domain.ConceptCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrValidation
	}
	cat := &domain.ConceptCategory{Name: name}
	if err := s.repo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *Service) RenameCategory(ctx context.Context, req RenameCategoryRequest) error {
	oldName := strings.TrimSpace(req.OldName)
	newName := strings.TrimSpace(req.NewName)
	if oldName == "" || newName == "" {
		return ErrValidation
	}
	return s.repo.RenameCategory(ctx, oldName, newName)
}

// DeleteCategory removes the lookup row; affected concepts keep existing
// with a null category.
func (s *Service) DeleteCategory(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrValidation
	}
	return s.repo.DeleteCategory(ctx, name)
}

// ---- collaborator price overrides ----

func (s *Service) SetOverride(ctx context.Context, req OverrideRequest) error {
	if req.Price < 0 {
		return ErrValidation
	}
	if _, err := s.repo.GetByID(ctx, req.ConceptID); err != nil {
		return err
	}
	return s.repo.UpsertOverride(ctx, &domain.PriceOverride{
		ConceptID:      req.ConceptID,
		CollaboratorID: req.CollaboratorID,
		Price:          req.Price,
	})
}

func (s *Service) ListOverrides(ctx context.Context, collaboratorID int64) ([]domain.PriceOverride, error) {
	return s.repo.ListOverrides(ctx, collaboratorID)
}

func (s *Service) DeleteOverride(ctx context.Context, conceptID, collaboratorID int64) error {
	return s.repo.DeleteOverride(ctx, conceptID, collaboratorID)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
