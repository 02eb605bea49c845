package catalog

import (
	"context"
	"testing"

	"backoffice/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockConceptRepository struct {
	mock.Mock
}

func (m *MockConceptRepository) Create(ctx context.Context, c *domain.Concept) error {
	args := m.Called(ctx, c)
	if c != nil && c.ID == 0 {
		c.ID = 500
	}
	return args.Error(0)
}

func (m *MockConceptRepository) GetByID(ctx context.Context, id int64) (*domain.Concept, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Concept), args.Error(1)
}

func (m *MockConceptRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Concept, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Concept), args.Error(1)
}

func (m *MockConceptRepository) List(ctx context.Context, category string, activeOnly bool) ([]domain.Concept, error) {
	args := m.Called(ctx, category, activeOnly)
	return args.Get(0).([]domain.Concept), args.Error(1)
}

func (m *MockConceptRepository) Update(ctx context.Context, c *domain.Concept) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockConceptRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockConceptRepository) CreatePriceHistory(ctx context.Context, h *domain.PriceHistory) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockConceptRepository) ListPriceHistory(ctx context.Context, conceptID int64) ([]domain.PriceHistory, error) {
	args := m.Called(ctx, conceptID)
	return args.Get(0).([]domain.PriceHistory), args.Error(1)
}

func (m *MockConceptRepository) ListCategories(ctx context.Context) ([]domain.ConceptCategory, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ConceptCategory), args.Error(1)
}

func (m *MockConceptRepository) CreateCategory(ctx context.Context, cat *domain.ConceptCategory) error {
	args := m.Called(ctx, cat)
	return args.Error(0)
}

func (m *MockConceptRepository) RenameCategory(ctx context.Context, oldName, newName string) error {
	args := m.Called(ctx, oldName, newName)
	return args.Error(0)
}

func (m *MockConceptRepository) DeleteCategory(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockConceptRepository) UpsertOverride(ctx context.Context, o *domain.PriceOverride) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockConceptRepository) ListOverrides(ctx context.Context, collaboratorID int64) ([]domain.PriceOverride, error) {
	args := m.Called(ctx, collaboratorID)
	return args.Get(0).([]domain.PriceOverride), args.Error(1)
}

func (m *MockConceptRepository) DeleteOverride(ctx context.Context, conceptID, collaboratorID int64) error {
	args := m.Called(ctx, conceptID, collaboratorID)
	return args.Error(0)
}

func f64p(v float64) *float64 { return &v }

func TestService_Update_PriceChangeWritesHistory(t *testing.T) {
	repo := new(MockConceptRepository)
	repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Concept{ID: 1, Title: "Cámara", Price: 100}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	var history *domain.PriceHistory
	repo.On("CreatePriceHistory", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		history = args.Get(1).(*domain.PriceHistory)
	}).Return(nil)

	service := NewService(repo)

	c, err := service.Update(context.Background(), 1, 77, UpdateConceptRequest{Price: f64p(150)})

	assert.NoError(t, err)
	assert.Equal(t, 150.0, c.Price)
	assert.NotNil(t, history)
	assert.Equal(t, 100.0, history.OldPrice)
	assert.Equal(t, 150.0, history.NewPrice)
	assert.Equal(t, int64(77), history.ChangedBy)
}

func TestService_Update_UnchangedPriceSkipsHistory(t *testing.T) {
	repo := new(MockConceptRepository)
	repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Concept{ID: 1, Title: "Cámara", Price: 100}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	service := NewService(repo)

	// Same value and a sub-cent difference both count as unchanged.
	_, err := service.Update(context.Background(), 1, 77, UpdateConceptRequest{Price: f64p(100)})
	assert.NoError(t, err)

	_, err = service.Update(context.Background(), 1, 77, UpdateConceptRequest{Price: f64p(100.001)})
	assert.NoError(t, err)

	repo.AssertNotCalled(t, "CreatePriceHistory", mock.Anything, mock.Anything)
}

func TestService_BulkAdjustPrices_TenPercent(t *testing.T) {
	repo := new(MockConceptRepository)
	concepts := []domain.Concept{
		{ID: 1, Price: 100},
		{ID: 2, Price: 250.50},
		{ID: 3, Price: 0},
	}
	repo.On("GetByIDs", mock.Anything, []int64{1, 2, 3}).Return(concepts, nil)

	var updated []float64
	repo.On("Update", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		updated = append(updated, args.Get(1).(*domain.Concept).Price)
	}).Return(nil)

	var history []*domain.PriceHistory
	repo.On("CreatePriceHistory", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		history = append(history, args.Get(1).(*domain.PriceHistory))
	}).Return(nil)

	service := NewService(repo)

	result, err := service.BulkAdjustPrices(context.Background(), 77, BulkAdjustRequest{
		ConceptIDs: []int64{1, 2, 3},
		Percent:    10,
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, result.Adjusted)
	assert.Equal(t, 2, result.Logged)
	assert.Equal(t, []float64{110.0, 275.55, 0.0}, updated)

	// $0 stayed $0, so only the first two got history rows.
	assert.Len(t, history, 2)
	assert.Equal(t, int64(1), history[0].ConceptID)
	assert.Equal(t, int64(2), history[1].ConceptID)
}

func TestService_BulkAdjustPrices_EmptySelection(t *testing.T) {
	service := NewService(new(MockConceptRepository))

	_, err := service.BulkAdjustPrices(context.Background(), 77, BulkAdjustRequest{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Create_RequiresTitle(t *testing.T) {
	service := NewService(new(MockConceptRepository))

	_, err := service.Create(context.Background(), CreateConceptRequest{Title: "  "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_SetOverride_RejectsNegativePrice(t *testing.T) {
	service := NewService(new(MockConceptRepository))

	err := service.SetOverride(context.Background(), OverrideRequest{ConceptID: 1, CollaboratorID: 2, Price: -1})
	assert.ErrorIs(t, err, ErrValidation)
}
