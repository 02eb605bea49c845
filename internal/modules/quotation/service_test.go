package quotation

import (
	"context"
	"testing"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/pkg/paylink"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockQuotationRepository struct {
	mock.Mock
	nextTabID int64
}

func (m *MockQuotationRepository) Create(ctx context.Context, q *domain.Quotation) error {
	args := m.Called(ctx, q)
	if q != nil && q.ID == 0 {
		q.ID = 100
	}
	return args.Error(0)
}

func (m *MockQuotationRepository) GetByID(ctx context.Context, id int64) (*domain.Quotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) GetFull(ctx context.Context, id int64) (*domain.Quotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) GetByPublishToken(ctx context.Context, token string) (*domain.Quotation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) List(ctx context.Context, limit, offset int) ([]domain.Quotation, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) UpdateStatus(ctx context.Context, id int64, status domain.QuotationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockQuotationRepository) MaxLineageVersion(ctx context.Context, rootID int64) (int, error) {
	args := m.Called(ctx, rootID)
	return args.Int(0), args.Error(1)
}

func (m *MockQuotationRepository) CreateTab(ctx context.Context, tab *domain.QuotationTab) error {
	args := m.Called(ctx, tab)
	if tab != nil {
		m.nextTabID++
		tab.ID = 1000 + m.nextTabID // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockQuotationRepository) CreateItem(ctx context.Context, item *domain.QuotationItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockQuotationRepository) CreateLink(ctx context.Context, link *domain.TabLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockQuotationRepository) SumItemTotals(ctx context.Context, quotationID int64) (float64, error) {
	args := m.Called(ctx, quotationID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockQuotationRepository) SetPublishState(ctx context.Context, id int64, token string, publishedAt time.Time, subtotal, tax, total float64) error {
	args := m.Called(ctx, id, token, publishedAt, subtotal, tax, total)
	return args.Error(0)
}

func (m *MockQuotationRepository) SetPaylink(ctx context.Context, id int64, url, productID, priceID, linkID string) error {
	args := m.Called(ctx, id, url, productID, priceID, linkID)
	return args.Error(0)
}

func (m *MockQuotationRepository) ClearPublishState(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuotationRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPaylinkClient struct {
	mock.Mock
}

func (m *MockPaylinkClient) CreateLink(ctx context.Context, amountMinor int64, label, redirectURL string, recurring bool) paylink.Result {
	args := m.Called(ctx, amountMinor, label, redirectURL, recurring)
	return args.Get(0).(paylink.Result)
}

func (m *MockPaylinkClient) Deactivate(ctx context.Context, productID, priceID, linkID string) paylink.Status {
	args := m.Called(ctx, productID, priceID, linkID)
	return args.Get(0).(paylink.Status)
}

func TestService_Create_ResolvesTempTabIDs(t *testing.T) {
	repo := new(MockQuotationRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repo.On("CreateTab", mock.Anything, mock.Anything).Return(nil)

	var items []*domain.QuotationItem
	repo.On("CreateItem", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		items = append(items, args.Get(1).(*domain.QuotationItem))
	}).Return(nil)

	var links []*domain.TabLink
	repo.On("CreateLink", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		links = append(links, args.Get(1).(*domain.TabLink))
	}).Return(nil)

	service := NewService(repo, new(MockPaylinkClient), "http://localhost:8080", nil)

	req := CreateQuotationRequest{
		Title:    "CCTV",
		ClientID: 5,
		Tabs: []TabPayload{
			{TempID: "tab-1", Section: domain.SectionEquipment, Label: "General"},
			{TempID: "tab-2", Section: domain.SectionLabor, Label: "General"},
		},
		Items: []ItemPayload{
			{TempTabID: "tab-1", ConceptID: int64p(9), Section: domain.SectionEquipment, Quantity: 2, UnitPrice: 1000},
			{TempTabID: "tab-missing", Section: domain.SectionEquipment, Quantity: 1, UnitPrice: 50, IsCustom: true, CustomTitle: "Extra"},
		},
		Links: []LinkPayload{
			{SourceTempID: "tab-1", TargetTempID: "tab-2"},
			{SourceTempID: "tab-1", TargetTempID: "tab-missing"},
		},
	}

	q, err := service.Create(context.Background(), req)

	assert.NoError(t, err)
	assert.NotNil(t, q)
	assert.Equal(t, domain.QuotationDraft, q.Status)

	// First item resolved to the real tab ID, second kept a null tab.
	assert.Len(t, items, 2)
	assert.NotNil(t, items[0].TabID)
	assert.Equal(t, int64(1001), *items[0].TabID)
	assert.Equal(t, 2000.0, items[0].Total)
	assert.Nil(t, items[1].TabID)

	// The link with an unresolvable endpoint was dropped, not half-applied.
	assert.Len(t, links, 1)
	assert.Equal(t, int64(1001), links[0].SourceTabID)
	assert.Equal(t, int64(1002), links[0].TargetTabID)
}

func TestService_Create_RequiresTitleAndClient(t *testing.T) {
	service := NewService(new(MockQuotationRepository), new(MockPaylinkClient), "", nil)

	_, err := service.Create(context.Background(), CreateQuotationRequest{Title: " ", ClientID: 1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.Create(context.Background(), CreateQuotationRequest{Title: "ok"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Duplicate_RemapsLineage(t *testing.T) {
	repo := new(MockQuotationRepository)

	rootID := int64(40)
	srcTab := domain.QuotationTab{ID: 7, QuotationID: 44, Section: domain.SectionEquipment, Label: "General"}
	orphanTabID := int64(99)
	src := &domain.Quotation{
		ID:       44,
		Title:    "CCTV",
		ClientID: 5,
		Version:  3,
		ParentID: &rootID,
		Tabs:     []domain.QuotationTab{srcTab},
		Items: []domain.QuotationItem{
			{ID: 70, QuotationID: 44, TabID: &srcTab.ID, Section: domain.SectionEquipment, Quantity: 2, UnitPrice: 1000, Total: 2000},
			{ID: 71, QuotationID: 44, TabID: &orphanTabID, Section: domain.SectionLabor, Quantity: 1, UnitPrice: 500, Total: 500},
		},
		Links: []domain.TabLink{
			{SourceTabID: srcTab.ID, TargetTabID: orphanTabID},
		},
	}

	repo.On("GetFull", mock.Anything, int64(44)).Return(src, nil)
	repo.On("MaxLineageVersion", mock.Anything, rootID).Return(4, nil)

	var created *domain.Quotation
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*domain.Quotation)
	}).Return(nil)
	repo.On("CreateTab", mock.Anything, mock.Anything).Return(nil)

	var items []*domain.QuotationItem
	repo.On("CreateItem", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		items = append(items, args.Get(1).(*domain.QuotationItem))
	}).Return(nil)

	service := NewService(repo, new(MockPaylinkClient), "", nil)

	dup, err := service.Duplicate(context.Background(), 44)

	assert.NoError(t, err)
	assert.Equal(t, 5, dup.Version)
	assert.Equal(t, rootID, *dup.ParentID)
	assert.Equal(t, "COT-00000040-V5", dup.Folio)
	assert.Equal(t, domain.QuotationDraft, created.Status)

	// Item on a known tab is remapped; item on an unknown tab goes null.
	assert.Len(t, items, 2)
	assert.NotNil(t, items[0].TabID)
	assert.Equal(t, int64(1001), *items[0].TabID)
	assert.Nil(t, items[1].TabID)

	// The link with the unmappable endpoint was dropped entirely.
	repo.AssertNotCalled(t, "CreateLink", mock.Anything, mock.Anything)
}

func TestService_Publish_RecomputesAndMintsToken(t *testing.T) {
	repo := new(MockQuotationRepository)
	linksMock := new(MockPaylinkClient)

	q := &domain.Quotation{ID: 9, Title: "CCTV", Total: 999, PaymentType: domain.PaymentOneTime}
	repo.On("GetByID", mock.Anything, int64(9)).Return(q, nil)
	repo.On("SumItemTotals", mock.Anything, int64(9)).Return(2000.0, nil)

	var token string
	repo.On("SetPublishState", mock.Anything, int64(9), mock.Anything, mock.Anything, 2000.0, 320.0, 2320.0).
		Run(func(args mock.Arguments) {
			token = args.String(2)
		}).Return(nil)

	linksMock.On("CreateLink", mock.Anything, int64(232000), "CCTV", mock.Anything, false).
		Return(paylink.Result{Status: paylink.StatusOK, URL: "https://pay.example/x", ProductID: "prod_1", PriceID: "price_1", LinkID: "link_1"})
	repo.On("SetPaylink", mock.Anything, int64(9), "https://pay.example/x", "prod_1", "price_1", "link_1").Return(nil)

	service := NewService(repo, linksMock, "https://app.example.com", nil)

	result, err := service.Publish(context.Background(), 9)

	assert.NoError(t, err)
	assert.Len(t, token, 32) // uuid with dashes stripped
	assert.Equal(t, "https://app.example.com/cotizacion/"+token, result.PublicURL)
	assert.Equal(t, paylink.StatusOK, result.Paylink.Status)
}

func TestService_Publish_PaylinkFailureIsNotFatal(t *testing.T) {
	repo := new(MockQuotationRepository)
	linksMock := new(MockPaylinkClient)

	q := &domain.Quotation{ID: 9, Title: "CCTV"}
	repo.On("GetByID", mock.Anything, int64(9)).Return(q, nil)
	repo.On("SumItemTotals", mock.Anything, int64(9)).Return(100.0, nil)
	repo.On("SetPublishState", mock.Anything, int64(9), mock.Anything, mock.Anything, 100.0, 16.0, 116.0).Return(nil)
	linksMock.On("CreateLink", mock.Anything, int64(11600), "CCTV", mock.Anything, false).
		Return(paylink.Result{Status: paylink.StatusFailed})

	service := NewService(repo, linksMock, "", nil)

	result, err := service.Publish(context.Background(), 9)

	assert.NoError(t, err)
	assert.Equal(t, paylink.StatusFailed, result.Paylink.Status)
	repo.AssertNotCalled(t, "SetPaylink", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Publish_ZeroTotalSkipsProvider(t *testing.T) {
	repo := new(MockQuotationRepository)
	linksMock := new(MockPaylinkClient)

	q := &domain.Quotation{ID: 9, Title: "Vacía"}
	repo.On("GetByID", mock.Anything, int64(9)).Return(q, nil)
	repo.On("SumItemTotals", mock.Anything, int64(9)).Return(0.0, nil)
	repo.On("SetPublishState", mock.Anything, int64(9), mock.Anything, mock.Anything, 0.0, 0.0, 0.0).Return(nil)

	service := NewService(repo, linksMock, "", nil)

	result, err := service.Publish(context.Background(), 9)

	assert.NoError(t, err)
	assert.Equal(t, paylink.StatusSkipped, result.Paylink.Status)
	linksMock.AssertNotCalled(t, "CreateLink", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Unpublish_DeactivatesThenClears(t *testing.T) {
	repo := new(MockQuotationRepository)
	linksMock := new(MockPaylinkClient)

	prod, price, link := "prod_1", "price_1", "link_1"
	q := &domain.Quotation{ID: 9, PaylinkProductID: &prod, PaylinkPriceID: &price, PaylinkLinkID: &link}
	repo.On("GetByID", mock.Anything, int64(9)).Return(q, nil)
	linksMock.On("Deactivate", mock.Anything, prod, price, link).Return(paylink.StatusFailed)
	repo.On("ClearPublishState", mock.Anything, int64(9)).Return(nil)

	service := NewService(repo, linksMock, "", nil)

	// Deactivation failure still clears the publish state.
	err := service.Unpublish(context.Background(), 9)

	assert.NoError(t, err)
	repo.AssertCalled(t, "ClearPublishState", mock.Anything, int64(9))
}

func TestService_AdvanceStatus_ForwardOnly(t *testing.T) {
	repo := new(MockQuotationRepository)
	repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Quotation{ID: 1, Status: domain.QuotationDraft}, nil)
	repo.On("UpdateStatus", mock.Anything, int64(1), domain.QuotationSent).Return(nil)
	repo.On("GetByID", mock.Anything, int64(2)).Return(&domain.Quotation{ID: 2, Status: domain.QuotationAccepted}, nil)

	service := NewService(repo, new(MockPaylinkClient), "", nil)

	q, err := service.AdvanceStatus(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, domain.QuotationSent, q.Status)

	_, err = service.AdvanceStatus(context.Background(), 2)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_GetPublic_TransferFallback(t *testing.T) {
	repo := new(MockQuotationRepository)
	payURL := "https://pay.example/x"
	q := &domain.Quotation{ID: 9, Total: 2320, PaylinkURL: &payURL}
	repo.On("GetByPublishToken", mock.Anything, "abc").Return(q, nil)

	service := NewService(repo, new(MockPaylinkClient), "", nil)

	view, err := service.GetPublic(context.Background(), "abc")

	assert.NoError(t, err)
	assert.Equal(t, payURL, view.PaymentURL)
	// total - (total*0.036 + 3) = 2320 - 86.52 = 2233.48
	assert.Equal(t, 2233.48, view.TransferTotal)
}
