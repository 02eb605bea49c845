package contract

import (
	"context"
	"testing"
	"time"

	"backoffice/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) Create(ctx context.Context, c *domain.Contract) error {
	args := m.Called(ctx, c)
	if c != nil && c.ID == 0 {
		c.ID = 300
	}
	return args.Error(0)
}

func (m *MockContractRepository) GetByID(ctx context.Context, id int64) (*domain.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockContractRepository) List(ctx context.Context, limit, offset int) ([]domain.Contract, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.Contract), args.Error(1)
}

func (m *MockContractRepository) UpdateStatus(ctx context.Context, id int64, status domain.ContractStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockContractRepository) CreateToken(ctx context.Context, t *domain.ContractToken) error {
	args := m.Called(ctx, t)
	if t != nil && t.ID == 0 {
		t.ID = time.Now().UnixNano()
	}
	return args.Error(0)
}

func (m *MockContractRepository) GetToken(ctx context.Context, token string) (*domain.ContractToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContractToken), args.Error(1)
}

func (m *MockContractRepository) GetTokensByContract(ctx context.Context, contractID int64) ([]domain.ContractToken, error) {
	args := m.Called(ctx, contractID)
	return args.Get(0).([]domain.ContractToken), args.Error(1)
}

func (m *MockContractRepository) MarkTokenSigned(ctx context.Context, tokenID int64, signedAt time.Time) error {
	args := m.Called(ctx, tokenID, signedAt)
	return args.Error(0)
}

func (m *MockContractRepository) CreateSignature(ctx context.Context, s *domain.ContractSignature) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockContractRepository) CreateHistory(ctx context.Context, h *domain.ContractHistory) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockContractRepository) ListHistory(ctx context.Context, contractID int64) ([]domain.ContractHistory, error) {
	args := m.Called(ctx, contractID)
	return args.Get(0).([]domain.ContractHistory), args.Error(1)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) FirstAdmin(ctx context.Context) (*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) Save(path string, data []byte, contentType string) (string, error) {
	args := m.Called(path, data, contentType)
	return args.String(0), args.Error(1)
}

func validSubmission() SignatureSubmission {
	return SignatureSubmission{
		Selfie:          []byte("selfie"),
		IDFront:         []byte("front"),
		IDBack:          []byte("back"),
		DrawnSignature:  []byte("signature"),
		ConsentTerms:    true,
		ConsentIdentity: true,
		IPAddress:       "10.0.0.1",
		UserAgent:       "test-agent",
	}
}

func TestService_Initiate_MintsBothTokens(t *testing.T) {
	repo := new(MockContractRepository)
	users := new(MockUserDirectory)

	contract := &domain.Contract{
		ID:              300,
		Status:          domain.ContractDraft,
		CounterpartyID:  50,
		CounterpartRole: domain.SignerProvider,
	}
	repo.On("GetByID", mock.Anything, int64(300)).Return(contract, nil)
	users.On("FirstAdmin", mock.Anything).Return(&domain.User{ID: 1, Role: domain.RoleAdmin}, nil)

	var tokens []*domain.ContractToken
	repo.On("CreateToken", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		tokens = append(tokens, args.Get(1).(*domain.ContractToken))
	}).Return(nil)
	repo.On("UpdateStatus", mock.Anything, int64(300), domain.ContractPendingSignature).Return(nil)
	repo.On("CreateHistory", mock.Anything, mock.Anything).Return(nil)

	service := NewService(repo, users, new(MockArtifactStore), nil)

	result, err := service.Initiate(context.Background(), 300)

	assert.NoError(t, err)
	assert.Equal(t, domain.ContractPendingSignature, result.Contract.Status)
	assert.Len(t, tokens, 2)

	// The counterparty fills its declared role, the admin the opposite.
	assert.Equal(t, domain.SignerProvider, tokens[0].Role)
	assert.Equal(t, int64(50), tokens[0].UserID)
	assert.Equal(t, domain.SignerClient, tokens[1].Role)
	assert.Equal(t, int64(1), tokens[1].UserID)
	assert.NotEqual(t, tokens[0].Token, tokens[1].Token)
	assert.Len(t, tokens[0].Token, 32)
}

func TestService_Initiate_OnlyFromDraft(t *testing.T) {
	repo := new(MockContractRepository)
	repo.On("GetByID", mock.Anything, int64(300)).
		Return(&domain.Contract{ID: 300, Status: domain.ContractPendingSignature}, nil)

	service := NewService(repo, new(MockUserDirectory), new(MockArtifactStore), nil)

	_, err := service.Initiate(context.Background(), 300)
	assert.ErrorIs(t, err, ErrNotDraft)
	repo.AssertNotCalled(t, "CreateToken", mock.Anything, mock.Anything)
}

func TestService_SubmitSignature_LastSignerActivates(t *testing.T) {
	repo := new(MockContractRepository)
	store := new(MockArtifactStore)

	signedAt := time.Now().Add(-time.Hour)
	current := &domain.ContractToken{ID: 10, ContractID: 300, Token: "tok-a", Role: domain.SignerClient}
	other := domain.ContractToken{ID: 11, ContractID: 300, Token: "tok-b", Role: domain.SignerProvider, SignedAt: &signedAt}

	repo.On("GetToken", mock.Anything, "tok-a").Return(current, nil)
	store.On("Save", mock.Anything, mock.Anything, mock.Anything).Return("https://cdn.example/artifact", nil)

	var sig *domain.ContractSignature
	repo.On("CreateSignature", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sig = args.Get(1).(*domain.ContractSignature)
	}).Return(nil)
	repo.On("MarkTokenSigned", mock.Anything, int64(10), mock.Anything).Return(nil)
	repo.On("CreateHistory", mock.Anything, mock.Anything).Return(nil)
	repo.On("GetTokensByContract", mock.Anything, int64(300)).
		Return([]domain.ContractToken{*current, other}, nil)
	repo.On("UpdateStatus", mock.Anything, int64(300), domain.ContractActive).Return(nil)

	service := NewService(repo, new(MockUserDirectory), store, nil)

	result, err := service.SubmitSignature(context.Background(), "tok-a", validSubmission())

	assert.NoError(t, err)
	assert.Equal(t, sig, result)
	assert.Equal(t, "https://cdn.example/artifact", sig.SelfieURL)
	assert.Equal(t, "10.0.0.1", sig.IPAddress)
	store.AssertNumberOfCalls(t, "Save", 4)
	repo.AssertCalled(t, "UpdateStatus", mock.Anything, int64(300), domain.ContractActive)
}

func TestService_SubmitSignature_NotLastStaysPending(t *testing.T) {
	repo := new(MockContractRepository)
	store := new(MockArtifactStore)

	current := &domain.ContractToken{ID: 10, ContractID: 300, Token: "tok-a", Role: domain.SignerClient}
	other := domain.ContractToken{ID: 11, ContractID: 300, Token: "tok-b", Role: domain.SignerProvider}

	repo.On("GetToken", mock.Anything, "tok-a").Return(current, nil)
	store.On("Save", mock.Anything, mock.Anything, mock.Anything).Return("https://cdn.example/artifact", nil)
	repo.On("CreateSignature", mock.Anything, mock.Anything).Return(nil)
	repo.On("MarkTokenSigned", mock.Anything, int64(10), mock.Anything).Return(nil)
	repo.On("CreateHistory", mock.Anything, mock.Anything).Return(nil)
	repo.On("GetTokensByContract", mock.Anything, int64(300)).
		Return([]domain.ContractToken{*current, other}, nil)

	service := NewService(repo, new(MockUserDirectory), store, nil)

	_, err := service.SubmitSignature(context.Background(), "tok-a", validSubmission())

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SubmitSignature_AlreadySigned(t *testing.T) {
	repo := new(MockContractRepository)

	signedAt := time.Now()
	repo.On("GetToken", mock.Anything, "tok-a").
		Return(&domain.ContractToken{ID: 10, ContractID: 300, SignedAt: &signedAt}, nil)

	service := NewService(repo, new(MockUserDirectory), new(MockArtifactStore), nil)

	_, err := service.SubmitSignature(context.Background(), "tok-a", validSubmission())

	// No duplicate signature row is ever created.
	assert.ErrorIs(t, err, ErrAlreadySigned)
	repo.AssertNotCalled(t, "CreateSignature", mock.Anything, mock.Anything)
}

func TestService_SubmitSignature_ConsentRequired(t *testing.T) {
	repo := new(MockContractRepository)
	repo.On("GetToken", mock.Anything, "tok-a").
		Return(&domain.ContractToken{ID: 10, ContractID: 300}, nil)

	service := NewService(repo, new(MockUserDirectory), new(MockArtifactStore), nil)

	sub := validSubmission()
	sub.ConsentIdentity = false
	_, err := service.SubmitSignature(context.Background(), "tok-a", sub)
	assert.ErrorIs(t, err, ErrConsentRequired)

	sub = validSubmission()
	sub.ConsentTerms = false
	_, err = service.SubmitSignature(context.Background(), "tok-a", sub)
	assert.ErrorIs(t, err, ErrConsentRequired)
}

func TestService_ViewByToken_LogsEveryView(t *testing.T) {
	repo := new(MockContractRepository)

	token := &domain.ContractToken{ID: 10, ContractID: 300, Token: "tok-a", Role: domain.SignerClient}
	repo.On("GetToken", mock.Anything, "tok-a").Return(token, nil)
	repo.On("GetByID", mock.Anything, int64(300)).
		Return(&domain.Contract{ID: 300, Status: domain.ContractPendingSignature}, nil)

	var views []*domain.ContractHistory
	repo.On("CreateHistory", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		views = append(views, args.Get(1).(*domain.ContractHistory))
	}).Return(nil)

	service := NewService(repo, new(MockUserDirectory), new(MockArtifactStore), nil)

	for i := 0; i < 3; i++ {
		view, err := service.ViewByToken(context.Background(), "tok-a", "10.0.0.1", "agent")
		assert.NoError(t, err)
		assert.Equal(t, domain.SignerClient, view.Role)
		assert.False(t, view.Signed)
	}

	// Repeated views are never deduped.
	assert.Len(t, views, 3)
	assert.Equal(t, domain.ActionView, views[0].Action)
}
