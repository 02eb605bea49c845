package auth

import (
	"context"
	"testing"

	"backoffice/internal/domain"
	"backoffice/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if u != nil && u.ID == 0 {
		u.ID = 42
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateToken(userID int64, email, role string) (string, error) {
	args := m.Called(userID, email, role)
	return args.String(0), args.Error(1)
}

func hashOf(password string) string {
	h, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(h)
}

func TestService_Login_Success(t *testing.T) {
	users := new(MockUserRepository)
	issuer := new(MockTokenIssuer)

	users.On("GetByEmail", mock.Anything, "laura@backoffice.mx").Return(&domain.User{
		ID:           7,
		Email:        "laura@backoffice.mx",
		PasswordHash: hashOf("secret123"),
		Role:         domain.RoleOperator,
		IsActive:     true,
	}, nil)
	issuer.On("GenerateToken", int64(7), "laura@backoffice.mx", "operator").Return("signed-token", nil)

	service := NewService(users, issuer)

	result, err := service.Login(context.Background(), LoginRequest{
		Email:    "laura@backoffice.mx",
		Password: "secret123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "signed-token", result.Token)
	assert.Empty(t, result.User.PasswordHash)
}

func TestService_Login_WrongPassword(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "laura@backoffice.mx").Return(&domain.User{
		ID:           7,
		PasswordHash: hashOf("secret123"),
		IsActive:     true,
	}, nil)

	service := NewService(users, new(MockTokenIssuer))

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "laura@backoffice.mx",
		Password: "nope",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownEmailLooksLikeBadCredentials(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "ghost@backoffice.mx").Return(nil, repository.ErrNotFound)

	service := NewService(users, new(MockTokenIssuer))

	_, err := service.Login(context.Background(), LoginRequest{Email: "ghost@backoffice.mx", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_DisabledAccount(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "carlos@backoffice.mx").Return(&domain.User{
		ID:           8,
		PasswordHash: hashOf("secret123"),
		IsActive:     false,
	}, nil)

	service := NewService(users, new(MockTokenIssuer))

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "carlos@backoffice.mx",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestService_CreateUser_NormalizesEmailAndActivates(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "Nuevo@Backoffice.MX").Return(nil, repository.ErrNotFound)

	var created *domain.User
	users.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*domain.User)
	}).Return(nil)

	service := NewService(users, new(MockTokenIssuer))

	user, err := service.CreateUser(context.Background(), CreateUserRequest{
		Email:    "Nuevo@Backoffice.MX",
		Password: "secret123",
		Name:     "Nuevo Usuario",
		Role:     domain.RoleCollaborator,
	})

	assert.NoError(t, err)
	assert.Equal(t, "nuevo@backoffice.mx", created.Email)
	assert.True(t, created.IsActive)
	assert.NotEmpty(t, created.PasswordHash)
	assert.Empty(t, user.PasswordHash)
}

func TestService_CreateUser_EmailTaken(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "laura@backoffice.mx").Return(&domain.User{ID: 7}, nil)

	service := NewService(users, new(MockTokenIssuer))

	_, err := service.CreateUser(context.Background(), CreateUserRequest{
		Email:    "laura@backoffice.mx",
		Password: "secret123",
		Name:     "Laura",
		Role:     domain.RoleOperator,
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_CreateUser_RejectsUnknownRole(t *testing.T) {
	service := NewService(new(MockUserRepository), new(MockTokenIssuer))

	_, err := service.CreateUser(context.Background(), CreateUserRequest{
		Email:    "x@backoffice.mx",
		Password: "secret123",
		Role:     domain.UserRole("superuser"),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_ChangePassword_VerifiesCurrent(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{
		ID:           7,
		PasswordHash: hashOf("old-password"),
	}, nil)

	service := NewService(users, new(MockTokenIssuer))

	err := service.ChangePassword(context.Background(), 7, ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_UpdateUser_MergesProvidedFields(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{
		ID:    7,
		Name:  "Laura",
		Phone: "555-0001",
		Role:  domain.RoleOperator,
	}, nil)
	users.On("Update", mock.Anything, mock.Anything).Return(nil)

	service := NewService(users, new(MockTokenIssuer))

	name := "Laura Medina"
	user, err := service.UpdateUser(context.Background(), 7, UpdateUserRequest{Name: &name})

	assert.NoError(t, err)
	assert.Equal(t, "Laura Medina", user.Name)
	assert.Equal(t, "555-0001", user.Phone)
	assert.Equal(t, domain.RoleOperator, user.Role)
}
