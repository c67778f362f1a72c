package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ridemarket/internal/domain"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if u != nil {
		u.ID = 101 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockJWT struct {
	mock.Mock
}

func (m *MockJWT) GenerateToken(userID int64, email string, isAdmin bool) (string, error) {
	args := m.Called(userID, email, isAdmin)
	return args.String(0), args.Error(1)
}

func TestService_Signup_Success(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockJWT := new(MockJWT)

	mockUsers.On("GetByEmail", mock.Anything, "rider@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUsers.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockJWT.On("GenerateToken", int64(101), "rider@example.com", false).Return("signed-token", nil)

	service := NewService(mockUsers, mockJWT)

	res, err := service.Signup(context.Background(), SignupRequest{
		Name:     "Rider",
		Email:    " Rider@Example.com ",
		Password: "secret123",
	})

	require.NoError(t, err)
	assert.Equal(t, "signed-token", res.Token)
	assert.Equal(t, "rider@example.com", res.User.Email)
	assert.False(t, res.User.IsAdmin)
	mockUsers.AssertExpectations(t)
}

func TestService_Signup_WeakPassword(t *testing.T) {
	service := NewService(new(MockUserRepository), new(MockJWT))

	cases := []string{"short1", "onlyletters", "12345678"}
	for _, password := range cases {
		_, err := service.Signup(context.Background(), SignupRequest{
			Name:     "Rider",
			Email:    "rider@example.com",
			Password: password,
		})
		assert.ErrorIs(t, err, ErrWeakPassword, "password %q", password)
	}
}

func TestService_Signup_DuplicateEmail(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "rider@example.com").Return(&domain.User{ID: 1}, nil)

	service := NewService(mockUsers, new(MockJWT))

	_, err := service.Signup(context.Background(), SignupRequest{
		Name:     "Rider",
		Email:    "rider@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestService_Signup_DuplicateEmailRace(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "rider@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUsers.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

	service := NewService(mockUsers, new(MockJWT))

	_, err := service.Signup(context.Background(), SignupRequest{
		Name:     "Rider",
		Email:    "rider@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestService_Login_Success(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcryptCost)

	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "rider@example.com").Return(&domain.User{
		ID:           7,
		Email:        "rider@example.com",
		PasswordHash: string(hash),
		IsAdmin:      true,
	}, nil)

	mockJWT := new(MockJWT)
	mockJWT.On("GenerateToken", int64(7), "rider@example.com", true).Return("signed-token", nil)

	service := NewService(mockUsers, mockJWT)

	res, err := service.Login(context.Background(), LoginRequest{
		Email:    "rider@example.com",
		Password: "secret123",
	})

	require.NoError(t, err)
	assert.Equal(t, "signed-token", res.Token)
	assert.True(t, res.User.IsAdmin)
}

func TestService_Login_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcryptCost)

	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "rider@example.com").Return(&domain.User{
		ID:           7,
		Email:        "rider@example.com",
		PasswordHash: string(hash),
	}, nil)

	service := NewService(mockUsers, new(MockJWT))

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "rider@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	service := NewService(mockUsers, new(MockJWT))

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever1",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
