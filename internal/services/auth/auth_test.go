package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/cafeteria-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/cafeteria-backend/internal/lib/password"
	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) RegisterUser(ctx context.Context, user models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	repo := new(MockUserRepository)
	maker := jwt.NewMaker("test-secret", time.Hour)
	service := NewAuthService(repo, maker)

	repo.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "student@example.com" &&
			u.Role == models.RoleStudent &&
			u.IsActive &&
			u.PasswordHash != "" &&
			u.PasswordHash != "secret123"
	})).Return(int64(1), nil).Once()

	id, err := service.Register(context.Background(), models.DummyRegister{
		Email:    "student@example.com",
		Password: "secret123",
		FullName: "Иван Иванов",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	repo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := password.GetHash("secret123")
	require.NoError(t, err)

	existing := &models.User{
		ID:           42,
		Email:        "student@example.com",
		PasswordHash: hashed,
		Role:         models.RoleStudent,
		IsActive:     true,
	}

	tests := []struct {
		name        string
		email       string
		rawPassword string
		mockUser    *models.User
		wantErr     error
	}{
		{
			name:        "успешный вход",
			email:       "student@example.com",
			rawPassword: "secret123",
			mockUser:    existing,
			wantErr:     nil,
		},
		{
			name:        "неверный пароль",
			email:       "student@example.com",
			rawPassword: "wrong",
			mockUser:    existing,
			wantErr:     ErrInvalidCredentials,
		},
		{
			name:        "пользователь не найден",
			email:       "ghost@example.com",
			rawPassword: "secret123",
			mockUser:    nil,
			wantErr:     ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			maker := jwt.NewMaker("test-secret", time.Hour)
			service := NewAuthService(repo, maker)

			repo.On("GetUserByEmail", mock.Anything, tt.email).
				Return(tt.mockUser, nil).Once()

			token, user, err := service.Login(context.Background(), tt.email, tt.rawPassword)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.Equal(t, int64(42), user.ID)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, int64(42), claims.UserID)
			assert.Equal(t, models.RoleStudent, claims.Role)
		})
	}
}
