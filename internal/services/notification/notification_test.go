package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
)

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) InsertNotification(ctx context.Context, n models.Notification) (int64, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) ListNotifications(ctx context.Context, userID int64, limit, offset int) ([]*models.Notification, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountUnreadNotifications(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationRepository) MarkNotificationRead(ctx context.Context, id, userID int64) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) GetUser(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockNotificationRepository) ListUserIDsByRole(ctx context.Context, role string) ([]int64, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, message any) error {
	args := m.Called(routingKey, message)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestNotificationService_Notify(t *testing.T) {
	repo := new(MockNotificationRepository)
	publisher := new(MockPublisher)
	service := NewNotificationService(repo, publisher, newNoopLogger())

	user := &models.User{ID: 7, Email: "cook@example.com", FullName: "Пётр Петров"}

	repo.On("InsertNotification", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.UserID == 7 && n.Title == "Заявка одобрена"
	})).Return(int64(1), nil).Once()
	repo.On("GetUser", mock.Anything, int64(7)).Return(user, nil).Once()
	publisher.On("Publish", "email", models.NotificationEvent{
		Email:    "cook@example.com",
		FullName: "Пётр Петров",
		Title:    "Заявка одобрена",
		Message:  "Ваша заявка №1 одобрена.",
	}).Return(nil).Once()

	err := service.Notify(context.Background(), 7, "Заявка одобрена", "Ваша заявка №1 одобрена.")

	require.NoError(t, err)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestNotificationService_Notify_PublishFailureIsNotFatal(t *testing.T) {
	repo := new(MockNotificationRepository)
	publisher := new(MockPublisher)
	service := NewNotificationService(repo, publisher, newNoopLogger())

	repo.On("InsertNotification", mock.Anything, mock.Anything).Return(int64(1), nil).Once()
	repo.On("GetUser", mock.Anything, int64(7)).
		Return(&models.User{ID: 7, Email: "cook@example.com"}, nil).Once()
	publisher.On("Publish", "email", mock.Anything).
		Return(errors.New("broker unavailable")).Once()

	err := service.Notify(context.Background(), 7, "Тест", "Тест.")

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestNotificationService_NotifyRole(t *testing.T) {
	repo := new(MockNotificationRepository)
	service := NewNotificationService(repo, nil, newNoopLogger())

	repo.On("ListUserIDsByRole", mock.Anything, models.RoleAdmin).
		Return([]int64{1, 2}, nil).Once()
	repo.On("InsertNotification", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.UserID == 1
	})).Return(int64(10), nil).Once()
	repo.On("InsertNotification", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.UserID == 2
	})).Return(int64(11), nil).Once()

	err := service.NotifyRole(context.Background(), models.RoleAdmin,
		"Низкий запас ингредиента", "Запас картофеля ниже минимума.")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestNotificationService_MarkRead(t *testing.T) {
	repo := new(MockNotificationRepository)
	service := NewNotificationService(repo, nil, newNoopLogger())

	repo.On("MarkNotificationRead", mock.Anything, int64(5), int64(7)).
		Return(true, nil).Once()
	repo.On("MarkNotificationRead", mock.Anything, int64(99), int64(7)).
		Return(false, nil).Once()

	require.NoError(t, service.MarkRead(context.Background(), 5, 7))
	assert.ErrorIs(t, service.MarkRead(context.Background(), 99, 7), ErrNotificationNotFound)
	repo.AssertExpectations(t)
}

func TestNotificationService_Broadcast(t *testing.T) {
	t.Run("рассылка по роли", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		service := NewNotificationService(repo, nil, newNoopLogger())

		repo.On("ListUserIDsByRole", mock.Anything, models.RoleStudent).
			Return([]int64{1, 2, 3}, nil).Once()
		repo.On("InsertNotification", mock.Anything, mock.Anything).
			Return(int64(1), nil).Times(3)

		count, err := service.Broadcast(context.Background(), models.DummyBroadcast{
			Title:   "Новое меню",
			Message: "Опубликовано меню на неделю.",
			Role:    models.RoleStudent,
		})

		require.NoError(t, err)
		assert.Equal(t, 3, count)
		repo.AssertExpectations(t)
	})

	t.Run("рассылка по списку получателей", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		service := NewNotificationService(repo, nil, newNoopLogger())

		repo.On("InsertNotification", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
			return n.UserID == 7
		})).Return(int64(1), nil).Once()
		repo.On("InsertNotification", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
			return n.UserID == 8
		})).Return(int64(2), nil).Once()

		count, err := service.Broadcast(context.Background(), models.DummyBroadcast{
			Title:   "Перенос обеда",
			Message: "Обед начнётся на час позже.",
			UserIDs: []int64{7, 8},
		})

		require.NoError(t, err)
		assert.Equal(t, 2, count)
		repo.AssertExpectations(t)
	})

	t.Run("без получателей", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		service := NewNotificationService(repo, nil, newNoopLogger())

		_, err := service.Broadcast(context.Background(), models.DummyBroadcast{
			Title:   "Тест",
			Message: "Тест.",
		})

		assert.ErrorIs(t, err, ErrNoRecipients)
	})
}
