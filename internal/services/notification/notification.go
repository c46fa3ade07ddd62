// Package services содержит бизнес-логику уведомлений: сохранение,
// чтение и публикацию событий для почтовой рассылки.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/cafeteria-backend/internal/lib/sl"
	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
)

// Ошибки работы с уведомлениями.
var (
	// ErrNotificationNotFound — уведомление не найдено или принадлежит
	// другому пользователю.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrNoRecipients — в рассылке не указаны ни роль, ни получатели.
	ErrNoRecipients = errors.New("no recipients specified")
)

// NotificationRepository описывает контракт хранилища уведомлений.
type NotificationRepository interface {
	InsertNotification(ctx context.Context, notification models.Notification) (int64, error)
	ListNotifications(ctx context.Context, userID int64, limit, offset int) ([]*models.Notification, error)
	CountUnreadNotifications(ctx context.Context, userID int64) (int, error)
	MarkNotificationRead(ctx context.Context, id, userID int64) (bool, error)
	MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUserIDsByRole(ctx context.Context, role string) ([]int64, error)
}

// Publisher описывает публикацию события уведомления в очередь рассылки.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// NotificationService сохраняет уведомления и отправляет события
// в очередь почтовой рассылки. Сбой публикации не прерывает операцию:
// уведомление в любом случае остаётся в базе.
type NotificationService struct {
	repo      NotificationRepository
	publisher Publisher
	log       *slog.Logger
}

// NewNotificationService создает новый экземпляр NotificationService.
func NewNotificationService(repo NotificationRepository, publisher Publisher, log *slog.Logger) *NotificationService {
	return &NotificationService{repo: repo, publisher: publisher, log: log}
}

// Notify сохраняет уведомление пользователю и публикует событие
// для почтовой рассылки.
func (s *NotificationService) Notify(ctx context.Context, userID int64, title, message string) error {
	_, err := s.repo.InsertNotification(ctx, models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
	})
	if err != nil {
		return err
	}

	if s.publisher == nil {
		return nil
	}
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil || user == nil {
		s.log.Warn("failed to load user for email event", sl.Err(err))
		return nil
	}
	event := models.NotificationEvent{
		Email:    user.Email,
		FullName: user.FullName,
		Title:    title,
		Message:  message,
	}
	if err := s.publisher.Publish("email", event); err != nil {
		s.log.Warn("failed to publish email event", sl.Err(err))
	}
	return nil
}

// NotifyRole сохраняет уведомление каждому активному пользователю
// указанной роли.
func (s *NotificationService) NotifyRole(ctx context.Context, role, title, message string) error {
	ids, err := s.repo.ListUserIDsByRole(ctx, role)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.Notify(ctx, id, title, message); err != nil {
			return err
		}
	}
	return nil
}

// Broadcast рассылает уведомление получателям, указанным ролью или
// списком идентификаторов. Возвращает число адресатов.
func (s *NotificationService) Broadcast(ctx context.Context, req models.DummyBroadcast) (int, error) {
	var ids []int64
	if req.Role != "" {
		var err error
		ids, err = s.repo.ListUserIDsByRole(ctx, req.Role)
		if err != nil {
			return 0, err
		}
	} else {
		ids = req.UserIDs
	}
	if len(ids) == 0 {
		return 0, ErrNoRecipients
	}

	for _, id := range ids {
		if err := s.Notify(ctx, id, req.Title, req.Message); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

// List возвращает уведомления пользователя и количество непрочитанных.
func (s *NotificationService) List(ctx context.Context, userID int64, limit, offset int) ([]*models.Notification, int, error) {
	notifications, err := s.repo.ListNotifications(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.repo.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return notifications, unread, nil
}

// MarkRead помечает уведомление пользователя прочитанным.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID int64) error {
	ok, err := s.repo.MarkNotificationRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead помечает все уведомления пользователя прочитанными.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.MarkAllNotificationsRead(ctx, userID)
}
