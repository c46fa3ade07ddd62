package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
)

// InsertNotification сохраняет уведомление и возвращает его ID.
func (s *Storage) InsertNotification(ctx context.Context, notification models.Notification) (int64, error) {
	const op = "storage.InsertNotification"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO notifications (user_id, title, message, is_read)
			  VALUES ($1, $2, $3, false)
			  RETURNING id`
	err := s.DB.QueryRowContext(ctx, query, notification.UserID,
		notification.Title, notification.Message).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListNotifications возвращает уведомления пользователя: сначала
// непрочитанные, внутри групп новые первыми.
func (s *Storage) ListNotifications(ctx context.Context, userID int64, limit, offset int) ([]*models.Notification, error) {
	const op = "storage.ListNotifications"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, title, message, is_read, created_at
			  FROM notifications
			  WHERE user_id = $1
			  ORDER BY is_read, created_at DESC, id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Notification
	for rows.Next() {
		notification := &models.Notification{}
		if err := rows.Scan(&notification.ID, &notification.UserID,
			&notification.Title, &notification.Message, &notification.IsRead,
			&notification.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, notification)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountUnreadNotifications возвращает количество непрочитанных
// уведомлений пользователя.
func (s *Storage) CountUnreadNotifications(ctx context.Context, userID int64) (int, error) {
	const op = "storage.CountUnreadNotifications"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`,
		userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// MarkNotificationRead помечает уведомление прочитанным. Возвращает
// false, если уведомление не принадлежит пользователю или не найдено.
func (s *Storage) MarkNotificationRead(ctx context.Context, id, userID int64) (bool, error) {
	const op = "storage.MarkNotificationRead"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected == 1, nil
}

// MarkAllNotificationsRead помечает все уведомления пользователя
// прочитанными и возвращает число затронутых записей.
func (s *Storage) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	const op = "storage.MarkAllNotificationsRead"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false`,
		userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}
