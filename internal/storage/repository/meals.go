package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
)

// HasConfirmedMealRecord сообщает, есть ли у пользователя подтверждённая
// запись о выдаче указанного типа за календарный день.
func (t *Tx) HasConfirmedMealRecord(ctx context.Context, userID int64, mealType string, day time.Time) (bool, error) {
	const op = "storage.Tx.HasConfirmedMealRecord"
	var exists bool
	query := `SELECT EXISTS (
			      SELECT 1 FROM meal_records
			      WHERE user_id = $1 AND meal_type = $2
			          AND is_confirmed
			          AND received_on = ($3 AT TIME ZONE 'UTC')::date)`
	err := t.tx.QueryRowContext(ctx, query, userID, mealType, day).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// InsertMealRecord создаёт запись о выдаче питания и возвращает её ID.
func (t *Tx) InsertMealRecord(ctx context.Context, record models.MealRecord) (int64, error) {
	const op = "storage.Tx.InsertMealRecord"
	var newID int64
	query := `INSERT INTO meal_records (user_id, menu_id, meal_type, is_confirmed,
			      received_at, received_on)
			  VALUES ($1, $2, $3, $4, $5, ($5 AT TIME ZONE 'UTC')::date)
			  RETURNING id`
	err := t.tx.QueryRowContext(ctx, query, record.UserID, record.MenuID,
		record.MealType, record.IsConfirmed, record.ReceivedAt).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetMealRecord возвращает запись о выдаче по ID.
func (s *Storage) GetMealRecord(ctx context.Context, id int64) (*models.MealRecord, error) {
	const op = "storage.GetMealRecord"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	record := &models.MealRecord{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, user_id, menu_id, meal_type, is_confirmed, received_at
		 FROM meal_records WHERE id = $1`, id).Scan(&record.ID, &record.UserID,
		&record.MenuID, &record.MealType, &record.IsConfirmed, &record.ReceivedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return record, nil
}

// LockMealRecord блокирует запись о выдаче в рамках транзакции.
// Возвращает nil, если записи нет.
func (t *Tx) LockMealRecord(ctx context.Context, id int64) (*models.MealRecord, error) {
	const op = "storage.Tx.LockMealRecord"
	record := &models.MealRecord{}
	err := t.tx.QueryRowContext(ctx,
		`SELECT id, user_id, menu_id, meal_type, is_confirmed, received_at
		 FROM meal_records WHERE id = $1 FOR UPDATE`, id).Scan(&record.ID,
		&record.UserID, &record.MenuID, &record.MealType, &record.IsConfirmed,
		&record.ReceivedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return record, nil
}

// ConfirmMealRecord подтверждает запись о выдаче. Возвращает false,
// если запись уже была подтверждена.
func (t *Tx) ConfirmMealRecord(ctx context.Context, id int64, receivedAt time.Time) (bool, error) {
	const op = "storage.Tx.ConfirmMealRecord"
	result, err := t.tx.ExecContext(ctx,
		`UPDATE meal_records SET is_confirmed = true, received_at = $2,
		     received_on = ($2 AT TIME ZONE 'UTC')::date
		 WHERE id = $1 AND is_confirmed = false`, id, receivedAt)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected == 1, nil
}

// ListMealRecords возвращает записи о выдаче питания пользователю,
// новые первыми.
func (s *Storage) ListMealRecords(ctx context.Context, userID int64, limit, offset int) ([]*models.MealRecord, error) {
	const op = "storage.ListMealRecords"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, menu_id, meal_type, is_confirmed, received_at
			  FROM meal_records
			  WHERE user_id = $1
			  ORDER BY received_at DESC, id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.MealRecord
	for rows.Next() {
		record := &models.MealRecord{}
		if err := rows.Scan(&record.ID, &record.UserID, &record.MenuID,
			&record.MealType, &record.IsConfirmed, &record.ReceivedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountMealsServedOn возвращает количество подтверждённых выдач
// за календарный день.
func (s *Storage) CountMealsServedOn(ctx context.Context, day time.Time) (int, error) {
	const op = "storage.CountMealsServedOn"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM meal_records
		 WHERE is_confirmed
		     AND received_on = ($1 AT TIME ZONE 'UTC')::date`, day).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
