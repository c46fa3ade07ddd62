package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
)

// GetActiveSubscription возвращает активный абонемент пользователя
// или nil, если его нет.
func (s *Storage) GetActiveSubscription(ctx context.Context, userID int64) (*models.Subscription, error) {
	const op = "storage.GetActiveSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, subscription_type, start_date, end_date,
			      is_active, meals_remaining, created_at
			  FROM subscriptions
			  WHERE user_id = $1 AND is_active
			  ORDER BY id
			  LIMIT 1`
	sub := &models.Subscription{}
	err := s.DB.QueryRowContext(ctx, query, userID).Scan(&sub.ID, &sub.UserID,
		&sub.SubscriptionType, &sub.StartDate, &sub.EndDate, &sub.IsActive,
		&sub.MealsRemaining, &sub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// LockActiveSubscription блокирует активный абонемент пользователя
// в рамках транзакции. Возвращает nil, если активного абонемента нет.
func (t *Tx) LockActiveSubscription(ctx context.Context, userID int64) (*models.Subscription, error) {
	const op = "storage.Tx.LockActiveSubscription"
	query := `SELECT id, user_id, subscription_type, start_date, end_date,
			      is_active, meals_remaining, created_at
			  FROM subscriptions
			  WHERE user_id = $1 AND is_active
			  ORDER BY id
			  LIMIT 1
			  FOR UPDATE`
	sub := &models.Subscription{}
	err := t.tx.QueryRowContext(ctx, query, userID).Scan(&sub.ID, &sub.UserID,
		&sub.SubscriptionType, &sub.StartDate, &sub.EndDate, &sub.IsActive,
		&sub.MealsRemaining, &sub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// InsertSubscription создаёт новый абонемент и возвращает его ID.
func (t *Tx) InsertSubscription(ctx context.Context, sub models.Subscription) (int64, error) {
	const op = "storage.Tx.InsertSubscription"
	var newID int64
	query := `INSERT INTO subscriptions (user_id, subscription_type, start_date,
			      end_date, is_active, meals_remaining)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	err := t.tx.QueryRowContext(ctx, query, sub.UserID, sub.SubscriptionType,
		sub.StartDate, sub.EndDate, sub.IsActive, sub.MealsRemaining).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ExtendSubscription продлевает абонемент: сдвигает дату окончания
// и добавляет обеды к остатку.
func (t *Tx) ExtendSubscription(ctx context.Context, id int64, subscriptionType string, days, meals int) (*models.Subscription, error) {
	const op = "storage.Tx.ExtendSubscription"
	query := `UPDATE subscriptions
			  SET end_date = end_date + make_interval(days => $1),
			      meals_remaining = meals_remaining + $2,
			      subscription_type = $3
			  WHERE id = $4
			  RETURNING id, user_id, subscription_type, start_date, end_date,
			      is_active, meals_remaining, created_at`
	sub := &models.Subscription{}
	err := t.tx.QueryRowContext(ctx, query, days, meals, subscriptionType, id).Scan(
		&sub.ID, &sub.UserID, &sub.SubscriptionType, &sub.StartDate, &sub.EndDate,
		&sub.IsActive, &sub.MealsRemaining, &sub.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// DecrementSubscriptionMeals списывает один обед с абонемента.
// При достижении нуля абонемент деактивируется. Возвращает остаток и
// признак успеха: false, если остаток уже исчерпан.
func (t *Tx) DecrementSubscriptionMeals(ctx context.Context, id int64) (int, bool, error) {
	const op = "storage.Tx.DecrementSubscriptionMeals"
	query := `UPDATE subscriptions
			  SET meals_remaining = meals_remaining - 1,
			      is_active = (meals_remaining - 1 > 0)
			  WHERE id = $1 AND meals_remaining > 0
			  RETURNING meals_remaining`
	var remaining int
	err := t.tx.QueryRowContext(ctx, query, id).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return remaining, true, nil
}

// CountActiveSubscriptionsOn возвращает количество абонементов,
// действующих на указанную дату.
func (s *Storage) CountActiveSubscriptionsOn(ctx context.Context, day time.Time) (int, error) {
	const op = "storage.CountActiveSubscriptionsOn"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions
		 WHERE is_active AND start_date <= $1::date AND end_date >= $1::date`,
		day).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
