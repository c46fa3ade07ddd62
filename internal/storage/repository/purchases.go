package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
)

// InsertDishPurchase создаёт запись о предоплаченном блюде.
func (t *Tx) InsertDishPurchase(ctx context.Context, purchase models.DishPurchase) (int64, error) {
	const op = "storage.Tx.InsertDishPurchase"
	var newID int64
	query := `INSERT INTO dish_purchases (user_id, dish_id, price_paid, meal_type, is_used)
			  VALUES ($1, $2, $3, $4, false)
			  RETURNING id`
	err := t.tx.QueryRowContext(ctx, query, purchase.UserID, purchase.DishID,
		purchase.PricePaid, purchase.MealType).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// LockUnusedPurchase блокирует непогашенную покупку пользователя,
// подходящую под указанный тип приёма пищи. Покупка без типа считается
// обеденной. Возвращает nil, если подходящей покупки нет.
func (t *Tx) LockUnusedPurchase(ctx context.Context, userID int64, mealType string) (*models.DishPurchase, error) {
	const op = "storage.Tx.LockUnusedPurchase"
	query := `SELECT id, user_id, dish_id, price_paid, meal_type, is_used, created_at
			  FROM dish_purchases
			  WHERE user_id = $1
			      AND is_used = false
			      AND (meal_type = $2 OR (meal_type = '' AND $2 = $3))
			  ORDER BY id
			  LIMIT 1
			  FOR UPDATE`
	purchase := &models.DishPurchase{}
	err := t.tx.QueryRowContext(ctx, query, userID, mealType, models.MealLunch).Scan(
		&purchase.ID, &purchase.UserID, &purchase.DishID, &purchase.PricePaid,
		&purchase.MealType, &purchase.IsUsed, &purchase.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return purchase, nil
}

// MarkPurchaseUsed погашает покупку. Возвращает false, если покупка
// уже была погашена.
func (t *Tx) MarkPurchaseUsed(ctx context.Context, id int64) (bool, error) {
	const op = "storage.Tx.MarkPurchaseUsed"
	result, err := t.tx.ExecContext(ctx,
		`UPDATE dish_purchases SET is_used = true WHERE id = $1 AND is_used = false`, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected == 1, nil
}

// ListPurchases возвращает покупки пользователя, новые первыми.
func (s *Storage) ListPurchases(ctx context.Context, userID int64, limit, offset int) ([]*models.DishPurchase, error) {
	const op = "storage.ListPurchases"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, dish_id, price_paid, meal_type, is_used, created_at
			  FROM dish_purchases
			  WHERE user_id = $1
			  ORDER BY created_at DESC, id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.DishPurchase
	for rows.Next() {
		purchase := &models.DishPurchase{}
		if err := rows.Scan(&purchase.ID, &purchase.UserID, &purchase.DishID,
			&purchase.PricePaid, &purchase.MealType, &purchase.IsUsed,
			&purchase.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, purchase)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
