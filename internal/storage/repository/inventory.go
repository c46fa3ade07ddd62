package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
)

// CreateIngredient добавляет ингредиент вместе с нулевым запасом
// и возвращает его ID.
func (s *Storage) CreateIngredient(ctx context.Context, ingredient models.Ingredient) (int64, error) {
	const op = "storage.CreateIngredient"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var newID int64
	err = tx.tx.QueryRowContext(ctx,
		`INSERT INTO ingredients (name, unit, min_stock_level)
		 VALUES ($1, $2, $3)
		 RETURNING id`, ingredient.Name, ingredient.Unit,
		ingredient.MinStockLevel).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.tx.ExecContext(ctx,
		`INSERT INTO inventory (ingredient_id, quantity, last_updated)
		 VALUES ($1, 0, now())`, newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetIngredient возвращает ингредиент по ID или nil, если его нет.
func (s *Storage) GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error) {
	const op = "storage.GetIngredient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	ingredient := &models.Ingredient{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, name, unit, min_stock_level, created_at
		 FROM ingredients WHERE id = $1`, id).Scan(&ingredient.ID,
		&ingredient.Name, &ingredient.Unit, &ingredient.MinStockLevel,
		&ingredient.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ingredient, nil
}

// ListInventory возвращает запасы вместе с данными ингредиентов.
func (s *Storage) ListInventory(ctx context.Context) ([]*models.InventoryItem, error) {
	const op = "storage.ListInventory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT inv.id, inv.ingredient_id, inv.quantity, inv.last_updated,
			      ing.name, ing.unit, ing.min_stock_level
			  FROM inventory inv
			  JOIN ingredients ing ON ing.id = inv.ingredient_id
			  ORDER BY ing.name`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.InventoryItem
	for rows.Next() {
		item := &models.InventoryItem{}
		if err := rows.Scan(&item.ID, &item.IngredientID, &item.Quantity,
			&item.LastUpdated, &item.IngredientName, &item.Unit,
			&item.MinStockLevel); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		item.IsLowStock = item.Quantity < item.MinStockLevel
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AdjustInventory изменяет запас ингредиента на delta. Возвращает
// новое количество и false, если результат ушёл бы в минус.
func (t *Tx) AdjustInventory(ctx context.Context, ingredientID int64, delta float64) (float64, bool, error) {
	const op = "storage.Tx.AdjustInventory"
	query := `UPDATE inventory
			  SET quantity = quantity + $2, last_updated = now()
			  WHERE ingredient_id = $1 AND quantity + $2 >= 0
			  RETURNING quantity`
	var quantity float64
	err := t.tx.QueryRowContext(ctx, query, ingredientID, delta).Scan(&quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return quantity, true, nil
}

// GetStockLevel возвращает текущий запас и минимальный уровень
// ингредиента в рамках транзакции.
func (t *Tx) GetStockLevel(ctx context.Context, ingredientID int64) (quantity, minLevel float64, err error) {
	const op = "storage.Tx.GetStockLevel"
	err = t.tx.QueryRowContext(ctx,
		`SELECT inv.quantity, ing.min_stock_level
		 FROM inventory inv
		 JOIN ingredients ing ON ing.id = inv.ingredient_id
		 WHERE inv.ingredient_id = $1`, ingredientID).Scan(&quantity, &minLevel)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	return quantity, minLevel, nil
}

// CountLowStock возвращает количество ингредиентов с запасом ниже
// минимального уровня.
func (s *Storage) CountLowStock(ctx context.Context) (int, error) {
	const op = "storage.CountLowStock"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM inventory inv
		 JOIN ingredients ing ON ing.id = inv.ingredient_id
		 WHERE inv.quantity < ing.min_stock_level`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
