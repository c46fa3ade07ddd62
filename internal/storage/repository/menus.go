package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
)

// CreateDish добавляет блюдо в каталог и возвращает его ID.
func (s *Storage) CreateDish(ctx context.Context, dish models.Dish) (int64, error) {
	const op = "storage.CreateDish"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO dishes (name, description, price, category, is_available)
			  VALUES ($1, $2, $3, $4, true)
			  RETURNING id`
	err := s.DB.QueryRowContext(ctx, query, dish.Name, dish.Description,
		dish.Price, dish.Category).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetDish возвращает блюдо по ID или nil, если блюда нет.
func (s *Storage) GetDish(ctx context.Context, id int64) (*models.Dish, error) {
	const op = "storage.GetDish"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	dish := &models.Dish{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, name, description, price, category, is_available, created_at
		 FROM dishes WHERE id = $1`, id).Scan(&dish.ID, &dish.Name,
		&dish.Description, &dish.Price, &dish.Category, &dish.IsAvailable,
		&dish.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return dish, nil
}

// ListDishes возвращает доступные блюда каталога.
func (s *Storage) ListDishes(ctx context.Context, limit, offset int) ([]*models.Dish, error) {
	const op = "storage.ListDishes"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, price, category, is_available, created_at
			  FROM dishes
			  WHERE is_available
			  ORDER BY category, name
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Dish
	for rows.Next() {
		dish := &models.Dish{}
		if err := rows.Scan(&dish.ID, &dish.Name, &dish.Description, &dish.Price,
			&dish.Category, &dish.IsAvailable, &dish.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, dish)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateMenuWithItems создаёт меню на дату и тип приёма пищи вместе
// с позициями. Выполняется в собственной транзакции.
func (s *Storage) CreateMenuWithItems(ctx context.Context, menu models.Menu, dishIDs []int64) (int64, error) {
	const op = "storage.CreateMenuWithItems"
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
		`INSERT INTO menus (menu_date, meal_type, is_active)
		 VALUES ($1, $2, true)
		 RETURNING id`, menu.MenuDate, menu.MealType).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	for _, dishID := range dishIDs {
		_, err = tx.tx.ExecContext(ctx,
			`INSERT INTO menu_items (menu_id, dish_id) VALUES ($1, $2)`,
			newID, dishID)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetMenuByDateType возвращает активное меню на дату и тип приёма пищи
// или nil, если меню нет.
func (s *Storage) GetMenuByDateType(ctx context.Context, day time.Time, mealType string) (*models.Menu, error) {
	const op = "storage.GetMenuByDateType"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	menu := &models.Menu{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, menu_date, meal_type, is_active, created_at
		 FROM menus WHERE menu_date = $1::date AND meal_type = $2 AND is_active`,
		day, mealType).Scan(&menu.ID, &menu.MenuDate, &menu.MealType,
		&menu.IsActive, &menu.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return menu, nil
}

// GetMenu возвращает меню по ID или nil, если меню нет.
func (s *Storage) GetMenu(ctx context.Context, id int64) (*models.Menu, error) {
	const op = "storage.GetMenu"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	menu := &models.Menu{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, menu_date, meal_type, is_active, created_at
		 FROM menus WHERE id = $1`, id).Scan(&menu.ID, &menu.MenuDate,
		&menu.MealType, &menu.IsActive, &menu.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return menu, nil
}

// ListMenuDishes возвращает блюда указанного меню.
func (s *Storage) ListMenuDishes(ctx context.Context, menuID int64) ([]models.Dish, error) {
	const op = "storage.ListMenuDishes"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT d.id, d.name, d.description, d.price, d.category,
			      d.is_available, d.created_at
			  FROM menu_items mi
			  JOIN dishes d ON d.id = mi.dish_id
			  WHERE mi.menu_id = $1
			  ORDER BY d.category, d.name`
	rows, err := s.DB.QueryContext(ctx, query, menuID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Dish
	for rows.Next() {
		var dish models.Dish
		if err := rows.Scan(&dish.ID, &dish.Name, &dish.Description, &dish.Price,
			&dish.Category, &dish.IsAvailable, &dish.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, dish)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// EnsureMenu возвращает ID активного меню на дату и тип приёма пищи,
// создавая пустое меню, если его ещё нет.
func (t *Tx) EnsureMenu(ctx context.Context, day time.Time, mealType string) (int64, error) {
	const op = "storage.Tx.EnsureMenu"
	var id int64
	err := t.tx.QueryRowContext(ctx,
		`SELECT id FROM menus
		 WHERE menu_date = $1::date AND meal_type = $2 AND is_active`,
		day, mealType).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	err = t.tx.QueryRowContext(ctx,
		`INSERT INTO menus (menu_date, meal_type, is_active)
		 VALUES ($1, $2, true)
		 RETURNING id`, day, mealType).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}
