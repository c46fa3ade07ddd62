package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
)

// InsertReview создаёт отзыв о блюде и возвращает его ID.
// Повторный отзыв на то же блюдо нарушает уникальный индекс.
func (s *Storage) InsertReview(ctx context.Context, review models.Review) (int64, error) {
	const op = "storage.InsertReview"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO reviews (user_id, dish_id, rating, comment)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	err := s.DB.QueryRowContext(ctx, query, review.UserID, review.DishID,
		review.Rating, review.Comment).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListReviews возвращает отзывы пользователя вместе с блюдами,
// новые первыми.
func (s *Storage) ListReviews(ctx context.Context, userID int64, limit, offset int) ([]*models.ReviewView, error) {
	const op = "storage.ListReviews"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT r.id, r.user_id, r.dish_id, r.rating, r.comment, r.created_at,
			      d.id, d.name, d.description, d.price, d.category, d.is_available, d.created_at
			  FROM reviews r
			  JOIN dishes d ON d.id = r.dish_id
			  WHERE r.user_id = $1
			  ORDER BY r.created_at DESC, r.id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ReviewView
	for rows.Next() {
		view := &models.ReviewView{Dish: &models.Dish{}}
		if err := rows.Scan(&view.ID, &view.UserID, &view.DishID, &view.Rating,
			&view.Comment, &view.CreatedAt, &view.Dish.ID, &view.Dish.Name,
			&view.Dish.Description, &view.Dish.Price, &view.Dish.Category,
			&view.Dish.IsAvailable, &view.Dish.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteReview удаляет отзыв пользователя. Возвращает false, если
// отзыва нет или он принадлежит другому пользователю.
func (s *Storage) DeleteReview(ctx context.Context, id, userID int64) (bool, error) {
	const op = "storage.DeleteReview"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`DELETE FROM reviews WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected == 1, nil
}
