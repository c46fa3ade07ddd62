// Package services содержит бизнес-логику отзывов о блюдах.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
	purchasesrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/purchase"
	"github.com/magabrotheeeer/cafeteria-backend/internal/storage/repository"
)

// Ошибки работы с отзывами.
var (
	// ErrReviewExists — у пользователя уже есть отзыв на это блюдо.
	ErrReviewExists = errors.New("review already exists")
	// ErrReviewNotFound — отзыв не найден или принадлежит другому пользователю.
	ErrReviewNotFound = errors.New("review not found")
)

// ReviewService реализует отзывы студентов о блюдах: один отзыв
// на пару (пользователь, блюдо), удалить можно только свой.
type ReviewService struct {
	storage *repository.Storage
	log     *slog.Logger
}

// NewReviewService создает новый экземпляр ReviewService.
func NewReviewService(storage *repository.Storage, log *slog.Logger) *ReviewService {
	return &ReviewService{storage: storage, log: log}
}

// Add создаёт отзыв о блюде. Блюдо должно существовать в каталоге.
func (s *ReviewService) Add(ctx context.Context, userID int64, req models.DummyReview) (*models.Review, error) {
	dish, err := s.storage.GetDish(ctx, req.DishID)
	if err != nil {
		return nil, err
	}
	if dish == nil {
		return nil, purchasesrv.ErrDishNotFound
	}

	review := models.Review{
		UserID:  userID,
		DishID:  req.DishID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	review.ID, err = s.storage.InsertReview(ctx, review)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrReviewExists
		}
		return nil, err
	}

	s.log.Info("review added",
		slog.Int64("user_id", userID),
		slog.Int64("dish_id", req.DishID),
		slog.Int("rating", req.Rating))
	return &review, nil
}

// List возвращает отзывы пользователя вместе с блюдами.
func (s *ReviewService) List(ctx context.Context, userID int64, limit, offset int) ([]*models.ReviewView, error) {
	return s.storage.ListReviews(ctx, userID, limit, offset)
}

// Delete удаляет отзыв пользователя.
func (s *ReviewService) Delete(ctx context.Context, id, userID int64) error {
	ok, err := s.storage.DeleteReview(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrReviewNotFound
	}
	return nil
}
