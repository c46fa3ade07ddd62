// Package services содержит бизнес-логику покупки блюд впрок.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
	walletsrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/wallet"
	"github.com/magabrotheeeer/cafeteria-backend/internal/storage/repository"
)

// ErrDishNotFound возвращается, если блюдо не найдено или недоступно.
var ErrDishNotFound = errors.New("dish not found or unavailable")

// PurchaseService реализует покупку блюд с кошелька. Купленное блюдо
// остаётся непогашенным до предъявления при выдаче питания.
type PurchaseService struct {
	storage *repository.Storage
	log     *slog.Logger
}

// NewPurchaseService создает новый экземпляр PurchaseService.
func NewPurchaseService(storage *repository.Storage, log *slog.Logger) *PurchaseService {
	return &PurchaseService{storage: storage, log: log}
}

// BuyDish покупает блюдо за счёт кошелька. Возвращает созданную покупку
// и остаток баланса.
func (s *PurchaseService) BuyDish(ctx context.Context, userID int64, req models.DummyPurchase) (*models.DishPurchase, int, error) {
	dish, err := s.storage.GetDish(ctx, req.DishID)
	if err != nil {
		return nil, 0, err
	}
	if dish == nil || !dish.IsAvailable {
		return nil, 0, ErrDishNotFound
	}

	tx, err := s.storage.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	balance, paid, err := tx.DeductBalance(ctx, userID, dish.Price)
	if err != nil {
		return nil, 0, err
	}
	if !paid {
		return nil, 0, &walletsrv.InsufficientFundsError{Shortfall: dish.Price - balance}
	}

	purchase := models.DishPurchase{
		UserID:    userID,
		DishID:    dish.ID,
		PricePaid: dish.Price,
		MealType:  req.MealType,
	}
	purchase.ID, err = tx.InsertDishPurchase(ctx, purchase)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}

	s.log.Info("dish purchased",
		slog.Int64("user_id", userID),
		slog.Int64("dish_id", dish.ID),
		slog.Int("price", dish.Price))
	return &purchase, balance, nil
}

// List возвращает покупки пользователя с пагинацией.
func (s *PurchaseService) List(ctx context.Context, userID int64, limit, offset int) ([]*models.DishPurchase, error) {
	return s.storage.ListPurchases(ctx, userID, limit, offset)
}
