// Package services содержит бизнес-логику склада: учёт запасов
// и оповещение о низком уровне.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/cafeteria-backend/internal/lib/sl"
	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
	notificationsrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/notification"
	"github.com/magabrotheeeer/cafeteria-backend/internal/storage/repository"
)

// Ошибки работы со складом.
var (
	// ErrIngredientNotFound — ингредиент не найден.
	ErrIngredientNotFound = errors.New("ingredient not found")
	// ErrNegativeStock — корректировка увела бы запас в минус.
	ErrNegativeStock = errors.New("stock cannot go negative")
)

// InventoryService реализует учёт запасов. Падение запаса ниже
// минимального уровня оповещает всех администраторов.
type InventoryService struct {
	storage       *repository.Storage
	notifications *notificationsrv.NotificationService
	log           *slog.Logger
}

// NewInventoryService создает новый экземпляр InventoryService.
func NewInventoryService(storage *repository.Storage, notifications *notificationsrv.NotificationService, log *slog.Logger) *InventoryService {
	return &InventoryService{storage: storage, notifications: notifications, log: log}
}

// List возвращает запасы с данными ингредиентов и признаком низкого уровня.
func (s *InventoryService) List(ctx context.Context) ([]*models.InventoryItem, error) {
	return s.storage.ListInventory(ctx)
}

// Adjust изменяет запас ингредиента. При падении ниже минимального
// уровня каждому администратору отправляется уведомление.
func (s *InventoryService) Adjust(ctx context.Context, ingredientID int64, delta float64) (float64, error) {
	ingredient, err := s.storage.GetIngredient(ctx, ingredientID)
	if err != nil {
		return 0, err
	}
	if ingredient == nil {
		return 0, ErrIngredientNotFound
	}

	tx, err := s.storage.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	quantity, ok, err := tx.AdjustInventory(ctx, ingredientID, delta)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrNegativeStock
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	s.log.Info("inventory adjusted",
		slog.Int64("ingredient_id", ingredientID),
		slog.Float64("delta", delta),
		slog.Float64("quantity", quantity))

	if quantity < ingredient.MinStockLevel {
		title := "Низкий запас ингредиента"
		message := fmt.Sprintf("Запас ингредиента «%s» опустился до %.2f %s (минимум %.2f).",
			ingredient.Name, quantity, ingredient.Unit, ingredient.MinStockLevel)
		if err := s.notifications.NotifyRole(ctx, models.RoleAdmin, title, message); err != nil {
			s.log.Warn("failed to notify admins about low stock", sl.Err(err))
		}
	}

	return quantity, nil
}

// CreateIngredient добавляет ингредиент с нулевым запасом.
func (s *InventoryService) CreateIngredient(ctx context.Context, req models.DummyIngredient) (int64, error) {
	id, err := s.storage.CreateIngredient(ctx, models.Ingredient{
		Name:          req.Name,
		Unit:          req.Unit,
		MinStockLevel: req.MinStockLevel,
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("ingredient created", slog.Int64("id", id), slog.String("name", req.Name))
	return id, nil
}
