// Package services содержит бизнес-логику меню и каталога блюд,
// включая кеширование меню на сегодня.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
	"github.com/magabrotheeeer/cafeteria-backend/internal/storage/repository"
)

// Ошибки работы с меню и каталогом блюд.
var (
	// ErrMenuNotFound — меню на запрошенный день отсутствует.
	ErrMenuNotFound = errors.New("menu not found")
	// ErrMenuExists — меню на эту дату и тип приёма пищи уже создано.
	ErrMenuExists = errors.New("menu for this date and meal type already exists")
	// ErrDishNotFound — блюдо не найдено.
	ErrDishNotFound = errors.New("dish not found")
)

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// MenuService реализует работу с меню и каталогом блюд.
type MenuService struct {
	storage *repository.Storage
	cache   Cache
	log     *slog.Logger
}

// NewMenuService создает новый экземпляр MenuService.
func NewMenuService(storage *repository.Storage, cache Cache, log *slog.Logger) *MenuService {
	return &MenuService{storage: storage, cache: cache, log: log}
}

func menuCacheKey(day time.Time, mealType string) string {
	return fmt.Sprintf("menu:%s:%s", day.Format("2006-01-02"), mealType)
}

// Today возвращает меню на указанный день и тип приёма пищи вместе
// с блюдами, используя кеш или хранилище.
func (s *MenuService) Today(ctx context.Context, day time.Time, mealType string) (*models.MenuView, error) {
	cacheKey := menuCacheKey(day, mealType)
	var cached *models.MenuView
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read menu from cache",
			slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	menu, err := s.storage.GetMenuByDateType(ctx, day, mealType)
	if err != nil {
		return nil, err
	}
	if menu == nil {
		return nil, ErrMenuNotFound
	}
	dishes, err := s.storage.ListMenuDishes(ctx, menu.ID)
	if err != nil {
		return nil, err
	}

	view := &models.MenuView{Menu: *menu, Dishes: dishes}
	if err := s.cache.Set(cacheKey, view, time.Hour); err != nil {
		s.log.Warn("failed to cache menu",
			slog.String("key", cacheKey), slog.Any("err", err))
	}
	return view, nil
}

// Create создает меню с позициями. Пара (дата, тип приёма пищи) уникальна.
func (s *MenuService) Create(ctx context.Context, req models.DummyMenu) (int64, error) {
	menuDate, err := time.Parse("2006-01-02", req.MenuDate)
	if err != nil {
		return 0, fmt.Errorf("invalid menu date: %w", err)
	}

	for _, dishID := range req.DishIDs {
		dish, err := s.storage.GetDish(ctx, dishID)
		if err != nil {
			return 0, err
		}
		if dish == nil {
			return 0, ErrDishNotFound
		}
	}

	id, err := s.storage.CreateMenuWithItems(ctx,
		models.Menu{MenuDate: menuDate, MealType: req.MealType}, req.DishIDs)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return 0, ErrMenuExists
		}
		return 0, err
	}

	if err := s.cache.Invalidate(menuCacheKey(menuDate, req.MealType)); err != nil {
		s.log.Warn("failed to invalidate menu cache", slog.Any("err", err))
	}

	s.log.Info("menu created", slog.Int64("id", id),
		slog.String("date", req.MenuDate), slog.String("meal_type", req.MealType))
	return id, nil
}

// CreateDish добавляет блюдо в каталог.
func (s *MenuService) CreateDish(ctx context.Context, req models.DummyDish) (int64, error) {
	id, err := s.storage.CreateDish(ctx, models.Dish{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("dish created", slog.Int64("id", id), slog.String("name", req.Name))
	return id, nil
}

// ListDishes возвращает доступные блюда каталога.
func (s *MenuService) ListDishes(ctx context.Context, limit, offset int) ([]*models.Dish, error) {
	return s.storage.ListDishes(ctx, limit, offset)
}
