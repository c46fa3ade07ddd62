package models

import "time"

// Ingredient представляет ингредиент склада.
type Ingredient struct {
	ID            int64     `json:"id"`              // Уникальный идентификатор
	Name          string    `json:"name"`            // Название (уникальное)
	Unit          string    `json:"unit"`            // Единица измерения
	MinStockLevel float64   `json:"min_stock_level"` // Минимальный уровень запаса
	CreatedAt     time.Time `json:"created_at"`      // Дата добавления
}

// Inventory представляет текущий запас ингредиента.
type Inventory struct {
	ID           int64     `json:"id"`            // Уникальный идентификатор
	IngredientID int64     `json:"ingredient_id"` // Ингредиент (уникальная связь)
	Quantity     float64   `json:"quantity"`      // Текущее количество
	LastUpdated  time.Time `json:"last_updated"`  // Время последнего изменения
}

// InventoryItem объединяет запас и ингредиент для выдачи клиенту.
type InventoryItem struct {
	Inventory
	IngredientName string  `json:"ingredient_name"`
	Unit           string  `json:"unit"`
	MinStockLevel  float64 `json:"min_stock_level"`
	IsLowStock     bool    `json:"is_low_stock"`
}

// DummyInventoryAdjust используется поваром для корректировки запаса.
type DummyInventoryAdjust struct {
	Adjustment float64 `json:"adjustment" validate:"required"`
}

// DummyIngredient используется администратором для добавления ингредиента.
type DummyIngredient struct {
	Name          string  `json:"name" validate:"required"`
	Unit          string  `json:"unit" validate:"required"`
	MinStockLevel float64 `json:"min_stock_level" validate:"gte=0"`
}
