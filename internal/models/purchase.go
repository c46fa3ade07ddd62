package models

import "time"

// DishPurchase представляет предоплаченное блюдо. Создаётся при покупке,
// изменяется ровно один раз: флаг IsUsed переходит в true при погашении.
// Обратного перехода нет.
type DishPurchase struct {
	ID        int64     `json:"id"`         // Уникальный идентификатор
	UserID    int64     `json:"user_id"`    // Покупатель
	DishID    int64     `json:"dish_id"`    // Купленное блюдо
	PricePaid int       `json:"price_paid"` // Списанная с кошелька цена в рублях
	MealType  string    `json:"meal_type"`  // Тип приёма пищи; пустое значение считается lunch
	IsUsed    bool      `json:"is_used"`    // Погашена ли покупка
	CreatedAt time.Time `json:"created_at"` // Время покупки
}

// DummyPurchase используется для приёма запроса на покупку блюда.
type DummyPurchase struct {
	DishID   int64  `json:"dish_id" validate:"required"`
	MealType string `json:"meal_type" validate:"omitempty,oneof=breakfast lunch"`
}
