package models

import "time"

// Dish представляет блюдо из каталога столовой.
type Dish struct {
	ID          int64     `json:"id"`           // Уникальный идентификатор
	Name        string    `json:"name"`         // Название блюда
	Description string    `json:"description"`  // Описание
	Price       int       `json:"price"`        // Цена в рублях
	Category    string    `json:"category"`     // Категория блюда
	IsAvailable bool      `json:"is_available"` // Доступно ли блюдо к заказу
	CreatedAt   time.Time `json:"created_at"`   // Дата добавления
}

// Menu представляет меню на дату и тип приёма пищи.
// Пара (MenuDate, MealType) уникальна.
type Menu struct {
	ID        int64     `json:"id"`         // Уникальный идентификатор
	MenuDate  time.Time `json:"menu_date"`  // Дата меню
	MealType  string    `json:"meal_type"`  // breakfast или lunch
	IsActive  bool      `json:"is_active"`  // Активно ли меню
	CreatedAt time.Time `json:"created_at"` // Дата создания
}

// MenuItem связывает меню с блюдом.
type MenuItem struct {
	ID     int64 `json:"id"`
	MenuID int64 `json:"menu_id"`
	DishID int64 `json:"dish_id"`
}

// MenuView объединяет меню и его блюда для выдачи клиенту.
type MenuView struct {
	Menu   Menu   `json:"menu"`
	Dishes []Dish `json:"dishes"`
}

// DummyDish используется для приёма данных нового блюда.
type DummyDish struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       int    `json:"price" validate:"required,gt=0"`
	Category    string `json:"category" validate:"required"`
}

// DummyMenu используется администратором для создания меню.
// Дата приходит строкой в формате 2006-01-02.
type DummyMenu struct {
	MenuDate string  `json:"menu_date" validate:"required,datetime=2006-01-02"`
	MealType string  `json:"meal_type" validate:"required,oneof=breakfast lunch"`
	DishIDs  []int64 `json:"dish_ids" validate:"required,min=1"`
}
