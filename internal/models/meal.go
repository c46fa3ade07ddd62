package models

import "time"

// Типы приёмов пищи.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
)

// MealRecord фиксирует выдачу питания. Подтверждённая запись неизменяема,
// путь удаления отсутствует. Допускается не более одной подтверждённой
// записи на (пользователь, тип приёма пищи, календарный день).
type MealRecord struct {
	ID          int64     `json:"id"`           // Уникальный идентификатор
	UserID      int64     `json:"user_id"`      // Получатель питания
	MenuID      int64     `json:"menu_id"`      // Меню, по которому выдано питание
	MealType    string    `json:"meal_type"`    // breakfast или lunch
	IsConfirmed bool      `json:"is_confirmed"` // Подтверждена ли выдача
	ReceivedAt  time.Time `json:"received_at"`  // Время выдачи
}

// DummyClaim используется студентом для подтверждения получения питания.
type DummyClaim struct {
	MealType string `json:"meal_type" validate:"omitempty,oneof=breakfast lunch"`
	MenuID   int64  `json:"menu_id,omitempty"`
}

// DummyServe используется поваром для отметки выдачи питания студенту.
// Указывается либо существующая запись MealID, либо пользователь UserID.
type DummyServe struct {
	MealID   int64  `json:"meal_id,omitempty"`
	UserID   int64  `json:"user_id,omitempty"`
	MealType string `json:"meal_type" validate:"omitempty,oneof=breakfast lunch"`
	MenuID   int64  `json:"menu_id,omitempty"`
}
