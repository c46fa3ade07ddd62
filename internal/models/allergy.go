package models

import "time"

// Allergy представляет запись об аллергии студента.
// Пара (UserID, AllergyType) уникальна.
type Allergy struct {
	ID          int64     `json:"id"`           // Уникальный идентификатор
	UserID      int64     `json:"user_id"`      // Владелец записи
	AllergyType string    `json:"allergy_type"` // Тип аллергена
	Notes       string    `json:"notes"`        // Примечания
	CreatedAt   time.Time `json:"created_at"`   // Время создания
}

// DummyAllergy используется для приёма записи об аллергии из JSON-запроса.
type DummyAllergy struct {
	AllergyType string `json:"allergy_type" validate:"required"`
	Notes       string `json:"notes"`
}
