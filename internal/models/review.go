package models

import "time"

// Review представляет отзыв студента о блюде.
// Пара (UserID, DishID) уникальна: на блюдо можно оставить один отзыв.
type Review struct {
	ID        int64     `json:"id"`         // Уникальный идентификатор
	UserID    int64     `json:"user_id"`    // Автор отзыва
	DishID    int64     `json:"dish_id"`    // Блюдо
	Rating    int       `json:"rating"`     // Оценка от 1 до 5
	Comment   string    `json:"comment"`    // Текст отзыва
	CreatedAt time.Time `json:"created_at"` // Время создания
}

// ReviewView объединяет отзыв и само блюдо для выдачи клиенту.
type ReviewView struct {
	Review
	Dish *Dish `json:"dish,omitempty"`
}

// DummyReview используется для приёма нового отзыва из JSON-запроса.
type DummyReview struct {
	DishID  int64  `json:"dish_id" validate:"required,gt=0"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"required"`
}
