package models

import "time"

// Notification представляет уведомление пользователя.
type Notification struct {
	ID        int64     `json:"id"`         // Уникальный идентификатор
	UserID    int64     `json:"user_id"`    // Получатель
	Title     string    `json:"title"`      // Заголовок
	Message   string    `json:"message"`    // Текст уведомления
	IsRead    bool      `json:"is_read"`    // Прочитано ли
	CreatedAt time.Time `json:"created_at"` // Время создания
}

// DummyBroadcast используется администратором для массовой рассылки:
// получатели задаются либо ролью, либо списком идентификаторов.
type DummyBroadcast struct {
	Title   string  `json:"title" validate:"required"`
	Message string  `json:"message" validate:"required"`
	Role    string  `json:"role" validate:"omitempty,oneof=student cook admin"`
	UserIDs []int64 `json:"user_ids"`
}

// NotificationEvent публикуется в очередь для почтовой рассылки.
type NotificationEvent struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Title    string `json:"title"`
	Message  string `json:"message"`
}
