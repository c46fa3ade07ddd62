// Package models содержит доменные структуры столовой: пользователей,
// абонементы, платежи, покупки блюд, записи о питании, меню, склад и
// уведомления, а также вспомогательные типы для приёма JSON-запросов.
package models

import "time"

// Роли пользователей системы.
const (
	RoleStudent = "student"
	RoleCook    = "cook"
	RoleAdmin   = "admin"
)

// User представляет зарегистрированного пользователя системы.
// Баланс кошелька хранится в целых рублях и не может быть отрицательным.
type User struct {
	ID           int64     `json:"id"`         // Уникальный идентификатор пользователя
	Email        string    `json:"email"`      // Электронная почта (уникальная)
	PasswordHash string    `json:"-"`          // Хэш пароля пользователя
	FullName     string    `json:"full_name"`  // Полное имя
	Role         string    `json:"role"`       // Роль: student, cook или admin
	Balance      int       `json:"balance"`    // Баланс кошелька в рублях
	IsActive     bool      `json:"is_active"`  // Активен ли аккаунт
	CreatedAt    time.Time `json:"created_at"` // Дата регистрации
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// DummyUserUpdate используется администратором для изменения роли
// и активности пользователя.
type DummyUserUpdate struct {
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=student cook admin"`
	IsActive *bool   `json:"is_active,omitempty"`
	FullName *string `json:"full_name,omitempty"`
}

// DummyTopup используется для приёма суммы пополнения кошелька.
// Бизнес-границы суммы проверяются на уровне сервиса кошелька.
type DummyTopup struct {
	Amount int `json:"amount" validate:"required,gt=0"`
}
