package models

import "time"

// Типы и статусы платежей.
const (
	PaymentSingle       = "single"
	PaymentSubscription = "subscription"
	PaymentTopup        = "topup"

	PaymentCompleted = "completed"
)

// Payment представляет запись журнала платежей. Записи неизменяемы
// после создания.
type Payment struct {
	ID            int64     `json:"id"`             // Уникальный идентификатор
	UserID        int64     `json:"user_id"`        // Плательщик
	Amount        int       `json:"amount"`         // Сумма в рублях
	PaymentType   string    `json:"payment_type"`   // single, subscription или topup
	Status        string    `json:"status"`         // Статус платежа
	TransactionID string    `json:"transaction_id"` // Уникальный идентификатор транзакции
	CreatedAt     time.Time `json:"created_at"`     // Время создания
}

// DummyPayment используется для приёма разового платежа за питание.
type DummyPayment struct {
	Amount int `json:"amount" validate:"required,gt=0"`
}
