package models

import "time"

// Статусы заявок на закупку.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// PurchaseRequest представляет заявку повара на закупку ингредиентов.
type PurchaseRequest struct {
	ID         int64      `json:"id"`                    // Уникальный идентификатор
	CreatedBy  int64      `json:"created_by"`            // Повар, создавший заявку
	ApprovedBy *int64     `json:"approved_by,omitempty"` // Администратор, рассмотревший заявку
	Status     string     `json:"status"`                // pending, approved или rejected
	Notes      string     `json:"notes"`                 // Примечания
	CreatedAt  time.Time  `json:"created_at"`            // Дата создания
	ApprovedAt *time.Time `json:"approved_at,omitempty"` // Дата рассмотрения
}

// PurchaseItem представляет позицию заявки на закупку.
type PurchaseItem struct {
	ID            int64   `json:"id"`             // Уникальный идентификатор
	RequestID     int64   `json:"request_id"`     // Заявка
	IngredientID  int64   `json:"ingredient_id"`  // Ингредиент
	Quantity      float64 `json:"quantity"`       // Запрошенное количество
	EstimatedCost int     `json:"estimated_cost"` // Предполагаемая стоимость в рублях
}

// PurchaseRequestView объединяет заявку, её позиции и итоговую стоимость.
type PurchaseRequestView struct {
	PurchaseRequest
	Items     []PurchaseItem `json:"items"`
	TotalCost int            `json:"total_cost"`
}

// DummyPurchaseItem используется для приёма позиции заявки.
type DummyPurchaseItem struct {
	IngredientID  int64   `json:"ingredient_id" validate:"required"`
	Quantity      float64 `json:"quantity" validate:"required,gt=0"`
	EstimatedCost int     `json:"estimated_cost" validate:"gte=0"`
}

// DummyPurchaseRequest используется для приёма новой заявки на закупку.
type DummyPurchaseRequest struct {
	Notes string              `json:"notes"`
	Items []DummyPurchaseItem `json:"items" validate:"required,min=1,dive"`
}

// DummyRequestDecision используется администратором для решения по заявке.
type DummyRequestDecision struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}
