package models

import "time"

// Типы абонементов и их бизнес-параметры.
const (
	SubscriptionWeekly  = "weekly"
	SubscriptionMonthly = "monthly"
)

// Subscription представляет абонемент на питание.
// Инвариант: MealsRemaining >= 0; при достижении нуля абонемент
// деактивируется.
type Subscription struct {
	ID               int64     `json:"id"`                // Уникальный идентификатор
	UserID           int64     `json:"user_id"`           // Владелец абонемента
	SubscriptionType string    `json:"subscription_type"` // weekly или monthly
	StartDate        time.Time `json:"start_date"`        // Начало действия
	EndDate          time.Time `json:"end_date"`          // Окончание действия
	IsActive         bool      `json:"is_active"`         // Активен ли абонемент
	MealsRemaining   int       `json:"meals_remaining"`   // Остаток обедов
	CreatedAt        time.Time `json:"created_at"`        // Дата создания
}

// DayOf возвращает календарный день момента t: полночь UTC.
// Все столбцы DATE в схеме трактуются в этой шкале, поэтому сравнение
// дат не зависит от смещения локальной зоны.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsValid сообщает, действует ли абонемент на указанную дату.
func (s *Subscription) IsValid(day time.Time) bool {
	d := DayOf(day)
	return s.IsActive && !d.Before(s.StartDate) && !d.After(s.EndDate)
}

// DummySubscription используется для приёма запроса на покупку абонемента.
type DummySubscription struct {
	SubscriptionType string `json:"subscription_type" validate:"required,oneof=weekly monthly"`
}
