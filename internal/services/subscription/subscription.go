// Package services содержит бизнес-логику покупки и продления абонементов.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
	walletsrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/wallet"
	"github.com/magabrotheeeer/cafeteria-backend/internal/storage/repository"
)

// plan описывает бизнес-параметры типа абонемента.
type plan struct {
	Price int
	Days  int
	Meals int
}

// ErrUnknownSubscriptionType возвращается при неизвестном типе абонемента.
var ErrUnknownSubscriptionType = errors.New("unknown subscription type")

var plans = map[string]plan{
	models.SubscriptionWeekly:  {Price: 700, Days: 7, Meals: 5},
	models.SubscriptionMonthly: {Price: 2500, Days: 30, Meals: 20},
}

// SubscriptionService реализует покупку и продление абонементов.
// Покупка оплачивается с кошелька; при наличии активного абонемента
// срок и остаток обедов накапливаются.
type SubscriptionService struct {
	storage *repository.Storage
	log     *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(storage *repository.Storage, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{storage: storage, log: log}
}

// Buy покупает абонемент указанного типа за счёт кошелька. Если у
// пользователя уже есть активный абонемент, он продлевается: дни и
// обеды добавляются к текущим.
func (s *SubscriptionService) Buy(ctx context.Context, userID int64, subscriptionType string, now time.Time) (*models.Subscription, error) {
	p, ok := plans[subscriptionType]
	if !ok {
		return nil, ErrUnknownSubscriptionType
	}

	tx, err := s.storage.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	balance, paid, err := tx.DeductBalance(ctx, userID, p.Price)
	if err != nil {
		return nil, err
	}
	if !paid {
		return nil, &walletsrv.InsufficientFundsError{Shortfall: p.Price - balance}
	}

	_, err = tx.InsertPayment(ctx, models.Payment{
		UserID:        userID,
		Amount:        p.Price,
		PaymentType:   models.PaymentSubscription,
		Status:        models.PaymentCompleted,
		TransactionID: uuid.NewString(),
	})
	if err != nil {
		return nil, err
	}

	existing, err := tx.LockActiveSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}

	var sub *models.Subscription
	if existing != nil {
		sub, err = tx.ExtendSubscription(ctx, existing.ID, subscriptionType, p.Days, p.Meals)
		if err != nil {
			return nil, err
		}
	} else {
		day := models.DayOf(now)
		sub = &models.Subscription{
			UserID:           userID,
			SubscriptionType: subscriptionType,
			StartDate:        day,
			EndDate:          day.AddDate(0, 0, p.Days),
			IsActive:         true,
			MealsRemaining:   p.Meals,
		}
		sub.ID, err = tx.InsertSubscription(ctx, *sub)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("subscription purchased",
		slog.Int64("user_id", userID),
		slog.String("type", subscriptionType),
		slog.Bool("extended", existing != nil))
	return sub, nil
}

// Get возвращает активный абонемент пользователя или nil.
func (s *SubscriptionService) Get(ctx context.Context, userID int64) (*models.Subscription, error) {
	return s.storage.GetActiveSubscription(ctx, userID)
}
