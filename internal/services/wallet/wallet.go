// Package services содержит бизнес-логику кошелька: пополнение баланса
// и журналирование платежей.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/cafeteria-backend/internal/metrics"
	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
	"github.com/magabrotheeeer/cafeteria-backend/internal/storage/repository"
)

// Границы разового пополнения кошелька в рублях.
const (
	MinTopup = 100
	MaxTopup = 50000
)

// ErrInvalidTopupAmount возвращается при сумме пополнения вне границ.
var ErrInvalidTopupAmount = fmt.Errorf("topup amount must be between %d and %d", MinTopup, MaxTopup)

// InsufficientFundsError возвращается при нехватке средств на балансе.
// Shortfall — недостающая сумма в рублях.
type InsufficientFundsError struct {
	Shortfall int
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: %d more required", e.Shortfall)
}

// IsInsufficientFunds сообщает, является ли ошибка нехваткой средств,
// и возвращает недостающую сумму.
func IsInsufficientFunds(err error) (int, bool) {
	var ife *InsufficientFundsError
	if errors.As(err, &ife) {
		return ife.Shortfall, true
	}
	return 0, false
}

// WalletService реализует операции с балансом пользователя.
type WalletService struct {
	storage *repository.Storage
	log     *slog.Logger
}

// NewWalletService создает новый экземпляр WalletService.
func NewWalletService(storage *repository.Storage, log *slog.Logger) *WalletService {
	return &WalletService{storage: storage, log: log}
}

// Topup пополняет баланс пользователя и записывает платеж типа topup.
// Возвращает новый баланс.
func (s *WalletService) Topup(ctx context.Context, userID int64, amount int) (int, error) {
	if amount < MinTopup || amount > MaxTopup {
		return 0, ErrInvalidTopupAmount
	}

	tx, err := s.storage.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	balance, err := tx.AddBalance(ctx, userID, amount)
	if err != nil {
		return 0, err
	}

	_, err = tx.InsertPayment(ctx, models.Payment{
		UserID:        userID,
		Amount:        amount,
		PaymentType:   models.PaymentTopup,
		Status:        models.PaymentCompleted,
		TransactionID: uuid.NewString(),
	})
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	metrics.WalletTopups.Inc()
	s.log.Info("wallet topped up",
		slog.Int64("user_id", userID), slog.Int("amount", amount))
	return balance, nil
}

// Balance возвращает текущий баланс пользователя.
func (s *WalletService) Balance(ctx context.Context, userID int64) (int, error) {
	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, fmt.Errorf("user %d not found", userID)
	}
	return user.Balance, nil
}
