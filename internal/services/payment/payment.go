// Package services содержит бизнес-логику разовых платежей за питание.
package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
	walletsrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/wallet"
	"github.com/magabrotheeeer/cafeteria-backend/internal/storage/repository"
)

// PaymentService реализует разовые платежи за питание. Разовый платёж
// списывается с кошелька и служит основанием на питание в день оплаты.
type PaymentService struct {
	storage *repository.Storage
	log     *slog.Logger
}

// NewPaymentService создает новый экземпляр PaymentService.
func NewPaymentService(storage *repository.Storage, log *slog.Logger) *PaymentService {
	return &PaymentService{storage: storage, log: log}
}

// CreateSingle проводит разовый платёж за питание с кошелька.
func (s *PaymentService) CreateSingle(ctx context.Context, userID int64, amount int) (*models.Payment, error) {
	tx, err := s.storage.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	balance, paid, err := tx.DeductBalance(ctx, userID, amount)
	if err != nil {
		return nil, err
	}
	if !paid {
		return nil, &walletsrv.InsufficientFundsError{Shortfall: amount - balance}
	}

	payment := models.Payment{
		UserID:        userID,
		Amount:        amount,
		PaymentType:   models.PaymentSingle,
		Status:        models.PaymentCompleted,
		TransactionID: uuid.NewString(),
	}
	payment.ID, err = tx.InsertPayment(ctx, payment)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("single meal payment created",
		slog.Int64("user_id", userID), slog.Int("amount", amount))
	return &payment, nil
}

// List возвращает платежи пользователя с пагинацией.
func (s *PaymentService) List(ctx context.Context, userID int64, limit, offset int) ([]*models.Payment, error) {
	return s.storage.ListPayments(ctx, userID, limit, offset)
}
