package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
)

// InsertPayment добавляет запись в журнал платежей и возвращает её ID.
func (t *Tx) InsertPayment(ctx context.Context, payment models.Payment) (int64, error) {
	const op = "storage.Tx.InsertPayment"
	var newID int64
	query := `INSERT INTO payments (user_id, amount, payment_type, status, transaction_id)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	err := t.tx.QueryRowContext(ctx, query, payment.UserID, payment.Amount,
		payment.PaymentType, payment.Status, payment.TransactionID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// FindSameDaySinglePayment ищет завершённый разовый платёж пользователя
// за указанный календарный день. Возвращает nil, если платежа нет.
func (t *Tx) FindSameDaySinglePayment(ctx context.Context, userID int64, day time.Time) (*models.Payment, error) {
	const op = "storage.Tx.FindSameDaySinglePayment"
	query := `SELECT id, user_id, amount, payment_type, status, transaction_id, created_at
			  FROM payments
			  WHERE user_id = $1
			      AND payment_type = $2
			      AND status = $3
			      AND created_at::date = $4::date
			  ORDER BY id
			  LIMIT 1`
	payment := &models.Payment{}
	err := t.tx.QueryRowContext(ctx, query, userID, models.PaymentSingle,
		models.PaymentCompleted, day).Scan(&payment.ID, &payment.UserID,
		&payment.Amount, &payment.PaymentType, &payment.Status,
		&payment.TransactionID, &payment.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payment, nil
}

// ListPayments возвращает платежи пользователя, новые первыми.
func (s *Storage) ListPayments(ctx context.Context, userID int64, limit, offset int) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, amount, payment_type, status, transaction_id, created_at
			  FROM payments
			  WHERE user_id = $1
			  ORDER BY created_at DESC, id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(&payment.ID, &payment.UserID, &payment.Amount,
			&payment.PaymentType, &payment.Status, &payment.TransactionID,
			&payment.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RevenueOnDay возвращает сумму завершённых платежей за календарный день.
func (s *Storage) RevenueOnDay(ctx context.Context, day time.Time) (int, error) {
	const op = "storage.RevenueOnDay"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments
		 WHERE status = $1 AND payment_type <> $2 AND created_at::date = $3::date`,
		models.PaymentCompleted, models.PaymentTopup, day).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}
