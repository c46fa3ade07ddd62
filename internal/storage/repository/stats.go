package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
)

// CountUsersByRole возвращает количество активных пользователей по ролям.
func (s *Storage) CountUsersByRole(ctx context.Context) (map[string]int, error) {
	const op = "storage.CountUsersByRole"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT role, COUNT(*) FROM users WHERE is_active GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make(map[string]int)
	for rows.Next() {
		var role string
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[role] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// PaymentStats возвращает агрегаты завершённых платежей по типам
// за период [from, to].
func (s *Storage) PaymentStats(ctx context.Context, from, to time.Time) ([]models.PaymentStat, error) {
	const op = "storage.PaymentStats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT payment_type, COUNT(*), COALESCE(SUM(amount), 0)
			  FROM payments
			  WHERE status = $1 AND created_at::date BETWEEN $2::date AND $3::date
			  GROUP BY payment_type
			  ORDER BY payment_type`
	rows, err := s.DB.QueryContext(ctx, query, models.PaymentCompleted, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.PaymentStat
	for rows.Next() {
		var stat models.PaymentStat
		if err := rows.Scan(&stat.PaymentType, &stat.Count, &stat.Total); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AttendanceByDay возвращает количество подтверждённых выдач питания
// по календарным дням за период [from, to].
func (s *Storage) AttendanceByDay(ctx context.Context, from, to time.Time) ([]models.AttendanceStat, error) {
	const op = "storage.AttendanceByDay"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT received_on AS day, COUNT(*)
			  FROM meal_records
			  WHERE is_confirmed AND received_on BETWEEN $1::date AND $2::date
			  GROUP BY day
			  ORDER BY day`
	rows, err := s.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.AttendanceStat
	for rows.Next() {
		var stat models.AttendanceStat
		if err := rows.Scan(&stat.Day, &stat.Count); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
