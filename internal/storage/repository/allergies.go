package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
)

// InsertAllergy создаёт запись об аллергии и возвращает её ID.
// Повторная запись того же типа нарушает уникальный индекс.
func (s *Storage) InsertAllergy(ctx context.Context, allergy models.Allergy) (int64, error) {
	const op = "storage.InsertAllergy"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO allergies (user_id, allergy_type, notes)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	err := s.DB.QueryRowContext(ctx, query, allergy.UserID,
		allergy.AllergyType, allergy.Notes).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListAllergies возвращает все записи об аллергиях пользователя.
func (s *Storage) ListAllergies(ctx context.Context, userID int64) ([]*models.Allergy, error) {
	const op = "storage.ListAllergies"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, allergy_type, notes, created_at
			  FROM allergies
			  WHERE user_id = $1
			  ORDER BY created_at, id`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Allergy
	for rows.Next() {
		allergy := &models.Allergy{}
		if err := rows.Scan(&allergy.ID, &allergy.UserID, &allergy.AllergyType,
			&allergy.Notes, &allergy.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, allergy)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteAllergy удаляет запись об аллергии пользователя. Возвращает
// false, если записи нет или она принадлежит другому пользователю.
func (s *Storage) DeleteAllergy(ctx context.Context, id, userID int64) (bool, error) {
	const op = "storage.DeleteAllergy"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`DELETE FROM allergies WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected == 1, nil
}
