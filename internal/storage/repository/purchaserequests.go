package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
)

// CreatePurchaseRequest создаёт заявку на закупку вместе с позициями.
// Выполняется в собственной транзакции.
func (s *Storage) CreatePurchaseRequest(ctx context.Context, request models.PurchaseRequest, items []models.PurchaseItem) (int64, error) {
	const op = "storage.CreatePurchaseRequest"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var newID int64
	err = tx.tx.QueryRowContext(ctx,
		`INSERT INTO purchase_requests (created_by, status, notes)
		 VALUES ($1, $2, $3)
		 RETURNING id`, request.CreatedBy, models.RequestPending,
		request.Notes).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	for _, item := range items {
		_, err = tx.tx.ExecContext(ctx,
			`INSERT INTO purchase_items (request_id, ingredient_id, quantity, estimated_cost)
			 VALUES ($1, $2, $3, $4)`,
			newID, item.IngredientID, item.Quantity, item.EstimatedCost)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

func scanPurchaseRequest(row interface {
	Scan(dest ...any) error
}) (*models.PurchaseRequest, error) {
	request := &models.PurchaseRequest{}
	err := row.Scan(&request.ID, &request.CreatedBy, &request.ApprovedBy,
		&request.Status, &request.Notes, &request.CreatedAt, &request.ApprovedAt)
	if err != nil {
		return nil, err
	}
	return request, nil
}

// GetPurchaseRequest возвращает заявку по ID или nil, если её нет.
func (s *Storage) GetPurchaseRequest(ctx context.Context, id int64) (*models.PurchaseRequest, error) {
	const op = "storage.GetPurchaseRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT id, created_by, approved_by, status, notes, created_at, approved_at
		 FROM purchase_requests WHERE id = $1`, id)
	request, err := scanPurchaseRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return request, nil
}

// ListPurchaseRequests возвращает заявки, новые первыми. При createdBy > 0
// выборка ограничивается заявками этого пользователя.
func (s *Storage) ListPurchaseRequests(ctx context.Context, createdBy int64, limit, offset int) ([]*models.PurchaseRequest, error) {
	const op = "storage.ListPurchaseRequests"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, created_by, approved_by, status, notes, created_at, approved_at
			  FROM purchase_requests
			  WHERE ($1 = 0 OR created_by = $1)
			  ORDER BY created_at DESC, id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, createdBy, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PurchaseRequest
	for rows.Next() {
		request, err := scanPurchaseRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListPurchaseItems возвращает позиции заявки.
func (s *Storage) ListPurchaseItems(ctx context.Context, requestID int64) ([]models.PurchaseItem, error) {
	const op = "storage.ListPurchaseItems"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, request_id, ingredient_id, quantity, estimated_cost
		 FROM purchase_items WHERE request_id = $1 ORDER BY id`, requestID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.PurchaseItem
	for rows.Next() {
		var item models.PurchaseItem
		if err := rows.Scan(&item.ID, &item.RequestID, &item.IngredientID,
			&item.Quantity, &item.EstimatedCost); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DecidePurchaseRequest переводит заявку из pending в approved или
// rejected. Возвращает false, если заявка уже рассмотрена.
func (t *Tx) DecidePurchaseRequest(ctx context.Context, id, approvedBy int64, status string) (bool, error) {
	const op = "storage.Tx.DecidePurchaseRequest"
	result, err := t.tx.ExecContext(ctx,
		`UPDATE purchase_requests
		 SET status = $2, approved_by = $3, approved_at = now()
		 WHERE id = $1 AND status = $4`, id, status, approvedBy,
		models.RequestPending)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected == 1, nil
}

// ListPurchaseItemsTx возвращает позиции заявки в рамках транзакции.
func (t *Tx) ListPurchaseItemsTx(ctx context.Context, requestID int64) ([]models.PurchaseItem, error) {
	const op = "storage.Tx.ListPurchaseItemsTx"
	rows, err := t.tx.QueryContext(ctx,
		`SELECT id, request_id, ingredient_id, quantity, estimated_cost
		 FROM purchase_items WHERE request_id = $1 ORDER BY id`, requestID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.PurchaseItem
	for rows.Next() {
		var item models.PurchaseItem
		if err := rows.Scan(&item.ID, &item.RequestID, &item.IngredientID,
			&item.Quantity, &item.EstimatedCost); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountPendingRequests возвращает количество нерассмотренных заявок.
func (s *Storage) CountPendingRequests(ctx context.Context) (int, error) {
	const op = "storage.CountPendingRequests"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM purchase_requests WHERE status = $1`,
		models.RequestPending).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
