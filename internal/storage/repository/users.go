package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
)

// RegisterUser сохраняет нового пользователя и возвращает его ID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO users (email, password_hash, full_name, role, balance, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.FullName, user.Role, user.Balance,
		user.IsActive).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName,
		&u.Role, &u.Balance, &u.IsActive, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, password_hash, full_name, role, balance, is_active, created_at
			  FROM users
			  WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по ID.
func (s *Storage) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, password_hash, full_name, role, balance, is_active, created_at
			  FROM users
			  WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает пользователей с пагинацией.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, password_hash, full_name, role, balance, is_active, created_at
			  FROM users
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var u models.User
		if err = rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName,
			&u.Role, &u.Balance, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListUserIDsByRole возвращает идентификаторы активных пользователей с заданной ролью.
// Используется для рассылки уведомлений администраторам.
func (s *Storage) ListUserIDsByRole(ctx context.Context, role string) ([]int64, error) {
	const op = "storage.ListUserIDsByRole"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id FROM users WHERE role = $1 AND is_active`, role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateUser изменяет роль, активность и имя пользователя.
// Непереданные поля остаются без изменений.
func (s *Storage) UpdateUser(ctx context.Context, userID int64, upd models.DummyUserUpdate) (int64, error) {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var role, fullName sql.NullString
	var isActive sql.NullBool
	if upd.Role != nil {
		role = sql.NullString{String: *upd.Role, Valid: true}
	}
	if upd.FullName != nil {
		fullName = sql.NullString{String: *upd.FullName, Valid: true}
	}
	if upd.IsActive != nil {
		isActive = sql.NullBool{Bool: *upd.IsActive, Valid: true}
	}

	query := `UPDATE users
			  SET role = COALESCE($1, role),
			      full_name = COALESCE($2, full_name),
			      is_active = COALESCE($3, is_active)
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query, role, fullName, isActive, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// LockBalance блокирует строку пользователя и возвращает текущий баланс.
func (t *Tx) LockBalance(ctx context.Context, userID int64) (int, error) {
	const op = "storage.Tx.LockBalance"
	var balance int
	err := t.tx.QueryRowContext(ctx,
		`SELECT balance FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return balance, nil
}

// AddBalance увеличивает баланс и возвращает новое значение.
// Сумма должна быть положительной.
func (t *Tx) AddBalance(ctx context.Context, userID int64, amount int) (int, error) {
	const op = "storage.Tx.AddBalance"
	if amount <= 0 {
		return 0, fmt.Errorf("%s: amount must be positive", op)
	}
	var balance int
	err := t.tx.QueryRowContext(ctx,
		`UPDATE users SET balance = balance + $1 WHERE id = $2 RETURNING balance`,
		amount, userID).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return balance, nil
}

// DeductBalance списывает сумму с баланса. Возвращает новый баланс и
// признак успеха: false, если средств недостаточно; баланс при этом
// не изменяется и возвращается текущим.
func (t *Tx) DeductBalance(ctx context.Context, userID int64, amount int) (int, bool, error) {
	const op = "storage.Tx.DeductBalance"
	if amount <= 0 {
		return 0, false, fmt.Errorf("%s: amount must be positive", op)
	}
	balance, err := t.LockBalance(ctx, userID)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	if balance < amount {
		return balance, false, nil
	}
	err = t.tx.QueryRowContext(ctx,
		`UPDATE users SET balance = balance - $1 WHERE id = $2 RETURNING balance`,
		amount, userID).Scan(&balance)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return balance, true, nil
}
