// Package repository реализует хранилище данных на основе PostgreSQL
// для столовой: пользователи и кошельки, абонементы, платежи, покупки
// блюд, записи о питании, меню, склад, заявки на закупку и уведомления.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// Tx представляет единицу работы: все изменения строк, затрагивающие
// кошелёк, абонемент, покупку и запись о питании, выполняются в рамках
// одной транзакции и фиксируются ровно один раз.
type Tx struct {
	tx *sql.Tx
}

// Begin открывает транзакцию.
func (s *Storage) Begin(ctx context.Context) (*Tx, error) {
	const op = "storage.Begin"
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Tx{tx: tx}, nil
}

// Commit фиксирует транзакцию.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback откатывает транзакцию. Безопасен после Commit.
func (t *Tx) Rollback() error {
	err := t.tx.Rollback()
	if err == sql.ErrTxDone {
		return nil
	}
	return err
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'meal_records'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table meal_records missing or query error: %w", err)
	}
	return nil
}
