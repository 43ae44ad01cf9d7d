// Package postgres — ledger.go содержит общие операции движения звёзд.
// Каждое изменение баланса записывается в журнал star_transactions
// в той же транзакции БД, что и само изменение: сумма записей журнала
// всегда сходится с балансом пользователя.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"kirbystars.ru/stars-bot/internal/common"
)

// CreditUser начисляет звёзды пользователю внутри открытой транзакции.
// Записывает положительную сумму в журнал.
func CreditUser(ctx context.Context, tx pgx.Tx, userID int64, amount float64, operation, description string) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}

	tag, err := tx.Exec(ctx, `
		UPDATE users
		SET balance = balance + $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("ошибка начисления: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrUserNotFound
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO star_transactions (user_id, amount, operation, description)
		VALUES ($1, $2, $3, $4)
	`, userID, amount, operation, description); err != nil {
		return fmt.Errorf("ошибка записи в журнал: %w", err)
	}
	return nil
}

// DebitUser списывает звёзды внутри открытой транзакции.
// Строка пользователя блокируется (FOR UPDATE), баланс проверяется
// под блокировкой — два параллельных списания не уведут баланс в минус.
// Записывает отрицательную сумму в журнал.
func DebitUser(ctx context.Context, tx pgx.Tx, userID int64, amount float64, operation, description string) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}

	var balance float64
	err := tx.QueryRow(ctx, `
		SELECT balance FROM users WHERE user_id = $1 FOR UPDATE
	`, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("ошибка получения баланса: %w", err)
	}

	if balance < amount {
		return common.ErrInsufficientBalance
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users
		SET balance = balance - $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, amount); err != nil {
		return fmt.Errorf("ошибка списания: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO star_transactions (user_id, amount, operation, description)
		VALUES ($1, $2, $3, $4)
	`, userID, -amount, operation, description); err != nil {
		return fmt.Errorf("ошибка записи в журнал: %w", err)
	}
	return nil
}

// IsUniqueViolation сообщает, что ошибка — нарушение уникального ограничения
// (код PostgreSQL 23505). Уникальные ограничения на парах (пользователь, сущность) —
// основной механизм идемпотентности: конфликт при вставке означает
// «уже куплено / уже выполнено / уже использовано».
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
