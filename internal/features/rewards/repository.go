// Package rewards — repository.go выполняет выдачу ежедневных наград.
// Проверка «уже получал сегодня» и начисление идут в одной транзакции
// под блокировкой строки пользователя, поэтому двойной клик в гонке
// получает награду ровно один раз.
package rewards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kirbystars.ru/stars-bot/internal/common"
	"kirbystars.ru/stars-bot/internal/db/postgres"
)

// Repository выполняет операции ежедневных наград.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий наград.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ClaimClick засчитывает ежедневный клик и начисляет amount звёзд.
// todayStart — полночь текущих суток опорного пояса: клик с отметкой
// позже неё означает, что сегодня уже кликали.
func (r *Repository) ClaimClick(ctx context.Context, userID int64, amount float64, todayStart time.Time) (float64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var lastClick *time.Time
	err = tx.QueryRow(ctx, `
		SELECT last_click FROM users WHERE user_id = $1 FOR UPDATE
	`, userID).Scan(&lastClick)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, common.ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка чтения пользователя: %w", err)
	}

	if lastClick != nil && !lastClick.Before(todayStart) {
		return 0, common.ErrAlreadyClicked
	}

	if err := postgres.CreditUser(ctx, tx, userID, amount, OpClick, "Ежедневный клик"); err != nil {
		return 0, err
	}

	var balance float64
	err = tx.QueryRow(ctx, `
		UPDATE users SET last_click = NOW(), updated_at = NOW()
		WHERE user_id = $1
		RETURNING balance
	`, userID).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("ошибка обновления отметки клика: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return balance, nil
}

// ClaimCase засчитывает открытие ежедневного кейса.
// Внутри транзакции: блокировка строки, проверка суток, подсчёт
// приглашённых за сегодня, начисление приза и счётчик кейсов.
func (r *Repository) ClaimCase(ctx context.Context, userID int64, amount float64, todayStart time.Time, minReferrals int) (float64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var lastCase *time.Time
	err = tx.QueryRow(ctx, `
		SELECT last_case_date FROM users WHERE user_id = $1 FOR UPDATE
	`, userID).Scan(&lastCase)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, common.ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка чтения пользователя: %w", err)
	}

	if lastCase != nil && !lastCase.Before(todayStart) {
		return 0, common.ErrAlreadyOpenedCase
	}

	// Доступ к кейсу открывают приглашённые за текущие сутки
	var referralsToday int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM users
		WHERE referrer_id = $1 AND created_at >= $2
	`, userID, todayStart).Scan(&referralsToday)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта рефералов: %w", err)
	}
	if referralsToday < minReferrals {
		return 0, common.ErrNotEnoughReferrals
	}

	if err := postgres.CreditUser(ctx, tx, userID, amount, OpCase, "Приз из ежедневного кейса"); err != nil {
		return 0, err
	}

	var balance float64
	err = tx.QueryRow(ctx, `
		UPDATE users
		SET last_case_date = NOW(), cases_opened = cases_opened + 1, updated_at = NOW()
		WHERE user_id = $1
		RETURNING balance
	`, userID).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("ошибка обновления отметки кейса: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return balance, nil
}
