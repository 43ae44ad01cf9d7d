// Package withdrawals — repository.go выполняет операции с заявками.
// Частичный уникальный индекс (user_id WHERE status = 'pending')
// гарантирует не больше одной заявки на рассмотрении даже в гонке.
package withdrawals

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kirbystars.ru/stars-bot/internal/common"
	"kirbystars.ru/stars-bot/internal/db/postgres"
)

// Repository предоставляет методы для работы с заявками на вывод.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий заявок.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const withdrawalColumns = `id, user_id, amount, label, status, reject_reason, decided_at, created_at`

func scanWithdrawal(row pgx.Row) (*Withdrawal, error) {
	var w Withdrawal
	err := row.Scan(&w.ID, &w.UserID, &w.Amount, &w.Label, &w.Status, &w.RejectReason, &w.DecidedAt, &w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrWithdrawalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования заявки: %w", err)
	}
	return &w, nil
}

// GetByID возвращает заявку по ID.
func (r *Repository) GetByID(ctx context.Context, withdrawalID int64) (*Withdrawal, error) {
	row := r.db.QueryRow(ctx, `SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1`, withdrawalID)
	return scanWithdrawal(row)
}

// ListPending возвращает заявки на рассмотрении, старые первыми.
func (r *Repository) ListPending(ctx context.Context) ([]*Withdrawal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+withdrawalColumns+` FROM withdrawals
		WHERE status = 'pending'
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения заявок: %w", err)
	}
	defer rows.Close()

	var list []*Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, w)
	}
	return list, nil
}

// Create создаёт заявку и списывает сумму одной транзакцией.
// Повторная заявка при открытой — нарушение частичного уникального
// индекса, возвращается ErrWithdrawalPending.
func (r *Repository) Create(ctx context.Context, userID int64, opt Option) (*Withdrawal, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	desc := fmt.Sprintf("Заявка на вывод: %s", opt.Label)
	if err := postgres.DebitUser(ctx, tx, userID, opt.Amount, OpWithdrawal, desc); err != nil {
		return nil, err
	}

	w := &Withdrawal{UserID: userID, Amount: opt.Amount, Label: opt.Label, Status: StatusPending}
	err = tx.QueryRow(ctx, `
		INSERT INTO withdrawals (user_id, amount, label, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING id, created_at
	`, userID, opt.Amount, opt.Label).Scan(&w.ID, &w.CreatedAt)
	if postgres.IsUniqueViolation(err) {
		return nil, common.ErrWithdrawalPending
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка создания заявки: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// Decide фиксирует решение по заявке. Строка блокируется, решение
// допустимо только из статуса pending. При отклонении сумма
// возвращается на баланс в той же транзакции, причина отклонения
// сохраняется в заявке.
func (r *Repository) Decide(ctx context.Context, withdrawalID int64, approve bool, reason string) (*Withdrawal, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	w, err := scanWithdrawal(tx.QueryRow(ctx, `
		SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1 FOR UPDATE
	`, withdrawalID))
	if err != nil {
		return nil, err
	}
	if w.Status != StatusPending {
		return nil, common.ErrWithdrawalProcessed
	}

	status := StatusRejected
	if approve {
		status = StatusApproved
		reason = ""
	}

	err = tx.QueryRow(ctx, `
		UPDATE withdrawals SET status = $2, reject_reason = $3, decided_at = NOW()
		WHERE id = $1
		RETURNING status, reject_reason, decided_at
	`, withdrawalID, status, reason).Scan(&w.Status, &w.RejectReason, &w.DecidedAt)
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления заявки: %w", err)
	}

	if !approve {
		desc := fmt.Sprintf("Возврат по отклонённой заявке: %s", w.Label)
		if err := postgres.CreditUser(ctx, tx, w.UserID, w.Amount, OpWithdrawalRefund, desc); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return w, nil
}
