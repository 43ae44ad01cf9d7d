// Package promo — repository.go выполняет операции с промокодами.
// Активация — одна транзакция под блокировкой строки промокода:
// лимит использований и правило «один раз на пользователя»
// соблюдаются и при конкурентных активациях.
package promo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kirbystars.ru/stars-bot/internal/common"
	"kirbystars.ru/stars-bot/internal/db/postgres"
)

// Repository предоставляет методы для работы с промокодами.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий промокодов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const promoColumns = `id, code, reward, max_uses, used_count, is_active, created_at`

func scanPromo(row pgx.Row) (*Promocode, error) {
	var p Promocode
	err := row.Scan(&p.ID, &p.Code, &p.Reward, &p.MaxUses, &p.UsedCount, &p.IsActive, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrPromoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования промокода: %w", err)
	}
	return &p, nil
}

// GetByCode возвращает промокод по каноническому коду.
func (r *Repository) GetByCode(ctx context.Context, code string) (*Promocode, error) {
	row := r.db.QueryRow(ctx, `SELECT `+promoColumns+` FROM promocodes WHERE code = $1`, code)
	return scanPromo(row)
}

// Activate активирует промокод пользователю: проверка состояния,
// отметка использования и начисление награды — одна транзакция.
// Возвращает сумму начисления.
func (r *Repository) Activate(ctx context.Context, userID int64, code string) (float64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	p, err := scanPromo(tx.QueryRow(ctx, `
		SELECT `+promoColumns+` FROM promocodes WHERE code = $1 FOR UPDATE
	`, code))
	if err != nil {
		return 0, err
	}

	if !p.IsActive {
		return 0, common.ErrPromoInactive
	}
	if p.Exhausted() {
		return 0, common.ErrPromoExhausted
	}

	// Уникальный индекс (user_id, promocode_id) — один раз на пользователя
	_, err = tx.Exec(ctx, `
		INSERT INTO user_promocodes (user_id, promocode_id) VALUES ($1, $2)
	`, userID, p.ID)
	if postgres.IsUniqueViolation(err) {
		return 0, common.ErrPromoAlreadyUsed
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка отметки промокода: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE promocodes SET used_count = used_count + 1 WHERE id = $1
	`, p.ID); err != nil {
		return 0, fmt.Errorf("ошибка обновления счётчика промокода: %w", err)
	}

	desc := fmt.Sprintf("Промокод %s", p.Code)
	if err := postgres.CreditUser(ctx, tx, userID, p.Reward, OpPromo, desc); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return p.Reward, nil
}

// Create добавляет промокод (админ-операция).
func (r *Repository) Create(ctx context.Context, p *Promocode) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO promocodes (code, reward, max_uses, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, created_at
	`, p.Code, p.Reward, p.MaxUses).Scan(&p.ID, &p.CreatedAt)
	if postgres.IsUniqueViolation(err) {
		return fmt.Errorf("промокод %s уже существует", p.Code)
	}
	if err != nil {
		return fmt.Errorf("ошибка создания промокода: %w", err)
	}
	p.IsActive = true
	return nil
}

// SetActive включает или выключает промокод (админ-операция).
func (r *Repository) SetActive(ctx context.Context, promoID int64, active bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE promocodes SET is_active = $2 WHERE id = $1`, promoID, active)
	if err != nil {
		return fmt.Errorf("ошибка обновления промокода: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrPromoNotFound
	}
	return nil
}
