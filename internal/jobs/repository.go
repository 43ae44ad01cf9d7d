// Package jobs — repository.go хранит отметки выполненных периодических
// задач. Пара (job_name, period_key) уникальна: повторный запуск за тот
// же период не проходит, поэтому призы не выплачиваются дважды после
// рестарта или при нескольких экземплярах бота.
package jobs

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"kirbystars.ru/stars-bot/internal/db/postgres"
)

// Repository работает с таблицей job_runs.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий отметок задач.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// TryClaim пытается занять период periodKey для задачи jobName.
// false — период уже занят (задача за этот период выполнялась).
func (r *Repository) TryClaim(ctx context.Context, jobName, periodKey string) (bool, error) {
	_, err := r.db.Exec(ctx, `
		INSERT INTO job_runs (job_name, period_key) VALUES ($1, $2)
	`, jobName, periodKey)
	if postgres.IsUniqueViolation(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ошибка отметки задачи: %w", err)
	}
	return true, nil
}
