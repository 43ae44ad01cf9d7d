// Package tasks — repository.go выполняет операции с заданиями.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kirbystars.ru/stars-bot/internal/common"
	"kirbystars.ru/stars-bot/internal/db/postgres"
)

// Repository предоставляет методы для работы с заданиями.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий заданий.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const taskColumns = `id, title, type, target, reward, order_num, is_active, created_at`

func scanTask(row pgx.Row) (*Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.Title, &t.Type, &t.Target, &t.Reward, &t.OrderNum, &t.IsActive, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования задания: %w", err)
	}
	return &t, nil
}

// GetByID возвращает задание по ID.
func (r *Repository) GetByID(ctx context.Context, taskID int64) (*Task, error) {
	row := r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, taskID)
	return scanTask(row)
}

// Next возвращает первое активное задание, которое пользователь ещё не
// выполнял, в порядке order_num. ErrTaskNotFound — заданий больше нет.
func (r *Repository) Next(ctx context.Context, userID int64) (*Task, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t
		WHERE t.is_active = TRUE
		  AND NOT EXISTS (
			SELECT 1 FROM user_tasks ut
			WHERE ut.task_id = t.id AND ut.user_id = $1
		  )
		ORDER BY t.order_num ASC, t.id ASC
		LIMIT 1
	`, userID)
	return scanTask(row)
}

// ListActive возвращает все активные задания в порядке выдачи.
func (r *Repository) ListActive(ctx context.Context) ([]*Task, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE is_active = TRUE
		ORDER BY order_num ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения заданий: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Complete отмечает задание выполненным и начисляет награду.
// Уникальный индекс (user_id, task_id) гарантирует однократную выплату:
// повторная вставка возвращает ErrTaskAlreadyCompleted.
func (r *Repository) Complete(ctx context.Context, userID int64, task *Task, amount float64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO user_tasks (user_id, task_id) VALUES ($1, $2)
	`, userID, task.ID)
	if postgres.IsUniqueViolation(err) {
		return common.ErrTaskAlreadyCompleted
	}
	if err != nil {
		return fmt.Errorf("ошибка отметки задания: %w", err)
	}

	desc := fmt.Sprintf("Награда за задание «%s»", task.Title)
	if err := postgres.CreditUser(ctx, tx, userID, amount, OpTask, desc); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users SET tasks_completed = tasks_completed + 1, updated_at = NOW()
		WHERE user_id = $1
	`, userID); err != nil {
		return fmt.Errorf("ошибка обновления счётчика заданий: %w", err)
	}

	return tx.Commit(ctx)
}

// Create добавляет задание (админ-операция).
func (r *Repository) Create(ctx context.Context, t *Task) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO tasks (title, type, target, reward, order_num, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id, created_at
	`, t.Title, t.Type, t.Target, t.Reward, t.OrderNum).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания задания: %w", err)
	}
	return nil
}

// SetActive включает или выключает задание (админ-операция).
func (r *Repository) SetActive(ctx context.Context, taskID int64, active bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE tasks SET is_active = $2 WHERE id = $1`, taskID, active)
	if err != nil {
		return fmt.Errorf("ошибка обновления задания: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrTaskNotFound
	}
	return nil
}
