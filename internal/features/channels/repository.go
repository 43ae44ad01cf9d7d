// Package channels — repository.go выполняет операции с каталогом
// обязательных каналов.
package channels

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository предоставляет методы для работы с обязательными каналами.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий каналов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListActive возвращает активные обязательные каналы.
func (r *Repository) ListActive(ctx context.Context) ([]*Channel, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, chat_id, title, url, is_active, created_at
		FROM required_channels
		WHERE is_active = TRUE
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения каналов: %w", err)
	}
	defer rows.Close()

	var list []*Channel
	for rows.Next() {
		var c Channel
		if err := rows.Scan(&c.ID, &c.ChatID, &c.Title, &c.URL, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования канала: %w", err)
		}
		list = append(list, &c)
	}
	return list, nil
}

// Create добавляет обязательный канал (админ-операция).
func (r *Repository) Create(ctx context.Context, c *Channel) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO required_channels (chat_id, title, url, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, created_at
	`, c.ChatID, c.Title, c.URL).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания канала: %w", err)
	}
	c.IsActive = true
	return nil
}

// SetActive включает или выключает канал (админ-операция).
func (r *Repository) SetActive(ctx context.Context, channelID int64, active bool) error {
	_, err := r.db.Exec(ctx, `UPDATE required_channels SET is_active = $2 WHERE id = $1`, channelID, active)
	if err != nil {
		return fmt.Errorf("ошибка обновления канала: %w", err)
	}
	return nil
}
