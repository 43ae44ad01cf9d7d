// Package tasks управляет заданиями: подписка на канал/чат, переход в бота.
// Задания выдаются по одному в порядке order_num, награда за каждое
// выплачивается один раз.
package tasks

import "time"

// Типы заданий
const (
	TypeChannel = "channel" // Подписка на канал (проверяется через Telegram)
	TypeChat    = "chat"    // Вступление в чат (проверяется через Telegram)
	TypeBot     = "bot"     // Переход в другого бота (не проверяется)
)

// OpTask — операция журнала звёзд за выполнение задания.
const OpTask = "task"

// Task представляет задание из каталога.
type Task struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Type      string    `db:"type"`
	Target    string    `db:"target"` // @username канала/чата или ссылка на бота
	Reward    float64   `db:"reward"`
	OrderNum  int       `db:"order_num"` // Порядок выдачи заданий
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

// Verifiable сообщает, проверяется ли выполнение через Telegram API.
func (t *Task) Verifiable() bool {
	return t.Type == TypeChannel || t.Type == TypeChat
}

// ValidType проверяет тип задания.
func ValidType(taskType string) bool {
	switch taskType {
	case TypeChannel, TypeChat, TypeBot:
		return true
	}
	return false
}

// CompleteResult — итог выполнения задания.
type CompleteResult struct {
	Task   *Task
	Amount float64 // Начислено (награда + буст питомцев)
}
