// Package channels управляет обязательными каналами: пользователь
// обязан состоять во всех, иначе доступ к боту закрыт.
package channels

import "time"

// Channel представляет обязательный канал.
type Channel struct {
	ID        int64     `db:"id"`
	ChatID    string    `db:"chat_id"` // @username или числовой ID чата
	Title     string    `db:"title"`
	URL       string    `db:"url"` // Ссылка для кнопки «Подписаться»
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

// CheckResult — итог проверки подписок.
type CheckResult struct {
	Passed  bool       // Пользователь состоит во всех обязательных каналах
	Missing []*Channel // Каналы, где подписки нет (или проверка не удалась)
}
