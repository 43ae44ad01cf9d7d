// Package admin — админ-панель: аутентификация по паролю (Argon2id),
// сессии, защита от перебора и сводная статистика бота.
// models.go описывает структуры админки.
package admin

import "time"

// Session представляет активную сессию администратора.
type Session struct {
	ID              int64     `db:"id"`
	UserID          int64     `db:"user_id"`
	SessionToken    string    `db:"session_token"`
	AuthenticatedAt time.Time `db:"authenticated_at"`
	ExpiresAt       time.Time `db:"expires_at"`
	LastActivity    time.Time `db:"last_activity"`
	IsActive        bool      `db:"is_active"`
}

// Stats — сводная статистика бота для админ-панели.
type Stats struct {
	TotalUsers         int64
	TotalBalance       float64 // Сумма звёзд на всех балансах
	TotalReferrals     int64
	CasesOpened        int64
	TasksCompleted     int64
	ActiveLotteries    int64
	PendingWithdrawals int64
	WithdrawnTotal     float64 // Сумма одобренных выводов
}
