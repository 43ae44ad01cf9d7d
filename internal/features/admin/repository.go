// Package admin — repository.go работает с таблицами admin_sessions
// и admin_login_attempts и собирает сводную статистику.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository работает с админ-таблицами.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий админки.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateSession создаёт новую сессию администратора.
func (r *Repository) CreateSession(ctx context.Context, session *Session) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO admin_sessions (user_id, session_token, expires_at, is_active)
		VALUES ($1, $2, $3, TRUE)
	`, session.UserID, session.SessionToken, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("ошибка создания сессии: %w", err)
	}
	return nil
}

// GetActiveSession возвращает активную сессию пользователя.
func (r *Repository) GetActiveSession(ctx context.Context, userID int64) (*Session, error) {
	var s Session
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, session_token, authenticated_at, expires_at, last_activity, is_active
		FROM admin_sessions
		WHERE user_id = $1 AND is_active = TRUE AND expires_at > NOW()
		ORDER BY authenticated_at DESC
		LIMIT 1
	`, userID).Scan(
		&s.ID, &s.UserID, &s.SessionToken, &s.AuthenticatedAt,
		&s.ExpiresAt, &s.LastActivity, &s.IsActive,
	)
	if err != nil {
		return nil, fmt.Errorf("активная сессия не найдена: %w", err)
	}
	return &s, nil
}

// DeactivateSession деактивирует сессии пользователя (выход из админки).
func (r *Repository) DeactivateSession(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE admin_sessions SET is_active = FALSE WHERE user_id = $1`, userID)
	return err
}

// UpdateActivity обновляет время последней активности сессии.
func (r *Repository) UpdateActivity(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE admin_sessions SET last_activity = NOW()
		WHERE user_id = $1 AND is_active = TRUE
	`, userID)
	return err
}

// LogAttempt записывает попытку входа.
func (r *Repository) LogAttempt(ctx context.Context, userID int64, success bool) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO admin_login_attempts (user_id, success) VALUES ($1, $2)
	`, userID, success)
	return err
}

// GetRecentAttempts возвращает количество неудачных попыток за период.
func (r *Repository) GetRecentAttempts(ctx context.Context, userID int64, period time.Duration) (int, error) {
	since := time.Now().Add(-period)
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM admin_login_attempts
		WHERE user_id = $1 AND success = FALSE AND attempt_time >= $2
	`, userID, since).Scan(&count)
	return count, err
}

// GetStats собирает сводную статистику бота.
func (r *Repository) GetStats(ctx context.Context) (*Stats, error) {
	var st Stats
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(balance), 0),
			COALESCE(SUM(referrals_count), 0),
			COALESCE(SUM(cases_opened), 0),
			COALESCE(SUM(tasks_completed), 0)
		FROM users
	`).Scan(&st.TotalUsers, &st.TotalBalance, &st.TotalReferrals, &st.CasesOpened, &st.TasksCompleted)
	if err != nil {
		return nil, fmt.Errorf("ошибка статистики пользователей: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM lotteries
		WHERE is_active = TRUE AND winner_selected = FALSE
	`).Scan(&st.ActiveLotteries)
	if err != nil {
		return nil, fmt.Errorf("ошибка статистики лотерей: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending'),
			COALESCE(SUM(amount) FILTER (WHERE status = 'approved'), 0)
		FROM withdrawals
	`).Scan(&st.PendingWithdrawals, &st.WithdrawnTotal)
	if err != nil {
		return nil, fmt.Errorf("ошибка статистики выводов: %w", err)
	}

	return &st, nil
}
