// Package users — repository.go выполняет операции с таблицей users.
// Регистрация с реферальным каскадом — одна транзакция БД: создание
// пользователя и все бонусы цепочки либо применяются вместе, либо никак.
package users

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

// Repository предоставляет методы для работы с пользователями.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий пользователей.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const userColumns = `
	id, user_id, username, first_name, last_name, balance, referral_code,
	referrer_id, referrals_count, weekly_referrals, cases_opened,
	tasks_completed, last_click, last_case_date, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.UserID, &u.Username, &u.FirstName, &u.LastName, &u.Balance,
		&u.ReferralCode, &u.ReferrerID, &u.ReferralsCount, &u.WeeklyReferrals,
		&u.CasesOpened, &u.TasksCompleted, &u.LastClick, &u.LastCaseDate,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования пользователя: %w", err)
	}
	return &u, nil
}

// GetByUserID возвращает пользователя по Telegram ID.
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*User, error) {
	row := r.db.QueryRow(ctx, `SELECT`+userColumns+` FROM users WHERE user_id = $1`, userID)
	return scanUser(row)
}

// GetByReferralCode возвращает пользователя по реферальному коду.
func (r *Repository) GetByReferralCode(ctx context.Context, code string) (*User, error) {
	row := r.db.QueryRow(ctx, `SELECT`+userColumns+` FROM users WHERE referral_code = $1`, code)
	return scanUser(row)
}

// GetBalance возвращает текущий баланс пользователя.
func (r *Repository) GetBalance(ctx context.Context, userID int64) (float64, error) {
	var balance float64
	err := r.db.QueryRow(ctx, `SELECT balance FROM users WHERE user_id = $1`, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, common.ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка получения баланса: %w", err)
	}
	return balance, nil
}

// CreateWithCascade создаёт пользователя и применяет реферальный каскад
// в одной транзакции. Возвращает false, если пользователь уже существует
// (гонка двух /start) — в этом случае каскад не применяется.
func (r *Repository) CreateWithCascade(ctx context.Context, u *User, credits []CascadeCredit) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// ON CONFLICT DO NOTHING + RETURNING: при гонке вставки выигрывает одна,
	// вторая не получает строку и выходит без каскада.
	err = tx.QueryRow(ctx, `
		INSERT INTO users (user_id, username, first_name, last_name, referral_code, referrer_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING id, created_at
	`, u.UserID, u.Username, u.FirstName, u.LastName, u.ReferralCode, u.ReferrerID).Scan(&u.ID, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	for _, c := range credits {
		desc := fmt.Sprintf("Реферальный бонус за пользователя %d", u.UserID)
		if err := postgres.CreditUser(ctx, tx, c.UserID, c.Amount, c.Operation, desc); err != nil {
			return false, err
		}
		if c.CountReferral {
			if _, err := tx.Exec(ctx, `
				UPDATE users
				SET referrals_count = referrals_count + 1,
				    weekly_referrals = weekly_referrals + 1,
				    updated_at = NOW()
				WHERE user_id = $1
			`, c.UserID); err != nil {
				return false, fmt.Errorf("ошибка обновления счётчиков рефералов: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// CountReferralsSince возвращает число приглашённых пользователем с момента since.
// Используется для проверки доступа к ежедневному кейсу.
func (r *Repository) CountReferralsSince(ctx context.Context, referrerID int64, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM users
		WHERE referrer_id = $1 AND created_at >= $2
	`, referrerID, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта рефералов: %w", err)
	}
	return n, nil
}

// TopWeekly возвращает топ пользователей по приглашениям за неделю.
// Пользователи без приглашений в рейтинг не попадают.
func (r *Repository) TopWeekly(ctx context.Context, limit int) ([]*User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+userColumns+`
		FROM users
		WHERE weekly_referrals > 0
		ORDER BY weekly_referrals DESC, created_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения рейтинга: %w", err)
	}
	defer rows.Close()

	var top []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		top = append(top, u)
	}
	return top, nil
}

// Credit начисляет звёзды пользователю отдельной транзакцией
// (баланс + запись журнала). Используется для призов рейтинга.
func (r *Repository) Credit(ctx context.Context, userID int64, amount float64, operation, description string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := postgres.CreditUser(ctx, tx, userID, amount, operation, description); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ResetWeekly обнуляет недельные счётчики приглашений у всех пользователей.
func (r *Repository) ResetWeekly(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET weekly_referrals = 0, updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("ошибка сброса недельных счётчиков: %w", err)
	}
	return nil
}

// UpdateInfo обновляет имя и username пользователя (перезашёл с новыми данными).
func (r *Repository) UpdateInfo(ctx context.Context, userID int64, username, firstName, lastName string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET username = $2, first_name = $3, last_name = $4, updated_at = NOW()
		WHERE user_id = $1
	`, userID, username, firstName, lastName)
	return err
}
