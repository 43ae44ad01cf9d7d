// Package users управляет пользователями бота: регистрация по реферальной
// ссылке, балансы, счётчики и недельный рейтинг приглашений.
// models.go описывает структуру пользователя.
package users

import "time"

// User представляет пользователя бота.
// Баланс хранится в звёздах (дробная валюта: клик даёт 0.1 ⭐).
type User struct {
	ID              int64      `db:"id"`
	UserID          int64      `db:"user_id"` // Telegram user ID
	Username        string     `db:"username"`
	FirstName       string     `db:"first_name"`
	LastName        string     `db:"last_name"`
	Balance         float64    `db:"balance"`       // Не бывает отрицательным (CHECK в БД)
	ReferralCode    string     `db:"referral_code"` // Уникальный код для ссылки-приглашения
	ReferrerID      *int64     `db:"referrer_id"`   // Telegram ID пригласившего (nil — пришёл сам)
	ReferralsCount  int        `db:"referrals_count"`
	WeeklyReferrals int        `db:"weekly_referrals"`
	CasesOpened     int        `db:"cases_opened"`
	TasksCompleted  int        `db:"tasks_completed"`
	LastClick       *time.Time `db:"last_click"`
	LastCaseDate    *time.Time `db:"last_case_date"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// Операции журнала звёзд
const (
	OpReferralBonus  = "referral_bonus"  // Бонус за реферала 1 уровня
	OpReferral2Bonus = "referral2_bonus" // Бонус за реферала 2 уровня
	OpWeeklyPrize    = "weekly_prize"    // Приз недельного рейтинга
)

// WeeklyPrizes — призы топ-5 недельного рейтинга приглашений.
// Место в рейтинге = индекс + 1.
var WeeklyPrizes = []float64{100, 75, 50, 25, 15}

// RegisterResult — итог регистрации.
type RegisterResult struct {
	User    *User
	Created bool // false — пользователь уже был зарегистрирован
}
