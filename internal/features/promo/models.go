// Package promo управляет промокодами: активация с лимитом
// использований, один раз на пользователя.
package promo

import (
	"strings"
	"time"
)

// OpPromo — операция журнала звёзд за активацию промокода.
const OpPromo = "promocode"

// Promocode представляет промокод.
type Promocode struct {
	ID        int64     `db:"id"`
	Code      string    `db:"code"` // Хранится в верхнем регистре
	Reward    float64   `db:"reward"`
	MaxUses   int       `db:"max_uses"` // 0 — без ограничения
	UsedCount int       `db:"used_count"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

// Exhausted сообщает, исчерпан ли лимит использований.
func (p *Promocode) Exhausted() bool {
	return p.MaxUses > 0 && p.UsedCount >= p.MaxUses
}

// NormalizeCode приводит промокод к каноническому виду:
// обрезанные пробелы, верхний регистр. Активация нечувствительна
// к регистру ввода.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
