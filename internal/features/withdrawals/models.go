// Package withdrawals управляет заявками на вывод звёзд.
// Суммы фиксированы вариантами, списание происходит при подаче заявки,
// отклонение возвращает звёзды. Одна заявка на рассмотрении на пользователя.
package withdrawals

import "time"

// Статусы заявки
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Операции журнала звёзд
const (
	OpWithdrawal       = "withdrawal"        // Списание при подаче заявки
	OpWithdrawalRefund = "withdrawal_refund" // Возврат при отклонении
)

// Option — доступный вариант вывода.
type Option struct {
	Amount float64 // Списываемая сумма в звёздах
	Label  string  // Что получает пользователь
}

// Options — фиксированные варианты вывода.
// 1300 звёзд обмениваются на Telegram Premium, остальные — на звёзды.
var Options = []Option{
	{Amount: 15, Label: "15 ⭐"},
	{Amount: 25, Label: "25 ⭐"},
	{Amount: 50, Label: "50 ⭐"},
	{Amount: 100, Label: "100 ⭐"},
	{Amount: 1300, Label: "Telegram Premium"},
}

// OptionFor возвращает вариант вывода для суммы amount.
// Суммы вне списка запрещены.
func OptionFor(amount float64) (Option, bool) {
	for _, o := range Options {
		if o.Amount == amount {
			return o, true
		}
	}
	return Option{}, false
}

// Withdrawal представляет заявку на вывод.
type Withdrawal struct {
	ID           int64      `db:"id"`
	UserID       int64      `db:"user_id"` // Telegram ID
	Amount       float64    `db:"amount"`
	Label        string     `db:"label"`
	Status       string     `db:"status"`
	RejectReason string     `db:"reject_reason"` // Пусто для pending/approved
	DecidedAt    *time.Time `db:"decided_at"`
	CreatedAt    time.Time  `db:"created_at"`
}
