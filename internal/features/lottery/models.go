// Package lottery управляет лотереями: продажа билетов, розыгрыш,
// отмена с возвратом. Призовой фонд складывается из проданных билетов,
// комиссия удерживается при выплате.
package lottery

import (
	"time"

	"kirbystars.ru/stars-bot/internal/common"
)

// Операции журнала звёзд
const (
	OpTicket = "lottery_ticket" // Покупка билета (списание)
	OpPrize  = "lottery_prize"  // Выигрыш (начисление)
	OpRefund = "lottery_refund" // Возврат билета при отмене
)

// Lottery представляет лотерею.
type Lottery struct {
	ID                int64      `db:"id"`
	Title             string     `db:"title"`
	TicketPrice       float64    `db:"ticket_price"`
	MaxTickets        int        `db:"max_tickets"` // 0 — без ограничения
	TicketsSold       int        `db:"tickets_sold"`
	PrizePool         float64    `db:"prize_pool"` // Сумма проданных билетов
	CommissionPercent float64    `db:"commission_percent"`
	IsActive          bool       `db:"is_active"`
	WinnerSelected    bool       `db:"winner_selected"`
	WinnerID          *int64     `db:"winner_id"` // Telegram ID победителя
	ExpiresAt         *time.Time `db:"expires_at"`
	CreatedAt         time.Time  `db:"created_at"`
}

// Expired сообщает, истёк ли срок лотереи на момент now.
func (l *Lottery) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// SoldOut сообщает, распроданы ли все билеты.
func (l *Lottery) SoldOut() bool {
	return l.MaxTickets > 0 && l.TicketsSold >= l.MaxTickets
}

// SaleError возвращает причину, по которой билет сейчас не продаётся,
// или nil. Остановленная лотерея (is_active = FALSE) не продаёт билеты —
// на этом держится отмена: сначала продажи снимаются, потом идут возвраты.
func (l *Lottery) SaleError(now time.Time) error {
	switch {
	case !l.IsActive:
		return common.ErrLotteryInactive
	case l.WinnerSelected:
		return common.ErrLotteryFinished
	case l.Expired(now):
		return common.ErrLotteryExpired
	case l.SoldOut():
		return common.ErrLotterySoldOut
	}
	return nil
}

// Ticket представляет билет лотереи. Один билет на пользователя.
type Ticket struct {
	ID        int64     `db:"id"`
	LotteryID int64     `db:"lottery_id"`
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

// SettleResult — итог розыгрыша.
type SettleResult struct {
	WinnerID int64
	Prize    float64
}
