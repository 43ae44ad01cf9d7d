// Package lottery — repository.go выполняет операции с лотереями.
// Покупка билета и розыгрыш идут под блокировкой строки лотереи;
// розыгрыш дополнительно защищён условным UPDATE, так что победитель
// выбирается ровно один раз даже при гонке двух задач.
package lottery

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kirbystars.ru/stars-bot/internal/common"
	"kirbystars.ru/stars-bot/internal/db/postgres"
)

// querier покрывает и пул, и транзакцию.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository предоставляет методы для работы с лотереями.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий лотерей.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const lotteryColumns = `
	id, title, ticket_price, max_tickets, tickets_sold, prize_pool,
	commission_percent, is_active, winner_selected, winner_id, expires_at, created_at`

func scanLottery(row pgx.Row) (*Lottery, error) {
	var l Lottery
	err := row.Scan(
		&l.ID, &l.Title, &l.TicketPrice, &l.MaxTickets, &l.TicketsSold,
		&l.PrizePool, &l.CommissionPercent, &l.IsActive, &l.WinnerSelected,
		&l.WinnerID, &l.ExpiresAt, &l.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrLotteryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования лотереи: %w", err)
	}
	return &l, nil
}

// GetByID возвращает лотерею по ID.
func (r *Repository) GetByID(ctx context.Context, lotteryID int64) (*Lottery, error) {
	row := r.db.QueryRow(ctx, `SELECT`+lotteryColumns+` FROM lotteries WHERE id = $1`, lotteryID)
	return scanLottery(row)
}

// ListActive возвращает активные незавершённые лотереи.
func (r *Repository) ListActive(ctx context.Context) ([]*Lottery, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+lotteryColumns+`
		FROM lotteries
		WHERE is_active = TRUE AND winner_selected = FALSE
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения лотерей: %w", err)
	}
	defer rows.Close()

	var list []*Lottery
	for rows.Next() {
		l, err := scanLottery(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, nil
}

// ListExpired возвращает активные лотереи с истёкшим сроком,
// у которых победитель ещё не выбран.
func (r *Repository) ListExpired(ctx context.Context, now time.Time) ([]*Lottery, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+lotteryColumns+`
		FROM lotteries
		WHERE is_active = TRUE AND winner_selected = FALSE
		  AND expires_at IS NOT NULL AND expires_at < $1
	`, now)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения истёкших лотерей: %w", err)
	}
	defer rows.Close()

	var list []*Lottery
	for rows.Next() {
		l, err := scanLottery(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, nil
}

// ticketHolders возвращает Telegram ID держателей билетов лотереи
// в порядке покупки. Читается и из пула, и из транзакции розыгрыша.
func ticketHolders(ctx context.Context, q querier, lotteryID int64) ([]int64, error) {
	rows, err := q.Query(ctx, `
		SELECT user_id FROM lottery_tickets
		WHERE lottery_id = $1
		ORDER BY id ASC
	`, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения билетов: %w", err)
	}
	defer rows.Close()

	var holders []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		holders = append(holders, id)
	}
	return holders, nil
}

// BuyTicket продаёт билет пользователю: проверка состояния лотереи,
// списание цены, вставка билета и пополнение фонда — одна транзакция.
func (r *Repository) BuyTicket(ctx context.Context, lotteryID, userID int64, now time.Time) (*Lottery, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	l, err := scanLottery(tx.QueryRow(ctx, `
		SELECT`+lotteryColumns+` FROM lotteries WHERE id = $1 FOR UPDATE
	`, lotteryID))
	if err != nil {
		return nil, err
	}

	if err := l.SaleError(now); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO lottery_tickets (lottery_id, user_id) VALUES ($1, $2)
	`, lotteryID, userID)
	if postgres.IsUniqueViolation(err) {
		return nil, common.ErrTicketAlreadyBought
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка создания билета: %w", err)
	}

	desc := fmt.Sprintf("Билет лотереи «%s»", l.Title)
	if err := postgres.DebitUser(ctx, tx, userID, l.TicketPrice, OpTicket, desc); err != nil {
		return nil, err
	}

	err = tx.QueryRow(ctx, `
		UPDATE lotteries
		SET tickets_sold = tickets_sold + 1, prize_pool = prize_pool + ticket_price
		WHERE id = $1
		RETURNING tickets_sold, prize_pool
	`, lotteryID).Scan(&l.TicketsSold, &l.PrizePool)
	if err != nil {
		return nil, fmt.Errorf("ошибка пополнения фонда: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Settle разыгрывает лотерею одной транзакцией. Строка лотереи
// блокируется до чтения держателей и фонда, поэтому розыгрыш идёт
// по согласованному снимку: покупка, зафиксированная до блокировки,
// участвует в розыгрыше и в призе; покупка после — упирается в
// winner_selected и отклоняется. Повторный розыгрыш получает
// ErrLotteryFinished.
func (r *Repository) Settle(ctx context.Context, lotteryID int64, explicit *int64, rnd *rand.Rand) (*SettleResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	l, err := scanLottery(tx.QueryRow(ctx, `
		SELECT`+lotteryColumns+` FROM lotteries WHERE id = $1 FOR UPDATE
	`, lotteryID))
	if err != nil {
		return nil, err
	}
	if l.WinnerSelected {
		return nil, common.ErrLotteryFinished
	}

	holders, err := ticketHolders(ctx, tx, lotteryID)
	if err != nil {
		return nil, err
	}

	winner, err := pickWinner(holders, explicit, rnd)
	if err != nil {
		return nil, err
	}
	prize := PrizeAmount(l.PrizePool, l.CommissionPercent)

	if _, err := tx.Exec(ctx, `
		UPDATE lotteries
		SET winner_selected = TRUE, winner_id = $2, is_active = FALSE
		WHERE id = $1
	`, lotteryID, winner); err != nil {
		return nil, fmt.Errorf("ошибка фиксации победителя: %w", err)
	}

	desc := fmt.Sprintf("Выигрыш в лотерее «%s»", l.Title)
	if err := postgres.CreditUser(ctx, tx, winner, prize, OpPrize, desc); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &SettleResult{WinnerID: winner, Prize: prize}, nil
}

// Deactivate останавливает продажу билетов разыгранной ещё не
// лотереи. Первый шаг отмены: после фиксации этого UPDATE
// конкурирующая покупка, ждущая блокировку строки, получит
// ErrLotteryInactive, и снимок билетов для возврата полон.
func (r *Repository) Deactivate(ctx context.Context, lotteryID int64) (*Lottery, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	l, err := scanLottery(tx.QueryRow(ctx, `
		SELECT`+lotteryColumns+` FROM lotteries WHERE id = $1 FOR UPDATE
	`, lotteryID))
	if err != nil {
		return nil, err
	}
	if l.WinnerSelected {
		return nil, common.ErrLotteryFinished
	}

	if _, err := tx.Exec(ctx, `
		UPDATE lotteries SET is_active = FALSE WHERE id = $1
	`, lotteryID); err != nil {
		return nil, fmt.Errorf("ошибка остановки лотереи: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	l.IsActive = false
	return l, nil
}

// RefundTicket возвращает стоимость билета и удаляет билет одной
// транзакцией. Отмена лотереи идёт по билету за раз, поэтому сбой
// посередине оставляет процесс возобновляемым: возвращённые билеты
// уже удалены, оставшиеся вернутся при повторе.
func (r *Repository) RefundTicket(ctx context.Context, ticketID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID, lotteryID int64
	var price float64
	var title string
	err = tx.QueryRow(ctx, `
		SELECT t.user_id, t.lottery_id, l.ticket_price, l.title
		FROM lottery_tickets t
		JOIN lotteries l ON l.id = t.lottery_id
		WHERE t.id = $1
		FOR UPDATE OF t
	`, ticketID).Scan(&userID, &lotteryID, &price, &title)
	if errors.Is(err, pgx.ErrNoRows) {
		// Билет уже возвращён предыдущей попыткой
		return nil
	}
	if err != nil {
		return fmt.Errorf("ошибка чтения билета: %w", err)
	}

	desc := fmt.Sprintf("Возврат билета лотереи «%s»", title)
	if err := postgres.CreditUser(ctx, tx, userID, price, OpRefund, desc); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM lottery_tickets WHERE id = $1`, ticketID); err != nil {
		return fmt.Errorf("ошибка удаления билета: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE lotteries
		SET tickets_sold = tickets_sold - 1, prize_pool = prize_pool - $2
		WHERE id = $1
	`, lotteryID, price); err != nil {
		return fmt.Errorf("ошибка уменьшения фонда: %w", err)
	}

	return tx.Commit(ctx)
}

// TicketIDs возвращает ID билетов лотереи для поштучного возврата.
func (r *Repository) TicketIDs(ctx context.Context, lotteryID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id FROM lottery_tickets WHERE lottery_id = $1 ORDER BY id ASC
	`, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения билетов: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Delete удаляет лотерею после возврата всех билетов.
// Пока билеты остались, удаление невозможно: каскад по
// lottery_tickets уничтожил бы невозвращённый билет без возврата.
func (r *Repository) Delete(ctx context.Context, lotteryID int64) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM lotteries
		WHERE id = $1
		  AND NOT EXISTS (SELECT 1 FROM lottery_tickets WHERE lottery_id = $1)
	`, lotteryID)
	if err != nil {
		return fmt.Errorf("ошибка удаления лотереи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrTicketsRemain
	}
	return nil
}

// Create создаёт лотерею (админ-операция).
func (r *Repository) Create(ctx context.Context, l *Lottery) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO lotteries (title, ticket_price, max_tickets, commission_percent, is_active, expires_at)
		VALUES ($1, $2, $3, $4, TRUE, $5)
		RETURNING id, created_at
	`, l.Title, l.TicketPrice, l.MaxTickets, l.CommissionPercent, l.ExpiresAt).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания лотереи: %w", err)
	}
	l.IsActive = true
	return nil
}

// SetActive включает или выключает продажу билетов (админ-операция).
func (r *Repository) SetActive(ctx context.Context, lotteryID int64, active bool) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE lotteries SET is_active = $2
		WHERE id = $1 AND winner_selected = FALSE
	`, lotteryID, active)
	if err != nil {
		return fmt.Errorf("ошибка обновления лотереи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrLotteryNotFound
	}
	return nil
}
