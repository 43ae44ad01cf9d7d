// Package lottery — handlers.go обрабатывает команды /lotteries и /ticket.
package lottery

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"kirbystars.ru/stars-bot/internal/common"
	"kirbystars.ru/stars-bot/internal/telegram"
)

// Handler обрабатывает команды лотерей.
type Handler struct {
	service *Service
	client  *telegram.Client
}

// NewHandler создаёт обработчик лотерей.
func NewHandler(service *Service, client *telegram.Client) *Handler {
	return &Handler{service: service, client: client}
}

// HandleList обрабатывает /lotteries — список активных лотерей.
func (h *Handler) HandleList(ctx context.Context, chatID int64) {
	list, err := h.service.ListActive(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка получения лотерей")
		h.client.Send(ctx, chatID, "❌ Ошибка получения лотерей")
		return
	}
	if len(list) == 0 {
		h.client.Send(ctx, chatID, "🎰 Активных лотерей сейчас нет")
		return
	}

	var b strings.Builder
	b.WriteString("🎰 Активные лотереи:\n\n")
	for _, l := range list {
		fmt.Fprintf(&b, "#%d %s\nБилет: %s | Фонд: %s | Продано: %d",
			l.ID, l.Title, common.FormatStars(l.TicketPrice), common.FormatStars(l.PrizePool), l.TicketsSold)
		if l.MaxTickets > 0 {
			fmt.Fprintf(&b, "/%d", l.MaxTickets)
		}
		fmt.Fprintf(&b, "\nКупить: /ticket %d\n\n", l.ID)
	}
	h.client.Send(ctx, chatID, b.String())
}

// HandleTicket обрабатывает /ticket <id> — покупка билета.
func (h *Handler) HandleTicket(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 1 {
		h.client.Send(ctx, chatID, "❌ Формат: /ticket <номер лотереи>")
		return
	}
	lotteryID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || lotteryID <= 0 {
		h.client.Send(ctx, chatID, "❌ Номер лотереи должен быть числом")
		return
	}

	l, err := h.service.BuyTicket(ctx, lotteryID, userID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrLotteryNotFound):
			h.client.Send(ctx, chatID, "❌ Лотерея не найдена")
		case errors.Is(err, common.ErrLotteryInactive), errors.Is(err, common.ErrLotteryFinished):
			h.client.Send(ctx, chatID, "❌ Лотерея уже не принимает билеты")
		case errors.Is(err, common.ErrLotteryExpired):
			h.client.Send(ctx, chatID, "❌ Срок лотереи истёк")
		case errors.Is(err, common.ErrLotterySoldOut):
			h.client.Send(ctx, chatID, "❌ Все билеты распроданы")
		case errors.Is(err, common.ErrTicketAlreadyBought):
			h.client.Send(ctx, chatID, "❌ У тебя уже есть билет в этой лотерее")
		case errors.Is(err, common.ErrInsufficientBalance):
			h.client.Send(ctx, chatID, "❌ Недостаточно звёзд на билет")
		default:
			log.WithError(err).Error("Ошибка покупки билета")
			h.client.Send(ctx, chatID, "❌ Ошибка покупки билета")
		}
		return
	}

	h.client.Send(ctx, chatID, fmt.Sprintf(
		"🎟 Билет куплен! Лотерея «%s», фонд уже %s. Удачи!",
		l.Title, common.FormatStars(l.PrizePool),
	))
}
