// Package withdrawals — handlers.go обрабатывает команду /withdraw.
package withdrawals

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

// Handler обрабатывает команды вывода.
type Handler struct {
	service *Service
	client  *telegram.Client
}

// NewHandler создаёт обработчик вывода.
func NewHandler(service *Service, client *telegram.Client) *Handler {
	return &Handler{service: service, client: client}
}

// HandleWithdraw обрабатывает /withdraw [сумма].
// Без аргумента — показывает варианты, с аргументом — подаёт заявку.
func (h *Handler) HandleWithdraw(ctx context.Context, chatID, userID int64, username string, args []string) {
	if len(args) < 1 {
		var b strings.Builder
		b.WriteString("💸 Варианты вывода:\n\n")
		for _, o := range Options {
			fmt.Fprintf(&b, "• %s — спишется %s (/withdraw %.0f)\n", o.Label, common.FormatStars(o.Amount), o.Amount)
		}
		h.client.Send(ctx, chatID, b.String())
		return
	}

	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		h.client.Send(ctx, chatID, "❌ Сумма должна быть числом")
		return
	}

	w, err := h.service.Request(ctx, userID, amount, username)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidWithdrawalAmount):
			h.client.Send(ctx, chatID, "❌ Такой суммы нет в вариантах вывода: /withdraw")
		case errors.Is(err, common.ErrInsufficientBalance):
			h.client.Send(ctx, chatID, "❌ Недостаточно звёзд на балансе")
		case errors.Is(err, common.ErrWithdrawalPending):
			h.client.Send(ctx, chatID, "❌ У тебя уже есть заявка на рассмотрении")
		default:
			log.WithError(err).Error("Ошибка создания заявки")
			h.client.Send(ctx, chatID, "❌ Ошибка создания заявки")
		}
		return
	}

	h.client.Send(ctx, chatID, fmt.Sprintf(
		"✅ Заявка #%d создана: %s\nОбычно обработка занимает до 24 часов.",
		w.ID, w.Label,
	))
}
