// Package promo — handlers.go обрабатывает команду /promo <код>.
package promo

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"kirbystars.ru/stars-bot/internal/common"
	"kirbystars.ru/stars-bot/internal/telegram"
)

// Handler обрабатывает команды промокодов.
type Handler struct {
	service *Service
	client  *telegram.Client
}

// NewHandler создаёт обработчик промокодов.
func NewHandler(service *Service, client *telegram.Client) *Handler {
	return &Handler{service: service, client: client}
}

// HandlePromo обрабатывает /promo <код> — активация промокода.
func (h *Handler) HandlePromo(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 1 {
		h.client.Send(ctx, chatID, "❌ Формат: /promo <код>")
		return
	}

	reward, err := h.service.Activate(ctx, userID, args[0])
	if err != nil {
		switch {
		case errors.Is(err, common.ErrPromoNotFound):
			h.client.Send(ctx, chatID, "❌ Промокод не найден")
		case errors.Is(err, common.ErrPromoInactive):
			h.client.Send(ctx, chatID, "❌ Промокод больше не действует")
		case errors.Is(err, common.ErrPromoExhausted):
			h.client.Send(ctx, chatID, "❌ Промокод исчерпан")
		case errors.Is(err, common.ErrPromoAlreadyUsed):
			h.client.Send(ctx, chatID, "❌ Ты уже использовал этот промокод")
		default:
			log.WithError(err).Error("Ошибка активации промокода")
			h.client.Send(ctx, chatID, "❌ Ошибка активации промокода")
		}
		return
	}

	h.client.Send(ctx, chatID, fmt.Sprintf("🎉 Промокод активирован! +%s", common.FormatStars(reward)))
}
