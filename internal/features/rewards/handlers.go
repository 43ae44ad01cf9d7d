// Package rewards — handlers.go обрабатывает команды /click и /case.
package rewards

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"kirbystars.ru/stars-bot/internal/common"
	"kirbystars.ru/stars-bot/internal/telegram"
)

// Handler обрабатывает команды ежедневных наград.
type Handler struct {
	service *Service
	client  *telegram.Client
}

// NewHandler создаёт обработчик наград.
func NewHandler(service *Service, client *telegram.Client) *Handler {
	return &Handler{service: service, client: client}
}

// HandleClick обрабатывает /click — ежедневный клик.
func (h *Handler) HandleClick(ctx context.Context, chatID, userID int64) {
	result, err := h.service.Click(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrAlreadyClicked):
			h.client.Send(ctx, chatID, "⏳ Ты уже кликал сегодня, возвращайся завтра!")
		case errors.Is(err, common.ErrUserNotFound):
			h.client.Send(ctx, chatID, "❌ Сначала отправьте /start")
		default:
			log.WithError(err).Error("Ошибка клика")
			h.client.Send(ctx, chatID, "❌ Ошибка, попробуйте позже")
		}
		return
	}

	h.client.Send(ctx, chatID, fmt.Sprintf(
		"⭐ +%s за клик!\nБаланс: %s",
		common.FormatStars(result.Amount), common.FormatStars(result.NewBalance),
	))
}

// HandleCase обрабатывает /case — ежедневный кейс.
func (h *Handler) HandleCase(ctx context.Context, chatID, userID int64) {
	result, err := h.service.OpenCase(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrAlreadyOpenedCase):
			h.client.Send(ctx, chatID, "⏳ Кейс уже открыт сегодня, возвращайся завтра!")
		case errors.Is(err, common.ErrNotEnoughReferrals):
			h.client.Send(ctx, chatID, "🔒 Кейс открывается после 3 приглашённых за сегодня. Жми /ref!")
		case errors.Is(err, common.ErrUserNotFound):
			h.client.Send(ctx, chatID, "❌ Сначала отправьте /start")
		default:
			log.WithError(err).Error("Ошибка открытия кейса")
			h.client.Send(ctx, chatID, "❌ Ошибка, попробуйте позже")
		}
		return
	}

	h.client.Send(ctx, chatID, fmt.Sprintf(
		"🎁 Из кейса выпало %s!\nБаланс: %s",
		common.FormatStars(result.Amount), common.FormatStars(result.NewBalance),
	))
}
