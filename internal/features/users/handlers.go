// Package users — handlers.go обрабатывает команды:
// /start (регистрация по реферальной ссылке), /balance, /ref, /top.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"kirbystars.ru/stars-bot/internal/common"
	"kirbystars.ru/stars-bot/internal/telegram"
)

// Handler обрабатывает команды пользователей.
type Handler struct {
	service     *Service
	client      *telegram.Client
	botUsername string // Для построения реферальной ссылки
}

// NewHandler создаёт обработчик команд пользователей.
func NewHandler(service *Service, client *telegram.Client, botUsername string) *Handler {
	return &Handler{service: service, client: client, botUsername: botUsername}
}

// HandleStart обрабатывает /start [реферальный_код].
func (h *Handler) HandleStart(ctx context.Context, chatID, userID int64, username, firstName, lastName string, args []string) {
	var code string
	if len(args) > 0 {
		code = strings.TrimSpace(args[0])
	}

	result, err := h.service.Register(ctx, userID, username, firstName, lastName, code)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка регистрации")
		h.client.Send(ctx, chatID, "❌ Ошибка регистрации, попробуйте позже")
		return
	}

	if result.Created {
		h.client.Send(ctx, chatID, fmt.Sprintf(
			"👋 Добро пожаловать, %s!\n\n"+
				"Зарабатывай звёзды: ежедневный клик, задания, рефералы.\n"+
				"Твоя ссылка для приглашений:\n%s",
			firstName, h.referralLink(result.User.ReferralCode),
		))
		return
	}
	h.client.Send(ctx, chatID, "👋 С возвращением! Используй /balance, чтобы посмотреть баланс.")
}

// HandleBalance обрабатывает /balance — показывает баланс и счётчики.
func (h *Handler) HandleBalance(ctx context.Context, chatID, userID int64) {
	u, err := h.service.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			h.client.Send(ctx, chatID, "❌ Сначала отправьте /start")
			return
		}
		log.WithError(err).Error("Ошибка получения баланса")
		h.client.Send(ctx, chatID, "❌ Ошибка получения баланса")
		return
	}

	h.client.Send(ctx, chatID, fmt.Sprintf(
		"💰 Баланс: %s\n👥 Рефералов: %d (за неделю: %d)\n📦 Кейсов открыто: %d\n✅ Заданий выполнено: %d",
		common.FormatStars(u.Balance), u.ReferralsCount, u.WeeklyReferrals, u.CasesOpened, u.TasksCompleted,
	))
}

// HandleRef обрабатывает /ref — показывает реферальную ссылку.
func (h *Handler) HandleRef(ctx context.Context, chatID, userID int64) {
	u, err := h.service.GetByUserID(ctx, userID)
	if err != nil {
		h.client.Send(ctx, chatID, "❌ Сначала отправьте /start")
		return
	}

	h.client.Send(ctx, chatID, fmt.Sprintf(
		"🔗 Твоя реферальная ссылка:\n%s\n\nЗа каждого друга — бонус в звёздах!",
		h.referralLink(u.ReferralCode),
	))
}

// HandleTop обрабатывает /top — недельный рейтинг приглашений.
func (h *Handler) HandleTop(ctx context.Context, chatID int64) {
	top, err := h.service.TopWeekly(ctx, len(WeeklyPrizes))
	if err != nil {
		log.WithError(err).Error("Ошибка получения рейтинга")
		h.client.Send(ctx, chatID, "❌ Ошибка получения рейтинга")
		return
	}
	if len(top) == 0 {
		h.client.Send(ctx, chatID, "🏆 Рейтинг пока пуст — пригласи друга первым!")
		return
	}

	var b strings.Builder
	b.WriteString("🏆 Недельный рейтинг приглашений:\n\n")
	medals := []string{"🥇", "🥈", "🥉", "4.", "5."}
	for i, u := range top {
		name := u.FirstName
		if u.Username != "" {
			name = "@" + u.Username
		}
		fmt.Fprintf(&b, "%s %s — %d %s (приз %s)\n",
			medals[i], name, u.WeeklyReferrals,
			common.PluralizeReferrals(u.WeeklyReferrals),
			common.FormatStars(WeeklyPrizes[i]),
		)
	}
	h.client.Send(ctx, chatID, b.String())
}

func (h *Handler) referralLink(code string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", h.botUsername, code)
}
