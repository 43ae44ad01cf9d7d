// Package admin — handlers.go обрабатывает админ-команды.
// Все команды, кроме /login, требуют активной сессии.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"kirbystars.ru/stars-bot/internal/common"
	"kirbystars.ru/stars-bot/internal/features/channels"
	"kirbystars.ru/stars-bot/internal/features/lottery"
	"kirbystars.ru/stars-bot/internal/features/pets"
	"kirbystars.ru/stars-bot/internal/features/promo"
	"kirbystars.ru/stars-bot/internal/features/tasks"
	"kirbystars.ru/stars-bot/internal/features/withdrawals"
	"kirbystars.ru/stars-bot/internal/telegram"
)

// Handler обрабатывает админ-команды.
type Handler struct {
	service           *Service
	taskService       *tasks.Service
	promoService      *promo.Service
	lotteryService    *lottery.Service
	withdrawalService *withdrawals.Service
	channelService    *channels.Service
	petService        *pets.Service
	client            *telegram.Client
}

// NewHandler создаёт обработчик админ-команд.
func NewHandler(
	service *Service,
	taskService *tasks.Service,
	promoService *promo.Service,
	lotteryService *lottery.Service,
	withdrawalService *withdrawals.Service,
	channelService *channels.Service,
	petService *pets.Service,
	client *telegram.Client,
) *Handler {
	return &Handler{
		service:           service,
		taskService:       taskService,
		promoService:      promoService,
		lotteryService:    lotteryService,
		withdrawalService: withdrawalService,
		channelService:    channelService,
		petService:        petService,
		client:            client,
	}
}

// HandleLogin обрабатывает /login <пароль>.
func (h *Handler) HandleLogin(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 1 {
		h.client.Send(ctx, chatID, "❌ Формат: /login <пароль>")
		return
	}

	err := h.service.Login(ctx, userID, strings.Join(args, " "))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrWrongPassword):
			h.client.Send(ctx, chatID, "❌ Неверный пароль")
		case errors.Is(err, common.ErrTooManyAttempts):
			h.client.Send(ctx, chatID, "⏳ Слишком много попыток, подождите час")
		default:
			log.WithError(err).Error("Ошибка входа в админку")
			h.client.Send(ctx, chatID, "❌ Ошибка входа")
		}
		return
	}

	h.client.Send(ctx, chatID,
		"🔓 Админ-панель открыта.\n\n"+
			"/stats — статистика\n"+
			"/pending — заявки на вывод\n"+
			"/approve <id>, /reject <id> [причина] — решения по заявкам\n"+
			"/addtask <channel|chat|bot> <цель> <награда> <название>\n"+
			"/addpromo <код> <награда> <лимит>\n"+
			"/addpet <цена> <тип_буста> <значение> <название>\n"+
			"/addlottery <цена> <комиссия%> <макс_билетов> <название>\n"+
			"/draw <id> [победитель] — розыгрыш лотереи\n"+
			"/cancellottery <id> — отмена с возвратом билетов\n"+
			"/addchannel <@канал> <ссылка> <название>\n"+
			"/logout — выход")
}

// Authorized проверяет сессию и отвечает отказом, если её нет.
func (h *Handler) Authorized(ctx context.Context, chatID, userID int64) bool {
	if h.service.IsAuthenticated(ctx, userID) {
		return true
	}
	h.client.Send(ctx, chatID, "🔒 Нужен вход: /login <пароль>")
	return false
}

// HandleLogout обрабатывает /logout.
func (h *Handler) HandleLogout(ctx context.Context, chatID, userID int64) {
	if err := h.service.Logout(ctx, userID); err != nil {
		log.WithError(err).Error("Ошибка выхода из админки")
	}
	h.client.Send(ctx, chatID, "🔒 Сессия закрыта")
}

// HandleStats обрабатывает /stats — сводная статистика.
func (h *Handler) HandleStats(ctx context.Context, chatID int64) {
	st, err := h.service.Stats(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка получения статистики")
		h.client.Send(ctx, chatID, "❌ Ошибка получения статистики")
		return
	}

	h.client.Send(ctx, chatID, fmt.Sprintf(
		"📊 Статистика бота:\n\n"+
			"👥 Пользователей: %d\n"+
			"⭐ Звёзд на балансах: %s\n"+
			"🔗 Рефералов всего: %d\n"+
			"📦 Кейсов открыто: %d\n"+
			"✅ Заданий выполнено: %d\n"+
			"🎰 Активных лотерей: %d\n"+
			"💸 Заявок на выводе: %d\n"+
			"💰 Выведено всего: %s",
		st.TotalUsers, common.FormatStars(st.TotalBalance), st.TotalReferrals,
		st.CasesOpened, st.TasksCompleted, st.ActiveLotteries,
		st.PendingWithdrawals, common.FormatStars(st.WithdrawnTotal),
	))
}

// HandlePending обрабатывает /pending — список заявок на вывод.
func (h *Handler) HandlePending(ctx context.Context, chatID int64) {
	list, err := h.withdrawalService.ListPending(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка получения заявок")
		h.client.Send(ctx, chatID, "❌ Ошибка получения заявок")
		return
	}
	if len(list) == 0 {
		h.client.Send(ctx, chatID, "📭 Заявок на рассмотрении нет")
		return
	}

	var b strings.Builder
	b.WriteString("💸 Заявки на рассмотрении:\n\n")
	for _, w := range list {
		fmt.Fprintf(&b, "#%d — пользователь %d, %s (/approve %d, /reject %d)\n",
			w.ID, w.UserID, w.Label, w.ID, w.ID)
	}
	h.client.Send(ctx, chatID, b.String())
}

// HandleDecision обрабатывает /approve <id> и /reject <id> [причина].
func (h *Handler) HandleDecision(ctx context.Context, chatID int64, args []string, approve bool) {
	if len(args) < 1 {
		h.client.Send(ctx, chatID, "❌ Формат: /approve <id> или /reject <id> [причина]")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.client.Send(ctx, chatID, "❌ Номер заявки должен быть числом")
		return
	}

	w, err := h.withdrawalService.Decide(ctx, id, approve, strings.Join(args[1:], " "))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrWithdrawalNotFound):
			h.client.Send(ctx, chatID, "❌ Заявка не найдена")
		case errors.Is(err, common.ErrWithdrawalProcessed):
			h.client.Send(ctx, chatID, "❌ Заявка уже обработана")
		default:
			log.WithError(err).Error("Ошибка решения по заявке")
			h.client.Send(ctx, chatID, "❌ Ошибка решения по заявке")
		}
		return
	}

	h.client.Send(ctx, chatID, fmt.Sprintf("✅ Заявка #%d: %s", w.ID, w.Status))
}

// HandleAddTask обрабатывает /addtask <тип> <цель> <награда> <название>.
func (h *Handler) HandleAddTask(ctx context.Context, chatID int64, args []string) {
	if len(args) < 4 {
		h.client.Send(ctx, chatID, "❌ Формат: /addtask <channel|chat|bot> <цель> <награда> <название>")
		return
	}
	reward, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		h.client.Send(ctx, chatID, "❌ Награда должна быть числом")
		return
	}

	t := &tasks.Task{
		Type:   args[0],
		Target: args[1],
		Reward: reward,
		Title:  strings.Join(args[3:], " "),
	}
	if err := h.taskService.Create(ctx, t); err != nil {
		log.WithError(err).Error("Ошибка создания задания")
		h.client.Send(ctx, chatID, "❌ Ошибка создания задания (проверьте тип и награду)")
		return
	}
	h.client.Send(ctx, chatID, fmt.Sprintf("✅ Задание #%d создано", t.ID))
}

// HandleAddPromo обрабатывает /addpromo <код> <награда> <лимит>.
func (h *Handler) HandleAddPromo(ctx context.Context, chatID int64, args []string) {
	if len(args) < 3 {
		h.client.Send(ctx, chatID, "❌ Формат: /addpromo <код> <награда> <лимит (0 — без лимита)>")
		return
	}
	reward, err1 := strconv.ParseFloat(args[1], 64)
	maxUses, err2 := strconv.Atoi(args[2])
	if err1 != nil || err2 != nil {
		h.client.Send(ctx, chatID, "❌ Награда и лимит должны быть числами")
		return
	}

	p, err := h.promoService.Create(ctx, args[0], reward, maxUses)
	if err != nil {
		log.WithError(err).Error("Ошибка создания промокода")
		h.client.Send(ctx, chatID, "❌ Ошибка создания промокода")
		return
	}
	h.client.Send(ctx, chatID, fmt.Sprintf("✅ Промокод %s создан (+%s, лимит %d)",
		p.Code, common.FormatStars(p.Reward), p.MaxUses))
}

// HandleAddPet обрабатывает /addpet <цена> <тип_буста> <значение> <название>.
func (h *Handler) HandleAddPet(ctx context.Context, chatID int64, args []string) {
	if len(args) < 4 {
		h.client.Send(ctx, chatID, "❌ Формат: /addpet <цена> <click|task|referral1|referral2> <значение> <название>")
		return
	}
	price, err1 := strconv.ParseFloat(args[0], 64)
	value, err2 := strconv.ParseFloat(args[2], 64)
	if err1 != nil || err2 != nil {
		h.client.Send(ctx, chatID, "❌ Цена и значение буста должны быть числами")
		return
	}

	p := &pets.Pet{
		Name:       strings.Join(args[3:], " "),
		Price:      price,
		BoostType:  args[1],
		BoostValue: value,
	}
	if err := h.petService.Create(ctx, p); err != nil {
		log.WithError(err).Error("Ошибка создания питомца")
		h.client.Send(ctx, chatID, "❌ Ошибка создания питомца (проверьте тип буста)")
		return
	}
	h.client.Send(ctx, chatID, fmt.Sprintf("✅ Питомец #%d «%s» добавлен в магазин", p.ID, p.Name))
}

// HandleAddLottery обрабатывает
// /addlottery <цена> <комиссия%> <макс_билетов> <название>.
func (h *Handler) HandleAddLottery(ctx context.Context, chatID int64, args []string) {
	if len(args) < 4 {
		h.client.Send(ctx, chatID, "❌ Формат: /addlottery <цена> <комиссия%> <макс_билетов (0 — без лимита)> <название>")
		return
	}
	price, err1 := strconv.ParseFloat(args[0], 64)
	commission, err2 := strconv.ParseFloat(args[1], 64)
	maxTickets, err3 := strconv.Atoi(args[2])
	if err1 != nil || err2 != nil || err3 != nil {
		h.client.Send(ctx, chatID, "❌ Цена, комиссия и лимит должны быть числами")
		return
	}

	l := &lottery.Lottery{
		Title:             strings.Join(args[3:], " "),
		TicketPrice:       price,
		CommissionPercent: commission,
		MaxTickets:        maxTickets,
	}
	if err := h.lotteryService.Create(ctx, l); err != nil {
		log.WithError(err).Error("Ошибка создания лотереи")
		h.client.Send(ctx, chatID, "❌ Ошибка создания лотереи")
		return
	}
	h.client.Send(ctx, chatID, fmt.Sprintf("✅ Лотерея #%d «%s» создана", l.ID, l.Title))
}

// HandleDraw обрабатывает /draw <id> [победитель] — розыгрыш лотереи.
func (h *Handler) HandleDraw(ctx context.Context, chatID int64, args []string) {
	if len(args) < 1 {
		h.client.Send(ctx, chatID, "❌ Формат: /draw <id> [user_id победителя]")
		return
	}
	lotteryID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.client.Send(ctx, chatID, "❌ Номер лотереи должен быть числом")
		return
	}

	var winnerID *int64
	if len(args) > 1 {
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			h.client.Send(ctx, chatID, "❌ ID победителя должен быть числом")
			return
		}
		winnerID = &id
	}

	result, err := h.lotteryService.Settle(ctx, lotteryID, winnerID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrLotteryNotFound):
			h.client.Send(ctx, chatID, "❌ Лотерея не найдена")
		case errors.Is(err, common.ErrLotteryFinished):
			h.client.Send(ctx, chatID, "❌ Лотерея уже разыграна")
		case errors.Is(err, common.ErrNoTickets):
			h.client.Send(ctx, chatID, "❌ В лотерее нет участников")
		case errors.Is(err, common.ErrWinnerNotParticipant):
			h.client.Send(ctx, chatID, "❌ У этого пользователя нет билета")
		default:
			log.WithError(err).Error("Ошибка розыгрыша")
			h.client.Send(ctx, chatID, "❌ Ошибка розыгрыша")
		}
		return
	}

	h.client.Send(ctx, chatID, fmt.Sprintf("🎉 Победитель: %d, приз %s",
		result.WinnerID, common.FormatStars(result.Prize)))

	// Сообщаем победителю (best-effort)
	if err := h.client.NotifyUser(ctx, result.WinnerID, fmt.Sprintf(
		"🎉 Поздравляем! Ты выиграл в лотерее %s!", common.FormatStars(result.Prize))); err != nil {
		log.WithError(err).WithField("user_id", result.WinnerID).Debug("Не удалось уведомить победителя")
	}
}

// HandleCancelLottery обрабатывает /cancellottery <id>.
func (h *Handler) HandleCancelLottery(ctx context.Context, chatID int64, args []string) {
	if len(args) < 1 {
		h.client.Send(ctx, chatID, "❌ Формат: /cancellottery <id>")
		return
	}
	lotteryID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.client.Send(ctx, chatID, "❌ Номер лотереи должен быть числом")
		return
	}

	if err := h.lotteryService.Cancel(ctx, lotteryID); err != nil {
		switch {
		case errors.Is(err, common.ErrLotteryNotFound):
			h.client.Send(ctx, chatID, "❌ Лотерея не найдена")
		case errors.Is(err, common.ErrLotteryFinished):
			h.client.Send(ctx, chatID, "❌ Лотерея уже разыграна, отмена невозможна")
		default:
			log.WithError(err).Error("Ошибка отмены лотереи")
			h.client.Send(ctx, chatID, "❌ Ошибка отмены лотереи")
		}
		return
	}
	h.client.Send(ctx, chatID, "✅ Лотерея отменена, билеты возвращены")
}

// HandleAddChannel обрабатывает /addchannel <@канал> <ссылка> <название>.
func (h *Handler) HandleAddChannel(ctx context.Context, chatID int64, args []string) {
	if len(args) < 3 {
		h.client.Send(ctx, chatID, "❌ Формат: /addchannel <@канал> <ссылка> <название>")
		return
	}

	c, err := h.channelService.Add(ctx, args[0], strings.Join(args[2:], " "), args[1])
	if err != nil {
		log.WithError(err).Error("Ошибка добавления канала")
		h.client.Send(ctx, chatID, "❌ Ошибка добавления канала")
		return
	}
	h.client.Send(ctx, chatID, fmt.Sprintf("✅ Обязательный канал #%d (%s) добавлен", c.ID, c.ChatID))
}
