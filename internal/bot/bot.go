// Package bot содержит главный модуль бота — инициализацию, запуск и остановку.
// bot.go принимает обновления через long polling и маршрутизирует команды
// к обработчикам модулей.
package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"

	"kirbystars.ru/stars-bot/internal/bot/middleware"
	"kirbystars.ru/stars-bot/internal/config"
	"kirbystars.ru/stars-bot/internal/features/admin"
	"kirbystars.ru/stars-bot/internal/features/channels"
	"kirbystars.ru/stars-bot/internal/features/lottery"
	"kirbystars.ru/stars-bot/internal/features/pets"
	"kirbystars.ru/stars-bot/internal/features/promo"
	"kirbystars.ru/stars-bot/internal/features/rewards"
	"kirbystars.ru/stars-bot/internal/features/tasks"
	"kirbystars.ru/stars-bot/internal/features/users"
	"kirbystars.ru/stars-bot/internal/features/withdrawals"
	"kirbystars.ru/stars-bot/internal/telegram"
)

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	client *telegram.Client
	cfg    *config.Config

	rateLimiter    *middleware.RateLimiter
	channelService *channels.Service

	userHandler       *users.Handler
	rewardHandler     *rewards.Handler
	petHandler        *pets.Handler
	taskHandler       *tasks.Handler
	lotteryHandler    *lottery.Handler
	promoHandler      *promo.Handler
	withdrawalHandler *withdrawals.Handler
	adminHandler      *admin.Handler

	parser *CommandParser

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	client *telegram.Client,
	cfg *config.Config,
	channelService *channels.Service,
	userHandler *users.Handler,
	rewardHandler *rewards.Handler,
	petHandler *pets.Handler,
	taskHandler *tasks.Handler,
	lotteryHandler *lottery.Handler,
	promoHandler *promo.Handler,
	withdrawalHandler *withdrawals.Handler,
	adminHandler *admin.Handler,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		client:            client,
		cfg:               cfg,
		rateLimiter:       middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		channelService:    channelService,
		userHandler:       userHandler,
		rewardHandler:     rewardHandler,
		petHandler:        petHandler,
		taskHandler:       taskHandler,
		lotteryHandler:    lotteryHandler,
		promoHandler:      promoHandler,
		withdrawalHandler: withdrawalHandler,
		adminHandler:      adminHandler,
		parser:            NewCommandParser(),
		inflight:          make(chan struct{}, maxInFlight),
	}
}

// Start запускает polling обновлений от Telegram.
// Блокируется до отмены ctx или закрытия канала обновлений.
func (b *Bot) Start(ctx context.Context) {
	updates, err := b.client.Bot().UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		log.WithError(err).Error("Не удалось запустить long polling")
		return
	}

	log.WithField("max_inflight", cap(b.inflight)).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.rateLimiter.Close()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				b.rateLimiter.Close()
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd telego.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update telego.Update) {
	defer middleware.RecoverFromPanic()

	if update.Message == nil || update.Message.Text == "" {
		return
	}
	message := update.Message
	if message.From == nil {
		return
	}

	middleware.LogMessage(message)

	// Бот работает только в личке
	if message.Chat.Type != telego.ChatTypePrivate {
		return
	}

	chatID := message.Chat.ID
	userID := message.From.ID

	if !b.rateLimiter.Allow(userID) {
		log.WithField("user_id", userID).Debug("rate limited")
		return
	}

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if !isCommand {
		return
	}

	// /start пропускаем без проверки подписок — иначе новичку
	// некуда возвращаться после подписки
	if cmd != "start" && !b.checkSubscriptions(ctx, chatID, userID) {
		return
	}

	b.routeCommand(ctx, message, cmd, args)
}

// checkSubscriptions закрывает доступ, пока пользователь не состоит
// во всех обязательных каналах.
func (b *Bot) checkSubscriptions(ctx context.Context, chatID, userID int64) bool {
	result, err := b.channelService.Check(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка проверки обязательных каналов")
		b.client.Send(ctx, chatID, "⚠️ Не удалось проверить подписки, попробуйте позже")
		return false
	}
	if result.Passed {
		return true
	}

	var sb strings.Builder
	sb.WriteString("🔒 Для доступа к боту подпишись на каналы:\n\n")
	for _, ch := range result.Missing {
		fmt.Fprintf(&sb, "• %s — %s\n", ch.Title, ch.URL)
	}
	sb.WriteString("\nПосле подписки повтори команду.")
	b.client.Send(ctx, chatID, sb.String())
	return false
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, message *telego.Message, cmd string, args []string) {
	chatID := message.Chat.ID
	userID := message.From.ID
	username := message.From.Username

	log.WithFields(log.Fields{
		"cmd":  cmd,
		"args": args,
	}).Debug("routing command")

	switch cmd {
	case "start":
		b.userHandler.HandleStart(ctx, chatID, userID, username,
			message.From.FirstName, message.From.LastName, args)

	case "help":
		b.client.Send(ctx, chatID,
			"⭐ Команды:\n"+
				"/click — ежедневный клик\n"+
				"/case — ежедневный кейс (3 реферала за день)\n"+
				"/balance — баланс и счётчики\n"+
				"/ref — реферальная ссылка\n"+
				"/top — недельный рейтинг\n"+
				"/task, /done — задания\n"+
				"/pets, /buypet, /uppet — питомцы\n"+
				"/lotteries, /ticket — лотереи\n"+
				"/promo — промокод\n"+
				"/withdraw — вывод звёзд")

	case "balance":
		b.userHandler.HandleBalance(ctx, chatID, userID)
	case "ref":
		b.userHandler.HandleRef(ctx, chatID, userID)
	case "top":
		b.userHandler.HandleTop(ctx, chatID)

	case "click":
		b.rewardHandler.HandleClick(ctx, chatID, userID)
	case "case":
		b.rewardHandler.HandleCase(ctx, chatID, userID)

	case "task":
		b.taskHandler.HandleTask(ctx, chatID, userID)
	case "done":
		b.taskHandler.HandleDone(ctx, chatID, userID, args)

	case "pets":
		b.petHandler.HandlePets(ctx, chatID, userID)
	case "buypet":
		b.petHandler.HandleBuy(ctx, chatID, userID, args)
	case "uppet":
		b.petHandler.HandleUpgrade(ctx, chatID, userID, args)

	case "lotteries":
		b.lotteryHandler.HandleList(ctx, chatID)
	case "ticket":
		b.lotteryHandler.HandleTicket(ctx, chatID, userID, args)

	case "promo":
		b.promoHandler.HandlePromo(ctx, chatID, userID, args)

	case "withdraw":
		b.withdrawalHandler.HandleWithdraw(ctx, chatID, userID, username, args)

	// --- Админ-команды ---
	case "login":
		b.adminHandler.HandleLogin(ctx, chatID, userID, args)
	case "logout":
		b.adminHandler.HandleLogout(ctx, chatID, userID)
	case "stats":
		if b.adminHandler.Authorized(ctx, chatID, userID) {
			b.adminHandler.HandleStats(ctx, chatID)
		}
	case "pending":
		if b.adminHandler.Authorized(ctx, chatID, userID) {
			b.adminHandler.HandlePending(ctx, chatID)
		}
	case "approve":
		if b.adminHandler.Authorized(ctx, chatID, userID) {
			b.adminHandler.HandleDecision(ctx, chatID, args, true)
		}
	case "reject":
		if b.adminHandler.Authorized(ctx, chatID, userID) {
			b.adminHandler.HandleDecision(ctx, chatID, args, false)
		}
	case "addtask":
		if b.adminHandler.Authorized(ctx, chatID, userID) {
			b.adminHandler.HandleAddTask(ctx, chatID, args)
		}
	case "addpromo":
		if b.adminHandler.Authorized(ctx, chatID, userID) {
			b.adminHandler.HandleAddPromo(ctx, chatID, args)
		}
	case "addpet":
		if b.adminHandler.Authorized(ctx, chatID, userID) {
			b.adminHandler.HandleAddPet(ctx, chatID, args)
		}
	case "addlottery":
		if b.adminHandler.Authorized(ctx, chatID, userID) {
			b.adminHandler.HandleAddLottery(ctx, chatID, args)
		}
	case "draw":
		if b.adminHandler.Authorized(ctx, chatID, userID) {
			b.adminHandler.HandleDraw(ctx, chatID, args)
		}
	case "cancellottery":
		if b.adminHandler.Authorized(ctx, chatID, userID) {
			b.adminHandler.HandleCancelLottery(ctx, chatID, args)
		}
	case "addchannel":
		if b.adminHandler.Authorized(ctx, chatID, userID) {
			b.adminHandler.HandleAddChannel(ctx, chatID, args)
		}
	}
}

// CommandParser парсит команды с префиксами /, ! и .
type CommandParser struct {
	validPrefixes []string
}

// NewCommandParser создаёт парсер команд.
func NewCommandParser() *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"/", "!", "."},
	}
}

// ParseCommand разбирает текст на команду и аргументы.
// Суффикс @botname после команды отбрасывается.
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}
	if !hasPrefix {
		return "", nil, false
	}

	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return "", nil, false
	}

	command := strings.ToLower(parts[0])
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}

	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}
	return command, args, true
}
