// Package telegram оборачивает Telegram Bot API (telego) в узкий клиент:
// отправка сообщений, проверка членства в чатах. Через него же сервисы
// отправляют уведомления (интерфейсы Notifier и MembershipChecker).
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"
)

// Client — обёртка над telego.Bot.
type Client struct {
	bot      *telego.Bot
	username string
}

// NewClient создаёт Telegram-клиент и проверяет токен через getMe.
func NewClient(ctx context.Context, token string) (*Client, error) {
	bot, err := telego.NewBot(token, telego.WithDefaultLogger(false, true))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram-клиента: %w", err)
	}

	me, err := bot.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки токена: %w", err)
	}
	log.WithField("username", me.Username).Info("Telegram-клиент авторизован")

	return &Client{bot: bot, username: me.Username}, nil
}

// Bot возвращает низкоуровневый telego.Bot (для polling-цикла).
func (c *Client) Bot() *telego.Bot {
	return c.bot
}

// Username возвращает username бота (для реферальных ссылок).
func (c *Client) Username() string {
	return c.username
}

// Send отправляет текстовое сообщение в чат по числовому ID.
// Ошибка логируется, но не возвращается: ответ пользователю —
// best-effort, бизнес-операция к этому моменту уже завершена.
func (c *Client) Send(ctx context.Context, chatID int64, text string) {
	_, err := c.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	})
	if err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// NotifyUser отправляет сообщение пользователю в личку.
func (c *Client) NotifyUser(ctx context.Context, userID int64, text string) error {
	_, err := c.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: userID},
		Text:   text,
	})
	return err
}

// NotifyChat отправляет сообщение в чат, заданный строкой:
// "@username" или числовой ID.
func (c *Client) NotifyChat(ctx context.Context, chatID string, text string) error {
	_, err := c.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: parseChatID(chatID),
		Text:   text,
	})
	return err
}

// IsMember проверяет членство пользователя в канале или чате.
// Членством считаются статусы creator, administrator и member.
func (c *Client) IsMember(ctx context.Context, chatID string, userID int64) (bool, error) {
	member, err := c.bot.GetChatMember(ctx, &telego.GetChatMemberParams{
		ChatID: parseChatID(chatID),
		UserID: userID,
	})
	if err != nil {
		return false, fmt.Errorf("ошибка getChatMember: %w", err)
	}

	switch member.MemberStatus() {
	case telego.MemberStatusCreator, telego.MemberStatusAdministrator, telego.MemberStatusMember:
		return true, nil
	}
	return false, nil
}

// parseChatID превращает строку конфигурации в telego.ChatID:
// числа идут как ID, остальное — как @username.
func parseChatID(raw string) telego.ChatID {
	raw = strings.TrimSpace(raw)
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return telego.ChatID{ID: id}
	}
	if !strings.HasPrefix(raw, "@") {
		raw = "@" + raw
	}
	return telego.ChatID{Username: raw}
}
