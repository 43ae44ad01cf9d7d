// Package withdrawals — service.go содержит бизнес-логику вывода звёзд.
package withdrawals

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"kirbystars.ru/stars-bot/internal/common"
)

// Notifier отправляет уведомления о заявках. Реализуется Telegram-клиентом.
type Notifier interface {
	NotifyChat(ctx context.Context, chatID string, text string) error
	NotifyUser(ctx context.Context, userID int64, text string) error
}

// Service управляет заявками на вывод.
type Service struct {
	repo     *Repository
	notifier Notifier
	chatID   string // Чат, куда падают заявки для ручной обработки
	loc      *time.Location
}

// NewService создаёт сервис вывода.
func NewService(repo *Repository, notifier Notifier, chatID string, loc *time.Location) *Service {
	return &Service{repo: repo, notifier: notifier, chatID: chatID, loc: loc}
}

// Request подаёт заявку на вывод. Сумма должна совпадать с одним из
// вариантов, звёзды списываются сразу. После фиксации заявки
// уведомление уходит в чат обработки; сбой отправки логируется,
// но заявку не отменяет.
func (s *Service) Request(ctx context.Context, userID int64, amount float64, username string) (*Withdrawal, error) {
	opt, ok := OptionFor(amount)
	if !ok {
		return nil, common.ErrInvalidWithdrawalAmount
	}

	w, err := s.repo.Create(ctx, userID, opt)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"amount":  amount,
		"label":   opt.Label,
	}).Info("Заявка на вывод создана")

	text := fmt.Sprintf(
		"💸 Заявка на вывод #%d\n\nПользователь: @%s (ID %d)\nВывод: %s\nВремя: %s",
		w.ID, username, userID, opt.Label, common.FormatDateTime(w.CreatedAt, s.loc),
	)
	if err := s.notifier.NotifyChat(ctx, s.chatID, text); err != nil {
		log.WithError(err).WithField("withdrawal_id", w.ID).Error("Не удалось отправить заявку в чат обработки")
	}

	return w, nil
}

// Decide одобряет или отклоняет заявку (админ-операция).
// Отклонение возвращает звёзды, причина сохраняется в заявке.
// Пользователь уведомляется об итоге; сбой уведомления решение
// не откатывает.
func (s *Service) Decide(ctx context.Context, withdrawalID int64, approve bool, reason string) (*Withdrawal, error) {
	w, err := s.repo.Decide(ctx, withdrawalID, approve, reason)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"withdrawal_id": w.ID,
		"user_id":       w.UserID,
		"status":        w.Status,
	}).Info("Решение по заявке принято")

	if err := s.notifier.NotifyUser(ctx, w.UserID, decisionText(w)); err != nil {
		log.WithError(err).WithField("user_id", w.UserID).Error("Не удалось уведомить пользователя о решении")
	}

	return w, nil
}

// decisionText формирует уведомление пользователю об итоге заявки.
func decisionText(w *Withdrawal) string {
	if w.Status == StatusApproved {
		return fmt.Sprintf("✅ Ваша заявка на вывод (%s) одобрена!", w.Label)
	}
	text := fmt.Sprintf("❌ Ваша заявка на вывод (%s) отклонена. %s возвращены на баланс.",
		w.Label, common.FormatStars(w.Amount))
	if w.RejectReason != "" {
		text += "\nПричина: " + w.RejectReason
	}
	return text
}

// ListPending возвращает заявки на рассмотрении (админ-операция).
func (s *Service) ListPending(ctx context.Context) ([]*Withdrawal, error) {
	return s.repo.ListPending(ctx)
}

// Get возвращает заявку по ID.
func (s *Service) Get(ctx context.Context, withdrawalID int64) (*Withdrawal, error) {
	return s.repo.GetByID(ctx, withdrawalID)
}
