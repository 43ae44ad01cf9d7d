// Package channels — service.go содержит проверку обязательных подписок.
package channels

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// MembershipChecker проверяет членство пользователя в канале или чате.
type MembershipChecker interface {
	IsMember(ctx context.Context, chatID string, userID int64) (bool, error)
}

// Service проверяет обязательные подписки.
type Service struct {
	repo    *Repository
	checker MembershipChecker
}

// NewService создаёт сервис обязательных каналов.
func NewService(repo *Repository, checker MembershipChecker) *Service {
	return &Service{repo: repo, checker: checker}
}

// Check проверяет подписку пользователя на все обязательные каналы.
// Сбой проверки конкретного канала трактуется как отсутствие подписки:
// доступ не открывается вслепую при недоступном Telegram API.
func (s *Service) Check(ctx context.Context, userID int64) (*CheckResult, error) {
	required, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{Passed: true}
	for _, ch := range required {
		ok, err := s.checker.IsMember(ctx, ch.ChatID, userID)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"user_id": userID,
				"chat_id": ch.ChatID,
			}).Warn("Ошибка проверки обязательной подписки")
			ok = false
		}
		if !ok {
			result.Passed = false
			result.Missing = append(result.Missing, ch)
		}
	}
	return result, nil
}

// List возвращает активные обязательные каналы.
func (s *Service) List(ctx context.Context) ([]*Channel, error) {
	return s.repo.ListActive(ctx)
}

// Add добавляет обязательный канал (админ-операция).
func (s *Service) Add(ctx context.Context, chatID, title, url string) (*Channel, error) {
	c := &Channel{ChatID: chatID, Title: title, URL: url}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SetActive включает или выключает канал (админ-операция).
func (s *Service) SetActive(ctx context.Context, channelID int64, active bool) error {
	return s.repo.SetActive(ctx, channelID, active)
}
