// Package tasks — service.go содержит бизнес-логику выполнения заданий.
package tasks

import (
	"context"

	log "github.com/sirupsen/logrus"

	"kirbystars.ru/stars-bot/internal/common"
	"kirbystars.ru/stars-bot/internal/features/pets"
)

// MembershipChecker проверяет членство пользователя в канале или чате.
// Реализуется Telegram-клиентом.
type MembershipChecker interface {
	IsMember(ctx context.Context, chatID string, userID int64) (bool, error)
}

// Service управляет выдачей и выполнением заданий.
type Service struct {
	repo        *Repository
	petsService *pets.Service
	checker     MembershipChecker
}

// NewService создаёт сервис заданий.
func NewService(repo *Repository, petsService *pets.Service, checker MembershipChecker) *Service {
	return &Service{repo: repo, petsService: petsService, checker: checker}
}

// Next возвращает следующее невыполненное задание пользователя.
func (s *Service) Next(ctx context.Context, userID int64) (*Task, error) {
	return s.repo.Next(ctx, userID)
}

// ListActive возвращает активные задания каталога.
func (s *Service) ListActive(ctx context.Context) ([]*Task, error) {
	return s.repo.ListActive(ctx)
}

// Complete проверяет выполнение задания и начисляет награду.
// Для channel/chat требуется членство в целевом чате; сбой проверки
// трактуется как отказ (ErrSubscriptionCheck), а не как пропуск.
func (s *Service) Complete(ctx context.Context, userID, taskID int64) (*CompleteResult, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsActive {
		return nil, common.ErrTaskNotFound
	}

	if task.Verifiable() {
		ok, err := s.checker.IsMember(ctx, task.Target, userID)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"user_id": userID,
				"target":  task.Target,
			}).Warn("Ошибка проверки подписки")
			return nil, common.ErrSubscriptionCheck
		}
		if !ok {
			return nil, common.ErrNotSubscribed
		}
	}

	boost, err := s.petsService.BoostFor(ctx, userID, pets.BoostTask)
	if err != nil {
		return nil, err
	}
	amount := task.Reward + boost

	if err := s.repo.Complete(ctx, userID, task, amount); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"task":    task.Title,
		"amount":  amount,
	}).Info("Задание выполнено")

	return &CompleteResult{Task: task, Amount: amount}, nil
}

// Create добавляет задание в каталог (админ-операция).
func (s *Service) Create(ctx context.Context, t *Task) error {
	if t.Title == "" || t.Target == "" || t.Reward <= 0 {
		return common.ErrInvalidAmount
	}
	if !ValidType(t.Type) {
		return common.ErrTaskNotFound
	}
	return s.repo.Create(ctx, t)
}

// SetActive включает или выключает задание (админ-операция).
func (s *Service) SetActive(ctx context.Context, taskID int64, active bool) error {
	return s.repo.SetActive(ctx, taskID, active)
}
