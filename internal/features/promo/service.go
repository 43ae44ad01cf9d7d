// Package promo — service.go содержит бизнес-логику промокодов.
package promo

import (
	"context"

	log "github.com/sirupsen/logrus"

	"kirbystars.ru/stars-bot/internal/common"
)

// Service управляет промокодами.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис промокодов.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Activate активирует промокод пользователю и возвращает сумму начисления.
func (s *Service) Activate(ctx context.Context, userID int64, code string) (float64, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return 0, common.ErrPromoNotFound
	}

	reward, err := s.repo.Activate(ctx, userID, normalized)
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"code":    normalized,
		"reward":  reward,
	}).Info("Промокод активирован")

	return reward, nil
}

// Create добавляет промокод (админ-операция). Код нормализуется.
func (s *Service) Create(ctx context.Context, code string, reward float64, maxUses int) (*Promocode, error) {
	normalized := NormalizeCode(code)
	if normalized == "" || reward <= 0 || maxUses < 0 {
		return nil, common.ErrInvalidAmount
	}

	p := &Promocode{Code: normalized, Reward: reward, MaxUses: maxUses}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetActive включает или выключает промокод (админ-операция).
func (s *Service) SetActive(ctx context.Context, promoID int64, active bool) error {
	return s.repo.SetActive(ctx, promoID, active)
}
