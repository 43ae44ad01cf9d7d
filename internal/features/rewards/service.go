// Package rewards — service.go содержит бизнес-логику ежедневных наград.
package rewards

import (
	"context"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"kirbystars.ru/stars-bot/internal/common"
	"kirbystars.ru/stars-bot/internal/config"
	"kirbystars.ru/stars-bot/internal/features/pets"
)

// Service управляет ежедневным кликом и кейсом.
type Service struct {
	repo        *Repository
	petsService *pets.Service
	cfg         *config.Config
	loc         *time.Location
	rnd         *rand.Rand
}

// NewService создаёт сервис наград.
func NewService(repo *Repository, petsService *pets.Service, cfg *config.Config, loc *time.Location) *Service {
	return &Service{
		repo:        repo,
		petsService: petsService,
		cfg:         cfg,
		loc:         loc,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Click засчитывает ежедневный клик: база из конфигурации плюс буст
// питомцев категории click. Один клик на календарные сутки.
func (s *Service) Click(ctx context.Context, userID int64) (*ClickResult, error) {
	boost, err := s.petsService.BoostFor(ctx, userID, pets.BoostClick)
	if err != nil {
		return nil, err
	}
	amount := s.cfg.BaseClickReward + boost

	todayStart := common.StartOfDay(time.Now(), s.loc)
	balance, err := s.repo.ClaimClick(ctx, userID, amount, todayStart)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"amount":  amount,
	}).Info("Ежедневный клик засчитан")

	return &ClickResult{Amount: amount, NewBalance: balance}, nil
}

// OpenCase открывает ежедневный кейс. Доступ требует минимум приглашённых
// за текущие сутки, приз разыгрывается по ярусам вероятностей.
func (s *Service) OpenCase(ctx context.Context, userID int64) (*CaseResult, error) {
	amount := float64(DrawCase(s.rnd))

	todayStart := common.StartOfDay(time.Now(), s.loc)
	balance, err := s.repo.ClaimCase(ctx, userID, amount, todayStart, s.cfg.CaseMinReferrals)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"prize":   amount,
	}).Info("Ежедневный кейс открыт")

	return &CaseResult{Amount: amount, NewBalance: balance}, nil
}
