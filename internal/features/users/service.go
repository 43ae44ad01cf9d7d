// Package users — service.go содержит бизнес-логику регистрации
// и реферального каскада.
package users

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"kirbystars.ru/stars-bot/internal/common"
	"kirbystars.ru/stars-bot/internal/config"
	"kirbystars.ru/stars-bot/internal/features/pets"
)

// Service управляет пользователями.
type Service struct {
	repo        *Repository
	petsService *pets.Service // Калькулятор бустов для реферальных бонусов
	cfg         *config.Config
}

// NewService создаёт сервис пользователей.
func NewService(repo *Repository, petsService *pets.Service, cfg *config.Config) *Service {
	return &Service{
		repo:        repo,
		petsService: petsService,
		cfg:         cfg,
	}
}

// Register регистрирует пользователя по /start.
// Если передан реферальный код — строит каскад бонусов:
//  1. Пригласивший получает бонус 1 уровня (база + буст питомцев)
//     и +1 к счётчикам рефералов.
//  2. Пригласивший пригласившего получает бонус 2 уровня.
//
// Каскад применяется атомарно вместе с созданием пользователя.
// Регистрация по собственному коду проходит без бонусов и без связи.
func (s *Service) Register(ctx context.Context, userID int64, username, firstName, lastName, referralCode string) (*RegisterResult, error) {
	// Уже зарегистрирован — обновляем данные и выходим без каскада
	existing, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		if err := s.repo.UpdateInfo(ctx, userID, username, firstName, lastName); err != nil {
			log.WithError(err).WithField("user_id", userID).Warn("Не удалось обновить данные пользователя")
		}
		return &RegisterResult{User: existing, Created: false}, nil
	}
	if !errors.Is(err, common.ErrUserNotFound) {
		return nil, err
	}

	referrerID, chain, err := s.resolveReferrer(ctx, userID, referralCode)
	if err != nil {
		return nil, err
	}

	credits, err := s.planCredits(ctx, chain)
	if err != nil {
		return nil, err
	}

	code, err := GenerateReferralCode()
	if err != nil {
		return nil, err
	}

	u := &User{
		UserID:       userID,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		ReferralCode: code,
		ReferrerID:   referrerID,
	}

	created, err := s.repo.CreateWithCascade(ctx, u, credits)
	if err != nil {
		return nil, fmt.Errorf("ошибка регистрации: %w", err)
	}
	if !created {
		// Гонка двух /start: вставку выполнил кто-то другой
		existing, err := s.repo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &RegisterResult{User: existing, Created: false}, nil
	}

	log.WithFields(log.Fields{
		"user_id":  userID,
		"username": username,
		"referred": referrerID != nil,
	}).Info("Новый пользователь зарегистрирован")

	return &RegisterResult{User: u, Created: true}, nil
}

// resolveReferrer разрешает реферальный код в цепочку пригласивших.
// Цепочка строится вверх максимум на два уровня.
func (s *Service) resolveReferrer(ctx context.Context, userID int64, referralCode string) (*int64, []int64, error) {
	if referralCode == "" {
		return nil, nil, nil
	}

	referrer, err := s.repo.GetByReferralCode(ctx, referralCode)
	if errors.Is(err, common.ErrUserNotFound) {
		// Неизвестный код — регистрируем без пригласившего
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	// Самоприглашение: без бонуса и без связи
	if referrer.UserID == userID {
		log.WithField("user_id", userID).Warn("Попытка регистрации по собственной ссылке")
		return nil, nil, nil
	}

	chain := []int64{referrer.UserID}
	if referrer.ReferrerID != nil {
		chain = append(chain, *referrer.ReferrerID)
	}
	return &referrer.UserID, chain, nil
}

// planCredits считает итоговые суммы бонусов каскада с учётом бустов питомцев.
func (s *Service) planCredits(ctx context.Context, chain []int64) ([]CascadeCredit, error) {
	if len(chain) == 0 {
		return nil, nil
	}

	tier1 := s.cfg.ReferralBonus
	boost1, err := s.petsService.BoostFor(ctx, chain[0], pets.BoostReferral1)
	if err != nil {
		return nil, err
	}
	tier1 += boost1

	var tier2 float64
	if len(chain) > 1 {
		tier2 = s.cfg.Referral2Bonus
		boost2, err := s.petsService.BoostFor(ctx, chain[1], pets.BoostReferral2)
		if err != nil {
			return nil, err
		}
		tier2 += boost2
	}

	return PlanCascade(chain, tier1, tier2), nil
}

// GetByUserID возвращает пользователя по Telegram ID.
func (s *Service) GetByUserID(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// GetBalance возвращает текущий баланс пользователя.
func (s *Service) GetBalance(ctx context.Context, userID int64) (float64, error) {
	return s.repo.GetBalance(ctx, userID)
}

// TopWeekly возвращает топ недельного рейтинга приглашений.
func (s *Service) TopWeekly(ctx context.Context, limit int) ([]*User, error) {
	return s.repo.TopWeekly(ctx, limit)
}

// AwardWeeklyPrizes начисляет призы топ-5 недельного рейтинга и обнуляет
// недельные счётчики. Ошибка начисления одному победителю не прерывает
// выплату остальным.
func (s *Service) AwardWeeklyPrizes(ctx context.Context) error {
	top, err := s.repo.TopWeekly(ctx, len(WeeklyPrizes))
	if err != nil {
		return fmt.Errorf("ошибка получения рейтинга: %w", err)
	}

	for i, u := range top {
		desc := fmt.Sprintf("Приз за %d место в недельном рейтинге", i+1)
		if err := s.repo.Credit(ctx, u.UserID, WeeklyPrizes[i], OpWeeklyPrize, desc); err != nil {
			log.WithError(err).WithField("user_id", u.UserID).Error("Ошибка начисления недельного приза")
			continue
		}
		log.WithFields(log.Fields{
			"user_id": u.UserID,
			"place":   i + 1,
			"prize":   WeeklyPrizes[i],
		}).Info("Недельный приз начислен")
	}

	if err := s.repo.ResetWeekly(ctx); err != nil {
		return err
	}

	log.WithField("winners", len(top)).Info("Недельный рейтинг подведён")
	return nil
}
