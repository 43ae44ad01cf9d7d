// Package pets — service.go содержит бизнес-логику магазина питомцев.
package pets

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"kirbystars.ru/stars-bot/internal/common"
)

// Service управляет магазином питомцев и калькулятором бустов.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис питомцев.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// List возвращает активных питомцев каталога.
func (s *Service) List(ctx context.Context) ([]*Pet, error) {
	return s.repo.GetActive(ctx)
}

// MyPets возвращает питомцев пользователя.
func (s *Service) MyPets(ctx context.Context, userID int64) ([]*UserPet, error) {
	return s.repo.GetOwned(ctx, userID)
}

// BoostFor возвращает суммарный буст пользователя для категории boostType.
// Пользователь без питомцев нужной категории получает 0.
func (s *Service) BoostFor(ctx context.Context, userID int64, boostType string) (float64, error) {
	owned, err := s.repo.GetOwnedBoosts(ctx, userID)
	if err != nil {
		return 0, err
	}
	return BoostSum(owned, boostType), nil
}

// Boosts возвращает суммы бустов по всем категориям.
func (s *Service) Boosts(ctx context.Context, userID int64) (map[string]float64, error) {
	owned, err := s.repo.GetOwnedBoosts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BoostSummary(owned), nil
}

// Buy покупает питомца пользователю.
func (s *Service) Buy(ctx context.Context, userID, petID int64) (*Pet, error) {
	pet, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if !pet.IsActive {
		return nil, common.ErrPetNotFound
	}

	if err := s.repo.Buy(ctx, userID, pet); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"pet":     pet.Name,
		"price":   pet.Price,
	}).Info("Питомец куплен")

	return pet, nil
}

// Upgrade улучшает питомца пользователя на один уровень.
// Возвращает новый уровень.
func (s *Service) Upgrade(ctx context.Context, userID, petID int64) (int, error) {
	pet, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return 0, err
	}

	newLevel, err := s.repo.Upgrade(ctx, userID, pet)
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"pet":     pet.Name,
		"level":   newLevel,
	}).Info("Питомец улучшен")

	return newLevel, nil
}

// Create добавляет питомца в каталог (админ-операция).
func (s *Service) Create(ctx context.Context, p *Pet) error {
	if p.Name == "" || p.Price <= 0 || p.BoostValue <= 0 {
		return common.ErrInvalidAmount
	}
	if !ValidBoostType(p.BoostType) {
		return fmt.Errorf("неизвестная категория буста: %s", p.BoostType)
	}
	return s.repo.Create(ctx, p)
}

// SetActive включает или выключает питомца в каталоге (админ-операция).
func (s *Service) SetActive(ctx context.Context, petID int64, active bool) error {
	return s.repo.SetActive(ctx, petID, active)
}

// SeedDefaults создаёт стартовый каталог питомцев при первом запуске.
// Если каталог непустой — ничего не делает.
func (s *Service) SeedDefaults(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []*Pet{
		{Name: "Котик-Кликер", Description: "Увеличивает доход от кликов на 0.05 звезды", Price: 50, BoostType: BoostClick, BoostValue: 0.05},
		{Name: "Хомяк-Помощник", Description: "Увеличивает доход от заданий на 0.5 звезды", Price: 75, BoostType: BoostTask, BoostValue: 0.5},
		{Name: "Собака-Референт", Description: "Увеличивает доход от рефералов 1 уровня на 1 звезду", Price: 100, BoostType: BoostReferral1, BoostValue: 1},
		{Name: "Попугай-Промоутер", Description: "Увеличивает доход от рефералов 2 уровня на 0.02 звезды", Price: 150, BoostType: BoostReferral2, BoostValue: 0.02},
	}

	for _, p := range defaults {
		if err := s.repo.Create(ctx, p); err != nil {
			return fmt.Errorf("ошибка создания питомца «%s»: %w", p.Name, err)
		}
	}

	log.Infof("Создан стартовый каталог питомцев (%d шт.)", len(defaults))
	return nil
}
