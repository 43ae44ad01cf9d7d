// Package lottery — service.go содержит бизнес-логику лотерей.
package lottery

import (
	"context"
	"errors"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"kirbystars.ru/stars-bot/internal/common"
)

// Service управляет лотереями.
type Service struct {
	repo *Repository
	rnd  *rand.Rand
}

// NewService создаёт сервис лотерей.
func NewService(repo *Repository) *Service {
	return &Service{
		repo: repo,
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Get возвращает лотерею по ID.
func (s *Service) Get(ctx context.Context, lotteryID int64) (*Lottery, error) {
	return s.repo.GetByID(ctx, lotteryID)
}

// ListActive возвращает лотереи, в которых можно купить билет.
func (s *Service) ListActive(ctx context.Context) ([]*Lottery, error) {
	return s.repo.ListActive(ctx)
}

// BuyTicket продаёт пользователю билет лотереи.
// Возвращает лотерею с обновлённым фондом.
func (s *Service) BuyTicket(ctx context.Context, lotteryID, userID int64) (*Lottery, error) {
	l, err := s.repo.BuyTicket(ctx, lotteryID, userID, time.Now())
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"lottery": l.Title,
		"sold":    l.TicketsSold,
		"pool":    l.PrizePool,
	}).Info("Билет лотереи куплен")

	return l, nil
}

// Settle разыгрывает лотерею: победитель выбирается случайно среди
// держателей билетов, либо назначается явно (winnerID != nil).
// Приз — фонд за вычетом комиссии. Победитель, фонд и приз фиксируются
// в одной транзакции под блокировкой строки лотереи, повторный
// розыгрыш невозможен.
func (s *Service) Settle(ctx context.Context, lotteryID int64, winnerID *int64) (*SettleResult, error) {
	result, err := s.repo.Settle(ctx, lotteryID, winnerID, s.rnd)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"lottery_id": lotteryID,
		"winner":     result.WinnerID,
		"prize":      result.Prize,
	}).Info("Лотерея разыграна")

	return result, nil
}

// Cancel отменяет лотерею: останавливает продажу билетов, возвращает
// стоимость каждого билета и удаляет лотерею. Снимок билетов делается
// после остановки продаж, так что ни один купленный билет не пропадёт
// без возврата. Возврат идёт по билету за раз, поэтому сбой не теряет
// деньги — повтор отмены продолжит с оставшихся билетов.
func (s *Service) Cancel(ctx context.Context, lotteryID int64) error {
	l, err := s.repo.Deactivate(ctx, lotteryID)
	if err != nil {
		return err
	}

	ids, err := s.repo.TicketIDs(ctx, lotteryID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.repo.RefundTicket(ctx, id); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, lotteryID); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"lottery":  l.Title,
		"refunded": len(ids),
	}).Info("Лотерея отменена, билеты возвращены")

	return nil
}

// SweepExpired обрабатывает истёкшие лотереи: с билетами — разыгрывает,
// без билетов — отменяет. Ошибка одной лотереи не прерывает остальные.
func (s *Service) SweepExpired(ctx context.Context) error {
	expired, err := s.repo.ListExpired(ctx, time.Now())
	if err != nil {
		return err
	}

	for _, l := range expired {
		if _, err := s.Settle(ctx, l.ID, nil); err != nil {
			if errors.Is(err, common.ErrNoTickets) {
				if err := s.Cancel(ctx, l.ID); err != nil {
					log.WithError(err).WithField("lottery_id", l.ID).Error("Ошибка отмены пустой лотереи")
				}
				continue
			}
			log.WithError(err).WithField("lottery_id", l.ID).Error("Ошибка розыгрыша истёкшей лотереи")
		}
	}
	return nil
}

// Create создаёт лотерею (админ-операция).
func (s *Service) Create(ctx context.Context, l *Lottery) error {
	if l.Title == "" || l.TicketPrice <= 0 {
		return common.ErrInvalidAmount
	}
	if l.CommissionPercent < 0 || l.CommissionPercent >= 100 {
		return common.ErrInvalidAmount
	}
	return s.repo.Create(ctx, l)
}

// SetActive включает или выключает продажу билетов (админ-операция).
func (s *Service) SetActive(ctx context.Context, lotteryID int64, active bool) error {
	return s.repo.SetActive(ctx, lotteryID, active)
}
