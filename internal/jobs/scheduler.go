// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: еженедельное подведение рейтинга
// и ежечасная обработка истёкших лотерей.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"kirbystars.ru/stars-bot/internal/common"
	"kirbystars.ru/stars-bot/internal/features/lottery"
	"kirbystars.ru/stars-bot/internal/features/users"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron           *cron.Cron
	repo           *Repository
	userService    *users.Service
	lotteryService *lottery.Service
	loc            *time.Location
}

// NewScheduler создаёт планировщик задач в опорном часовом поясе.
func NewScheduler(repo *Repository, userService *users.Service, lotteryService *lottery.Service, loc *time.Location) *Scheduler {
	return &Scheduler{
		cron:           cron.New(cron.WithLocation(loc)),
		repo:           repo,
		userService:    userService,
		lotteryService: lotteryService,
		loc:            loc,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Подведение недельного рейтинга: понедельник 00:00.
	// Ключ ISO-недели берётся за час до запуска — это завершившаяся
	// неделя, а не начавшаяся в полночь новая.
	s.cron.AddFunc("0 0 * * 1", func() {
		weekKey := common.ISOWeekKey(time.Now().Add(-time.Hour), s.loc)
		log.WithField("week", weekKey).Info("[CRON] Подведение недельного рейтинга")

		claimed, err := s.repo.TryClaim(ctx, "weekly_prizes", weekKey)
		if err != nil {
			log.WithError(err).Error("[CRON] Ошибка отметки недельной задачи")
			return
		}
		if !claimed {
			log.WithField("week", weekKey).Info("[CRON] Рейтинг за эту неделю уже подведён")
			return
		}

		if err := s.userService.AwardWeeklyPrizes(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка выплаты недельных призов")
		}
	})

	// Истёкшие лотереи — каждый час
	s.cron.AddFunc("0 * * * *", func() {
		log.Debug("[CRON] Проверка истёкших лотерей")
		if err := s.lotteryService.SweepExpired(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка обработки истёкших лотерей")
		}
	})

	s.cron.Start()
	log.WithField("timezone", s.loc.String()).Info("Планировщик задач запущен")
}

// Stop останавливает планировщик и ждёт завершения текущих задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
