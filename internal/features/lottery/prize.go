// Package lottery — prize.go содержит расчёт приза и выбор победителя.
package lottery

import (
	"math/rand"

	"kirbystars.ru/stars-bot/internal/common"
)

// PrizeAmount считает выплату победителю: призовой фонд за вычетом
// комиссии в процентах.
func PrizeAmount(pool, commissionPercent float64) float64 {
	return pool * (1 - commissionPercent/100)
}

// pickWinner выбирает победителя среди держателей билетов.
// Если explicit задан — победителем назначается он, при условии что
// у него есть билет. Иначе победитель выбирается случайно.
func pickWinner(holders []int64, explicit *int64, rnd *rand.Rand) (int64, error) {
	if len(holders) == 0 {
		return 0, common.ErrNoTickets
	}
	if explicit != nil {
		for _, h := range holders {
			if h == *explicit {
				return h, nil
			}
		}
		return 0, common.ErrWinnerNotParticipant
	}
	return holders[rnd.Intn(len(holders))], nil
}
