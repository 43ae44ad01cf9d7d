package lottery

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kirbystars.ru/stars-bot/internal/common"
)

func TestPrizeAmount(t *testing.T) {
	assert.InDelta(t, 90.0, PrizeAmount(100, 10), 1e-9)
	assert.InDelta(t, 100.0, PrizeAmount(100, 0), 1e-9)
	assert.InDelta(t, 42.5, PrizeAmount(50, 15), 1e-9)
}

func TestPickWinner(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	holders := []int64{10, 20, 30}

	t.Run("без билетов", func(t *testing.T) {
		_, err := pickWinner(nil, nil, rnd)
		assert.ErrorIs(t, err, common.ErrNoTickets)
	})

	t.Run("случайный победитель из держателей", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			winner, err := pickWinner(holders, nil, rnd)
			require.NoError(t, err)
			assert.Contains(t, holders, winner)
		}
	})

	t.Run("явный победитель с билетом", func(t *testing.T) {
		explicit := int64(20)
		winner, err := pickWinner(holders, &explicit, rnd)
		require.NoError(t, err)
		assert.Equal(t, explicit, winner)
	})

	t.Run("явный победитель без билета", func(t *testing.T) {
		explicit := int64(99)
		_, err := pickWinner(holders, &explicit, rnd)
		assert.ErrorIs(t, err, common.ErrWinnerNotParticipant)
	})
}

func TestLotteryExpired(t *testing.T) {
	now := time.Now()

	t.Run("без срока не истекает", func(t *testing.T) {
		l := &Lottery{}
		assert.False(t, l.Expired(now))
	})

	t.Run("срок в будущем", func(t *testing.T) {
		future := now.Add(time.Hour)
		l := &Lottery{ExpiresAt: &future}
		assert.False(t, l.Expired(now))
	})

	t.Run("срок в прошлом", func(t *testing.T) {
		past := now.Add(-time.Hour)
		l := &Lottery{ExpiresAt: &past}
		assert.True(t, l.Expired(now))
	})
}

func TestLotterySoldOut(t *testing.T) {
	assert.False(t, (&Lottery{MaxTickets: 0, TicketsSold: 1000}).SoldOut(), "0 — без ограничения")
	assert.False(t, (&Lottery{MaxTickets: 10, TicketsSold: 9}).SoldOut())
	assert.True(t, (&Lottery{MaxTickets: 10, TicketsSold: 10}).SoldOut())
}

func TestSaleError(t *testing.T) {
	now := time.Now()

	t.Run("активная лотерея продаёт", func(t *testing.T) {
		l := &Lottery{IsActive: true}
		assert.NoError(t, l.SaleError(now))
	})

	t.Run("остановленная лотерея не продаёт", func(t *testing.T) {
		// Отмена начинается со снятия is_active: билет, купить который
		// пытаются во время возвратов, должен быть отклонён
		l := &Lottery{IsActive: false}
		assert.ErrorIs(t, l.SaleError(now), common.ErrLotteryInactive)
	})

	t.Run("разыгранная лотерея не продаёт", func(t *testing.T) {
		l := &Lottery{IsActive: true, WinnerSelected: true}
		assert.ErrorIs(t, l.SaleError(now), common.ErrLotteryFinished)
	})

	t.Run("истёкшая лотерея не продаёт", func(t *testing.T) {
		past := now.Add(-time.Minute)
		l := &Lottery{IsActive: true, ExpiresAt: &past}
		assert.ErrorIs(t, l.SaleError(now), common.ErrLotteryExpired)
	})

	t.Run("распроданная лотерея не продаёт", func(t *testing.T) {
		l := &Lottery{IsActive: true, MaxTickets: 5, TicketsSold: 5}
		assert.ErrorIs(t, l.SaleError(now), common.ErrLotterySoldOut)
	})
}
