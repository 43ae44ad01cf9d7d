package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(limit int, window time.Duration) (*RateLimiter, *time.Time) {
	rl := NewRateLimiter(limit, window)
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiterAllow(t *testing.T) {
	rl, _ := newTestLimiter(3, time.Minute)
	defer rl.Close()

	t.Run("лимит в пределах окна", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			assert.True(t, rl.Allow(1), "срабатывание %d", i+1)
		}
		assert.False(t, rl.Allow(1), "сверх лимита")
	})

	t.Run("пользователи считаются раздельно", func(t *testing.T) {
		assert.True(t, rl.Allow(2))
	})
}

func TestRateLimiterWindowSlides(t *testing.T) {
	rl, now := newTestLimiter(2, time.Minute)
	defer rl.Close()

	assert.True(t, rl.Allow(1))
	assert.True(t, rl.Allow(1))
	assert.False(t, rl.Allow(1))

	// Старые срабатывания выпадают из окна
	*now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow(1))
}

func TestRecoverFromPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		defer RecoverFromPanic()
		panic("что-то пошло не так")
	})
}
