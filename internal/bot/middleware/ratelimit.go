package middleware

import (
	"sync"
	"time"
)

// RateLimiter ограничивает частоту команд на пользователя:
// не больше limit срабатываний за скользящее окно window.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	hits map[int64][]time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// NewRateLimiter создаёт ограничитель и запускает фоновую чистку
// записей давно молчащих пользователей.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		hits:   make(map[int64][]time.Time),
		stop:   make(chan struct{}),
	}
	go rl.janitor()
	return rl
}

// Close останавливает фоновую чистку. Вызывается на shutdown.
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Allow сообщает, может ли пользователь выполнить команду сейчас,
// и при разрешении учитывает срабатывание.
func (rl *RateLimiter) Allow(userID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	fresh := rl.prune(rl.hits[userID], now)
	if len(fresh) >= rl.limit {
		rl.hits[userID] = fresh
		return false
	}
	rl.hits[userID] = append(fresh, now)
	return true
}

// prune отбрасывает срабатывания старше окна, переиспользуя слайс.
func (rl *RateLimiter) prune(hits []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	fresh := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			fresh = append(fresh, t)
		}
	}
	return fresh
}

func (rl *RateLimiter) janitor() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for userID, hits := range rl.hits {
				if fresh := rl.prune(hits, now); len(fresh) == 0 {
					delete(rl.hits, userID)
				} else {
					rl.hits[userID] = fresh
				}
			}
			rl.mu.Unlock()
		}
	}
}
