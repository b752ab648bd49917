package middleware

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// UserRateLimiter ограничивает частоту обращений по ID пользователя
// Telegram. Обновления сверх лимита молча отбрасываются, чтобы один
// пользователь не мог монополизировать бота.
type UserRateLimiter struct {
	users      map[int64]*userLimiter
	mu         sync.Mutex
	rate       rate.Limit
	burst      int
	expiration time.Duration

	ctx context.Context
}

func NewUserRateLimiter(ctx context.Context, requestsPerSecond int, window time.Duration) *UserRateLimiter {
	r := rate.Limit(float64(requestsPerSecond) / window.Seconds())

	l := &UserRateLimiter{
		users:      make(map[int64]*userLimiter),
		rate:       r,
		burst:      requestsPerSecond,
		expiration: 1 * time.Hour,
		ctx:        ctx,
	}

	go l.cleanupUsers()

	return l
}

// Allow сообщает, можно ли обработать очередное обновление пользователя.
func (l *UserRateLimiter) Allow(userID int64) bool {
	return l.getUserLimiter(userID).Allow()
}

func (l *UserRateLimiter) getUserLimiter(userID int64) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	user, exists := l.users[userID]
	if !exists {
		user = &userLimiter{
			limiter:  rate.NewLimiter(l.rate, l.burst),
			lastSeen: time.Now(),
		}
		l.users[userID] = user
	} else {
		user.lastSeen = time.Now()
	}

	return user.limiter
}

func (l *UserRateLimiter) cleanupUsers() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			for userID, user := range l.users {
				if time.Since(user.lastSeen) > l.expiration {
					delete(l.users, userID)
				}
			}
			l.mu.Unlock()
		case <-l.ctx.Done():
			return
		}
	}
}
