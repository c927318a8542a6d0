package fakebin

import (
	"sync"
	"time"

	redisrate "github.com/wallstreetcn/rate/redis"
	"golang.org/x/time/rate"
)

// Limiter decides whether a client IP may create another paste.
type Limiter interface {
	Allow(ip string) bool
}

// RedisLimiter keeps per-IP token buckets in Redis so that several
// emulator processes share one budget. redisrate.SetRedis must have been
// called before use.
type RedisLimiter struct {
	every  time.Duration
	burst  int
	prefix string
}

// NewRedisLimiter allows one paste per every, bursting to burst.
func NewRedisLimiter(every time.Duration, burst int) *RedisLimiter {
	return &RedisLimiter{every: every, burst: burst, prefix: "pastebin_rl_"}
}

func (l *RedisLimiter) Allow(ip string) bool {
	return redisrate.NewLimiter(redisrate.Every(l.every), l.burst, l.prefix+ip).Allow()
}

// MemoryLimiter keeps per-IP token buckets in process memory.
type MemoryLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// NewMemoryLimiter allows one paste per every, bursting to burst.
func NewMemoryLimiter(every time.Duration, burst int) *MemoryLimiter {
	return &MemoryLimiter{
		limit:    rate.Every(every),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *MemoryLimiter) Allow(ip string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}
