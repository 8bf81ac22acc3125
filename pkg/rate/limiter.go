package rate

import (
	"sync"

	"golang.org/x/time/rate"
)

// Limiter limits operations based on a provided key.
type Limiter interface {
	Allow(key string) (bool, error)
}

type localRateLimiter struct {
	limit rate.Limit

	sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewLocalRateLimiter returns an in memory limiter.
func NewLocalRateLimiter(limit rate.Limit) Limiter {
	return &localRateLimiter{
		limit:    limit,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow implements Limiter.Allow.
func (l *localRateLimiter) Allow(key string) (bool, error) {
	l.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, int(l.limit))
		l.limiters[key] = limiter
	}
	l.Unlock()

	return limiter.Allow(), nil
}

// NoLimiter never limits operations.
type NoLimiter struct {
}

// Allow implements Limiter.Allow.
func (n *NoLimiter) Allow(key string) (bool, error) {
	return true, nil
}
