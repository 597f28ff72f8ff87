package ratelimit

import (
	"sync"
	"time"
)

// Token-bucket limiter. Each connection gets its own Limiter, consulted
// once per inbound frame.
type Limiter struct {
	rate   float64 // tokens added per second
	burst  int
	tokens float64
	last   time.Time
	mu     sync.Mutex
}

func NewLimiter(rate float64, burst int) *Limiter {
	return &Limiter{
		rate:   rate,
		burst:  burst,
		tokens: float64(burst),
		last:   time.Now(),
	}
}

// Reports whether one event may proceed, consuming a token if so
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill(time.Now())

	if l.tokens >= 1 {
		l.tokens--
		return true
	}
	return false
}

func (l *Limiter) refill(now time.Time) {
	elapsed := now.Sub(l.last).Seconds()
	l.last = now

	l.tokens += elapsed * l.rate
	if l.tokens > float64(l.burst) {
		l.tokens = float64(l.burst)
	}
}
