package core

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultCallsPerMinute is a safe default for free-tier embedding quotas.
const DefaultCallsPerMinute = 3

// CallLimiter enforces a minimum interval between remote embedding calls.
// It is a token bucket with burst 1, so each Wait blocks until the interval
// since the previous call has elapsed.
type CallLimiter struct {
	limiter *rate.Limiter
}

func NewCallLimiter(callsPerMinute int) *CallLimiter {
	if callsPerMinute <= 0 {
		callsPerMinute = DefaultCallsPerMinute
	}
	interval := time.Minute / time.Duration(callsPerMinute)
	return &CallLimiter{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Wait blocks until the next call is admissible or the context is done.
func (l *CallLimiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
