// Package ratelimit bounds upstream marketplace API usage with a token bucket
// for per-second rate and a rolling 24-hour window for daily quota.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// ErrDailyLimitReached is returned when the daily API call limit has been exhausted.
var ErrDailyLimitReached = errors.New("daily API limit reached")

// Limiter controls API call rate and daily usage limits for one marketplace.
type Limiter struct {
	limiter     *rate.Limiter
	daily       atomic.Int64
	maxDaily    int64
	windowStart time.Time
	resetAt     time.Time
	mu          sync.Mutex
	nowFunc     func() time.Time
}

// Option configures the Limiter.
type Option func(*Limiter)

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(l *Limiter) {
		l.nowFunc = f
	}
}

// New creates a limiter with the given per-second rate, burst size, and daily
// limit. The daily quota uses a rolling 24-hour window that resets 24 hours
// after the first call in each window.
func New(perSecond float64, burst int, maxDaily int64, opts ...Option) *Limiter {
	l := &Limiter{
		limiter:  rate.NewLimiter(rate.Limit(perSecond), burst),
		maxDaily: maxDaily,
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	now := l.nowFunc()
	l.windowStart = now
	l.resetAt = now.Add(24 * time.Hour)
	return l
}

// Wait blocks until the limiter allows the call, or the context is canceled.
// Returns ErrDailyLimitReached if the daily limit has been exhausted.
func (l *Limiter) Wait(ctx context.Context) error {
	l.checkDailyReset()

	if l.daily.Load() >= l.maxDaily {
		return fmt.Errorf("%w (%d/%d)", ErrDailyLimitReached, l.daily.Load(), l.maxDaily)
	}

	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	l.daily.Add(1)
	return nil
}

// DailyCount returns the current daily call count.
func (l *Limiter) DailyCount() int64 {
	return l.daily.Load()
}

// Remaining returns the number of calls left in the current 24-hour window.
func (l *Limiter) Remaining() int64 {
	remaining := l.maxDaily - l.daily.Load()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ResetAt returns the time when the current 24-hour window expires.
func (l *Limiter) ResetAt() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resetAt
}

func (l *Limiter) checkDailyReset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	if now.After(l.resetAt) {
		l.daily.Store(0)
		l.windowStart = now
		l.resetAt = now.Add(24 * time.Hour)
	}
}
