package geocode

import (
	"context"
	"sync"
	"time"
)

// Limiter spaces consecutive calls at least Interval apart. The first call
// never waits.
type Limiter struct {
	interval time.Duration
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error

	mu   sync.Mutex
	last time.Time
}

// NewLimiter creates a limiter on the wall clock.
func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{interval: interval, now: time.Now, sleep: sleepCtx}
}

// Wait blocks until the next call is allowed and records it. It returns
// early with ctx.Err() if ctx is done while waiting.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.last.IsZero() && l.interval > 0 {
		if remaining := l.interval - l.now().Sub(l.last); remaining > 0 {
			if err := l.sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}
	l.last = l.now()
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
