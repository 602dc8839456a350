package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter enforces a minimum gap between consecutive calls to the upstream
// provider. The mutex is held across the wait so concurrent callers queue up
// behind each other; the gap is measured on the monotonic clock carried by
// time.Time.
type Limiter struct {
	mu    sync.Mutex
	gap   time.Duration
	last  time.Time
	sleep func(context.Context, time.Duration) error
}

// New returns a limiter with the given minimum inter-call gap.
func New(gap time.Duration) *Limiter {
	if gap < 0 {
		gap = 0
	}
	return &Limiter{gap: gap, sleep: sleepCtx}
}

// Throttle blocks until at least the configured gap has elapsed since the
// previous call returned, then stamps the new last-call instant. Returns
// early only if ctx is cancelled while waiting.
func (l *Limiter) Throttle(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.last.IsZero() {
		if wait := l.gap - time.Since(l.last); wait > 0 {
			if err := l.sleep(ctx, wait); err != nil {
				return err
			}
		}
	}
	l.last = time.Now()
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
