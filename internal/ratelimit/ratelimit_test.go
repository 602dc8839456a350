package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottleFirstCallDoesNotWait(t *testing.T) {
	l := New(time.Second)
	var waits []time.Duration
	l.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	require.NoError(t, l.Throttle(context.Background()))
	assert.Empty(t, waits)
}

func TestThrottleEnforcesGap(t *testing.T) {
	l := New(400 * time.Millisecond)
	var waits []time.Duration
	l.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	ctx := context.Background()
	require.NoError(t, l.Throttle(ctx))
	require.NoError(t, l.Throttle(ctx))

	require.Len(t, waits, 1)
	assert.Greater(t, waits[0], time.Duration(0))
	assert.LessOrEqual(t, waits[0], 400*time.Millisecond)
}

func TestThrottleSkipsWaitAfterGapElapsed(t *testing.T) {
	l := New(time.Millisecond)
	var waits []time.Duration
	l.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	ctx := context.Background()
	require.NoError(t, l.Throttle(ctx))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, l.Throttle(ctx))
	assert.Empty(t, waits)
}

func TestThrottlePropagatesCancellation(t *testing.T) {
	l := New(time.Second)
	sentinel := errors.New("cancelled")
	l.sleep = func(context.Context, time.Duration) error { return sentinel }

	ctx := context.Background()
	require.NoError(t, l.Throttle(ctx))
	err := l.Throttle(ctx)
	assert.ErrorIs(t, err, sentinel)
}

func TestThrottleZeroGapNeverWaits(t *testing.T) {
	l := New(0)
	called := false
	l.sleep = func(context.Context, time.Duration) error {
		called = true
		return nil
	}
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Throttle(ctx))
	}
	assert.False(t, called)
}

func TestThrottleRealWaitOrdering(t *testing.T) {
	gap := 30 * time.Millisecond
	l := New(gap)
	ctx := context.Background()

	require.NoError(t, l.Throttle(ctx))
	start := time.Now()
	require.NoError(t, l.Throttle(ctx))
	assert.GreaterOrEqual(t, time.Since(start), gap-5*time.Millisecond)
}
