package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestBreaker(threshold int, cooloff time.Duration) (*Breaker, *time.Time) {
	now := time.Unix(1_700_000_000, 0)
	b := New("test", threshold, cooloff)
	b.clock = func() time.Time { return now }
	return b, &now
}

func TestBreakerStaysClosedBelowThreshold(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)
	b.Failure()
	b.Failure()
	assert.True(t, b.Allow())
	assert.Equal(t, StateClosed, b.state)
}

func TestBreakerOpensAtThreshold(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)
	for i := 0; i < 3; i++ {
		b.Failure()
	}
	assert.False(t, b.Allow())
	assert.Equal(t, StateOpen, b.state)
}

func TestBreakerSuccessResetsCount(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)
	b.Failure()
	b.Failure()
	b.Success()
	b.Failure()
	b.Failure()
	assert.True(t, b.Allow(), "count restarted after a success")
}

func TestBreakerHalfOpenAfterCooloff(t *testing.T) {
	b, now := newTestBreaker(2, time.Minute)
	b.Failure()
	b.Failure()
	assert.False(t, b.Allow())

	*now = now.Add(61 * time.Second)
	assert.True(t, b.Allow(), "one probe allowed after cool-off")
	assert.Equal(t, StateHalfOpen, b.state)
}

func TestBreakerProbeSuccessCloses(t *testing.T) {
	b, now := newTestBreaker(2, time.Minute)
	b.Failure()
	b.Failure()
	*now = now.Add(2 * time.Minute)
	assert.True(t, b.Allow())

	b.Success()
	assert.Equal(t, StateClosed, b.state)
	assert.True(t, b.Allow())
}

func TestBreakerProbeFailureReopens(t *testing.T) {
	b, now := newTestBreaker(2, time.Minute)
	b.Failure()
	b.Failure()
	*now = now.Add(2 * time.Minute)
	assert.True(t, b.Allow())

	b.Failure()
	assert.Equal(t, StateOpen, b.state)
	assert.False(t, b.Allow())
}

func TestBreakerDefaults(t *testing.T) {
	b := New("defaults", 0, 0)
	assert.Equal(t, 5, b.threshold)
	assert.Equal(t, time.Minute, b.cooloff)
}
