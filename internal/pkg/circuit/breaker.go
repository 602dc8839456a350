package circuit

import (
	"sync"
	"time"

	"stocklens/internal/logger"
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF-OPEN"
	default:
		return "UNKNOWN"
	}
}

// Breaker trips after threshold consecutive failures and rejects calls until
// the cool-off elapses, then lets a single probe through.
type Breaker struct {
	mu          sync.Mutex
	name        string
	threshold   int
	cooloff     time.Duration
	state       State
	failures    int
	lastFailure time.Time
	clock       func() time.Time
}

func New(name string, threshold int, cooloff time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooloff <= 0 {
		cooloff = time.Minute
	}
	return &Breaker{
		name:      name,
		threshold: threshold,
		cooloff:   cooloff,
		state:     StateClosed,
		clock:     time.Now,
	}
}

// Allow reports whether a call may proceed right now.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case StateOpen:
		if b.clock().Sub(b.lastFailure) > b.cooloff {
			b.transition(StateHalfOpen)
			return true
		}
		return false
	default:
		return true
	}
}

// Success resets the failure count and closes a half-open breaker.
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateHalfOpen {
		b.transition(StateClosed)
	}
	b.failures = 0
}

// Failure records one failed call; the breaker opens once the threshold is
// reached, or immediately when a half-open probe fails.
func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	b.lastFailure = b.clock()
	switch b.state {
	case StateClosed:
		if b.failures >= b.threshold {
			b.transition(StateOpen)
		}
	case StateHalfOpen:
		b.transition(StateOpen)
	}
}

func (b *Breaker) transition(to State) {
	from := b.state
	b.state = to
	logger.Warnf("circuit %s: %s -> %s (failures=%d/%d cooloff=%s)",
		b.name, from, to, b.failures, b.threshold, b.cooloff)
}
