package cache

import (
	"sync"
	"time"

	"stocklens/internal/provider"
)

// Key identifies one cached candle payload.
type Key struct {
	Symbol     string
	Resolution string
	Count      int
}

type entry struct {
	validUntil time.Time
	payload    provider.Series
}

// Store is an in-process candle cache. Entries expire either after a fixed
// TTL or at an explicit valid-until instant; expired entries are removed
// lazily on read. No capacity bound: key cardinality is symbols x four
// resolutions x a handful of counts.
type Store struct {
	mu      sync.Mutex
	entries map[Key]entry
	clock   func() time.Time
}

func New() *Store {
	return &Store{
		entries: make(map[Key]entry),
		clock:   time.Now,
	}
}

// Get returns the cached payload for key, evicting and reporting a miss if
// the entry has expired.
func (s *Store) Get(key Key) (provider.Series, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return provider.Series{}, false
	}
	if !s.clock().Before(e.validUntil) {
		delete(s.entries, key)
		return provider.Series{}, false
	}
	return e.payload, true
}

// SetTTL stores payload for the given duration. Existing entries are
// overwritten, not merged.
func (s *Store) SetTTL(key Key, payload provider.Series, ttl time.Duration) {
	s.SetUntil(key, payload, s.now().Add(ttl))
}

// SetUntil stores payload with an explicit expiry instant.
func (s *Store) SetUntil(key Key, payload provider.Series, validUntil time.Time) {
	s.mu.Lock()
	s.entries[key] = entry{validUntil: validUntil, payload: payload}
	s.mu.Unlock()
}

func (s *Store) now() time.Time {
	if s.clock != nil {
		return s.clock()
	}
	return time.Now()
}
