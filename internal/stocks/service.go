package stocks

import (
	"context"
	"errors"
	"fmt"

	"stocklens/internal/provider/demo"
)

// ErrNoAPIKey means the primary provider is unconfigured and demo mode is
// off; handlers map it to a 400.
var ErrNoAPIKey = errors.New("FINNHUB_KEY missing")

type quoteSource interface {
	Configured() bool
	Quote(ctx context.Context, symbol string) (map[string]any, error)
	Profile(ctx context.Context, symbol string) (map[string]any, error)
	Metrics(ctx context.Context, symbol string) (map[string]any, error)
}

// Service serves the uncached passthrough endpoints (quote, profile,
// metrics). Demo mode converts missing credentials and upstream failures
// into fixed snapshots instead of errors.
type Service struct {
	primary quoteSource
	demo    func() bool
}

func NewService(primary quoteSource, demo func() bool) *Service {
	if demo == nil {
		demo = func() bool { return false }
	}
	return &Service{primary: primary, demo: demo}
}

// Quote returns the provider quote fields plus ok:true. Quotes are never
// cached.
func (s *Service) Quote(ctx context.Context, symbol string) (map[string]any, error) {
	return s.passthrough(ctx, symbol, s.primary.Quote, func(string) map[string]any {
		return demo.QuoteSnapshot()
	})
}

// Profile returns the company profile plus ok:true.
func (s *Service) Profile(ctx context.Context, symbol string) (map[string]any, error) {
	return s.passthrough(ctx, symbol, s.primary.Profile, demo.ProfileSnapshot)
}

// Metrics returns the full metric set plus ok:true.
func (s *Service) Metrics(ctx context.Context, symbol string) (map[string]any, error) {
	return s.passthrough(ctx, symbol, s.primary.Metrics, func(string) map[string]any {
		return demo.MetricsSnapshot()
	})
}

func (s *Service) passthrough(
	ctx context.Context,
	symbol string,
	fetch func(context.Context, string) (map[string]any, error),
	snapshot func(string) map[string]any,
) (map[string]any, error) {
	if !s.primary.Configured() {
		if s.demo() {
			return snapshot(symbol), nil
		}
		return nil, ErrNoAPIKey
	}
	data, err := fetch(ctx, symbol)
	if err != nil {
		if s.demo() {
			return snapshot(symbol), nil
		}
		return nil, fmt.Errorf("finnhub: %w", err)
	}
	out := make(map[string]any, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	out["ok"] = true
	return out, nil
}
