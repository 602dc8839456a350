package stocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stocklens/internal/cache"
	"stocklens/internal/config"
	"stocklens/internal/logger"
	"stocklens/internal/marketclock"
	"stocklens/internal/pkg/circuit"
	"stocklens/internal/provider"
	"stocklens/internal/provider/demo"
)

const defaultIntradayTTL = 1800 * time.Second

type primarySource interface {
	Configured() bool
	Candles(ctx context.Context, symbol, resolution string, from, to int64) (provider.CandleData, error)
}

type secondarySource interface {
	Candles(ctx context.Context, symbol, resolution string, count int) (provider.Series, error)
}

// UnavailableError reports exhaustion of the whole fallback chain, keeping
// both provider causes for the caller.
type UnavailableError struct {
	Primary   error
	Secondary error
}

func (e *UnavailableError) Error() string {
	if e.Primary != nil {
		return fmt.Sprintf("finnhub: %v | yahoo: %v", e.Primary, e.Secondary)
	}
	return fmt.Sprintf("candles: %v", e.Secondary)
}

// Resolver walks the candle acquisition chain: cache, primary provider,
// secondary provider, synthetic fallback. Every non-cache success is written
// through the cache under the resolution's TTL policy before returning.
type Resolver struct {
	cache     *cache.Store
	primary   primarySource
	secondary secondarySource
	closes    marketclock.Calculator
	breaker   *circuit.Breaker
	ttls      config.CandleTTLConfig
	demo      func() bool
	clock     func() time.Time
}

func NewResolver(
	store *cache.Store,
	primary primarySource,
	secondary secondarySource,
	closes marketclock.Calculator,
	breaker *circuit.Breaker,
	ttls config.CandleTTLConfig,
	demo func() bool,
) *Resolver {
	if demo == nil {
		demo = func() bool { return false }
	}
	return &Resolver{
		cache:     store,
		primary:   primary,
		secondary: secondary,
		closes:    closes,
		breaker:   breaker,
		ttls:      ttls,
		demo:      demo,
		clock:     time.Now,
	}
}

// Resolve serves one candle request, short-circuiting on the first stage
// that yields a payload. Provider failures are soft until the entire chain
// is exhausted.
func (r *Resolver) Resolve(ctx context.Context, req provider.Request) (provider.Series, error) {
	req = req.Normalize()
	key := cache.Key{Symbol: req.Symbol, Resolution: req.Resolution, Count: req.Count}
	if hit, ok := r.cache.Get(key); ok {
		return hit, nil
	}

	var primaryCause error
	if r.primary.Configured() {
		attempt := r.tryPrimary(ctx, req)
		if attempt.Outcome == provider.OutcomeOK {
			return r.store(key, req.Resolution, attempt.Series), nil
		}
		primaryCause = attempt.Err
		logger.Debugf("primary candles %s %s: falling back: %v", req.Symbol, req.Resolution, attempt.Err)
	}

	attempt := r.trySecondary(ctx, req)
	if attempt.Outcome == provider.OutcomeOK {
		return r.store(key, req.Resolution, attempt.Series), nil
	}

	if r.demo() {
		logger.Warnf("all providers failed for %s, serving demo series", req.Symbol)
		return r.store(key, req.Resolution, demo.Candles(req.Symbol, req.Resolution, req.Count)), nil
	}
	return provider.Series{}, &UnavailableError{Primary: primaryCause, Secondary: attempt.Err}
}

// tryPrimary asks the primary provider for the [now - span*count, now]
// window. Transport errors, upstream non-success statuses and an open
// breaker all come back as soft failures so the chain keeps going.
func (r *Resolver) tryPrimary(ctx context.Context, req provider.Request) provider.Attempt {
	if r.breaker != nil && !r.breaker.Allow() {
		return provider.SoftFail(errors.New("circuit open"))
	}
	now := r.clock().Unix()
	from := now - provider.SpanSeconds(req.Resolution)*int64(req.Count)
	data, err := r.primary.Candles(ctx, req.Symbol, req.Resolution, from, now)
	if err != nil {
		if r.breaker != nil {
			r.breaker.Failure()
		}
		return provider.SoftFail(err)
	}
	if r.breaker != nil {
		r.breaker.Success()
	}
	if data.Status != provider.StatusOK {
		return provider.SoftFail(fmt.Errorf("finnhub returned s=%s", data.Status))
	}
	return provider.OK(provider.Series{
		OK:     true,
		Symbol: req.Symbol,
		Status: provider.StatusOK,
		T:      orEmptyInt(data.T),
		C:      orEmptyFloat(data.C),
		O:      orEmptyFloat(data.O),
		H:      orEmptyFloat(data.H),
		L:      orEmptyFloat(data.L),
		Meta: provider.Meta{
			Source:     provider.SourcePrimary,
			Resolution: req.Resolution,
			From:       from,
			To:         now,
			Count:      len(data.T),
		},
	})
}

// trySecondary resolves through the fallback provider. A no_data payload
// still counts as resolved; only a raised error pushes the chain onward.
func (r *Resolver) trySecondary(ctx context.Context, req provider.Request) provider.Attempt {
	series, err := r.secondary.Candles(ctx, req.Symbol, req.Resolution, req.Count)
	if err != nil {
		return provider.HardFail(err)
	}
	return provider.OK(series)
}

func (r *Resolver) store(key cache.Key, resolution string, s provider.Series) provider.Series {
	if ttl, fixed := r.ttlFor(resolution); fixed {
		r.cache.SetTTL(key, s, ttl)
	} else {
		r.cache.SetUntil(key, s, r.closes.NextClose(r.clock()))
	}
	return s
}

// ttlFor returns the fixed TTL for a resolution, or fixed=false when the
// entry should instead live until the next market close.
func (r *Resolver) ttlFor(resolution string) (time.Duration, bool) {
	seconds := func(n int) time.Duration { return time.Duration(n) * time.Second }
	switch resolution {
	case "60":
		if r.ttls.Intraday > 0 {
			return seconds(r.ttls.Intraday), true
		}
		return defaultIntradayTTL, true
	case "W":
		if r.ttls.Weekly > 0 {
			return seconds(r.ttls.Weekly), true
		}
		return 0, false
	case "M":
		if r.ttls.Monthly > 0 {
			return seconds(r.ttls.Monthly), true
		}
		return 0, false
	default: // D and anything unrecognized
		if r.ttls.Daily > 0 {
			return seconds(r.ttls.Daily), true
		}
		return 0, false
	}
}

func orEmptyInt(v []int64) []int64 {
	if v == nil {
		return []int64{}
	}
	return v
}

func orEmptyFloat(v []float64) []float64 {
	if v == nil {
		return []float64{}
	}
	return v
}
