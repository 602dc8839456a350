package demo

import (
	"math"
	"math/rand"
	"time"

	"stocklens/internal/provider"
)

// Series produces a smooth pseudo-periodic close-price walk: sinusoidal
// drift plus bounded jitter, clamped to a positive floor. Never fails.
func Series(count int, base float64) []float64 {
	if count <= 0 {
		count = 120
	}
	if base <= 0 {
		base = 100.0
	}
	vals := make([]float64, 0, count)
	v := base
	for i := 0; i < count; i++ {
		v += math.Sin(float64(i)/7.0)*0.6 + (rand.Float64()-0.5)*0.8
		v = math.Max(v, 1.0)
		vals = append(vals, math.Round(v*100)/100)
	}
	return vals
}

// Candles wraps a synthetic close series in the canonical payload, tagged
// source=demo so callers can tell it apart from real data.
func Candles(symbol, resolution string, count int) provider.Series {
	closes := Series(count, 100.0)
	ts := make([]int64, len(closes))
	for i := range ts {
		ts[i] = int64(i)
	}
	return provider.Series{
		OK:     true,
		Symbol: symbol,
		Status: provider.StatusOK,
		T:      ts,
		C:      closes,
		O:      []float64{},
		H:      []float64{},
		L:      []float64{},
		Meta: provider.Meta{
			Source:     provider.SourceDemo,
			Resolution: resolution,
			To:         int64(len(ts)),
			Count:      len(ts),
		},
	}
}

// QuoteSnapshot is the fixed quote served when demo mode stands in for the
// primary provider.
func QuoteSnapshot() map[string]any {
	return map[string]any{
		"ok": true,
		"c":  258.06, "d": 1.58, "dp": 0.616,
		"h": 258.52, "l": 256.11, "o": 256.52, "pc": 256.48,
		"t": time.Now().Unix(),
	}
}

// ProfileSnapshot is the fixed company profile for demo mode.
func ProfileSnapshot(symbol string) map[string]any {
	if symbol == "" {
		symbol = "AAPL"
	}
	return map[string]any{
		"ok":       true,
		"ticker":   symbol,
		"name":     "Demo Inc",
		"exchange": "DEMO",
		"currency": "USD",
	}
}

// MetricsSnapshot is the fixed metric set for demo mode.
func MetricsSnapshot() map[string]any {
	return map[string]any{
		"ok": true,
		"metric": map[string]any{
			"marketCapitalization": 0.0,
			"peBasicExclExtraTTM":  38.5,
		},
	}
}
