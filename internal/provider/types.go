package provider

import (
	"fmt"
	"strings"
)

// Data source tags carried in Series.Meta so callers can tell real bars
// from fallback and synthetic ones.
const (
	SourcePrimary   = "primary"
	SourceSecondary = "secondary"
	SourceDemo      = "demo"
)

// Series status values, mirrored into the "s" field of the wire payload.
const (
	StatusOK     = "ok"
	StatusNoData = "no_data"
)

const defaultCount = 90

// Request identifies one candle query. Symbol is uppercased before it is
// used as a cache key or sent upstream.
type Request struct {
	Symbol     string
	Resolution string
	Count      int
}

// Normalize uppercases the ticker, defaults the resolution to daily and
// clamps a non-positive count to the default window.
func (r Request) Normalize() Request {
	r.Symbol = strings.ToUpper(strings.TrimSpace(r.Symbol))
	r.Resolution = strings.ToUpper(strings.TrimSpace(r.Resolution))
	if r.Resolution == "" {
		r.Resolution = "D"
	}
	if r.Count <= 0 {
		r.Count = defaultCount
	}
	return r
}

// SpanSeconds maps a resolution to the width of a single bar in seconds.
// Unrecognized resolutions fall back to daily.
func SpanSeconds(resolution string) int64 {
	switch resolution {
	case "60":
		return 60
	case "W":
		return 604800
	case "M":
		return 2592000
	case "D":
		return 86400
	default:
		return 86400
	}
}

// Meta describes where a series came from and how it was windowed.
type Meta struct {
	Source     string `json:"source"`
	Resolution string `json:"resolution"`
	From       int64  `json:"from,omitempty"`
	To         int64  `json:"to,omitempty"`
	Range      string `json:"range,omitempty"`
	Interval   string `json:"interval,omitempty"`
	Count      int    `json:"count"`
}

// Series is the canonical candle payload. T/C/O/H/L are parallel arrays of
// identical length (possibly zero when the provider had no bars).
type Series struct {
	OK     bool      `json:"ok"`
	Symbol string    `json:"symbol"`
	Status string    `json:"s"`
	T      []int64   `json:"t"`
	C      []float64 `json:"c"`
	O      []float64 `json:"o"`
	H      []float64 `json:"h"`
	L      []float64 `json:"l"`
	Meta   Meta      `json:"meta"`
}

// CandleData is the raw parallel-array payload a provider hands back before
// the resolver shapes it into a Series.
type CandleData struct {
	Status string
	T      []int64
	C      []float64
	O      []float64
	H      []float64
	L      []float64
}

// Error is an upstream failure carrying the HTTP-ish status when known.
// The provider name stays out of the message; callers add it when they
// compose multi-provider causes.
type Error struct {
	Provider string
	Status   int
	Message  string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("status %d", e.Status)
}

// Outcome tags a single provider attempt so the resolver can match on it
// instead of catching generic errors.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeSoftFail
	OutcomeHardFail
)

// Attempt is the tagged result of one stage of the fallback chain.
type Attempt struct {
	Outcome Outcome
	Series  Series
	Err     error
}

func OK(s Series) Attempt {
	return Attempt{Outcome: OutcomeOK, Series: s}
}

func SoftFail(err error) Attempt {
	return Attempt{Outcome: OutcomeSoftFail, Err: err}
}

func HardFail(err error) Attempt {
	return Attempt{Outcome: OutcomeHardFail, Err: err}
}
