package marketclock

import (
	"time"

	"stocklens/internal/logger"
)

// Cushion after the closing bell so late prints settle before a refetch.
const closeBuffer = 10 * time.Minute

// Calculator computes the expiry instant for close-anchored cache entries.
type Calculator interface {
	// NextClose returns the first market-close instant strictly after now.
	NextClose(now time.Time) time.Time
}

// New picks the named-timezone implementation when the runtime ships a
// timezone database, otherwise degrades to the UTC-midnight approximation.
func New() Calculator {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		logger.Warnf("timezone database unavailable, candle expiry falls back to next UTC midnight: %v", err)
		return utcMidnightCalculator{}
	}
	return nyseCalculator{loc: loc}
}

// nyseCalculator anchors expiry to the next 4:00 PM America/New_York plus
// the buffer. Arithmetic stays in the named zone so DST rollovers land on
// the correct wall-clock close.
type nyseCalculator struct {
	loc *time.Location
}

func (c nyseCalculator) NextClose(now time.Time) time.Time {
	ny := now.In(c.loc)
	close := time.Date(ny.Year(), ny.Month(), ny.Day(), 16, 0, 0, 0, c.loc)
	if !ny.Before(close) {
		close = close.AddDate(0, 0, 1)
	}
	return close.Add(closeBuffer)
}

// utcMidnightCalculator is the documented degraded mode for runtimes without
// tzdata: expire at the next UTC midnight instead of the NYSE close.
type utcMidnightCalculator struct{}

func (utcMidnightCalculator) NextClose(now time.Time) time.Time {
	u := now.UTC()
	midnight := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.AddDate(0, 0, 1)
}
