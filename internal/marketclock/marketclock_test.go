package marketclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNYSE(t *testing.T) nyseCalculator {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return nyseCalculator{loc: loc}
}

func TestNextCloseBeforeBell(t *testing.T) {
	c := mustNYSE(t)
	// 15:30 EDT on a trading day.
	now := time.Date(2024, 3, 11, 19, 30, 0, 0, time.UTC)
	got := c.NextClose(now)
	want := time.Date(2024, 3, 11, 20, 10, 0, 0, time.UTC)
	assert.True(t, got.Equal(want), "got %s want %s", got, want)
}

func TestNextCloseAfterBellRollsToNextDay(t *testing.T) {
	c := mustNYSE(t)
	// 17:00 EDT, past the close.
	now := time.Date(2024, 3, 11, 21, 0, 0, 0, time.UTC)
	got := c.NextClose(now)
	want := time.Date(2024, 3, 12, 20, 10, 0, 0, time.UTC)
	assert.True(t, got.Equal(want), "got %s want %s", got, want)
}

func TestNextCloseExactlyAtBellRolls(t *testing.T) {
	c := mustNYSE(t)
	// 16:00:00 EDT on the dot counts as closed.
	now := time.Date(2024, 3, 11, 20, 0, 0, 0, time.UTC)
	got := c.NextClose(now)
	want := time.Date(2024, 3, 12, 20, 10, 0, 0, time.UTC)
	assert.True(t, got.Equal(want), "got %s want %s", got, want)
}

func TestNextCloseWinterOffset(t *testing.T) {
	c := mustNYSE(t)
	// 07:00 EST: the close is 21:00 UTC in winter.
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	got := c.NextClose(now)
	want := time.Date(2024, 1, 15, 21, 10, 0, 0, time.UTC)
	assert.True(t, got.Equal(want), "got %s want %s", got, want)
}

func TestNextCloseAcrossSpringForward(t *testing.T) {
	c := mustNYSE(t)
	// 2024-03-10 is the EST to EDT switch; the wall-clock close stays 16:00.
	now := time.Date(2024, 3, 10, 19, 30, 0, 0, time.UTC) // 15:30 EDT
	got := c.NextClose(now)
	want := time.Date(2024, 3, 10, 20, 10, 0, 0, time.UTC)
	assert.True(t, got.Equal(want), "got %s want %s", got, want)
}

func TestUTCMidnightFallback(t *testing.T) {
	c := utcMidnightCalculator{}

	got := c.NextClose(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	assert.True(t, got.Equal(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)))

	// Exactly at midnight rolls a full day forward.
	got = c.NextClose(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, got.Equal(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)))
}

func TestNewReturnsCalculator(t *testing.T) {
	c := New()
	require.NotNil(t, c)
	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	assert.True(t, c.NextClose(now).After(now))
}
