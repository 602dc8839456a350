package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Request
		want Request
	}{
		{"uppercases symbol", Request{Symbol: "aapl", Resolution: "D", Count: 30}, Request{Symbol: "AAPL", Resolution: "D", Count: 30}},
		{"defaults resolution", Request{Symbol: "MSFT", Count: 30}, Request{Symbol: "MSFT", Resolution: "D", Count: 30}},
		{"defaults count", Request{Symbol: "MSFT", Resolution: "W"}, Request{Symbol: "MSFT", Resolution: "W", Count: 90}},
		{"negative count", Request{Symbol: "MSFT", Resolution: "60", Count: -5}, Request{Symbol: "MSFT", Resolution: "60", Count: 90}},
		{"trims and uppercases resolution", Request{Symbol: " tsla ", Resolution: " w ", Count: 10}, Request{Symbol: "TSLA", Resolution: "W", Count: 10}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Normalize())
		})
	}
}

func TestSpanSeconds(t *testing.T) {
	assert.Equal(t, int64(60), SpanSeconds("60"))
	assert.Equal(t, int64(86400), SpanSeconds("D"))
	assert.Equal(t, int64(604800), SpanSeconds("W"))
	assert.Equal(t, int64(2592000), SpanSeconds("M"))
	assert.Equal(t, int64(86400), SpanSeconds("15"), "unknown resolutions fall back to daily")
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Provider: "finnhub", Status: 429, Message: "rate limited"}
	assert.Equal(t, "status 429: rate limited", err.Error())

	bare := &Error{Provider: "yahoo", Status: 502}
	assert.Equal(t, "status 502", bare.Error())
}

func TestAttemptConstructors(t *testing.T) {
	s := Series{OK: true, Symbol: "AAPL"}
	ok := OK(s)
	assert.Equal(t, OutcomeOK, ok.Outcome)
	assert.Equal(t, s, ok.Series)

	cause := errors.New("boom")
	assert.Equal(t, OutcomeSoftFail, SoftFail(cause).Outcome)
	assert.Equal(t, OutcomeHardFail, HardFail(cause).Outcome)
	assert.ErrorIs(t, SoftFail(cause).Err, cause)
}
