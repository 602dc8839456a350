package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stocklens/internal/provider"

	"github.com/tidwall/gjson"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	httpTimeout    = 10 * time.Second
	maxErrBody     = 300
)

// Client fetches candles from the keyless Yahoo chart API. One attempt per
// request; retries are the resolver's business, not this client's.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func New(baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: httpTimeout},
	}
}

// rangeInterval maps our resolutions onto Yahoo's range/interval vocabulary.
func rangeInterval(resolution string) (string, string) {
	switch resolution {
	case "60":
		return "5d", "60m"
	case "W":
		return "2y", "1wk"
	case "M":
		return "5y", "1mo"
	default:
		return "6mo", "1d"
	}
}

// Candles returns the most recent count bars for symbol, already shaped into
// the canonical series. An empty result set is a no_data payload, not an
// error; only transport and HTTP-status failures return one.
func (c *Client) Candles(ctx context.Context, symbol, resolution string, count int) (provider.Series, error) {
	rng, interval := rangeInterval(resolution)
	q := url.Values{
		"range":          {rng},
		"interval":       {interval},
		"includePrePost": {"false"},
		"events":         {"div,splits"},
	}
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return provider.Series{}, fmt.Errorf("yahoo request: %w", err)
	}
	// Yahoo rejects requests without a browser-ish UA.
	req.Header.Set("User-Agent", "Mozilla/5.0")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return provider.Series{}, fmt.Errorf("yahoo request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return provider.Series{}, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return provider.Series{}, &provider.Error{
			Provider: "yahoo",
			Status:   resp.StatusCode,
			Message:  truncate(strings.TrimSpace(string(body)), maxErrBody),
		}
	}
	return shape(symbol, resolution, rng, interval, count, body), nil
}

// shape normalizes Yahoo's nested response into parallel arrays truncated to
// their minimum common length, then windows to the most recent count bars.
func shape(symbol, resolution, rng, interval string, count int, body []byte) provider.Series {
	meta := provider.Meta{
		Source:     provider.SourceSecondary,
		Resolution: resolution,
		Range:      rng,
		Interval:   interval,
	}
	empty := provider.Series{
		OK: true, Symbol: symbol, Status: provider.StatusNoData,
		T: []int64{}, C: []float64{}, O: []float64{}, H: []float64{}, L: []float64{},
		Meta: meta,
	}
	results := gjson.GetBytes(body, "chart.result")
	if !results.Exists() || len(results.Array()) == 0 {
		return empty
	}

	ts := int64s(gjson.GetBytes(body, "chart.result.0.timestamp"))
	const quote = "chart.result.0.indicators.quote.0"
	closes := floats(gjson.GetBytes(body, quote+".close"))
	opens := floats(gjson.GetBytes(body, quote+".open"))
	highs := floats(gjson.GetBytes(body, quote+".high"))
	lows := floats(gjson.GetBytes(body, quote+".low"))

	n := len(ts)
	for _, l := range [][]float64{closes, opens, highs, lows} {
		if len(l) < n {
			n = len(l)
		}
	}
	ts = ts[:n]
	closes, opens, highs, lows = closes[:n], opens[:n], highs[:n], lows[:n]

	// Right-aligned window: keep the most recent count bars.
	if count > 0 && n > count {
		ts = ts[n-count:]
		closes = closes[n-count:]
		opens = opens[n-count:]
		highs = highs[n-count:]
		lows = lows[n-count:]
		n = count
	}

	status := provider.StatusOK
	if n == 0 {
		status = provider.StatusNoData
	}
	meta.Count = n
	return provider.Series{
		OK: true, Symbol: symbol, Status: status,
		T: ts, C: closes, O: opens, H: highs, L: lows,
		Meta: meta,
	}
}

func int64s(res gjson.Result) []int64 {
	arr := res.Array()
	out := make([]int64, 0, len(arr))
	for _, v := range arr {
		out = append(out, v.Int())
	}
	return out
}

func floats(res gjson.Result) []float64 {
	arr := res.Array()
	out := make([]float64, 0, len(arr))
	for _, v := range arr {
		out = append(out, v.Float())
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
