package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stocklens/internal/provider"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultBaseURL = "https://finnhub.io/api/v1"
	httpTimeout    = 8 * time.Second
	retryAttempts  = 2
	retryWait      = 300 * time.Millisecond
	maxErrBody     = 300
)

type throttler interface {
	Throttle(ctx context.Context) error
}

// Client talks to the primary market-data provider. Every network call goes
// through the shared rate limiter first and gets one fixed-wait retry.
type Client struct {
	key     string
	baseURL string
	httpc   *http.Client
	limiter throttler
}

func New(apiKey, baseURL string, limiter throttler) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		key:     strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: httpTimeout},
		limiter: limiter,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.key != ""
}

// Candles fetches raw candle arrays for [from, to]. A non-"ok" status field
// comes back in the payload, not as an error; the caller decides whether to
// fall through to the next provider.
func (c *Client) Candles(ctx context.Context, symbol, resolution string, from, to int64) (provider.CandleData, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("resolution", resolution)
	q.Set("from", strconv.FormatInt(from, 10))
	q.Set("to", strconv.FormatInt(to, 10))
	body, err := c.get(ctx, "/stock/candle", q)
	if err != nil {
		return provider.CandleData{}, err
	}
	var raw struct {
		S string    `json:"s"`
		T []int64   `json:"t"`
		C []float64 `json:"c"`
		O []float64 `json:"o"`
		H []float64 `json:"h"`
		L []float64 `json:"l"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return provider.CandleData{}, fmt.Errorf("finnhub candle decode: %w", err)
	}
	return provider.CandleData{Status: raw.S, T: raw.T, C: raw.C, O: raw.O, H: raw.H, L: raw.L}, nil
}

// Quote returns the raw quote fields (c, d, dp, h, l, o, pc, t).
func (c *Client) Quote(ctx context.Context, symbol string) (map[string]any, error) {
	return c.getJSON(ctx, "/quote", url.Values{"symbol": {symbol}})
}

// Profile returns the company profile (profile2 endpoint).
func (c *Client) Profile(ctx context.Context, symbol string) (map[string]any, error) {
	return c.getJSON(ctx, "/stock/profile2", url.Values{"symbol": {symbol}})
}

// Metrics returns the full metric set for symbol.
func (c *Client) Metrics(ctx context.Context, symbol string) (map[string]any, error) {
	return c.getJSON(ctx, "/stock/metric", url.Values{"symbol": {symbol}, "metric": {"all"}})
}

// CompanyName resolves the display name from the profile, empty when the
// provider does not know the symbol.
func (c *Client) CompanyName(ctx context.Context, symbol string) (string, error) {
	prof, err := c.Profile(ctx, symbol)
	if err != nil {
		return "", err
	}
	name, _ := prof["name"].(string)
	return strings.TrimSpace(name), nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values) (map[string]any, error) {
	body, err := c.get(ctx, path, q)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("finnhub decode %s: %w", path, err)
	}
	return out, nil
}

// get performs one throttled GET with the bounded retry policy: two attempts
// total, fixed wait, no jitter. Non-200 responses are retried like transport
// errors and surface as *provider.Error once attempts are exhausted.
func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	op := func() ([]byte, error) {
		if err := c.limiter.Throttle(ctx); err != nil {
			return nil, backoff.Permanent(err)
		}
		return c.doGet(ctx, path, q)
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(retryWait), retryAttempts-1), ctx)
	return backoff.RetryWithData(op, policy)
}

func (c *Client) doGet(ctx context.Context, path string, q url.Values) ([]byte, error) {
	vals := url.Values{}
	for k, vs := range q {
		vals[k] = vs
	}
	vals.Set("token", c.key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+vals.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("finnhub request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("finnhub request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("finnhub read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &provider.Error{
			Provider: "finnhub",
			Status:   resp.StatusCode,
			Message:  truncate(strings.TrimSpace(string(body)), maxErrBody),
		}
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
