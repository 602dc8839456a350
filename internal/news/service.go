package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"stocklens/internal/logger"
)

const (
	defaultBaseURL = "https://newsapi.org/v2"
	httpTimeout    = 10 * time.Second
	successTTL     = 15 * time.Minute
	softFailTTL    = 5 * time.Minute
	lookbackWindow = 14 * 24 * time.Hour
	defaultLimit   = 8
	maxLimit       = 30
)

// Article is a normalized headline.
type Article struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt int64  `json:"publishedAt"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// Payload is the wire shape for the news endpoint. Failures degrade to an
// empty article list so the page stays usable.
type Payload struct {
	OK       bool      `json:"ok"`
	Articles []Article `json:"articles"`
}

// ProfileSource resolves a ticker to a company display name, used only to
// tighten the search query.
type ProfileSource interface {
	CompanyName(ctx context.Context, symbol string) (string, error)
}

type cacheKey struct {
	symbol string
	limit  int
}

type cacheEntry struct {
	validUntil time.Time
	payload    Payload
}

// Service fetches recent headlines for a ticker from NewsAPI, caching
// results per (symbol, limit). A missing key or upstream failure yields an
// empty payload cached for a shorter window, never an error.
type Service struct {
	key      string
	baseURL  string
	httpc    *http.Client
	profiles ProfileSource

	mu    sync.Mutex
	cache map[cacheKey]cacheEntry
	clock func() time.Time
}

// NewService builds the news service. profiles may be nil; it is only used
// to widen the search query with the company name.
func NewService(apiKey, baseURL string, profiles ProfileSource) *Service {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Service{
		key:      strings.TrimSpace(apiKey),
		baseURL:  strings.TrimRight(baseURL, "/"),
		httpc:    &http.Client{Timeout: httpTimeout},
		profiles: profiles,
		cache:    make(map[cacheKey]cacheEntry),
		clock:    time.Now,
	}
}

// Headlines returns up to limit recent articles for symbol. limit is
// clamped to [1, 30], defaulting to 8 when non-positive.
func (s *Service) Headlines(ctx context.Context, symbol string, limit int) Payload {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	key := cacheKey{symbol: symbol, limit: limit}
	if cached, ok := s.get(key); ok {
		return cached
	}

	if s.key == "" {
		// No key: keep the page alive with an empty list.
		return s.set(key, Payload{OK: true, Articles: []Article{}}, softFailTTL)
	}

	payload, err := s.fetch(ctx, symbol, limit)
	if err != nil {
		logger.Warnf("news fetch for %s failed: %v", symbol, err)
		return s.set(key, Payload{OK: true, Articles: []Article{}}, softFailTTL)
	}
	return s.set(key, payload, successTTL)
}

type newsResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		URLToImage  string `json:"urlToImage"`
		Description string `json:"description"`
		Content     string `json:"content"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (s *Service) fetch(ctx context.Context, symbol string, limit int) (Payload, error) {
	now := s.clock().UTC()
	q := url.Values{
		"q":        {s.searchTerms(ctx, symbol)},
		"language": {"en"},
		"sortBy":   {"publishedAt"},
		"pageSize": {fmt.Sprintf("%d", limit)},
		"from":     {now.Add(-lookbackWindow).Format("2006-01-02T15:04:05Z")},
		"to":       {now.Format("2006-01-02T15:04:05Z")},
		"apiKey":   {s.key},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/everything?"+q.Encode(), nil)
	if err != nil {
		return Payload{}, fmt.Errorf("news request: %w", err)
	}
	resp, err := s.httpc.Do(req)
	if err != nil {
		return Payload{}, fmt.Errorf("news request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Payload{}, fmt.Errorf("news read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Payload{}, fmt.Errorf("news status %d: %s", resp.StatusCode, truncate(string(body), 300))
	}
	var raw newsResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return Payload{}, fmt.Errorf("news decode: %w", err)
	}

	articles := make([]Article, 0, len(raw.Articles))
	for _, a := range raw.Articles {
		if a.Title == "" || a.URL == "" {
			continue
		}
		ts := now.Unix()
		if parsed, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			ts = parsed.Unix()
		}
		desc := strings.TrimSpace(a.Description)
		if desc == "" {
			desc = strings.TrimSpace(a.Content)
		}
		articles = append(articles, Article{
			Title:       a.Title,
			URL:         a.URL,
			Source:      strings.TrimSpace(a.Source.Name),
			PublishedAt: ts,
			Image:       a.URLToImage,
			Description: desc,
		})
	}
	return Payload{OK: true, Articles: articles}, nil
}

// searchTerms favors the company name when the profile source knows it,
// keeping the ticker in the query so results stay on topic.
func (s *Service) searchTerms(ctx context.Context, symbol string) string {
	if s.profiles == nil {
		return symbol
	}
	name, err := s.profiles.CompanyName(ctx, symbol)
	if err != nil || name == "" {
		return symbol
	}
	return fmt.Sprintf("%q OR %s", name, symbol)
}

func (s *Service) get(key cacheKey) (Payload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.cache[key]
	if !ok {
		return Payload{}, false
	}
	if !s.clock().Before(e.validUntil) {
		delete(s.cache, key)
		return Payload{}, false
	}
	return e.payload, true
}

func (s *Service) set(key cacheKey, payload Payload, ttl time.Duration) Payload {
	s.mu.Lock()
	s.cache[key] = cacheEntry{validUntil: s.clock().Add(ttl), payload: payload}
	s.mu.Unlock()
	return payload
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
