package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"stocklens/internal/news"
	"stocklens/internal/provider"
	"stocklens/internal/rank"
	"stocklens/internal/stocks"

	"github.com/gin-gonic/gin"
)

const defaultCandleCount = 90

// CandleResolver is the candle acquisition chain.
type CandleResolver interface {
	Resolve(ctx context.Context, req provider.Request) (provider.Series, error)
}

// StockService serves the uncached passthrough endpoints.
type StockService interface {
	Quote(ctx context.Context, symbol string) (map[string]any, error)
	Profile(ctx context.Context, symbol string) (map[string]any, error)
	Metrics(ctx context.Context, symbol string) (map[string]any, error)
}

// NewsService serves cached headlines.
type NewsService interface {
	Headlines(ctx context.Context, symbol string, limit int) news.Payload
}

// RankService composes the ranking signal.
type RankService interface {
	One(ctx context.Context, symbol string) (rank.Snapshot, error)
}

// Router exposes the stock data API under /api.
type Router struct {
	candles   CandleResolver
	stocks    StockService
	news      NewsService
	rankings  RankService
	watchlist []string
}

func NewRouter(candles CandleResolver, stockSvc StockService, newsSvc NewsService, rankSvc RankService, watchlist []string) *Router {
	return &Router{
		candles:   candles,
		stocks:    stockSvc,
		news:      newsSvc,
		rankings:  rankSvc,
		watchlist: watchlist,
	}
}

// Register mounts all routes onto the given group.
func (r *Router) Register(api *gin.RouterGroup) {
	if api == nil {
		return
	}
	st := api.Group("/stocks")
	st.GET("/candles", r.handleCandles)
	st.GET("/quote", r.handleQuote)
	st.GET("/profile", r.handleProfile)
	st.GET("/metrics", r.handleMetrics)
	st.GET("/news", r.handleNews)
	st.GET("/watchlist", r.handleWatchlist)
	st.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	if r.rankings != nil {
		api.GET("/rankings/one", r.handleRankOne)
	}
}

func (r *Router) handleCandles(c *gin.Context) {
	symbol, ok := requireSymbol(c)
	if !ok {
		return
	}
	resolution := strings.ToUpper(strings.TrimSpace(c.DefaultQuery("resolution", "D")))
	count, err := strconv.Atoi(c.Query("count"))
	if err != nil || count <= 0 {
		count = defaultCandleCount
	}
	series, rerr := r.candles.Resolve(c.Request.Context(), provider.Request{
		Symbol:     symbol,
		Resolution: resolution,
		Count:      count,
	})
	if rerr != nil {
		respondError(c, rerr)
		return
	}
	c.JSON(http.StatusOK, series)
}

func (r *Router) handleQuote(c *gin.Context) {
	r.passthrough(c, r.stocks.Quote)
}

func (r *Router) handleProfile(c *gin.Context) {
	r.passthrough(c, r.stocks.Profile)
}

func (r *Router) handleMetrics(c *gin.Context) {
	r.passthrough(c, r.stocks.Metrics)
}

func (r *Router) passthrough(c *gin.Context, fetch func(context.Context, string) (map[string]any, error)) {
	symbol, ok := requireSymbol(c)
	if !ok {
		return
	}
	data, err := fetch(c.Request.Context(), symbol)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (r *Router) handleNews(c *gin.Context) {
	symbol, ok := requireSymbol(c)
	if !ok {
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "8"))
	if err != nil {
		limit = 8
	}
	c.JSON(http.StatusOK, r.news.Headlines(c.Request.Context(), symbol, limit))
}

func (r *Router) handleWatchlist(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "symbols": r.watchlist})
}

func (r *Router) handleRankOne(c *gin.Context) {
	symbol, ok := requireSymbol(c)
	if !ok {
		return
	}
	snapshot, err := r.rankings.One(c.Request.Context(), symbol)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func requireSymbol(c *gin.Context) (string, bool) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "symbol required"})
		return "", false
	}
	return symbol, true
}

// respondError maps domain errors onto HTTP statuses: missing credentials
// are the caller's problem (400), upstream failures that escaped the
// fallback chain are a bad gateway (502) carrying the upstream status when
// one is known.
func respondError(c *gin.Context, err error) {
	var provErr *provider.Error
	switch {
	case errors.Is(err, stocks.ErrNoAPIKey):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.As(err, &provErr):
		status := provErr.Status
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"ok": false, "error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
	}
}
