package rank

import (
	"context"
	"strings"

	"stocklens/internal/logger"
	"stocklens/internal/news"

	"golang.org/x/sync/errgroup"
)

const rankingHeadlines = 8

// CommunityScorer supplies the community stance signal in [-1, 1]. The
// implementation lives outside this service; a neutral default keeps the
// ranking functional without one.
type CommunityScorer interface {
	Score(ctx context.Context, symbol string) (float64, error)
}

// NeutralCommunity is the default scorer: no community signal, score 0.
type NeutralCommunity struct{}

func (NeutralCommunity) Score(context.Context, string) (float64, error) {
	return 0, nil
}

type quoteSource interface {
	Quote(ctx context.Context, symbol string) (map[string]any, error)
}

type headlineSource interface {
	Headlines(ctx context.Context, symbol string, limit int) news.Payload
}

// Snapshot is one symbol's ranking with its inputs exposed.
type Snapshot struct {
	Explanation
	Symbol         string  `json:"symbol"`
	NewsSentiment  float64 `json:"newsSentiment"`
	CommunityScore float64 `json:"communityScore"`
}

// Service composes quote, headline and community signals into a weighted
// ranking.
type Service struct {
	quotes    quoteSource
	headlines headlineSource
	community CommunityScorer
}

func NewService(quotes quoteSource, headlines headlineSource, community CommunityScorer) *Service {
	if community == nil {
		community = NeutralCommunity{}
	}
	return &Service{quotes: quotes, headlines: headlines, community: community}
}

// One ranks a single symbol. The quote and headlines are fetched
// concurrently; a quote failure fails the ranking, a community-score
// failure degrades to neutral.
func (s *Service) One(ctx context.Context, symbol string) (Snapshot, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	var (
		quote     map[string]any
		articles  []news.Article
		community float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q, err := s.quotes.Quote(gctx, symbol)
		if err != nil {
			return err
		}
		quote = q
		return nil
	})
	g.Go(func() error {
		articles = s.headlines.Headlines(gctx, symbol, rankingHeadlines).Articles
		return nil
	})
	g.Go(func() error {
		score, err := s.community.Score(gctx, symbol)
		if err != nil {
			logger.Warnf("community score for %s failed, using neutral: %v", symbol, err)
			return nil
		}
		community = score
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	newsSentiment := HeadlineSentiment(articles)
	features := ComputeFeatures(toFloat(quote["dp"]), community, newsSentiment)
	return Snapshot{
		Explanation:    Explain(features),
		Symbol:         symbol,
		NewsSentiment:  newsSentiment,
		CommunityScore: community,
	}, nil
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}
