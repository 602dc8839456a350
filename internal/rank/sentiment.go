package rank

import (
	"strings"

	"stocklens/internal/news"
)

// HeadlineSentiment scores a headline batch in [-1, 1] with a deliberately
// naive lexicon: +0.1 per "beat", -0.1 per "miss". A richer model can slot
// in behind the same signature.
func HeadlineSentiment(articles []news.Article) float64 {
	score := 0.0
	for _, a := range articles {
		title := strings.ToLower(a.Title)
		if strings.Contains(title, "beat") {
			score += 0.1
		}
		if strings.Contains(title, "miss") {
			score -= 0.1
		}
	}
	return clamp(score)
}
