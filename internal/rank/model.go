package rank

import (
	"math"

	"github.com/shopspring/decimal"
)

// Community-first weighting: the community stance signal deliberately
// outweighs news and price action.
var weights = map[string]decimal.Decimal{
	"community":    dec("0.5"),
	"news":         dec("0.3"),
	"price_change": dec("0.2"),
}

// Features are the normalized ranking inputs, each clamped to [-1, 1].
type Features map[string]float64

// ComputeFeatures derives features from the quote percent change (dp),
// the community stance score and the headline sentiment.
func ComputeFeatures(pctChange, communityScore, newsSentiment float64) Features {
	return Features{
		"price_change": clamp(pctChange / 10.0),
		"community":    clamp(communityScore),
		"news":         clamp(newsSentiment),
	}
}

// Explanation is a scored ranking with its per-feature breakdown.
type Explanation struct {
	Score         float64            `json:"score"`
	Label         string             `json:"label"`
	Features      Features           `json:"features"`
	Contributions map[string]float64 `json:"contributions"`
}

// Explain computes the weighted score and the contribution of each feature,
// both rounded to four places.
func Explain(f Features) Explanation {
	score := decimal.Zero
	contributions := make(map[string]float64, len(weights))
	for name, w := range weights {
		c := w.Mul(decimal.NewFromFloat(f[name]))
		contributions[name] = c.Round(4).InexactFloat64()
		score = score.Add(c)
	}
	rounded := score.Round(4).InexactFloat64()
	return Explanation{
		Score:         rounded,
		Label:         Label(rounded),
		Features:      f,
		Contributions: contributions,
	}
}

// Label buckets a score into the dashboard's call to action.
func Label(score float64) string {
	switch {
	case score >= 0.70:
		return "Strong Buy"
	case score >= 0.45:
		return "Buy"
	case score >= 0.30:
		return "Hold"
	default:
		return "Avoid"
	}
}

func clamp(v float64) float64 {
	return math.Max(-1.0, math.Min(1.0, v))
}

func dec(value string) decimal.Decimal {
	out, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return out
}
