package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultWatchlist backs the dashboard when no watchlist file is configured.
var defaultWatchlist = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "TSLA"}

type watchlistFile struct {
	Symbols []string `yaml:"symbols"`
}

// LoadWatchlist reads the YAML watchlist at path and returns its tickers
// uppercased and deduplicated. An empty path yields the built-in default.
func LoadWatchlist(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return append([]string(nil), defaultWatchlist...), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading watchlist failed: %w", err)
	}
	var file watchlistFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing watchlist failed: %w", err)
	}
	seen := make(map[string]struct{}, len(file.Symbols))
	out := make([]string, 0, len(file.Symbols))
	for _, s := range file.Symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("watchlist %s contains no symbols", path)
	}
	return out, nil
}
