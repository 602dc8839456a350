package config

import (
	"fmt"
	"sync"
	"time"

	"stocklens/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration. Every field can come from the
// optional YAML file or from the environment variables the service has
// always honored (FINNHUB_KEY, DEMO_MODE, FINN_MIN_GAP, CANDLE_*_TTL, ...).
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Finnhub   FinnhubConfig   `mapstructure:"finnhub"`
	Yahoo     YahooConfig     `mapstructure:"yahoo"`
	News      NewsConfig      `mapstructure:"news"`
	Candles   CandleTTLConfig `mapstructure:"candles"`
	Breaker   BreakerConfig   `mapstructure:"breaker"`
	Watchlist WatchlistConfig `mapstructure:"watchlist"`
	DemoMode  bool            `mapstructure:"demo_mode"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
	HTTPAddr string `mapstructure:"http_addr"`
}

type FinnhubConfig struct {
	APIKey        string  `mapstructure:"api_key"`
	BaseURL       string  `mapstructure:"base_url"`
	MinGapSeconds float64 `mapstructure:"min_gap_seconds"`
}

// MinGap returns the inter-call gap as a duration.
func (f FinnhubConfig) MinGap() time.Duration {
	return time.Duration(f.MinGapSeconds * float64(time.Second))
}

type YahooConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type NewsConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// CandleTTLConfig holds per-resolution cache TTLs in seconds. A zero value
// for D/W/M means "valid until the next market close".
type CandleTTLConfig struct {
	Intraday int `mapstructure:"ttl_60"`
	Daily    int `mapstructure:"ttl_d"`
	Weekly   int `mapstructure:"ttl_w"`
	Monthly  int `mapstructure:"ttl_m"`
}

type BreakerConfig struct {
	Threshold      int `mapstructure:"threshold"`
	CooloffSeconds int `mapstructure:"cooloff_seconds"`
}

type WatchlistConfig struct {
	Path string `mapstructure:"path"`
}

// Loader owns the viper instance so the config file can be watched for
// changes after startup.
type Loader struct {
	v    *viper.Viper
	path string

	mu  sync.RWMutex
	cfg *Config
}

// Load reads the optional YAML file at path (empty path means environment
// only), applies env bindings and defaults, and validates the result.
func Load(path string) (*Loader, error) {
	v := viper.New()
	setDefaults(v)
	bindEnv(v)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
		}
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	return &Loader{v: v, path: path, cfg: cfg}, nil
}

// Config returns the current snapshot.
func (l *Loader) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// DemoMode reports the current demo flag; safe to call from any goroutine.
func (l *Loader) DemoMode() bool {
	return l.Config().DemoMode
}

// Watch re-reads the config file on filesystem events and swaps the
// snapshot. onChange (optional) runs after each successful reload. No-op
// when the loader was built from environment only.
func (l *Loader) Watch(onChange func(*Config)) {
	if l.path == "" {
		return
	}
	l.v.OnConfigChange(func(evt fsnotify.Event) {
		cfg, err := decode(l.v)
		if err != nil {
			logger.Errorf("config reload failed (%s): %v", evt.Name, err)
			return
		}
		l.mu.Lock()
		l.cfg = cfg
		l.mu.Unlock()
		logger.Infof("config reloaded (demo_mode=%v log_level=%s)", cfg.DemoMode, cfg.App.LogLevel)
		if onChange != nil {
			onChange(cfg)
		}
	})
	l.v.WatchConfig()
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.http_addr", ":5001")
	v.SetDefault("finnhub.base_url", "https://finnhub.io/api/v1")
	v.SetDefault("finnhub.min_gap_seconds", 0.40)
	v.SetDefault("yahoo.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("news.base_url", "https://newsapi.org/v2")
	v.SetDefault("candles.ttl_60", 1800)
	v.SetDefault("candles.ttl_d", 0)
	v.SetDefault("candles.ttl_w", 0)
	v.SetDefault("candles.ttl_m", 0)
	v.SetDefault("breaker.threshold", 5)
	v.SetDefault("breaker.cooloff_seconds", 60)
	v.SetDefault("demo_mode", false)
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("app.http_addr", "HTTP_ADDR")
	_ = v.BindEnv("app.log_level", "LOG_LEVEL")
	_ = v.BindEnv("finnhub.api_key", "FINNHUB_KEY", "FINNHUB_API_KEY")
	_ = v.BindEnv("finnhub.min_gap_seconds", "FINN_MIN_GAP")
	_ = v.BindEnv("news.api_key", "NEWSAPI_KEY")
	_ = v.BindEnv("demo_mode", "DEMO_MODE")
	_ = v.BindEnv("candles.ttl_60", "CANDLE_60_TTL")
	_ = v.BindEnv("candles.ttl_d", "CANDLE_D_TTL")
	_ = v.BindEnv("candles.ttl_w", "CANDLE_W_TTL")
	_ = v.BindEnv("candles.ttl_m", "CANDLE_M_TTL")
	_ = v.BindEnv("watchlist.path", "WATCHLIST_PATH")
}

func validate(cfg *Config) error {
	if cfg.Finnhub.MinGapSeconds < 0 {
		return fmt.Errorf("finnhub.min_gap_seconds must not be negative")
	}
	if cfg.Candles.Intraday < 0 || cfg.Candles.Daily < 0 || cfg.Candles.Weekly < 0 || cfg.Candles.Monthly < 0 {
		return fmt.Errorf("candle TTLs must not be negative")
	}
	if cfg.Breaker.Threshold < 1 {
		return fmt.Errorf("breaker.threshold must be at least 1")
	}
	return nil
}
