package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server settings
	Port         string
	FeedPath     string // local feed document served at /news.json
	FeedUpstream string // optional upstream feed URL to proxy instead
	FeedCacheTTL time.Duration
	FeedFilePath string  // last-known-good feed snapshot
	FeedMaxAge   time.Duration
	ProxyRate    float64 // upstream fetches per second
	ProxyBurst   int

	// Widget settings
	FeedURL              string // URL the widget fetches; empty derives it from Port
	Target               string
	Height               int
	MaxItems             int
	EnableSearch         bool
	EnableInfiniteScroll bool
	DebounceInterval     time.Duration
	RequestTimeout       time.Duration

	// Export settings
	ExportRulesPath string
	ExportMaxItems  int

	// App settings
	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		Port:                 "8080",
		FeedPath:             "public/news.json",
		FeedCacheTTL:         5 * time.Minute,
		FeedFilePath:         "last_feed.json",
		FeedMaxAge:           72 * time.Hour,
		ProxyRate:            1,
		ProxyBurst:           3,
		Target:               "#vetmed-news",
		Height:               500,
		EnableSearch:         true,
		EnableInfiniteScroll: true,
		DebounceInterval:     200 * time.Millisecond,
		RequestTimeout:       15 * time.Second,
		ExportMaxItems:       100,
	}

	// Load from environment
	cfg.Port = getEnvOrDefault("PORT", cfg.Port)
	cfg.FeedPath = getEnvOrDefault("FEED_PATH", cfg.FeedPath)
	cfg.FeedUpstream = os.Getenv("FEED_UPSTREAM")
	cfg.FeedFilePath = getEnvOrDefault("FEED_FILE_PATH", cfg.FeedFilePath)
	cfg.FeedURL = os.Getenv("WIDGET_FEED_URL")
	cfg.Target = getEnvOrDefault("WIDGET_TARGET", cfg.Target)
	cfg.ExportRulesPath = os.Getenv("EXPORT_RULES_PATH")

	cfg.Height = getEnvIntOrDefault("WIDGET_HEIGHT", cfg.Height)
	cfg.MaxItems = getEnvIntOrDefault("WIDGET_MAX_ITEMS", cfg.MaxItems)
	cfg.ExportMaxItems = getEnvIntOrDefault("EXPORT_MAX_ITEMS", cfg.ExportMaxItems)
	cfg.ProxyBurst = getEnvIntOrDefault("PROXY_BURST", cfg.ProxyBurst)

	if v := os.Getenv("PROXY_RATE"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil && val > 0 {
			cfg.ProxyRate = val
		}
	}
	if v := os.Getenv("FEED_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.FeedCacheTTL = d
		}
	}
	if v := os.Getenv("FEED_MAX_AGE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.FeedMaxAge = d
		}
	}
	if v := os.Getenv("WIDGET_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.DebounceInterval = d
		}
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RequestTimeout = d
		}
	}

	if v := os.Getenv("WIDGET_SEARCH"); v != "" {
		cfg.EnableSearch = v == "true"
	}
	if v := os.Getenv("WIDGET_INFINITE_SCROLL"); v != "" {
		cfg.EnableInfiniteScroll = v == "true"
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.Height <= 0 {
		return fmt.Errorf("WIDGET_HEIGHT must be positive")
	}
	if c.MaxItems < 0 {
		return fmt.Errorf("WIDGET_MAX_ITEMS must not be negative")
	}
	if c.FeedPath == "" && c.FeedUpstream == "" {
		return fmt.Errorf("one of FEED_PATH or FEED_UPSTREAM is required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric")
	}
	return nil
}
