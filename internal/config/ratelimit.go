package config

import "time"

// RateLimitConfig controls the fixed-window request limiter. Limit is the
// number of requests allowed per Window for a single client/route pair.
type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Window  time.Duration
	Prefix  string
}

// LoadRateLimitConfig reads environment variables to build a
// RateLimitConfig, falling back to defaults that suit a small internal API.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: getenv("RATE_LIMIT_ENABLED", "true") == "true",
		Limit:   atoi(getenv("RATE_LIMIT_LIMIT", "60")),
		Window:  parseDur(getenv("RATE_LIMIT_WINDOW", "1m")),
		Prefix:  getenv("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Limit < 1 {
		cfg.Limit = 1
	}
	// The limiter buckets time by whole windows, so anything under a
	// second is clamped up rather than allowed to produce empty buckets.
	if cfg.Window < time.Second {
		cfg.Window = time.Minute
	}
	return cfg
}
