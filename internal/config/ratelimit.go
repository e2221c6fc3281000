package config

import (
	"strconv"
	"time"
)

// RateLimitConfig defines settings for the fixed-window request limiter
// applied to the auth endpoints.  Limit requests per Window per client
// IP; exceeding it yields 429 until the window rolls over.
type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Window  time.Duration
	Prefix  string
}

// LoadRateLimitConfig reads environment variables to build a
// RateLimitConfig with sane defaults (20 requests per minute).
func LoadRateLimitConfig() RateLimitConfig {
	limit, err := strconv.Atoi(getenv("RATE_LIMIT", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	window := parseDur(getenv("RATE_WINDOW", "1m"))
	if window <= 0 {
		window = time.Minute
	}
	return RateLimitConfig{
		Enabled: getenv("RATE_LIMIT_ENABLED", "true") == "true",
		Limit:   limit,
		Window:  window,
		Prefix:  getenv("RATE_PREFIX", "rl"),
	}
}
