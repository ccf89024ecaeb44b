package config

import (
	"errors"
	"fmt"
	"net/url"
	"runtime"
	"strings"
	"time"
)

// ErrMissingToken is returned by Load when no Home Assistant token is configured.
var ErrMissingToken = errors.New("HA_TOKEN (or HA_TOKEN_FILE) is required")

// Config is the resolved server configuration.
type Config struct {
	Port     string
	GinMode  string
	LogLevel string
	NoColor  bool

	HAURL            string
	HAToken          string
	HATimeout        time.Duration
	HAMaxConcurrency int

	RenderWorkers int
	RenderQueue   int
	ThemeFile     string

	CacheMaxAge   int
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RateLimitPerMinute int
	RateLimitBurst     int

	ShutdownTimeout time.Duration
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     Get("PORT", "3000"),
		GinMode:  Get("GIN_MODE", "release"),
		LogLevel: Get("LOG_LEVEL", "info"),
		NoColor:  GetBool("NO_COLOR", false),

		HAURL:            strings.TrimRight(Get("HA_URL", "http://localhost:8123"), "/"),
		HAToken:          Get("HA_TOKEN", ""),
		HATimeout:        GetDuration("HA_TIMEOUT", 10*time.Second),
		HAMaxConcurrency: GetInt("HA_MAX_CONCURRENCY", 4),

		RenderWorkers: GetInt("RENDER_WORKERS", runtime.NumCPU()),
		RenderQueue:   GetInt("RENDER_QUEUE", 32),
		ThemeFile:     Get("THEME_FILE", ""),

		CacheMaxAge:   GetInt("CACHE_MAX_AGE", 300),
		RedisAddr:     Get("REDIS_ADDR", ""),
		RedisPassword: Get("REDIS_PASSWORD", ""),
		RedisDB:       GetInt("REDIS_DB", 0),
		CacheTTL:      GetDuration("CACHE_TTL", 5*time.Minute),

		RateLimitPerMinute: GetInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitBurst:     GetInt("RATE_LIMIT_BURST", 20),

		ShutdownTimeout: GetDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.HAToken == "" {
		return nil, ErrMissingToken
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.HAURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("HA_URL %q must be an absolute http(s) URL", c.HAURL)
	}
	if c.HATimeout <= 0 {
		return fmt.Errorf("HA_TIMEOUT must be positive, got %s", c.HATimeout)
	}
	if c.HAMaxConcurrency < 1 {
		c.HAMaxConcurrency = 1
	}
	if c.RenderWorkers < 1 {
		c.RenderWorkers = 1
	}
	if c.RenderQueue < 0 {
		c.RenderQueue = 0
	}
	if c.CacheMaxAge < 0 {
		return fmt.Errorf("CACHE_MAX_AGE must not be negative, got %d", c.CacheMaxAge)
	}
	if c.RateLimitBurst < 1 {
		c.RateLimitBurst = 1
	}
	return nil
}

// CacheEnabled reports whether a Redis address was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}
