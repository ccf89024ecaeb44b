package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HA_TOKEN", "secret")
	for _, k := range []string{"PORT", "HA_URL", "HA_TIMEOUT", "CACHE_MAX_AGE", "REDIS_ADDR", "RENDER_QUEUE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want 3000", cfg.Port)
	}
	if cfg.HAURL != "http://localhost:8123" {
		t.Errorf("HAURL = %q", cfg.HAURL)
	}
	if cfg.HATimeout != 10*time.Second {
		t.Errorf("HATimeout = %s", cfg.HATimeout)
	}
	if cfg.CacheMaxAge != 300 {
		t.Errorf("CacheMaxAge = %d, want 300", cfg.CacheMaxAge)
	}
	if cfg.RenderQueue != 32 {
		t.Errorf("RenderQueue = %d, want 32", cfg.RenderQueue)
	}
	if cfg.CacheEnabled() {
		t.Error("cache enabled without REDIS_ADDR")
	}
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("HA_TOKEN", "")
	t.Setenv("HA_TOKEN_FILE", "")

	if _, err := Load(); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("Load err = %v, want ErrMissingToken", err)
	}
}

func TestLoadTokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HA_TOKEN", "")
	t.Setenv("HA_TOKEN_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HAToken != "from-file" {
		t.Errorf("HAToken = %q, want from-file", cfg.HAToken)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HA_TOKEN", "secret")
	t.Setenv("HA_URL", "https://ha.example.com/")
	t.Setenv("HA_TIMEOUT", "3s")
	t.Setenv("RENDER_WORKERS", "0")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL", "1d")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HAURL != "https://ha.example.com" {
		t.Errorf("HAURL = %q, trailing slash not trimmed", cfg.HAURL)
	}
	if cfg.HATimeout != 3*time.Second {
		t.Errorf("HATimeout = %s", cfg.HATimeout)
	}
	if cfg.RenderWorkers != 1 {
		t.Errorf("RenderWorkers = %d, want clamp to 1", cfg.RenderWorkers)
	}
	if !cfg.CacheEnabled() {
		t.Error("cache disabled with REDIS_ADDR set")
	}
	if cfg.CacheTTL != 24*time.Hour {
		t.Errorf("CacheTTL = %s", cfg.CacheTTL)
	}
}

func TestLoadRejectsBadURL(t *testing.T) {
	t.Setenv("HA_TOKEN", "secret")
	t.Setenv("HA_URL", "ftp://ha")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-http HA_URL")
	}
}

func TestGetFileFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v")
	if err := os.WriteFile(path, []byte("  42 "), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SOME_NUMBER", "")
	t.Setenv("SOME_NUMBER_FILE", path)

	if got := GetInt("SOME_NUMBER", 7); got != 42 {
		t.Errorf("GetInt = %d, want 42", got)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"5m", 5 * time.Minute},
		{"2d", 48 * time.Hour},
		{" 10S ", 10 * time.Second},
		{"30", 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if err != nil {
				t.Fatalf("ParseDuration(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseDuration(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
