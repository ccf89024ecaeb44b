// Package config reads server settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// lookup returns the value of key. When key is unset and key+"_FILE" names a
// readable file, the trimmed file contents are used instead, which lets
// secrets such as HA_TOKEN come from mounted files.
func lookup(key string) (string, bool) {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val, true
	}
	if path := os.Getenv(key + "_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if val := strings.TrimSpace(string(data)); val != "" {
				return val, true
			}
		}
	}
	return "", false
}

// Get returns the value of key, or def when it is unset.
func Get(key, def string) string {
	if val, ok := lookup(key); ok {
		return val
	}
	return def
}

// GetInt returns key as an integer. Unset or unparsable values yield def.
func GetInt(key string, def int) int {
	if val, ok := lookup(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

// GetBool returns key as a boolean. Recognised values are 1/t/true/y/yes
// and 0/f/false/n/no, case-insensitive; anything else yields def.
func GetBool(key string, def bool) bool {
	if val, ok := lookup(key); ok {
		switch strings.ToLower(val) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

// ParseDuration accepts Go durations ("90s", "5m"), a day suffix ("2d") and
// bare integers, which are read as seconds.
func ParseDuration(s string) (time.Duration, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(lower); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	if days, ok := strings.CutSuffix(lower, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil {
			return time.Duration(n) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(lower)
}

// GetDuration returns key parsed with ParseDuration, or def.
func GetDuration(key string, def time.Duration) time.Duration {
	if val, ok := lookup(key); ok {
		if d, err := ParseDuration(val); err == nil {
			return d
		}
	}
	return def
}
