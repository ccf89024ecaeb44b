package version

import "fmt"

const Name = "hass-render"

// Set at build time with -ldflags "-X .../internal/version.Version=...".
var (
	Version   = "0.1.0"
	BuildTime = "development"
	GitCommit = "unknown"
)

func String() string {
	return fmt.Sprintf("v%s", Version)
}

// UserAgent identifies the server to Home Assistant.
func UserAgent() string {
	return fmt.Sprintf("%s/%s", Name, Version)
}

func Get() map[string]string {
	return map[string]string{
		"name":      Name,
		"version":   Version,
		"buildTime": BuildTime,
		"gitCommit": GitCommit,
	}
}
