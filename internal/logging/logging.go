// Package logging provides the structured logger used across the service.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lmittmann/tint"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(New(os.Stderr, slog.LevelInfo, true))
}

// New builds a tint handler backed logger writing to w.
func New(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}))
}

// Init replaces the default logger. Unknown levels fall back to info.
func Init(level string, noColor bool) {
	l := New(os.Stderr, ParseLevel(level), noColor)
	logger.Store(l)
	slog.SetDefault(l)
}

// SetLogger swaps in an existing logger, mostly for tests.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return logger.Load()
}

func Debug(msg string, args ...any) { Logger().Debug(msg, args...) }
func Info(msg string, args ...any)  { Logger().Info(msg, args...) }
func Warn(msg string, args ...any)  { Logger().Warn(msg, args...) }
func Error(msg string, args ...any) { Logger().Error(msg, args...) }

// WithComponent returns a logger tagged with component.
func WithComponent(component string) *slog.Logger {
	return Logger().With("component", component)
}

func DebugWithComponent(component, msg string, args ...any) {
	WithComponent(component).Debug(msg, args...)
}

func InfoWithComponent(component, msg string, args ...any) {
	WithComponent(component).Info(msg, args...)
}

func WarnWithComponent(component, msg string, args ...any) {
	WithComponent(component).Warn(msg, args...)
}

func ErrorWithComponent(component, msg string, args ...any) {
	WithComponent(component).Error(msg, args...)
}
