// Package logger wraps log/slog with the level handling used across the
// newsticker commands.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is a leveled structured logger.
type Logger struct {
	internal *slog.Logger
	level    *slog.LevelVar
}

// ParseLevel maps a config string to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

// New creates a text logger on stderr. Unknown levels fall back to info.
func New(level string) *Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a text logger writing to w.
func NewWithWriter(w io.Writer, level string) *Logger {
	lvl := new(slog.LevelVar)
	parsed, _ := ParseLevel(level)
	lvl.Set(parsed)

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return &Logger{internal: slog.New(handler), level: lvl}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWithWriter(io.Discard, "error")
}

func (l *Logger) Debug(msg string, args ...any) { l.internal.Debug(msg, args...) }

func (l *Logger) Info(msg string, args ...any) { l.internal.Info(msg, args...) }

func (l *Logger) Warn(msg string, args ...any) { l.internal.Warn(msg, args...) }

func (l *Logger) Error(msg string, args ...any) { l.internal.Error(msg, args...) }

// With returns a child logger carrying the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{internal: l.internal.With(args...), level: l.level}
}

// SetLevel changes the level of this logger and every child.
func (l *Logger) SetLevel(level slog.Level) { l.level.Set(level) }

// Slog exposes the underlying slog.Logger.
func (l *Logger) Slog() *slog.Logger { return l.internal }
