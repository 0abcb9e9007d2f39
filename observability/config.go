package observability

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/baerwang/openapi-rs/internal/options"
)

// LevelTrace sits below debug for very chatty output.
const LevelTrace = slog.LevelDebug - 4

// Config describes where log records go.
type Config struct {
	// Level is one of trace, debug, info, warn or error. Empty means info.
	Level string
	// LogFile, when set, receives every record in append mode. Missing
	// parent directories are created.
	LogFile string
	// ConsoleOutput writes records to Console.
	ConsoleOutput bool
	// Console defaults to os.Stderr.
	Console io.Writer
	// ShowTimestamp prefixes lines with the record time.
	ShowTimestamp bool
}

// DefaultConfig logs info and above to stderr with timestamps.
func DefaultConfig() Config {
	return Config{
		Level:         "info",
		ConsoleOutput: true,
		ShowTimestamp: true,
	}
}

// ParseLevel converts a level name, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, options.InvalidOption("level", s, "must be one of trace, debug, info, warn, error")
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds a logger from cfg. The returned Closer releases the log
// file and is never nil.
func NewLogger(cfg Config) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	handlerOpts := &LineHandlerOptions{Level: level, ShowTimestamp: cfg.ShowTimestamp}

	var handlers []slog.Handler
	var closer io.Closer = nopCloser{}

	if cfg.LogFile != "" {
		if dir := filepath.Dir(cfg.LogFile); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("observability: failed to create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("observability: failed to open log file: %w", err)
		}
		closer = f
		handlers = append(handlers, NewLineHandler(f, handlerOpts))
	}

	if cfg.ConsoleOutput {
		console := cfg.Console
		if console == nil {
			console = os.Stderr
		}
		handlers = append(handlers, NewLineHandler(console, handlerOpts))
	}

	return slog.New(&multiHandler{handlers: handlers}), closer, nil
}
