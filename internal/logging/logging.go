// Package logging configures the process-wide slog logger. The terminal UI
// owns stdout, so logs go to a file unless a writer is supplied.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ParseLevel converts a level name (trace is accepted as debug) into a
// slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "INFO":
		return slog.LevelInfo, nil
	case "TRACE", "DEBUG":
		return slog.LevelDebug, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return New(io.Discard, slog.LevelError+1)
}

// Setup opens the log file named by CROPYIELD_LOG_FILE (or the default
// state path), installs the logger as slog's default and returns it with
// a close function.
func Setup() (*slog.Logger, func() error, error) {
	level, err := ParseLevel(os.Getenv("CROPYIELD_LOG_LEVEL"))
	if err != nil {
		return nil, nil, err
	}

	path, err := DefaultLogPath()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := New(f, level)
	slog.SetDefault(logger)
	return logger, f.Close, nil
}

// DefaultLogPath resolves the log file path in priority order:
// 1. CROPYIELD_LOG_FILE environment variable
// 2. $XDG_STATE_HOME/cropyield/cropyield.log
// 3. ~/.local/state/cropyield/cropyield.log
func DefaultLogPath() (string, error) {
	p := os.Getenv("CROPYIELD_LOG_FILE")
	if p == "" {
		stateHome := os.Getenv("XDG_STATE_HOME")
		if stateHome == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home dir: %w", err)
			}
			stateHome = filepath.Join(home, ".local", "state")
		}
		p = filepath.Join(stateHome, "cropyield", "cropyield.log")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	return p, nil
}
