package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New constructs a text logger on stderr with the level taken from
// LOG_LEVEL.
func New(component string) *slog.Logger {
	return NewWithWriter(os.Stderr, os.Getenv("LOG_LEVEL"), component)
}

// NewWithWriter constructs a text logger writing to w at the given level.
func NewWithWriter(w io.Writer, level, component string) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(h).With("component", component)
}

// ForTUI returns a logger that stays off the terminal: it appends to
// LOG_FILE when set and discards otherwise. The returned closer releases
// the file.
func ForTUI(component string) (*slog.Logger, func() error, error) {
	path := os.Getenv("LOG_FILE")
	if path == "" {
		return slog.New(slog.DiscardHandler), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return NewWithWriter(f, os.Getenv("LOG_LEVEL"), component), f.Close, nil
}

// ParseLevel maps debug|info|warn|error to a slog level, defaulting to info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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
