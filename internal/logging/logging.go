// Package logging builds the structured logger used as the diagnostic sink.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/studiowebux/moviecli/internal/config"
)

// Options selects the handler format, level and destination
type Options struct {
	Format string // text or json
	Level  string // debug, info, warn, error
	Writer io.Writer
}

// ParseLevel converts a level name to a slog.Level (default info)
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

// New returns a logger writing to opts.Writer (stderr when nil)
func New(opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(opts.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q (use text or json)", opts.Format)
}

// NewFile returns a logger appending to config.LogFile, for use while the
// TUI owns the terminal. The returned closer releases the file.
func NewFile(opts Options) (*slog.Logger, io.Closer, error) {
	f, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, config.FilePermissions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	opts.Writer = f
	logger, err := New(opts)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, f, nil
}
