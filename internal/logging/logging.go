// Package logging builds the application's *slog.Logger.
//
// The logger is created once in main and injected into every component that
// needs it (server, handlers, services, middleware). Nothing in this module
// calls slog.Default, so tests can hand each component its own logger and
// inspect what it wrote.
//
// OUTPUT CHANNELS:
// Every record goes to the console (stdout). When a log file is configured,
// the same record is also appended to that file. slog handlers write each
// record with a single Write call, so io.MultiWriter keeps lines intact.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options configures New.
type Options struct {
	Level  string    // debug, info, warn, error
	Format string    // text or json
	File   string    // optional file path
	Stdout io.Writer // defaults to os.Stdout
}

// New returns a logger and a close function releasing the log file (a no-op
// when no file is configured). Callers should defer the close function.
func New(opts Options) (*slog.Logger, func() error, error) {
	console := opts.Stdout
	if console == nil {
		console = os.Stdout
	}

	out := console
	closeFn := func() error { return nil }

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: creating log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("logging: opening log file: %w", err)
		}
		out = io.MultiWriter(console, f)
		closeFn = f.Close
	}

	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var h slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		h = slog.NewJSONHandler(out, handlerOpts)
	} else {
		h = slog.NewTextHandler(out, handlerOpts)
	}

	return slog.New(h), closeFn, nil
}

// ParseLevel maps a level name to a slog.Level. Unknown names fall back to
// Info; config.Parse has already rejected them at startup.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
