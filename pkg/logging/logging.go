// Package logging builds the slog loggers used by the runtime and the CLI.
//
// Output goes to a single writer, stderr by default. The format is chosen
// from the destination: human-readable text on a terminal, JSON otherwise,
// unless the caller pins one.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Format selects the record encoding.
type Format string

const (
	// FormatAuto picks text on a terminal and JSON otherwise.
	FormatAuto Format = "auto"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config configures New.
type Config struct {
	// Level is the minimum level written.
	Level slog.Level
	// Format selects the encoding. The zero value means FormatAuto.
	Format Format
	// Output receives the records. Nil means os.Stderr.
	Output io.Writer
	// Component, when set, is attached to every record.
	Component string
}

// New returns a logger for cfg.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	if resolveFormat(cfg.Format, out) == FormatJSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	logger := slog.New(handler)
	if cfg.Component != "" {
		logger = logger.With("component", cfg.Component)
	}
	return logger
}

// Default returns an info-level logger writing to stderr.
func Default() *slog.Logger {
	return New(Config{Level: slog.LevelInfo})
}

// ParseLevel converts a level name ("debug", "info", "warn", "error") to a
// slog level. The empty string means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// ParseFormat validates a format name. The empty string means FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatText, FormatJSON:
		return f, nil
	default:
		return FormatAuto, fmt.Errorf("unknown log format %q", s)
	}
}

func resolveFormat(f Format, out io.Writer) Format {
	switch f {
	case FormatText, FormatJSON:
		return f
	}
	if IsTerminal(out) {
		return FormatText
	}
	return FormatJSON
}

// IsTerminal reports whether w is a terminal (including Cygwin/MSYS ptys).
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
