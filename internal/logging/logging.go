// Package logging builds the process-wide slog logger. Every handler is
// wrapped in a RedactingHandler so bot tokens and OAuth credentials never
// reach log output, regardless of where the log call originates.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options controls logger construction.
type Options struct {
	// Level is the minimum level: debug, info, warn, or error. Empty means info.
	Level string

	// Format selects the handler: "json" or "text". Empty means text.
	Format string

	// Output defaults to os.Stderr.
	Output io.Writer
}

// New builds a redacting logger and returns it together with the redactor,
// so modules can register runtime secrets via AddLiteral.
func New(opts Options) (*slog.Logger, *Redactor) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var inner slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		inner = slog.NewJSONHandler(out, handlerOpts)
	} else {
		inner = slog.NewTextHandler(out, handlerOpts)
	}

	redactor := NewRedactor()
	return slog.New(NewRedactingHandler(inner, redactor)), redactor
}

// ParseLevel maps a config level string to a slog.Level. Unknown values
// fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
