// Package logging defines the structured-logging interface used across the
// client, with slog and zerolog backed implementations.
package logging

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "request done", "method", "GET", "status", 200)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Output formats accepted by New.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New builds a Logger writing to w. "text" and "json" are served by slog,
// "console" by zerolog's human-friendly writer. Level is one of debug, info,
// warn, error.
func New(format, level string, w io.Writer) (Logger, error) {
	switch strings.ToLower(format) {
	case "", FormatText, FormatJSON:
		return newSlog(strings.ToLower(format), level, w)
	case FormatConsole:
		return newZerolog(level, w)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	l, _ := newSlog(FormatText, "error", io.Discard)
	return l
}
