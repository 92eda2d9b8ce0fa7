// Package logging builds the service's slog loggers and moves them through
// request contexts.
//
// Construction:
//
//	logger := logging.New("info", "json", os.Stderr)
//
// The logging middleware stores a request-scoped child logger with
// WithLogger; services and stores pick it up with FromContext so that every
// record carries request_id and correlation_id.
//
// Service-layer errors follow one shape: the operation name, the entity IDs
// involved, and the full chain under "error":
//
//	logger.ErrorContext(ctx, "failed to update sprint",
//	    slog.String("operation", "Update"),
//	    slog.String("sprint_id", sprintID.String()),
//	    slog.Any("error", err),
//	)
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

type contextKey struct{}

// New builds a *slog.Logger. level is one of "debug", "info", "warn",
// "error"; anything else means info. format "text" selects the text handler,
// everything else gets JSON. Debug level also turns on source locations.
// All handlers share the credential-redacting ReplaceAttr from this package.
func New(level, format string, w io.Writer) *slog.Logger {
	lvl := parseLevel(level)

	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl == slog.LevelDebug,
		ReplaceAttr: newRedactAttr(),
	}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// WithLogger stores a logger in the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the context's logger, falling back to slog.Default()
// when none was stored.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
