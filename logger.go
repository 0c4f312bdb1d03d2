package measurestore

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with measurestore-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(columns []string) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", strings.Join(columns, ",")),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogBuild logs store construction.
func (l *Logger) LogBuild(ctx context.Context, records, columns, measures int) {
	l.DebugContext(ctx, "measure store built",
		"records", records,
		"columns", columns,
		"measures", measures,
	)
}

// LogDimension logs the creation of a dimension index.
func (l *Logger) LogDimension(ctx context.Context, columns []string, keys int) {
	l.DebugContext(ctx, "dimension indexed",
		"dimension", strings.Join(columns, ","),
		"keys", keys,
	)
}

// LogFilter logs a filter change.
func (l *Logger) LogFilter(ctx context.Context, columns []string, passing int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "filter failed",
			"dimension", strings.Join(columns, ","),
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "filter applied",
		"dimension", strings.Join(columns, ","),
		"passing", passing,
	)
}

// LogMutation logs records added to or removed from a store.
func (l *Logger) LogMutation(ctx context.Context, op string, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, op+" failed",
			"count", count,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, op+" completed",
		"count", count,
	)
}
