package strigo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with strigo-specific context.
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithRows adds a row count field to the logger.
func (l *Logger) WithRows(rows int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rows", rows),
	}
}

// WithPrefix adds a key prefix field to the logger.
func (l *Logger) WithPrefix(prefix string) *Logger {
	return &Logger{
		Logger: l.Logger.With("prefix", prefix),
	}
}

// LogBuild logs a build operation.
func (l *Logger) LogBuild(ctx context.Context, rows, distinct int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed",
			"rows", rows,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "build completed",
			"rows", rows,
			"distinct", distinct,
		)
	}
}

// LogLoad logs a load operation.
func (l *Logger) LogLoad(ctx context.Context, rows, distinct int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "load completed",
			"rows", rows,
			"distinct", distinct,
		)
	}
}

// LogSerialize logs a serialize operation.
func (l *Logger) LogSerialize(ctx context.Context, blobs int, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "serialize failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "serialize completed",
			"blobs", blobs,
			"bytes", bytes,
		)
	}
}

// LogSave logs a save to a file or blob store.
func (l *Logger) LogSave(ctx context.Context, dest string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"dest", dest,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "index saved",
			"dest", dest,
		)
	}
}

// LogOpen logs an open from a file or blob store.
func (l *Logger) LogOpen(ctx context.Context, source string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed",
			"source", source,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "index opened",
			"source", source,
		)
	}
}

// LogQuery logs a query operation.
func (l *Logger) LogQuery(op string, matched uint64, err error) {
	if err != nil {
		l.Error("query failed",
			"op", op,
			"error", err,
		)
	} else {
		l.Debug("query completed",
			"op", op,
			"matched", matched,
		)
	}
}
