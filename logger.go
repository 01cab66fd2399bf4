package imgsearch

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/imgsearch/store"
)

// Logger wraps slog.Logger with imgsearch-specific helpers.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithDatabase adds a database name field to the logger.
func (l *Logger) WithDatabase(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("database", name),
	}
}

// LogBuild logs the outcome of a database build.
func (l *Logger) LogBuild(ctx context.Context, report *store.BuildReport, err error) {
	if report == nil {
		l.ErrorContext(ctx, "build failed",
			"error", err,
		)
		return
	}

	attrs := []any{
		"build", report.ID,
		"total", report.Total,
		"indexed", report.Succeeded(),
		"failed", len(report.Failures),
		"duration", report.Duration,
	}

	switch {
	case err != nil:
		l.ErrorContext(ctx, "build failed", append(attrs, "error", err)...)
	case len(report.Failures) > 0:
		l.WarnContext(ctx, "build completed with failures", attrs...)
	default:
		l.InfoContext(ctx, "build completed", attrs...)
	}
}

// LogSearch logs a search operation.
func (l *Logger) LogSearch(ctx context.Context, results int, cached bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"results", results,
			"cached", cached,
		)
	}
}

// LogSave logs a database save.
func (l *Logger) LogSave(ctx context.Context, name string, entries int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"database", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "database saved",
			"database", name,
			"entries", entries,
		)
	}
}

// LogLoad logs a database load.
func (l *Logger) LogLoad(ctx context.Context, name string, entries int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"database", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "database loaded",
			"database", name,
			"entries", entries,
		)
	}
}
