package observability

import (
	"context"
	"io"
	"log/slog"

	"git.home.luguber.info/inful/sitekiln/internal/config"
	"git.home.luguber.info/inful/sitekiln/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	SessionID string
	Mode      config.Mode
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// NewLogger builds a slog.Logger for the configured level and format.
func NewLogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: Level(cfg.Level)}
	if cfg.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Level converts a configured level to a slog level.
func Level(l config.LogLevel) slog.Level {
	switch l {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithSession stores the session identity in ctx.
func WithSession(ctx context.Context, sessionID string, mode config.Mode) context.Context {
	return context.WithValue(ctx, logContextKey, LogContext{SessionID: sessionID, Mode: mode})
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	if ctx == nil {
		return LogContext{}
	}
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// Logger returns base enriched with the session attributes found in ctx.
func Logger(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	lc := GetContext(ctx)
	var args []any
	if lc.SessionID != "" {
		args = append(args, logfields.SessionID(lc.SessionID))
	}
	if lc.Mode != "" {
		args = append(args, logfields.Mode(string(lc.Mode)))
	}
	if len(args) == 0 {
		return base
	}
	return base.With(args...)
}
