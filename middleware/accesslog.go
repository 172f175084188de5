package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/consoletvs/valar/httpx"
	"github.com/consoletvs/valar/routing"
)

// AccessLogConfig configures the Access Log middleware behaviour.
type AccessLogConfig struct {
	// Logger is the structured logger records are written to.
	// Defaults to slog.Default.
	Logger *slog.Logger
}

// AccessLog returns a middleware that writes one structured log record
// per request: method, path, response status and handling duration.
// Errors surfaced by downstream middleware or the handler are logged at
// error level and passed through unchanged, so the dispatch boundary
// still converts them into responses.
func AccessLog[App any](cfg AccessLogConfig) routing.Middleware[App] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return routing.MiddlewareFunc[App](func(ctx context.Context, next routing.Handler[App], req *httpx.Request[App]) (*httpx.Response, error) {
		start := time.Now()

		resp, err := next(ctx, req)

		attrs := []any{
			slog.String("method", req.Method()),
			slog.String("path", req.Path()),
			slog.Duration("duration", time.Since(start)),
		}

		switch {
		case err != nil:
			logger.ErrorContext(ctx, "request failed", append(attrs, slog.Any("error", err))...)
		case resp != nil:
			logger.InfoContext(ctx, "request handled", append(attrs, slog.Int("status", resp.Status()))...)
		default:
			logger.InfoContext(ctx, "request handled", attrs...)
		}

		return resp, err
	})
}
