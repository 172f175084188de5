// Package server is the thin transport adapter between net/http and the
// routing core. It owns the listen loop and wire serialization only: all
// routing, middleware and error conversion happens inside the compiled
// matcher.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http/httpguts"

	"github.com/consoletvs/valar/httpx"
	"github.com/consoletvs/valar/routing"
)

// Config configures the HTTP server.
type Config struct {
	// Address is the listen address. Defaults to "127.0.0.1:3000".
	Address string

	// Logger is the structured logger for lifecycle events.
	// Defaults to slog.Default.
	Logger *slog.Logger

	// ShutdownTimeout bounds the graceful drain once the context is
	// cancelled. Defaults to 10 seconds.
	ShutdownTimeout time.Duration
}

// Server serves a compiled matcher over HTTP for a single application
// handle.
type Server[App any] struct {
	config  Config
	app     App
	matcher *routing.Matcher[App]
}

// New returns a server dispatching requests for app through matcher.
func New[App any](cfg Config, app App, matcher *routing.Matcher[App]) *Server[App] {
	if cfg.Address == "" {
		cfg.Address = "127.0.0.1:3000"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	return &Server[App]{
		config:  cfg,
		app:     app,
		matcher: matcher,
	}
}

// Handler returns the http.Handler bridging the transport to the
// dispatcher. Each request runs in its own goroutine under net/http; the
// compiled matcher is shared read-only between them.
func (s *Server[App]) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := s.matcher.Dispatch(r.Context(), s.app, r)
		WriteResponse(w, resp)
	})
}

// ListenAndServe serves until the context is cancelled, then drains
// in-flight requests within the configured shutdown timeout.
func (s *Server[App]) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.config.Logger.Info("server listening", slog.String("address", s.config.Address))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.config.Logger.Info("server shutting down")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// WriteResponse serializes a Response to the wire. Header fields are
// validated per RFC 9110 Section 5 before being copied; invalid names or
// values are dropped rather than corrupting the wire format.
func WriteResponse(w http.ResponseWriter, resp *httpx.Response) {
	for key, values := range resp.Header() {
		if !httpguts.ValidHeaderFieldName(key) {
			continue
		}
		for _, value := range values {
			if !httpguts.ValidHeaderFieldValue(value) {
				continue
			}
			w.Header().Add(key, value)
		}
	}

	w.WriteHeader(resp.Status())
	w.Write(resp.Body()) //nolint:errcheck // nothing useful to do on wire errors
}
