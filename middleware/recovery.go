package middleware

import (
	"context"
	"net/http"

	"github.com/consoletvs/valar/httpx"
	"github.com/consoletvs/valar/routing"
)

// RecoveryConfig configures the Recovery middleware behaviour.
type RecoveryConfig[App any] struct {
	// LogFunc is an optional callback invoked with the request and the
	// recovered value when a panic occurs. When nil, no logging is
	// performed.
	LogFunc func(req *httpx.Request[App], recovered any)
}

// Recovery returns a middleware that recovers from panics in downstream
// middleware and handlers. A recovered panic becomes a 500 error at the
// dispatch boundary; the panic value is never echoed to the client.
func Recovery[App any](cfg RecoveryConfig[App]) routing.Middleware[App] {
	return routing.MiddlewareFunc[App](func(ctx context.Context, next routing.Handler[App], req *httpx.Request[App]) (resp *httpx.Response, err error) {
		defer func() {
			if recovered := recover(); recovered != nil {
				if cfg.LogFunc != nil {
					cfg.LogFunc(req, recovered)
				}

				resp = nil
				err = httpx.NewError(http.StatusInternalServerError)
			}
		}()

		return next(ctx, req)
	})
}
