package routing

import (
	"context"

	"github.com/consoletvs/valar/httpx"
)

// Handler is the terminal function of a route: it receives the request
// and produces a response or an error. Errors are converted into
// responses at the dispatch boundary, preferring *httpx.ErrorResponse
// structure when present.
type Handler[App any] func(ctx context.Context, req *httpx.Request[App]) (*httpx.Response, error)

// Middleware intercepts a request around a downstream handler. The next
// argument is the rest of the chain: another middleware or the terminal
// route handler. A middleware may call next and pass through or
// post-process its result, or short-circuit by returning a response
// without calling next — downstream middleware and the handler then never
// execute, while outer middleware still observe the returned response on
// the way back out.
//
// Implementations are shared by value across every compiled route that
// inherits them, so they must be safe for concurrent use.
type Middleware[App any] interface {
	Handle(ctx context.Context, next Handler[App], req *httpx.Request[App]) (*httpx.Response, error)
}

// MiddlewareFunc adapts a plain function to the Middleware interface.
type MiddlewareFunc[App any] func(ctx context.Context, next Handler[App], req *httpx.Request[App]) (*httpx.Response, error)

// Handle implements Middleware.
func (f MiddlewareFunc[App]) Handle(ctx context.Context, next Handler[App], req *httpx.Request[App]) (*httpx.Response, error) {
	return f(ctx, next, req)
}

// wrap folds the ordered middleware list around the terminal handler,
// innermost outward: the last middleware wraps the handler first, so the
// first registered middleware ends up outermost and runs first on the way
// in and last on the way out.
func wrap[App any](middlewares []Middleware[App], handler Handler[App]) Handler[App] {
	for i := len(middlewares) - 1; i >= 0; i-- {
		m := middlewares[i]
		next := handler
		handler = func(ctx context.Context, req *httpx.Request[App]) (*httpx.Response, error) {
			return m.Handle(ctx, next, req)
		}
	}
	return handler
}
