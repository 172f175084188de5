package routing

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/consoletvs/valar/httpx"
)

// Matcher is the compiled, immutable state of the routing core: a flat,
// order-preserving list of compiled routes with the synthetic fallback
// first. It is shared read-only across all request goroutines after the
// one-time compile step; no locking is required because it is never
// mutated post-compilation.
type Matcher[App any] struct {
	routes []*Route[App]
}

// Routes returns the compiled routes in registration order, fallback
// first. The slice must not be modified.
func (m *Matcher[App]) Routes() []*Route[App] {
	return m.routes
}

// Find scans the compiled list in reverse registration order and returns
// the first route whose pattern matches the path and whose method matches
// the request method. Because the fallback is registered first and thus
// scanned last, overlapping user routes resolve last-registered-wins, and
// Find never comes up empty.
func (m *Matcher[App]) Find(method, path string) (*Route[App], bool) {
	for i := len(m.routes) - 1; i >= 0; i-- {
		if m.routes[i].matches(method, path) {
			return m.routes[i], true
		}
	}
	return nil, false
}

// Matches reports whether a non-fallback route matches the given method
// and path.
func (m *Matcher[App]) Matches(method, path string) bool {
	route, ok := m.Find(method, path)
	return ok && !route.IsFallback()
}

// Dispatch converts a raw transport request into a response. It never
// fails to produce one: body-cap violations become 413 before any route
// code runs, handler errors are converted at this boundary, and unmatched
// requests are answered by the fallback route's 404.
func (m *Matcher[App]) Dispatch(ctx context.Context, app App, r *http.Request) *httpx.Response {
	wantsJSON := strings.Contains(r.Header.Get("Accept"), "application/json")

	req, err := httpx.FromTransport(app, r)
	if err != nil {
		return errorResponse(wantsJSON, err)
	}

	return m.dispatch(ctx, wantsJSON, req)
}

// DispatchRequest dispatches an already built request. Intended for
// in-process testing against a compiled matcher without a transport.
func (m *Matcher[App]) DispatchRequest(ctx context.Context, req *httpx.Request[App]) *httpx.Response {
	return m.dispatch(ctx, req.WantsJSON(), req)
}

func (m *Matcher[App]) dispatch(ctx context.Context, wantsJSON bool, req *httpx.Request[App]) *httpx.Response {
	route, ok := m.Find(req.Method(), req.Path())
	if !ok {
		// The fallback matches every method and every path; reaching this
		// point means the compile step's invariant was broken.
		panic("routing: no route matched and no fallback is present")
	}

	req.SetRouteParams(route.Parameters(req.Path()))

	resp, err := route.handler(ctx, req)
	if err != nil {
		return errorResponse(wantsJSON, err)
	}
	if resp == nil {
		return errorResponse(wantsJSON, errors.New("handler returned no response"))
	}
	return resp
}

// errorResponse converts a handler error into a response. Structured
// *httpx.ErrorResponse values keep their status, message and headers; any
// other error becomes a generic 500 carrying the error text.
func errorResponse(wantsJSON bool, err error) *httpx.Response {
	var er *httpx.ErrorResponse
	if !errors.As(err, &er) {
		er = httpx.NewError(http.StatusInternalServerError).WithMessage(err.Error())
	}
	return er.Response(wantsJSON)
}
