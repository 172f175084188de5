package routing

import (
	"context"
	"fmt"
	"net/http"

	"github.com/consoletvs/valar/httpx"
)

// Router is the pending, mutable state of the routing core: it holds the
// route builder tree and the top-level middleware list and only exposes
// registration. Compile converts it into the immutable Matcher. The two
// states are distinct types, so dispatching through a pending router or
// mutating a compiled matcher is a compile-time type error.
type Router[App any] struct {
	nodes       []Node[App]
	middlewares []Middleware[App]
}

// NewRouter returns an empty pending router.
func NewRouter[App any]() *Router[App] {
	return &Router[App]{}
}

// Add appends nodes to the route tree.
func (r *Router[App]) Add(nodes ...Node[App]) *Router[App] {
	r.nodes = append(r.nodes, nodes...)
	return r
}

// Use appends top-level middleware, prepended to every route's merged
// list — including the synthetic fallback route.
func (r *Router[App]) Use(middlewares ...Middleware[App]) *Router[App] {
	r.middlewares = append(r.middlewares, middlewares...)
	return r
}

// Through invokes a registration callback with the router. It allows
// splitting route registration across files:
//
//	router := routing.NewRouter[*App]().Through(webRoutes).Through(apiRoutes)
func (r *Router[App]) Through(register func(*Router[App])) *Router[App] {
	register(r)
	return r
}

// Handle registers a leaf route bound to a single method and returns it
// for chaining.
func (r *Router[App]) Handle(method, template string, handler Handler[App]) *Leaf[App] {
	leaf := Handle(method, template, handler)
	r.Add(leaf)
	return leaf
}

// Get registers a GET route.
func (r *Router[App]) Get(template string, handler Handler[App]) *Leaf[App] {
	leaf := Get(template, handler)
	r.Add(leaf)
	return leaf
}

// Post registers a POST route.
func (r *Router[App]) Post(template string, handler Handler[App]) *Leaf[App] {
	leaf := Post(template, handler)
	r.Add(leaf)
	return leaf
}

// Put registers a PUT route.
func (r *Router[App]) Put(template string, handler Handler[App]) *Leaf[App] {
	leaf := Put(template, handler)
	r.Add(leaf)
	return leaf
}

// Patch registers a PATCH route.
func (r *Router[App]) Patch(template string, handler Handler[App]) *Leaf[App] {
	leaf := Patch(template, handler)
	r.Add(leaf)
	return leaf
}

// Delete registers a DELETE route.
func (r *Router[App]) Delete(template string, handler Handler[App]) *Leaf[App] {
	leaf := Delete(template, handler)
	r.Add(leaf)
	return leaf
}

// Any registers a route bound to the full enumerated method set.
func (r *Router[App]) Any(template string, handler Handler[App]) *Leaf[App] {
	leaf := Any(template, handler)
	r.Add(leaf)
	return leaf
}

// Group registers a group of child nodes and returns it for chaining.
func (r *Router[App]) Group(children ...Node[App]) *Group[App] {
	group := NewGroup(children...)
	r.Add(group)
	return group
}

// HasRoute reports whether a leaf with the given template and method is
// registered anywhere in the tree.
func (r *Router[App]) HasRoute(method, template string) bool {
	return hasRoute(r.nodes, method, template)
}

func hasRoute[App any](nodes []Node[App], method, template string) bool {
	for _, node := range nodes {
		switch n := node.(type) {
		case *Leaf[App]:
			if n.template != template {
				continue
			}
			for _, m := range n.methods {
				if m == method {
					return true
				}
			}
		case *Group[App]:
			if hasRoute(n.children, method, template) {
				return true
			}
		}
	}
	return false
}

// notFoundHandler terminates the synthetic fallback route. The returned
// ErrorResponse is rendered as JSON or plain text by the dispatch
// boundary according to the request's Accept header.
func notFoundHandler[App any](_ context.Context, req *httpx.Request[App]) (*httpx.Response, error) {
	return nil, httpx.NewError(http.StatusNotFound).
		WithMessage(fmt.Sprintf("No route found for %s %s", req.Method(), req.URL()))
}

// Compile performs the one-directional Pending to Compiled transition.
// The synthetic catch-all fallback route is compiled first, guaranteeing
// that matching is total; user routes follow in registration order and
// take precedence through the matcher's reverse scan. Compilation fails
// only on an invalid pattern (*PatternError), making pattern errors a
// startup failure rather than a request-time one.
//
// Compile is a pure function of the registered tree: compiling
// structurally identical routers yields matchers with identical ordered
// pattern lists.
func (r *Router[App]) Compile() (*Matcher[App], error) {
	root := Config[App]{middlewares: r.middlewares}

	fallback := &Leaf[App]{
		template: ".*",
		methods:  []string{anyMethod},
		handler:  notFoundHandler[App],
	}

	routes, err := fallback.compile(root)
	if err != nil {
		return nil, err
	}

	for _, node := range r.nodes {
		compiled, err := node.compile(root)
		if err != nil {
			return nil, err
		}
		routes = append(routes, compiled...)
	}

	return &Matcher[App]{routes: routes}, nil
}
