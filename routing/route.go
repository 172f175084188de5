package routing

import (
	"net/http"
	"regexp"
)

// anyMethod marks the synthetic fallback route, which matches every
// request method.
const anyMethod = "*"

// allMethods is the full method set bound by Any, in registration order.
var allMethods = []string{
	http.MethodOptions,
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
	http.MethodHead,
	http.MethodTrace,
	http.MethodConnect,
	http.MethodPatch,
}

// Config is the inheritable per-node configuration: an ordered middleware
// list and a map of parameter name to regexp fragment. Config values are
// merged functionally during compilation; nodes never share mutable
// builder state.
type Config[App any] struct {
	middlewares []Middleware[App]
	constraints map[string]string
}

// merge combines an ancestor config with a local one: middleware lists
// concatenate ancestor-then-local, preserving inherited execution order;
// constraints merge with the local value winning on name collision.
func (c Config[App]) merge(local Config[App]) Config[App] {
	merged := Config[App]{
		middlewares: make([]Middleware[App], 0, len(c.middlewares)+len(local.middlewares)),
		constraints: make(map[string]string, len(c.constraints)+len(local.constraints)),
	}

	merged.middlewares = append(merged.middlewares, c.middlewares...)
	merged.middlewares = append(merged.middlewares, local.middlewares...)

	for name, fragment := range c.constraints {
		merged.constraints[name] = fragment
	}
	for name, fragment := range local.constraints {
		merged.constraints[name] = fragment
	}

	return merged
}

// Node is a node of the route builder tree: either a *Leaf or a *Group.
// The tree is built once at startup and consumed by Router.Compile.
type Node[App any] interface {
	compile(ancestor Config[App]) ([]*Route[App], error)
}

// Leaf declares a route: a path template, a non-empty method set, the
// terminal handler, and local configuration.
type Leaf[App any] struct {
	template string
	methods  []string
	handler  Handler[App]
	config   Config[App]
}

// Group declares a non-routable tree node: local configuration inherited
// by its children. No compiled route is emitted for the group itself.
type Group[App any] struct {
	config   Config[App]
	children []Node[App]
}

// Handle declares a leaf route bound to a single method.
func Handle[App any](method, template string, handler Handler[App]) *Leaf[App] {
	return &Leaf[App]{
		template: template,
		methods:  []string{method},
		handler:  handler,
	}
}

// Get declares a GET route.
func Get[App any](template string, handler Handler[App]) *Leaf[App] {
	return Handle(http.MethodGet, template, handler)
}

// Post declares a POST route.
func Post[App any](template string, handler Handler[App]) *Leaf[App] {
	return Handle(http.MethodPost, template, handler)
}

// Put declares a PUT route.
func Put[App any](template string, handler Handler[App]) *Leaf[App] {
	return Handle(http.MethodPut, template, handler)
}

// Patch declares a PATCH route.
func Patch[App any](template string, handler Handler[App]) *Leaf[App] {
	return Handle(http.MethodPatch, template, handler)
}

// Delete declares a DELETE route.
func Delete[App any](template string, handler Handler[App]) *Leaf[App] {
	return Handle(http.MethodDelete, template, handler)
}

// Options declares an OPTIONS route.
func Options[App any](template string, handler Handler[App]) *Leaf[App] {
	return Handle(http.MethodOptions, template, handler)
}

// Head declares a HEAD route.
func Head[App any](template string, handler Handler[App]) *Leaf[App] {
	return Handle(http.MethodHead, template, handler)
}

// Trace declares a TRACE route.
func Trace[App any](template string, handler Handler[App]) *Leaf[App] {
	return Handle(http.MethodTrace, template, handler)
}

// Connect declares a CONNECT route.
func Connect[App any](template string, handler Handler[App]) *Leaf[App] {
	return Handle(http.MethodConnect, template, handler)
}

// Any declares a route bound to the full enumerated method set: OPTIONS,
// GET, POST, PUT, DELETE, HEAD, TRACE, CONNECT and PATCH.
func Any[App any](template string, handler Handler[App]) *Leaf[App] {
	return &Leaf[App]{
		template: template,
		methods:  allMethods,
		handler:  handler,
	}
}

// NewGroup declares a group of child nodes sharing inherited
// configuration.
func NewGroup[App any](children ...Node[App]) *Group[App] {
	return &Group[App]{children: children}
}

// Middleware appends a middleware to the leaf's local list and returns
// the leaf for chaining.
func (l *Leaf[App]) Middleware(m Middleware[App]) *Leaf[App] {
	l.config.middlewares = append(l.config.middlewares, m)
	return l
}

// Constrain sets the regexp fragment for a named parameter of this leaf,
// overriding any inherited constraint of the same name.
func (l *Leaf[App]) Constrain(name, fragment string) *Leaf[App] {
	if l.config.constraints == nil {
		l.config.constraints = make(map[string]string)
	}
	l.config.constraints[name] = fragment
	return l
}

// Template returns the leaf's path template.
func (l *Leaf[App]) Template() string {
	return l.template
}

// Methods returns the leaf's method set.
func (l *Leaf[App]) Methods() []string {
	return l.methods
}

// compile merges the ancestor config with the leaf's local config,
// compiles the pattern once, wraps the handler with the merged middleware
// chain, and emits one compiled route per method.
func (l *Leaf[App]) compile(ancestor Config[App]) ([]*Route[App], error) {
	merged := ancestor.merge(l.config)

	re, err := compileTemplate(l.template, merged.constraints)
	if err != nil {
		return nil, err
	}

	handler := wrap(merged.middlewares, l.handler)

	routes := make([]*Route[App], 0, len(l.methods))
	for _, method := range l.methods {
		routes = append(routes, &Route[App]{
			regex:    re,
			template: l.template,
			method:   method,
			handler:  handler,
		})
	}

	return routes, nil
}

// Middleware appends a middleware to the group's local list and returns
// the group for chaining.
func (g *Group[App]) Middleware(m Middleware[App]) *Group[App] {
	g.config.middlewares = append(g.config.middlewares, m)
	return g
}

// Constrain sets the regexp fragment for a named parameter, inherited by
// every child of the group.
func (g *Group[App]) Constrain(name, fragment string) *Group[App] {
	if g.config.constraints == nil {
		g.config.constraints = make(map[string]string)
	}
	g.config.constraints[name] = fragment
	return g
}

// Add appends child nodes to the group.
func (g *Group[App]) Add(children ...Node[App]) *Group[App] {
	g.children = append(g.children, children...)
	return g
}

// compile recurses into each child with the locally merged config.
func (g *Group[App]) compile(ancestor Config[App]) ([]*Route[App], error) {
	merged := ancestor.merge(g.config)

	var routes []*Route[App]
	for _, child := range g.children {
		compiled, err := child.compile(merged)
		if err != nil {
			return nil, err
		}
		routes = append(routes, compiled...)
	}

	return routes, nil
}

// Route is a compiled route: the anchored regexp generated from its
// template, the bound method, and the handler already wrapped in its full
// middleware chain. Routes are immutable after compilation and shared
// read-only across request goroutines.
type Route[App any] struct {
	regex    *regexp.Regexp
	template string
	method   string
	handler  Handler[App]
}

// Template returns the original route template.
func (r *Route[App]) Template() string {
	return r.template
}

// Method returns the bound method, or "*" for the synthetic fallback.
func (r *Route[App]) Method() string {
	return r.method
}

// Regexp returns the compiled pattern.
func (r *Route[App]) Regexp() *regexp.Regexp {
	return r.regex
}

// Handler returns the middleware-wrapped handler.
func (r *Route[App]) Handler() Handler[App] {
	return r.handler
}

// IsFallback reports whether this is the synthetic catch-all route.
func (r *Route[App]) IsFallback() bool {
	return r.method == anyMethod
}

// matches reports whether the route matches the given method and path.
func (r *Route[App]) matches(method, path string) bool {
	if r.method != anyMethod && r.method != method {
		return false
	}
	return r.regex.MatchString(path)
}

// Parameters extracts the route parameters for a path that matched this
// route's pattern.
func (r *Route[App]) Parameters(path string) map[string]string {
	return templateParameters(r.template, path)
}
