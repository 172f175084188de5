// Package routing implements the request-routing and dispatch core: a
// declarative tree of path templates, HTTP methods and handlers compiled
// into an immutable matcher that dispatches requests through ordered
// middleware chains.
//
// # Route trees
//
// Routes are declared as a tree of leaves and groups. Configuration
// attached to a group (middleware, parameter constraints) is inherited by
// its descendants: middleware lists are concatenated ancestor-first,
// constraints are overridden on name collision.
//
//	router := routing.NewRouter[*App]()
//	router.Get("/", home)
//	router.Group(
//	    routing.Get("/users", listUsers),
//	    routing.Get("/users/:id", showUser).Constrain("id", "[0-9]+"),
//	).Middleware(auth)
//
// # Path templates
//
// A template is a sequence of /-separated segments, each either a literal
// or a named parameter prefixed with ":". Parameters match the regexp
// fragment configured with Constrain, defaulting to [a-zA-Z0-9-_]+.
// Templates compile to anchored regular expressions with an optional
// trailing slash; matching is a linear scan of the compiled list.
//
// # Pending and compiled routers
//
// A Router is the mutable pending state: it only supports registration.
// Compile converts it into a Matcher, the immutable compiled state that
// only supports matching and dispatch. The conversion fails fast on an
// invalid pattern, so pattern errors surface at startup and never at
// request time. A Matcher is safe for concurrent use by any number of
// request goroutines without locking, because it is never mutated after
// compilation.
//
// # Fallback
//
// Compilation prepends a synthetic catch-all route before any user route.
// Find scans the compiled list in reverse registration order, so the
// fallback loses to every user route and any overlapping user routes
// resolve last-registered-wins. The fallback makes Find total: every
// request produces a response, with unmatched requests receiving the
// fallback's 404.
//
// # Middleware
//
// A middleware implements Handle(ctx, next, request) and may call next,
// post-process its result, or short-circuit by returning a response
// without calling next. Middleware compose in onion order: the first
// registered runs first on the way in and last on the way out.
package routing
