// Package middleware provides ready-made routing.Middleware
// implementations for the routing core.
//
// Each middleware is constructed from a config struct with documented,
// optional fields; constructors whose configuration can be invalid return
// an error alongside the middleware.
//
//	router := routing.NewRouter[*App]()
//	router.Use(middleware.AccessLog[*App](middleware.AccessLogConfig{}))
//	router.Use(middleware.RequestID[*App](middleware.RequestIDConfig{}))
//
// # Request ID Middleware
//
// RequestID generates or propagates a request ID header (UUID v4 by
// default) and exposes it through the request context.
//
// # Access Log Middleware
//
// AccessLog writes one structured log record per request with method,
// path, status and duration.
//
// # Recovery Middleware
//
// Recovery converts panics in downstream middleware and handlers into a
// 500 response, keeping a misbehaving handler from tearing down the
// request's goroutine.
//
// # Basic Auth Middleware
//
// BasicAuth implements HTTP Basic Authentication per RFC 7617, validating
// credentials with a constant-time comparison and short-circuiting with
// 401 Unauthorized when they are missing or invalid.
//
// # CORS Middleware
//
// CORS implements the CORS protocol per the Fetch Standard: it validates
// the Origin header, terminates preflight OPTIONS requests, and
// decorates actual responses with the allow and expose headers.
//
// # Security Headers Middleware
//
// SecurityHeaders sets common security response headers (nosniff, frame
// options, referrer policy, HSTS, CSP, permissions policy) on every
// response passing through it.
package middleware
