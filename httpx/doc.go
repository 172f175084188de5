// Package httpx defines the request and response shapes exchanged between
// the routing core and its handlers.
//
// A Request is built once per dispatch from the raw transport request
// (an *http.Request supplied by the network listener). The body is fully
// buffered up to a fixed cap of 2 MiB; requests whose body exceeds the cap
// are rejected with 413 Content Too Large (RFC 9110 Section 15.5.14)
// before any route code runs.
//
// A Response carries the status code, protocol version, header fields and
// body bytes back to the transport for wire serialization. Responses are
// built with a chainable API:
//
//	return httpx.OK().HTML("<h1>Hello</h1>"), nil
//	return httpx.Created().JSON(user)
//
// An ErrorResponse is an error value carrying a status code, a message and
// optional headers. Handlers and middleware may return one to produce a
// well-formed error response; the dispatcher recognizes it with errors.As
// and renders it as JSON ({"message": "…"}) when the request's Accept
// header contains "application/json", or as plain text otherwise.
package httpx
