package httpx

import (
	"net/http"
	"strings"
)

// Response carries the status code, protocol version, header fields and
// body bytes returned to the transport for wire serialization.
type Response struct {
	status int
	proto  string
	header http.Header
	body   []byte
}

// NewResponse returns an empty 200 OK response.
func NewResponse() *Response {
	return &Response{
		status: http.StatusOK,
		proto:  "HTTP/1.1",
		header: make(http.Header),
	}
}

// OK returns a response with status 200 OK.
func OK() *Response {
	return NewResponse()
}

// Created returns a response with status 201 Created.
func Created() *Response {
	return NewResponse().WithStatus(http.StatusCreated)
}

// NoContent returns a response with status 204 No Content.
func NoContent() *Response {
	return NewResponse().WithStatus(http.StatusNoContent)
}

// NotFound returns a response with status 404 Not Found.
func NotFound() *Response {
	return NewResponse().WithStatus(http.StatusNotFound)
}

// MethodNotAllowed returns a response with status 405 Method Not Allowed.
func MethodNotAllowed() *Response {
	return NewResponse().WithStatus(http.StatusMethodNotAllowed)
}

// InternalServerError returns a response with status 500.
func InternalServerError() *Response {
	return NewResponse().WithStatus(http.StatusInternalServerError)
}

// Redirect returns a 302 Found response with the Location header set
// (RFC 9110 Section 15.4.3).
func Redirect(location string) *Response {
	return NewResponse().
		WithStatus(http.StatusFound).
		WithHeader("Location", location)
}

// Unauthorized returns a 401 response carrying the given WWW-Authenticate
// challenge (RFC 9110 Section 11.6.1).
func Unauthorized(challenge string) *Response {
	return NewResponse().
		WithStatus(http.StatusUnauthorized).
		WithHeader("WWW-Authenticate", challenge)
}

// WithStatus sets the status code.
func (r *Response) WithStatus(status int) *Response {
	r.status = status
	return r
}

// WithHeader sets a header field, replacing any existing values.
func (r *Response) WithHeader(key, value string) *Response {
	r.header.Set(key, value)
	return r
}

// AddHeader appends a header value, keeping existing values.
func (r *Response) AddHeader(key, value string) *Response {
	r.header.Add(key, value)
	return r
}

// WithBody sets the raw body bytes without touching Content-Type.
func (r *Response) WithBody(body []byte) *Response {
	r.body = body
	return r
}

// Text sets a plain-text body and the matching Content-Type.
func (r *Response) Text(text string) *Response {
	r.header.Set("Content-Type", "text/plain")
	r.body = []byte(text)
	return r
}

// HTML sets an HTML body and the matching Content-Type.
func (r *Response) HTML(html string) *Response {
	r.header.Set("Content-Type", "text/html")
	r.body = []byte(html)
	return r
}

// JSON encodes v as the response body and sets the Content-Type to
// application/json. The (response, error) return matches the handler
// signature so it can be returned directly:
//
//	return httpx.OK().JSON(user)
func (r *Response) JSON(v any) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	r.header.Set("Content-Type", "application/json")
	r.body = body
	return r, nil
}

// Status returns the response status code.
func (r *Response) Status() int {
	return r.status
}

// Proto returns the protocol version.
func (r *Response) Proto() string {
	return r.proto
}

// Header returns the response header fields.
func (r *Response) Header() http.Header {
	return r.header
}

// Body returns the response body bytes.
func (r *Response) Body() []byte {
	return r.body
}

// HasHeader reports whether the header field is present.
func (r *Response) HasHeader(key string) bool {
	return r.header.Get(key) != ""
}

// HeaderIs reports whether the header field equals the given value.
func (r *Response) HeaderIs(key, value string) bool {
	return r.header.Get(key) == value
}

// HeaderContains reports whether the header field contains the substring.
func (r *Response) HeaderContains(key, value string) bool {
	return strings.Contains(r.header.Get(key), value)
}

// IsJSON reports whether the response carries a JSON body.
func (r *Response) IsJSON() bool {
	return r.HeaderContains("Content-Type", "application/json")
}
