package httpx

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// MaxBodyBytes is the hard cap on buffered request body size.
// Requests with a larger body are rejected with 413 before routing.
const MaxBodyBytes = 2 * 1024 * 1024

// Request stores information about an incoming request, together with the
// opaque application handle App shared by all handlers. Requests are built
// by the dispatcher; handlers receive them fully populated, including the
// route parameters extracted from the matched template.
type Request[App any] struct {
	app         App
	method      string
	url         *url.URL
	proto       string
	header      http.Header
	body        []byte
	routeParams map[string]string
	queryParams map[string]string
}

// FromTransport buffers the raw transport request into a Request.
//
// The body size cap is enforced against the transport's size hint
// (Content-Length, RFC 9110 Section 8.6) first; when no hint is available
// the body is read through a limited reader and rejected on overflow. In
// both cases the returned error is an *ErrorResponse with status 413 and
// no route code has run.
func FromTransport[App any](app App, r *http.Request) (*Request[App], error) {
	if r.ContentLength > MaxBodyBytes {
		return nil, errPayloadTooLarge()
	}

	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
		if err != nil {
			return nil, NewError(http.StatusBadRequest).WithMessage("Unable to read request body")
		}
		if len(body) > MaxBodyBytes {
			return nil, errPayloadTooLarge()
		}
	}

	return &Request[App]{
		app:         app,
		method:      r.Method,
		url:         r.URL,
		proto:       r.Proto,
		header:      r.Header,
		body:        body,
		queryParams: ParseQuery(r.URL.RawQuery),
	}, nil
}

func errPayloadTooLarge() *ErrorResponse {
	return NewError(http.StatusRequestEntityTooLarge).WithMessage("Request body too large")
}

// NewRequest builds a Request directly, without a transport request.
// This is intended for handler tests and for driving a compiled matcher
// in-process. The target must be an absolute path, optionally with a
// query string. It panics on an unparsable target, mirroring
// httptest.NewRequest.
func NewRequest[App any](app App, method, target string) *Request[App] {
	u, err := url.Parse(target)
	if err != nil {
		panic("httpx: invalid request target " + strconv.Quote(target) + ": " + err.Error())
	}

	return &Request[App]{
		app:         app,
		method:      method,
		url:         u,
		proto:       "HTTP/1.1",
		header:      make(http.Header),
		queryParams: ParseQuery(u.RawQuery),
	}
}

// WithHeader sets a header field and returns the request for chaining.
func (r *Request[App]) WithHeader(key, value string) *Request[App] {
	r.header.Set(key, value)
	return r
}

// WithBody sets the buffered body and returns the request for chaining.
func (r *Request[App]) WithBody(body string) *Request[App] {
	r.body = []byte(body)
	return r
}

// ParseQuery splits a raw query string on "&" and "=" pairs.
//
// No percent-decoding is performed: values are returned exactly as they
// appear on the wire. Repeated keys keep the last value.
func ParseQuery(rawQuery string) map[string]string {
	params := make(map[string]string)
	if rawQuery == "" {
		return params
	}

	for _, pair := range strings.Split(rawQuery, "&") {
		key, value, _ := strings.Cut(pair, "=")
		params[key] = value
	}

	return params
}

// App returns the opaque application handle.
func (r *Request[App]) App() App {
	return r.app
}

// Method returns the request method token (RFC 9110 Section 9).
func (r *Request[App]) Method() string {
	return r.method
}

// URL returns the parsed request URI.
func (r *Request[App]) URL() *url.URL {
	return r.url
}

// Path returns the request URI path component.
func (r *Request[App]) Path() string {
	return r.url.Path
}

// Proto returns the protocol version, e.g. "HTTP/1.1".
func (r *Request[App]) Proto() string {
	return r.proto
}

// Header returns the request header fields as a case-insensitive multimap.
func (r *Request[App]) Header() http.Header {
	return r.header
}

// Body returns the buffered request body.
func (r *Request[App]) Body() []byte {
	return r.body
}

// HasHeader reports whether the header field is present.
func (r *Request[App]) HasHeader(key string) bool {
	return r.header.Get(key) != ""
}

// HeaderIs reports whether the header field equals the given value.
func (r *Request[App]) HeaderIs(key, value string) bool {
	return r.header.Get(key) == value
}

// HeaderContains reports whether the header field contains the given
// substring. Useful for checking media type parameters, e.g. "charset=utf-8".
func (r *Request[App]) HeaderContains(key, value string) bool {
	return strings.Contains(r.header.Get(key), value)
}

// IsJSON reports whether the request carries a JSON body, determined by
// the Content-Type header (RFC 9110 Section 8.3).
func (r *Request[App]) IsJSON() bool {
	return r.HeaderContains("Content-Type", "application/json")
}

// WantsJSON reports whether the client prefers a JSON response, determined
// by the Accept header (RFC 9110 Section 12.5.1).
func (r *Request[App]) WantsJSON() bool {
	return r.HeaderContains("Accept", "application/json")
}

// SetRouteParams attaches the route parameters extracted from the matched
// template. Called by the dispatcher after matching; also useful to
// prepare requests in handler tests.
func (r *Request[App]) SetRouteParams(params map[string]string) {
	r.routeParams = params
}

// RouteParams returns all route parameters of the matched template.
func (r *Request[App]) RouteParams() map[string]string {
	return r.routeParams
}

// HasParam reports whether the named route parameter exists.
func (r *Request[App]) HasParam(name string) bool {
	_, ok := r.routeParams[name]
	return ok
}

// MaybeParam returns the named route parameter and whether it exists.
func (r *Request[App]) MaybeParam(name string) (string, bool) {
	value, ok := r.routeParams[name]
	return value, ok
}

// Param returns the named route parameter. A missing parameter is a
// programming error (the template did not declare it) and yields a 500
// ErrorResponse.
func (r *Request[App]) Param(name string) (string, error) {
	value, ok := r.routeParams[name]
	if !ok {
		return "", NewError(http.StatusInternalServerError).
			WithMessage("Unknown route parameter: `" + name + "`")
	}
	return value, nil
}

// ParamInt returns the named route parameter parsed as an integer.
func (r *Request[App]) ParamInt(name string) (int, error) {
	value, err := r.Param(name)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}

// QueryParams returns all query parameters.
func (r *Request[App]) QueryParams() map[string]string {
	return r.queryParams
}

// HasQuery reports whether the named query parameter exists.
func (r *Request[App]) HasQuery(name string) bool {
	_, ok := r.queryParams[name]
	return ok
}

// MaybeQuery returns the named query parameter and whether it exists.
func (r *Request[App]) MaybeQuery(name string) (string, bool) {
	value, ok := r.queryParams[name]
	return value, ok
}

// Query returns the named query parameter or a 500 ErrorResponse when it
// is absent.
func (r *Request[App]) Query(name string) (string, error) {
	value, ok := r.queryParams[name]
	if !ok {
		return "", NewError(http.StatusInternalServerError).
			WithMessage("Unknown query parameter: `" + name + "`")
	}
	return value, nil
}

// QueryInt returns the named query parameter parsed as an integer.
func (r *Request[App]) QueryInt(name string) (int, error) {
	value, err := r.Query(name)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}

// BindJSON decodes the request body as JSON into v.
// By default the decoder rejects unknown fields that do not map to exported
// struct fields. Pass true to allow unknown fields.
// Exactly one JSON value must be present in the body; trailing data is an
// error.
func (r *Request[App]) BindJSON(v any, allowUnknownFields ...bool) error {
	dec := json.NewDecoder(bytes.NewReader(r.body))

	if len(allowUnknownFields) == 0 || !allowUnknownFields[0] {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(v); err != nil {
		return err
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected trailing data after JSON value")
	}

	return nil
}
