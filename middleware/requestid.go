package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/consoletvs/valar/httpx"
	"github.com/consoletvs/valar/routing"
)

type requestIDKey struct{}

// RequestIDFromContext returns the request ID stored in the context by
// the RequestID middleware. Returns an empty string if no ID is present.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}

	return ""
}

// RequestIDConfig configures the Request ID middleware behaviour.
type RequestIDConfig struct {
	// HeaderName overrides the header used to propagate the request ID.
	// Defaults to "X-Request-ID" when empty.
	HeaderName string

	// GenerateFunc is an optional callback that returns a new unique ID.
	// Defaults to GenerateUUIDv4.
	GenerateFunc func() string

	// TrustIncoming, when true, reuses an existing request ID from the
	// incoming request header instead of generating a new one.
	TrustIncoming bool
}

// RequestID returns a middleware that generates or propagates a request
// ID header. The ID is set on the request header (for downstream
// middleware and the handler), exposed via the context, and copied onto
// the response header on the way out.
func RequestID[App any](cfg RequestIDConfig) routing.Middleware[App] {
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = "X-Request-ID"
	}

	generate := cfg.GenerateFunc
	if generate == nil {
		generate = GenerateUUIDv4
	}

	trustIncoming := cfg.TrustIncoming

	return routing.MiddlewareFunc[App](func(ctx context.Context, next routing.Handler[App], req *httpx.Request[App]) (*httpx.Response, error) {
		id := ""
		if trustIncoming {
			id = req.Header().Get(headerName)
		}

		if id == "" {
			id = generate()
		}

		req.Header().Set(headerName, id)
		ctx = context.WithValue(ctx, requestIDKey{}, id)

		resp, err := next(ctx, req)
		if resp != nil {
			resp.Header().Set(headerName, id)
		}

		return resp, err
	})
}

// GenerateUUIDv4 returns a new UUID v4 string.
//
// Spec reference: https://www.rfc-editor.org/rfc/rfc9562#section-5.4
func GenerateUUIDv4() string {
	return uuid.New().String()
}

// GenerateUUIDv7 returns a new UUID v7 string. UUIDs are time-ordered:
// IDs generated later sort lexicographically after earlier ones.
//
// Spec reference: https://www.rfc-editor.org/rfc/rfc9562#section-5.7
func GenerateUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}
