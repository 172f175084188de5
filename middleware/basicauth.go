package middleware

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/consoletvs/valar/httpx"
	"github.com/consoletvs/valar/routing"
)

// ErrNoAuthSource is returned when BasicAuthConfig has neither
// ValidateFunc nor Credentials configured.
var ErrNoAuthSource = errors.New("basic auth: at least one of ValidateFunc or Credentials must be set")

// BasicAuthConfig configures the Basic Auth middleware behaviour.
//
// Spec reference: https://www.rfc-editor.org/rfc/rfc7617
type BasicAuthConfig struct {
	// Realm is the authentication realm sent in the WWW-Authenticate
	// header. Defaults to "Restricted" when empty.
	Realm string

	// ValidateFunc is called to validate credentials dynamically.
	// Takes priority over Credentials when both are set.
	ValidateFunc func(username, password string) bool

	// Credentials is a static map of username -> password pairs.
	// Compared using SHA-256 hashed constant-time comparison to prevent
	// timing attacks, including length-based leaks.
	Credentials map[string]string
}

// BasicAuth returns a middleware that implements HTTP Basic
// Authentication per RFC 7617. It validates the Authorization header and
// short-circuits with 401 Unauthorized when credentials are missing or
// invalid; downstream middleware and the handler never run for rejected
// requests.
//
// It returns ErrNoAuthSource if both ValidateFunc and Credentials are
// nil/empty.
func BasicAuth[App any](cfg BasicAuthConfig) (routing.Middleware[App], error) {
	if cfg.ValidateFunc == nil && len(cfg.Credentials) == 0 {
		return nil, ErrNoAuthSource
	}

	realm := cfg.Realm
	if realm == "" {
		realm = "Restricted"
	}

	wwwAuthenticate := fmt.Sprintf("Basic realm=%q", realm)

	validate := cfg.ValidateFunc
	credentials := cfg.Credentials

	mw := routing.MiddlewareFunc[App](func(ctx context.Context, next routing.Handler[App], req *httpx.Request[App]) (*httpx.Response, error) {
		username, password, ok := basicAuthCredentials(req.Header().Get("Authorization"))
		if !ok {
			return nil, unauthorized(wwwAuthenticate)
		}

		if validate != nil {
			if !validate(username, password) {
				return nil, unauthorized(wwwAuthenticate)
			}
		} else {
			expectedPassword, exists := credentials[username]
			// Always perform the password comparison to prevent timing
			// leaks that reveal whether a username exists in the map.
			passwordMatch := constantTimeEqual(password, expectedPassword)
			if !exists || !passwordMatch {
				return nil, unauthorized(wwwAuthenticate)
			}
		}

		return next(ctx, req)
	})

	return mw, nil
}

// unauthorized builds the structured 401 error carrying the
// WWW-Authenticate challenge (RFC 9110 Section 11.6.1).
func unauthorized(challenge string) *httpx.ErrorResponse {
	return httpx.NewError(http.StatusUnauthorized).
		WithHeader("WWW-Authenticate", challenge)
}

// basicAuthCredentials parses an Authorization header with the Basic
// scheme into a username/password pair per RFC 7617 Section 2.
func basicAuthCredentials(header string) (username, password string, ok bool) {
	const prefix = "Basic "

	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}

	username, password, ok = strings.Cut(string(decoded), ":")
	return username, password, ok
}

// constantTimeEqual compares two strings in constant time by first
// hashing them with SHA-256. This prevents both value leaks and
// length-based timing leaks that raw ConstantTimeCompare would allow on
// different-length inputs.
func constantTimeEqual(a, b string) bool {
	aHash := sha256.Sum256([]byte(a))
	bHash := sha256.Sum256([]byte(b))

	return subtle.ConstantTimeCompare(aHash[:], bHash[:]) == 1
}
