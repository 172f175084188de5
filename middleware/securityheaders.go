package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/consoletvs/valar/httpx"
	"github.com/consoletvs/valar/routing"
)

// ErrInvalidFrameOption is returned when SecurityHeadersConfig.FrameOption
// is not one of the valid values: "DENY", "SAMEORIGIN", or empty string.
var ErrInvalidFrameOption = errors.New("security headers: frame option must be DENY, SAMEORIGIN, or empty")

// SecurityHeadersConfig configures the security headers middleware
// behaviour.
type SecurityHeadersConfig struct {
	// DisableContentTypeNosniff disables the X-Content-Type-Options:
	// nosniff header. The header is set by default (when false).
	DisableContentTypeNosniff bool

	// FrameOption sets the X-Frame-Options header value.
	// Valid values are "DENY", "SAMEORIGIN", or empty string.
	// Defaults to "DENY".
	FrameOption string

	// ReferrerPolicy sets the Referrer-Policy header value.
	// Defaults to "strict-origin-when-cross-origin".
	ReferrerPolicy string

	// HSTSMaxAge sets the max-age directive for the
	// Strict-Transport-Security header in seconds. When zero, the
	// header is not set.
	HSTSMaxAge int

	// HSTSIncludeSubDomains appends the includeSubDomains directive to
	// the Strict-Transport-Security header. Only effective when
	// HSTSMaxAge > 0.
	HSTSIncludeSubDomains bool

	// HSTSPreload appends the preload directive to the
	// Strict-Transport-Security header. Only effective when
	// HSTSMaxAge > 0.
	HSTSPreload bool

	// ContentSecurityPolicy sets the Content-Security-Policy header.
	// When empty, the header is not set.
	ContentSecurityPolicy string

	// PermissionsPolicy sets the Permissions-Policy header.
	// When empty, the header is not set.
	PermissionsPolicy string
}

// SecurityHeaders returns a middleware that sets common security
// response headers on every response passing through it.
//
// It returns ErrInvalidFrameOption if FrameOption is set to a value
// other than "DENY", "SAMEORIGIN", or empty string.
func SecurityHeaders[App any](cfg SecurityHeadersConfig) (routing.Middleware[App], error) {
	if cfg.FrameOption != "" && cfg.FrameOption != "DENY" && cfg.FrameOption != "SAMEORIGIN" {
		return nil, ErrInvalidFrameOption
	}

	if cfg.FrameOption == "" {
		cfg.FrameOption = "DENY"
	}

	if cfg.ReferrerPolicy == "" {
		cfg.ReferrerPolicy = "strict-origin-when-cross-origin"
	}

	var hstsValue string
	if cfg.HSTSMaxAge > 0 {
		hstsValue = fmt.Sprintf("max-age=%d", cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubDomains {
			hstsValue += "; includeSubDomains"
		}
		if cfg.HSTSPreload {
			hstsValue += "; preload"
		}
	}

	return routing.MiddlewareFunc[App](func(ctx context.Context, next routing.Handler[App], req *httpx.Request[App]) (*httpx.Response, error) {
		resp, err := next(ctx, req)
		if resp == nil {
			return resp, err
		}

		if !cfg.DisableContentTypeNosniff {
			resp.WithHeader("X-Content-Type-Options", "nosniff")
		}

		resp.WithHeader("X-Frame-Options", cfg.FrameOption)
		resp.WithHeader("Referrer-Policy", cfg.ReferrerPolicy)

		if hstsValue != "" {
			resp.WithHeader("Strict-Transport-Security", hstsValue)
		}

		if cfg.ContentSecurityPolicy != "" {
			resp.WithHeader("Content-Security-Policy", cfg.ContentSecurityPolicy)
		}

		if cfg.PermissionsPolicy != "" {
			resp.WithHeader("Permissions-Policy", cfg.PermissionsPolicy)
		}

		return resp, err
	}), nil
}
