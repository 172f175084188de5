package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/consoletvs/valar/httpx"
	"github.com/consoletvs/valar/routing"
)

// ErrWildcardCredentials is returned when AllowedOrigins contains "*"
// and AllowCredentials is true. Use AllowOriginFunc for dynamic origin
// checks with credentials.
var ErrWildcardCredentials = errors.New("wildcard origin \"*\" cannot be used with AllowCredentials; use AllowOriginFunc instead")

// CORSConfig configures the CORS middleware behaviour.
//
// Spec references:
//   - CORS protocol: https://fetch.spec.whatwg.org/#http-cors-protocol
//   - Web Origin:    https://www.rfc-editor.org/rfc/rfc6454
//   - HTTP Vary:     https://www.rfc-editor.org/rfc/rfc9110#field.vary
type CORSConfig struct {
	// AllowedOrigins is a list of exact origin strings, "*" for
	// wildcard, or subdomain wildcard patterns like
	// "https://*.example.com".
	AllowedOrigins []string

	// AllowOriginFunc is an optional dynamic callback invoked when the
	// origin does not match any entry in AllowedOrigins. Return true to
	// allow.
	AllowOriginFunc func(origin string) bool

	// AllowedMethods is the set of methods advertised in preflight
	// responses. When empty the middleware reflects the
	// Access-Control-Request-Method value from the preflight request.
	AllowedMethods []string

	// AllowedHeaders lists the headers the client may send in the
	// actual request. When empty the middleware reflects the
	// Access-Control-Request-Headers value from the preflight request.
	// Use "*" to reflect all requested headers.
	AllowedHeaders []string

	// ExposeHeaders lists the headers the browser may expose to client
	// code.
	ExposeHeaders []string

	// AllowCredentials sets Access-Control-Allow-Credentials: true.
	// Per the Fetch Standard, "*" cannot be used as Allow-Origin when
	// credentials are enabled; CORS returns ErrWildcardCredentials.
	AllowCredentials bool

	// MaxAge is the duration in seconds a preflight result may be
	// cached. Positive values are sent as-is, negative values emit "0",
	// zero omits the header.
	MaxAge int
}

// wildcardPattern is a subdomain wildcard pattern split at the "*".
type wildcardPattern struct {
	prefix string
	suffix string
}

func (c *CORSConfig) hasWildcardOrigin() bool {
	return slices.Contains(c.AllowedOrigins, "*")
}

// parseOrigins normalizes AllowedOrigins to lowercase and splits them
// into exact matches and wildcard patterns.
func parseOrigins(origins []string) ([]string, []wildcardPattern, error) {
	var exact []string
	var patterns []wildcardPattern

	for _, o := range origins {
		if o == "*" {
			exact = append(exact, o)
			continue
		}

		lower := strings.ToLower(o)

		if strings.Contains(lower, "*") {
			parts := strings.SplitN(lower, "*", 2)
			if strings.Contains(parts[1], "*") {
				return nil, nil, errors.New("origin pattern contains multiple wildcards: " + o)
			}

			patterns = append(patterns, wildcardPattern{
				prefix: parts[0],
				suffix: parts[1],
			})
		} else {
			exact = append(exact, lower)
		}
	}

	return exact, patterns, nil
}

func matchOrigin(originLower string, exact []string, patterns []wildcardPattern) bool {
	for _, o := range exact {
		if o == "*" || o == originLower {
			return true
		}
	}

	for _, wp := range patterns {
		if len(originLower) >= len(wp.prefix)+len(wp.suffix) &&
			strings.HasPrefix(originLower, wp.prefix) &&
			strings.HasSuffix(originLower, wp.suffix) {
			return true
		}
	}

	return false
}

// CORS returns a middleware that implements the CORS protocol per the
// Fetch Standard (https://fetch.spec.whatwg.org/#http-cors-protocol).
// It validates the Origin header (RFC 6454), terminates preflight
// OPTIONS requests with 204 No Content, and decorates actual responses
// with the appropriate headers.
//
// Register it with Router.Use: top-level middleware also wraps the
// catch-all fallback route, so preflight requests for method-bound
// routes are intercepted before they turn into 404 responses.
//
// It returns an error if the configuration is invalid (wildcard origin
// combined with AllowCredentials, or a malformed origin pattern).
func CORS[App any](cfg CORSConfig) (routing.Middleware[App], error) {
	if cfg.hasWildcardOrigin() && cfg.AllowCredentials {
		return nil, ErrWildcardCredentials
	}

	exactOrigins, wildcardPatterns, err := parseOrigins(cfg.AllowedOrigins)
	if err != nil {
		return nil, err
	}

	isAllowed := func(origin string) bool {
		if matchOrigin(strings.ToLower(origin), exactOrigins, wildcardPatterns) {
			return true
		}

		if cfg.AllowOriginFunc != nil {
			return cfg.AllowOriginFunc(origin)
		}

		return false
	}

	headersWildcard := slices.Contains(cfg.AllowedHeaders, "*")

	return routing.MiddlewareFunc[App](func(ctx context.Context, next routing.Handler[App], req *httpx.Request[App]) (*httpx.Response, error) {
		origin := req.Header().Get("Origin")
		if origin == "" || !isAllowed(origin) {
			return next(ctx, req)
		}

		if req.Method() == http.MethodOptions && req.HasHeader("Access-Control-Request-Method") {
			return preflightResponse(req, &cfg, origin, headersWildcard), nil
		}

		resp, err := next(ctx, req)
		if resp != nil {
			setOriginHeaders(resp, &cfg, origin)

			if len(cfg.ExposeHeaders) > 0 {
				resp.WithHeader("Access-Control-Expose-Headers", strings.Join(cfg.ExposeHeaders, ","))
			}
		}

		return resp, err
	}), nil
}

// preflightResponse terminates a CORS preflight request.
func preflightResponse[App any](req *httpx.Request[App], cfg *CORSConfig, origin string, headersWildcard bool) *httpx.Response {
	resp := httpx.NoContent()
	setOriginHeaders(resp, cfg, origin)

	methods := strings.Join(cfg.AllowedMethods, ",")
	if methods == "" {
		methods = req.Header().Get("Access-Control-Request-Method")
	}
	resp.WithHeader("Access-Control-Allow-Methods", methods)

	if headersWildcard {
		if reqHeaders := req.Header().Get("Access-Control-Request-Headers"); reqHeaders != "" {
			resp.WithHeader("Access-Control-Allow-Headers", reqHeaders)
		}
	} else if len(cfg.AllowedHeaders) > 0 {
		resp.WithHeader("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ","))
	} else if reqHeaders := req.Header().Get("Access-Control-Request-Headers"); reqHeaders != "" {
		resp.WithHeader("Access-Control-Allow-Headers", reqHeaders)
	}

	if cfg.MaxAge > 0 {
		resp.WithHeader("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
	} else if cfg.MaxAge < 0 {
		resp.WithHeader("Access-Control-Max-Age", "0")
	}

	resp.AddHeader("Vary", "Access-Control-Request-Method")
	resp.AddHeader("Vary", "Access-Control-Request-Headers")

	return resp
}

// setOriginHeaders sets Access-Control-Allow-Origin, Vary, and
// Access-Control-Allow-Credentials.
func setOriginHeaders(resp *httpx.Response, cfg *CORSConfig, origin string) {
	if cfg.hasWildcardOrigin() && !cfg.AllowCredentials {
		resp.WithHeader("Access-Control-Allow-Origin", "*")
	} else {
		resp.WithHeader("Access-Control-Allow-Origin", origin)
		resp.AddHeader("Vary", "Origin")
	}

	if cfg.AllowCredentials {
		resp.WithHeader("Access-Control-Allow-Credentials", "true")
	}
}
