package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consoletvs/valar/httpx"
	"github.com/consoletvs/valar/routing"
)

func corsMiddleware(t *testing.T, cfg CORSConfig) routing.Middleware[*testApp] {
	t.Helper()
	m, err := CORS[*testApp](cfg)
	require.NoError(t, err)
	return m
}

func TestCORSConfigValidation(t *testing.T) {
	t.Run("wildcard with credentials is rejected", func(t *testing.T) {
		_, err := CORS[*testApp](CORSConfig{
			AllowedOrigins:   []string{"*"},
			AllowCredentials: true,
		})
		assert.ErrorIs(t, err, ErrWildcardCredentials)
	})

	t.Run("multiple wildcards in one pattern are rejected", func(t *testing.T) {
		_, err := CORS[*testApp](CORSConfig{
			AllowedOrigins: []string{"https://*.*.example.com"},
		})
		assert.Error(t, err)
	})
}

func TestCORSActualRequests(t *testing.T) {
	t.Run("requests without an origin pass through untouched", func(t *testing.T) {
		m := corsMiddleware(t, CORSConfig{AllowedOrigins: []string{"https://app.example.com"}})

		req := httpx.NewRequest(&testApp{}, http.MethodGet, "/users")
		resp, err := invoke(m, req, okNext)
		require.NoError(t, err)
		assert.False(t, resp.HasHeader("Access-Control-Allow-Origin"))
	})

	t.Run("allowed origin is reflected", func(t *testing.T) {
		m := corsMiddleware(t, CORSConfig{AllowedOrigins: []string{"https://app.example.com"}})

		req := httpx.NewRequest(&testApp{}, http.MethodGet, "/users").
			WithHeader("Origin", "https://app.example.com")
		resp, err := invoke(m, req, okNext)
		require.NoError(t, err)

		assert.Equal(t, "https://app.example.com", resp.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, resp.Header().Values("Vary"), "Origin")
	})

	t.Run("disallowed origin gets no cors headers", func(t *testing.T) {
		m := corsMiddleware(t, CORSConfig{AllowedOrigins: []string{"https://app.example.com"}})

		req := httpx.NewRequest(&testApp{}, http.MethodGet, "/users").
			WithHeader("Origin", "https://evil.example.com")
		resp, err := invoke(m, req, okNext)
		require.NoError(t, err)
		assert.False(t, resp.HasHeader("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard origin emits a literal asterisk", func(t *testing.T) {
		m := corsMiddleware(t, CORSConfig{AllowedOrigins: []string{"*"}})

		req := httpx.NewRequest(&testApp{}, http.MethodGet, "/users").
			WithHeader("Origin", "https://anywhere.example.com")
		resp, err := invoke(m, req, okNext)
		require.NoError(t, err)
		assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("subdomain wildcard patterns match", func(t *testing.T) {
		m := corsMiddleware(t, CORSConfig{AllowedOrigins: []string{"https://*.example.com"}})

		req := httpx.NewRequest(&testApp{}, http.MethodGet, "/users").
			WithHeader("Origin", "https://app.example.com")
		resp, err := invoke(m, req, okNext)
		require.NoError(t, err)
		assert.Equal(t, "https://app.example.com", resp.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("origin matching is case insensitive", func(t *testing.T) {
		m := corsMiddleware(t, CORSConfig{AllowedOrigins: []string{"https://App.Example.com"}})

		req := httpx.NewRequest(&testApp{}, http.MethodGet, "/users").
			WithHeader("Origin", "https://app.example.com")
		resp, err := invoke(m, req, okNext)
		require.NoError(t, err)
		assert.True(t, resp.HasHeader("Access-Control-Allow-Origin"))
	})

	t.Run("allow origin func covers dynamic origins", func(t *testing.T) {
		m := corsMiddleware(t, CORSConfig{
			AllowOriginFunc: func(origin string) bool { return origin == "https://dynamic.example.com" },
		})

		req := httpx.NewRequest(&testApp{}, http.MethodGet, "/users").
			WithHeader("Origin", "https://dynamic.example.com")
		resp, err := invoke(m, req, okNext)
		require.NoError(t, err)
		assert.True(t, resp.HasHeader("Access-Control-Allow-Origin"))
	})

	t.Run("expose headers are advertised", func(t *testing.T) {
		m := corsMiddleware(t, CORSConfig{
			AllowedOrigins: []string{"*"},
			ExposeHeaders:  []string{"X-Request-ID", "X-RateLimit-Remaining"},
		})

		req := httpx.NewRequest(&testApp{}, http.MethodGet, "/users").
			WithHeader("Origin", "https://app.example.com")
		resp, err := invoke(m, req, okNext)
		require.NoError(t, err)
		assert.Equal(t, "X-Request-ID,X-RateLimit-Remaining", resp.Header().Get("Access-Control-Expose-Headers"))
	})

	t.Run("credentials header is set when enabled", func(t *testing.T) {
		m := corsMiddleware(t, CORSConfig{
			AllowedOrigins:   []string{"https://app.example.com"},
			AllowCredentials: true,
		})

		req := httpx.NewRequest(&testApp{}, http.MethodGet, "/users").
			WithHeader("Origin", "https://app.example.com")
		resp, err := invoke(m, req, okNext)
		require.NoError(t, err)
		assert.Equal(t, "true", resp.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestCORSPreflight(t *testing.T) {
	preflight := func(origin string) *httpx.Request[*testApp] {
		return httpx.NewRequest(&testApp{}, http.MethodOptions, "/users").
			WithHeader("Origin", origin).
			WithHeader("Access-Control-Request-Method", http.MethodPost)
	}

	t.Run("preflight terminates the chain with 204", func(t *testing.T) {
		m := corsMiddleware(t, CORSConfig{AllowedOrigins: []string{"*"}})

		var downstreamRan bool
		next := routing.Handler[*testApp](func(_ context.Context, _ *httpx.Request[*testApp]) (*httpx.Response, error) {
			downstreamRan = true
			return httpx.OK(), nil
		})

		resp, err := invoke(m, preflight("https://app.example.com"), next)
		require.NoError(t, err)

		assert.Equal(t, http.StatusNoContent, resp.Status())
		assert.False(t, downstreamRan)
		assert.Contains(t, resp.Header().Values("Vary"), "Access-Control-Request-Method")
	})

	t.Run("configured methods are advertised", func(t *testing.T) {
		m := corsMiddleware(t, CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
		})

		resp, err := invoke(m, preflight("https://app.example.com"), okNext)
		require.NoError(t, err)
		assert.Equal(t, "GET,POST", resp.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("requested method is reflected when unconfigured", func(t *testing.T) {
		m := corsMiddleware(t, CORSConfig{AllowedOrigins: []string{"*"}})

		resp, err := invoke(m, preflight("https://app.example.com"), okNext)
		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, resp.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("requested headers are reflected when unconfigured", func(t *testing.T) {
		m := corsMiddleware(t, CORSConfig{AllowedOrigins: []string{"*"}})

		req := preflight("https://app.example.com").
			WithHeader("Access-Control-Request-Headers", "content-type,x-custom")
		resp, err := invoke(m, req, okNext)
		require.NoError(t, err)
		assert.Equal(t, "content-type,x-custom", resp.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("max age is emitted for positive values", func(t *testing.T) {
		m := corsMiddleware(t, CORSConfig{AllowedOrigins: []string{"*"}, MaxAge: 600})

		resp, err := invoke(m, preflight("https://app.example.com"), okNext)
		require.NoError(t, err)
		assert.Equal(t, "600", resp.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("negative max age disables caching", func(t *testing.T) {
		m := corsMiddleware(t, CORSConfig{AllowedOrigins: []string{"*"}, MaxAge: -1})

		resp, err := invoke(m, preflight("https://app.example.com"), okNext)
		require.NoError(t, err)
		assert.Equal(t, "0", resp.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("options without a requested method is not a preflight", func(t *testing.T) {
		m := corsMiddleware(t, CORSConfig{AllowedOrigins: []string{"*"}})

		req := httpx.NewRequest(&testApp{}, http.MethodOptions, "/users").
			WithHeader("Origin", "https://app.example.com")
		resp, err := invoke(m, req, okNext)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.Status())
	})
}
