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

func panicNext(_ context.Context, _ *httpx.Request[*testApp]) (*httpx.Response, error) {
	panic("secret database password")
}

func TestRecovery(t *testing.T) {
	t.Run("converts a panic into a 500 error", func(t *testing.T) {
		m := Recovery[*testApp](RecoveryConfig[*testApp]{})
		req := httpx.NewRequest(&testApp{}, http.MethodGet, "/")

		resp, err := invoke(m, req, panicNext)
		assert.Nil(t, resp)

		var er *httpx.ErrorResponse
		require.ErrorAs(t, err, &er)
		assert.Equal(t, http.StatusInternalServerError, er.Status())
	})

	t.Run("panic value is never echoed to the client", func(t *testing.T) {
		m := Recovery[*testApp](RecoveryConfig[*testApp]{})
		req := httpx.NewRequest(&testApp{}, http.MethodGet, "/")

		_, err := invoke(m, req, panicNext)
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "secret")
	})

	t.Run("log callback receives the recovered value", func(t *testing.T) {
		var recovered any
		m := Recovery[*testApp](RecoveryConfig[*testApp]{
			LogFunc: func(_ *httpx.Request[*testApp], r any) { recovered = r },
		})
		req := httpx.NewRequest(&testApp{}, http.MethodGet, "/")

		_, err := invoke(m, req, panicNext)
		require.Error(t, err)
		assert.Equal(t, "secret database password", recovered)
	})

	t.Run("passes healthy responses through", func(t *testing.T) {
		m := Recovery[*testApp](RecoveryConfig[*testApp]{})
		req := httpx.NewRequest(&testApp{}, http.MethodGet, "/")

		resp, err := invoke(m, req, okNext)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.Status())
	})

	t.Run("passes handler errors through unchanged", func(t *testing.T) {
		m := Recovery[*testApp](RecoveryConfig[*testApp]{})
		req := httpx.NewRequest(&testApp{}, http.MethodGet, "/")

		wantErr := httpx.NewError(http.StatusTeapot)
		next := routing.Handler[*testApp](func(_ context.Context, _ *httpx.Request[*testApp]) (*httpx.Response, error) {
			return nil, wantErr
		})

		_, err := invoke(m, req, next)
		assert.ErrorIs(t, err, wantErr)
	})
}
