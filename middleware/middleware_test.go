package middleware

import (
	"context"

	"github.com/consoletvs/valar/httpx"
	"github.com/consoletvs/valar/routing"
)

type testApp struct{}

// okNext is a terminal handler returning an empty 200 response.
func okNext(_ context.Context, _ *httpx.Request[*testApp]) (*httpx.Response, error) {
	return httpx.OK(), nil
}

// invoke runs a middleware around next for the given request.
func invoke(m routing.Middleware[*testApp], req *httpx.Request[*testApp], next routing.Handler[*testApp]) (*httpx.Response, error) {
	return m.Handle(context.Background(), next, req)
}
