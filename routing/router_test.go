package routing

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterRegistration(t *testing.T) {
	t.Run("method helpers register leaves", func(t *testing.T) {
		router := NewRouter[*testApp]()
		router.Get("users", okHandler)
		router.Post("users", okHandler)
		router.Put("users/:id", okHandler)
		router.Patch("users/:id", okHandler)
		router.Delete("users/:id", okHandler)

		assert.True(t, router.HasRoute(http.MethodGet, "users"))
		assert.True(t, router.HasRoute(http.MethodPost, "users"))
		assert.True(t, router.HasRoute(http.MethodPut, "users/:id"))
		assert.True(t, router.HasRoute(http.MethodPatch, "users/:id"))
		assert.True(t, router.HasRoute(http.MethodDelete, "users/:id"))
		assert.False(t, router.HasRoute(http.MethodGet, "users/:id"))
	})

	t.Run("any registers every enumerated method", func(t *testing.T) {
		router := NewRouter[*testApp]()
		router.Any("ping", okHandler)

		for _, method := range allMethods {
			assert.True(t, router.HasRoute(method, "ping"), method)
		}
	})

	t.Run("has route descends into groups", func(t *testing.T) {
		router := NewRouter[*testApp]()
		router.Group(NewGroup(Get("users", okHandler)))

		assert.True(t, router.HasRoute(http.MethodGet, "users"))
		assert.False(t, router.HasRoute(http.MethodPost, "users"))
	})

	t.Run("through splits registration across callbacks", func(t *testing.T) {
		webRoutes := func(r *Router[*testApp]) { r.Get("home", okHandler) }
		apiRoutes := func(r *Router[*testApp]) { r.Get("api/users", okHandler) }

		router := NewRouter[*testApp]().Through(webRoutes).Through(apiRoutes)

		assert.True(t, router.HasRoute(http.MethodGet, "home"))
		assert.True(t, router.HasRoute(http.MethodGet, "api/users"))
	})
}

func TestRouterCompile(t *testing.T) {
	t.Run("fallback route is compiled first", func(t *testing.T) {
		router := NewRouter[*testApp]()
		router.Get("users", okHandler)

		matcher, err := router.Compile()
		require.NoError(t, err)

		routes := matcher.Routes()
		require.Len(t, routes, 2)
		assert.True(t, routes[0].IsFallback())
		assert.Equal(t, ".*", routes[0].Template())
		assert.False(t, routes[1].IsFallback())
	})

	t.Run("user routes keep registration order", func(t *testing.T) {
		router := NewRouter[*testApp]()
		router.Get("first", okHandler)
		router.Get("second", okHandler)
		router.Get("third", okHandler)

		matcher, err := router.Compile()
		require.NoError(t, err)

		routes := matcher.Routes()
		require.Len(t, routes, 4)
		assert.Equal(t, "first", routes[1].Template())
		assert.Equal(t, "second", routes[2].Template())
		assert.Equal(t, "third", routes[3].Template())
	})

	t.Run("compilation is repeatable", func(t *testing.T) {
		router := NewRouter[*testApp]()
		router.Get("users/:id", okHandler).Constrain("id", "[0-9]+")
		router.Post("users", okHandler)

		first, err := router.Compile()
		require.NoError(t, err)
		second, err := router.Compile()
		require.NoError(t, err)

		require.Len(t, second.Routes(), len(first.Routes()))
		for i, route := range first.Routes() {
			other := second.Routes()[i]
			assert.Equal(t, route.Template(), other.Template())
			assert.Equal(t, route.Method(), other.Method())
			assert.Equal(t, route.Regexp().String(), other.Regexp().String())
		}
	})

	t.Run("invalid pattern fails compilation", func(t *testing.T) {
		router := NewRouter[*testApp]()
		router.Get("users/:id", okHandler).Constrain("id", "([0-9")

		_, err := router.Compile()
		var patternErr *PatternError
		require.ErrorAs(t, err, &patternErr)
		assert.Equal(t, "users/:id", patternErr.Template)
	})
}
