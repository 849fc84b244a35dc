package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgs(t *testing.T) {
	t.Run("returns nil without route context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Nil(t, Args(req))
		assert.Nil(t, CurrentRoute(req))

		_, ok := Arg(req, 0)
		assert.False(t, ok)
	})

	t.Run("SetArgs stores copies", func(t *testing.T) {
		args := []string{"16", "rev"}
		req := SetArgs(httptest.NewRequest(http.MethodGet, "/", nil), args...)
		args[0] = "changed"

		assert.Equal(t, []string{"16", "rev"}, Args(req))

		v, ok := Arg(req, 1)
		assert.True(t, ok)
		assert.Equal(t, "rev", v)

		_, ok = Arg(req, 2)
		assert.False(t, ok)
		_, ok = Arg(req, -1)
		assert.False(t, ok)
	})

	t.Run("SetArgs keeps current route", func(t *testing.T) {
		route := newRoute("/pages/{id}", nil, nil)
		req := setRouteContext(httptest.NewRequest(http.MethodGet, "/", nil), route, []string{"1"})

		req = SetArgs(req, "2")

		assert.Same(t, route, CurrentRoute(req))
		assert.Equal(t, []string{"2"}, Args(req))
	})
}
