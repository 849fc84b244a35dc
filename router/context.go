package router

import (
	"context"
	"net/http"
	"slices"
)

// routeContextKey is an unexported type for the single context key.
type routeContextKey struct{}

var ctxKey = routeContextKey{}

// routeContext holds the dispatched route and its captured variables.
type routeContext struct {
	route *Route
	args  []string
}

// Args returns the captured route variables of the current request in
// expression order, or nil outside a dispatched route handler.
func Args(r *http.Request) []string {
	if rc, ok := r.Context().Value(ctxKey).(*routeContext); ok {
		return rc.args
	}
	return nil
}

// Arg returns the i-th captured route variable and whether it exists.
func Arg(r *http.Request, i int) (string, bool) {
	args := Args(r)
	if i < 0 || i >= len(args) {
		return "", false
	}
	return args[i], true
}

// CurrentRoute returns the dispatched route for the current request, if any.
// Fallback handlers see no route.
func CurrentRoute(r *http.Request) *Route {
	if rc, ok := r.Context().Value(ctxKey).(*routeContext); ok {
		return rc.route
	}
	return nil
}

// SetArgs sets the captured route variables for the given request,
// returning the modified request. This is intended for testing route
// handlers.
func SetArgs(r *http.Request, args ...string) *http.Request {
	var route *Route
	if rc, ok := r.Context().Value(ctxKey).(*routeContext); ok {
		route = rc.route
	}
	return setRouteContext(r, route, slices.Clone(args))
}

func setRouteContext(r *http.Request, route *Route, args []string) *http.Request {
	ctx := context.WithValue(r.Context(), ctxKey, &routeContext{route: route, args: args})
	return r.WithContext(ctx)
}
