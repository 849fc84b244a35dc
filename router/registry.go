package router

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
)

// Registry is an ordered collection of routes with a no-match and a
// method-not-allowed fallback.
//
// Routes are matched in registration order. In first-match mode the first
// route whose path and method both match is dispatched and the run ends.
// In multi-match mode every such route is dispatched in order.
//
// It implements the http.Handler interface, so it can be registered to serve
// requests:
//
//	reg := router.NewRegistry()
//	reg.HandleFunc("/pages/{id}", pageHandler)
//	http.ListenAndServe(":8080", reg)
//
// Add and the Set methods may be called while requests are being served;
// a run works on a snapshot of the routes taken when it starts.
type Registry struct {
	mu               sync.RWMutex
	routes           []*Route
	noMatch          Handler
	methodNotAllowed Handler

	dispatcher   *Dispatcher
	logger       *slog.Logger
	errorHandler func(http.ResponseWriter, *http.Request, error)
	multiMatch   bool
}

// NewRegistry returns an empty registry with its own Dispatcher.
func NewRegistry() *Registry {
	return &Registry{
		dispatcher: NewDispatcher(),
	}
}

// Add appends a route. methods defaults to GET when empty and is matched
// case-insensitively. Routes need not be distinct; order matters for
// first-match mode.
func (g *Registry) Add(expression string, h Handler, methods ...string) *Route {
	route := newRoute(expression, h, methods)

	g.mu.Lock()
	g.routes = append(g.routes, route)
	g.mu.Unlock()

	return route
}

// HandleFunc appends a route dispatched to f.
func (g *Registry) HandleFunc(expression string, f Func, methods ...string) *Route {
	return g.Add(expression, f, methods...)
}

// SetNoMatchHandler sets the handler called with the request path when no
// route path matches. A nil handler disables the fallback.
func (g *Registry) SetNoMatchHandler(h Handler) {
	g.mu.Lock()
	g.noMatch = h
	g.mu.Unlock()
}

// SetMethodNotAllowedHandler sets the handler called with the request path
// and method when at least one route path matches but none of those
// routes accepts the method. A nil handler disables the fallback.
func (g *Registry) SetMethodNotAllowedHandler(h Handler) {
	g.mu.Lock()
	g.methodNotAllowed = h
	g.mu.Unlock()
}

// MultiMatch sets the mode used by ServeHTTP.
func (g *Registry) MultiMatch(value bool) *Registry {
	g.mu.Lock()
	g.multiMatch = value
	g.mu.Unlock()
	return g
}

// Logger sets the logger used to report dispatch failures from ServeHTTP.
// Defaults to slog.Default().
func (g *Registry) Logger(l *slog.Logger) *Registry {
	g.mu.Lock()
	g.logger = l
	g.mu.Unlock()
	return g
}

// ErrorHandler sets the function ServeHTTP calls after a dispatch failure.
// Defaults to replying 500 Internal Server Error.
func (g *Registry) ErrorHandler(f func(http.ResponseWriter, *http.Request, error)) *Registry {
	g.mu.Lock()
	g.errorHandler = f
	g.mu.Unlock()
	return g
}

// WithDispatcher replaces the dispatcher used to resolve handlers.
func (g *Registry) WithDispatcher(d *Dispatcher) *Registry {
	g.mu.Lock()
	g.dispatcher = d
	g.mu.Unlock()
	return g
}

// Dispatcher returns the dispatcher used to resolve handlers.
func (g *Registry) Dispatcher() *Dispatcher {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.dispatcher
}

// Routes returns the registered routes in registration order.
func (g *Registry) Routes() []*Route {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.routes)
}

// NoMatchHandler returns the no-match fallback, if any.
func (g *Registry) NoMatchHandler() Handler {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.noMatch
}

// MethodNotAllowedHandler returns the method-not-allowed fallback, if any.
func (g *Registry) MethodNotAllowedHandler() Handler {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.methodNotAllowed
}

// MultiMatchEnabled reports the mode used by ServeHTTP.
func (g *Registry) MultiMatchEnabled() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.multiMatch
}

// Run matches req against the registered routes and dispatches.
//
// Each route whose path and method match is dispatched with its captured
// variables; unless multiMatch is set, the run ends after the first one.
// When nothing was dispatched, the no-match handler is called with the
// request path if no route path matched, otherwise the method-not-allowed
// handler is called with the path and method. Unset fallbacks are skipped.
//
// Routes match against the escaped request path, one unescaped segment at
// a time, so "/a/b%2Fc" is the two segments "a" and "b/c". Fallbacks get
// the decoded path ("/a/b/c").
//
// Run returns the resolution errors of the handlers it tried to dispatch,
// joined in multi-match mode. A failed dispatch does not stop the
// remaining multi-match dispatches.
func (g *Registry) Run(w http.ResponseWriter, req *http.Request, multiMatch bool) error {
	g.mu.RLock()
	routes := g.routes
	noMatch := g.noMatch
	methodNotAllowed := g.methodNotAllowed
	d := g.dispatcher
	g.mu.RUnlock()

	if d == nil {
		d = NewDispatcher()
	}

	path := requestPath(req)
	segments := splitSegments(escapedRequestPath(req))

	var pathMatched, methodMatched bool
	var errs []error

	for _, route := range routes {
		args, ok := MatchPath(route.tokens, segments)
		if !ok {
			continue
		}
		pathMatched = true

		if !route.methods.Match(req.Method) {
			continue
		}
		methodMatched = true

		if err := d.Invoke(w, setRouteContext(req, route, args), route.handler, args); err != nil {
			errs = append(errs, err)
		}

		if !multiMatch {
			return errors.Join(errs...)
		}
	}

	fallbackPath := trimTrailingSlash(path)

	switch {
	case !pathMatched && noMatch != nil:
		if err := d.Invoke(w, req, noMatch, []string{fallbackPath}); err != nil {
			errs = append(errs, err)
		}
	case !methodMatched && methodNotAllowed != nil:
		if err := d.Invoke(w, req, methodNotAllowed, []string{fallbackPath, req.Method}); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// ServeHTTP runs the registry for the request in the configured mode.
// Dispatch failures are logged and passed to the error handler.
func (g *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	g.mu.RLock()
	multiMatch := g.multiMatch
	logger := g.logger
	errorHandler := g.errorHandler
	g.mu.RUnlock()

	err := g.Run(w, req, multiMatch)
	if err == nil {
		return
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("router: dispatch failed",
		slog.String("method", req.Method),
		slog.String("path", requestPath(req)),
		slog.Any("error", err),
	)

	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}
	errorHandler(w, req, err)
}

func defaultErrorHandler(w http.ResponseWriter, _ *http.Request, _ error) {
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// requestPath returns the decoded path of the request URL, falling back to
// the raw request URI for requests without a parsed URL. Fallback handlers
// and log records get this form.
func requestPath(req *http.Request) string {
	if req.URL != nil {
		return req.URL.Path
	}
	if p, err := url.PathUnescape(pathComponent(req.RequestURI)); err == nil {
		return p
	}
	return pathComponent(req.RequestURI)
}

// escapedRequestPath returns the path routes are matched against. Splitting
// the escaped form keeps "%2F" inside its segment.
func escapedRequestPath(req *http.Request) string {
	if req.URL != nil {
		return req.URL.EscapedPath()
	}
	return pathComponent(req.RequestURI)
}

// trimTrailingSlash removes trailing slashes, keeping "/" for the root.
func trimTrailingSlash(p string) string {
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	return p
}
