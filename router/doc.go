// Package router implements a segment-based request router: it matches the
// URL path and HTTP method of a request against an ordered list of route
// expressions, captures positional variables and dispatches to the bound
// handler.
//
// # Route Expressions
//
// An expression is a "/"-delimited path. A segment written as {name} is a
// variable: it matches any single request segment and its value is passed
// to the handler. Every other segment must match literally and
// case-sensitively. Empty segments are ignored on both sides, so trailing
// and doubled slashes make no difference:
//
//	reg := router.NewRegistry()
//	reg.HandleFunc("/pages", listPages)
//	reg.HandleFunc("/pages/{id}", showPage, http.MethodGet, http.MethodHead)
//
// The variable name is documentation only. Values arrive in order:
//
//	func showPage(w http.ResponseWriter, r *http.Request, args []string) {
//		id := args[0]
//		...
//	}
//
// There are no regexp constraints, wildcards or catch-all segments: a
// request path matches an expression only when both have the same number
// of segments.
//
// # Methods
//
// Each route accepts a set of methods, GET when none are given. Request
// methods are compared case-insensitively.
//
// # Handlers
//
// A Handler is either a Func, invoked directly, or a Named reference
// resolved by the registry's Dispatcher:
//
//	d := reg.Dispatcher()
//	d.Register(`app\pages\PageLoader`, newPageLoader)
//	reg.Add("/pages/{id}", router.Named(`app\pages\PageLoader::GetPageByID`))
//
// A Named reference has the form "[Namespace\]Target::Member". The target
// is looked up by its qualified name and then by its bare name; its factory
// runs once and the instance is reused for later dispatches. Names
// registered with RegisterFunc are invoked directly.
//
// # Fallbacks
//
// When no route path matches, the no-match handler receives the request
// path. When a route path matches but no such route accepts the method,
// the method-not-allowed handler receives the path and the method:
//
//	reg.SetNoMatchHandler(router.Named("Errors::NotFound"))
//	reg.SetMethodNotAllowedHandler(router.Named("Errors::MethodNotAllowed"))
//
// # Multi-match
//
// Run dispatches only the first fully matching route unless multi-match is
// requested, in which case every fully matching route runs in registration
// order and fallbacks run only when none did.
package router
