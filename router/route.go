package router

import (
	"net/http"
	"slices"
	"strings"
)

// methodSet is the set of uppercase HTTP methods a route accepts.
type methodSet []string

// newMethodSet uppercases and deduplicates methods. Blank entries are
// ignored; an empty result defaults to GET.
func newMethodSet(methods []string) methodSet {
	set := make(methodSet, 0, len(methods))
	for _, m := range methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m != "" && !slices.Contains(set, m) {
			set = append(set, m)
		}
	}

	if len(set) == 0 {
		set = append(set, http.MethodGet)
	}

	return set
}

// Match reports whether the request method, compared case-insensitively,
// is in the set.
func (m methodSet) Match(method string) bool {
	return slices.Contains(m, strings.ToUpper(method))
}

// MatchResult describes how a route compares to a request.
type MatchResult struct {
	// PathMatched reports that the segments of the request path match
	// the route expression.
	PathMatched bool

	// MethodMatched reports that the path matched and the request method
	// is one of the route methods.
	MethodMatched bool

	// Args holds the captured variable values when PathMatched is true.
	Args []string
}

// Route is a registered route expression bound to a handler. It is
// immutable once added to a Registry.
type Route struct {
	expression string
	tokens     []PatternToken
	handler    Handler
	methods    methodSet
}

func newRoute(expression string, h Handler, methods []string) *Route {
	return &Route{
		expression: expression,
		tokens:     Compile(expression),
		handler:    h,
		methods:    newMethodSet(methods),
	}
}

// Expression returns the route expression as registered.
func (r *Route) Expression() string {
	return r.expression
}

// Tokens returns the compiled segments of the route expression.
func (r *Route) Tokens() []PatternToken {
	return slices.Clone(r.tokens)
}

// Methods returns the uppercase methods the route accepts.
func (r *Route) Methods() []string {
	return slices.Clone(r.methods)
}

// GetHandler returns the handler bound to the route.
func (r *Route) GetHandler() Handler {
	return r.handler
}

// Variables returns the number of variable segments in the expression.
func (r *Route) Variables() int {
	n := 0
	for _, tok := range r.tokens {
		if tok.Variable {
			n++
		}
	}
	return n
}

// Match compares the route to a request path and method.
func (r *Route) Match(path, method string) MatchResult {
	return r.match(Split(path), method)
}

func (r *Route) match(segments []string, method string) MatchResult {
	args, ok := MatchPath(r.tokens, segments)
	if !ok {
		return MatchResult{}
	}

	return MatchResult{
		PathMatched:   true,
		MethodMatched: r.methods.Match(method),
		Args:          args,
	}
}
