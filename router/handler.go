package router

import (
	"net/http"
	"strings"
)

// Separators of the "[Namespace\]Target::Member" handler reference syntax.
const (
	MemberSeparator    = "::"
	NamespaceSeparator = `\`
)

// Handler references the code dispatched for a matched route or a fallback.
// It is either a Func or a Named reference.
type Handler interface {
	handlerRef() string
}

// Func is a directly invocable handler. args holds the values captured by
// the variable segments of the route, in the order they occur in the
// expression. Fallback handlers receive the request path as args[0] and,
// for method-not-allowed, the request method as args[1].
type Func func(w http.ResponseWriter, r *http.Request, args []string)

func (f Func) handlerRef() string {
	return "<func>"
}

// Named references a handler by name. The name is either a function
// registered with Dispatcher.RegisterFunc or a reference of the form
// "[Namespace\]Target::Member", where Target is looked up in the
// dispatcher's factory table and Member is invoked on its instance.
type Named string

func (n Named) handlerRef() string {
	return string(n)
}

// String returns the reference text of h: the name of a Named handler or
// "<func>" for a Func. It returns an empty string for a nil handler.
func String(h Handler) string {
	if h == nil {
		return ""
	}
	return h.handlerRef()
}

// Target is a handler object constructed by a Factory. Member returns the
// invocable member with the given name.
type Target interface {
	Member(name string) (Func, bool)
}

// Members is a Target backed by a map from member name to function.
type Members map[string]Func

// Member implements Target.
func (m Members) Member(name string) (Func, bool) {
	f, ok := m[name]
	return f, ok && f != nil
}

// Factory constructs a Target. It is called at most once per target name
// for the lifetime of a Dispatcher run.
type Factory func() (Target, error)

// reference is a parsed Named handler.
type reference struct {
	namespace string
	target    string
	member    string
}

// qualified returns the namespace-qualified target name.
func (r reference) qualified() string {
	if r.namespace == "" {
		return r.target
	}
	return r.namespace + NamespaceSeparator + r.target
}

// parseReference splits "[Namespace\]Target[::Member]". The member is cut at
// the first "::"; the namespace is cut at the last separator before it,
// searching the qualifier from the right without rewriting it, so
// qualifiers with multi-byte identifiers survive intact.
func parseReference(ref string) reference {
	qualified, member, _ := strings.Cut(strings.TrimSpace(ref), MemberSeparator)
	qualified = normalizeName(qualified)

	r := reference{target: qualified, member: strings.TrimSpace(member)}
	if i := strings.LastIndex(qualified, NamespaceSeparator); i >= 0 {
		r.namespace = qualified[:i]
		r.target = qualified[i+len(NamespaceSeparator):]
	}

	return r
}

// normalizeName drops surrounding white space and a leading namespace
// separator, so `\app\Pages` and `app\Pages` name the same target.
func normalizeName(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), NamespaceSeparator)
}
