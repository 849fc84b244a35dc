// Package pages implements the page controller served by the example
// application: listing active pages and loading a single page by ID, with
// JSON responses and JSON fallbacks for unmatched routes.
package pages

import (
	"net/http"
	"strconv"

	"github.com/vitalvas/simplerouter/router"
)

// Target names registered by Register.
const (
	LoaderTarget = "PageLoader"
	ErrorsTarget = "Errors"
)

// DefaultLimit is the number of pages GetPages returns without a limit
// query parameter.
const DefaultLimit = 25

// PageLoader serves pages from a Store.
type PageLoader struct {
	store Store
}

// NewPageLoader returns a page controller reading from store.
func NewPageLoader(store Store) *PageLoader {
	return &PageLoader{store: store}
}

// Member implements router.Target.
func (l *PageLoader) Member(name string) (router.Func, bool) {
	switch name {
	case "GetPages":
		return l.GetPages, true
	case "GetPageByID":
		return l.GetPageByID, true
	}
	return nil, false
}

// GetPages writes the active pages ordered by position. The limit and
// offset query parameters select the window (?limit=2&offset=2); limit
// defaults to DefaultLimit. It replies 404 without a body when the window
// is empty.
func (l *PageLoader) GetPages(w http.ResponseWriter, r *http.Request, _ []string) {
	q := r.URL.Query()

	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit <= 0 {
		limit = DefaultLimit
	}

	offset, err := strconv.Atoi(q.Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	pages := l.store.Active(offset, limit)
	if len(pages) == 0 {
		router.ResponseJSON(w, http.StatusNotFound, nil)
		return
	}

	router.ResponseJSON(w, http.StatusOK, pages)
}

// GetPageByID writes the page whose ID is the first route variable
// (/pages/16). It replies 404 without a body when the ID is not a number
// or the page is missing or inactive.
func (l *PageLoader) GetPageByID(w http.ResponseWriter, _ *http.Request, args []string) {
	var id int
	if len(args) > 0 {
		id, _ = strconv.Atoi(args[0])
	}

	page, ok := l.store.Get(id)
	if !ok || !page.Active {
		router.ResponseJSON(w, http.StatusNotFound, nil)
		return
	}

	router.ResponseJSON(w, http.StatusOK, page)
}

// Errors is the fallback controller. NotFound expects the request path as
// its only argument; MethodNotAllowed expects the path and the method.
var Errors = router.Members{
	"NotFound": func(w http.ResponseWriter, _ *http.Request, args []string) {
		router.ResponseError(w, http.StatusNotFound, router.ErrorResponse{
			Code: "not_found",
			Path: argAt(args, 0),
		})
	},
	"MethodNotAllowed": func(w http.ResponseWriter, _ *http.Request, args []string) {
		router.ResponseError(w, http.StatusMethodNotAllowed, router.ErrorResponse{
			Code:   "method_not_allowed",
			Path:   argAt(args, 0),
			Method: argAt(args, 1),
		})
	},
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// Register binds the page controller and the fallback controller to d
// under their bare target names, so references with any namespace
// (`app\pages\PageLoader::GetPages`) resolve to them.
func Register(d *router.Dispatcher, store Store) {
	d.Register(LoaderTarget, func() (router.Target, error) {
		return NewPageLoader(store), nil
	})
	d.RegisterTarget(ErrorsTarget, Errors)
}
