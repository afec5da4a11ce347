package server

import (
	"net/http"
	"strconv"

	"github.com/eregister/console/server/listview"
)

// applyListTrigger works out which list trigger a table request carries by
// comparing its query parameters against the controller's current query,
// then fires that trigger. Search changes go through the debounce; page and
// page-size changes refetch immediately. A request that changes nothing
// still refetches, so the table can be reloaded in place.
func applyListTrigger[T any](r *http.Request, ctl *listview.Controller[T]) <-chan error {
	params := r.URL.Query()
	current := ctl.Snapshot().Query
	desired := current

	if params.Has("search") {
		desired.Search = params.Get("search")
	}
	if n, err := strconv.Atoi(params.Get("page")); err == nil && n > 0 {
		desired.Page = n
	}
	if n, err := strconv.Atoi(params.Get("pageSize")); err == nil && n > 0 {
		desired.PageSize = n
	}

	searchChanged := desired.Search != current.Search
	pageChanged := desired.Page != current.Page
	sizeChanged := desired.PageSize != current.PageSize

	if searchChanged && !pageChanged && !sizeChanged {
		return ctl.SetSearch(desired.Search)
	}

	done := make(chan error, 1)
	switch {
	case sizeChanged || (searchChanged && pageChanged):
		done <- ctl.Apply(r.Context(), desired)
	case pageChanged:
		done <- ctl.SetPage(r.Context(), desired.Page)
	default:
		done <- ctl.Refresh(r.Context())
	}
	return done
}
