// Package pagination holds the query and envelope shapes shared by the
// list endpoints of the remote services.
package pagination

import (
	"net/url"
	"strconv"
)

// DefaultPageSize matches the console's table page length.
const DefaultPageSize = 50

// Query drives one list view's remote fetch.
type Query struct {
	Page     int
	PageSize int
	Search   string
}

// DefaultQuery returns the state a freshly opened list view starts from.
func DefaultQuery() Query {
	return Query{Page: 1, PageSize: DefaultPageSize}
}

// Values encodes the query for the list endpoints.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("pageSize", strconv.Itoa(q.PageSize))
	v.Set("search", q.Search)
	return v
}

// Pages reports how many pages the given total spans.
func (q Query) Pages(total int) int {
	if q.PageSize <= 0 || total <= 0 {
		return 1
	}
	pages := total / q.PageSize
	if total%q.PageSize != 0 {
		pages++
	}
	return pages
}

// Page is the envelope the list endpoints respond with. Total is
// authoritative from the server, never locally computed.
type Page[T any] struct {
	Search   string `json:"search"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Total    int    `json:"total"`
	Data     []T    `json:"data"`
}
