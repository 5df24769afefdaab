package listutil

import (
	"net/url"
	"strconv"
	"strings"
)

// PageSize is the fixed number of rows per page on every dashboard table.
const PageSize = 10

// Navigation directions accepted in the nav query parameter.
const (
	NavNext = "next"
	NavPrev = "prev"
)

// ViewParams carries the table-view controls parsed from a request.
type ViewParams struct {
	Search    string // free-text search query
	HasSearch bool   // true when the request carried a q parameter, even an empty one
	Page      int    // requested page (1-indexed); 0 when absent
	Nav       string // NavNext, NavPrev or ""
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int // current page (1-indexed)
	PerPage    int // rows per page
	Total      int // total matching rows
	TotalPages int // max(1, ceil(Total / PerPage))
}

// ParseViewParams extracts q, page and nav from URL query values.
// PRE: none
// POST: Page is 0 or >= 1; Nav is NavNext, NavPrev or ""
func ParseViewParams(q url.Values) ViewParams {
	vp := ViewParams{}
	if _, ok := q["q"]; ok {
		vp.HasSearch = true
		vp.Search = q.Get("q")
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page >= 1 {
		vp.Page = page
	}
	switch nav := q.Get("nav"); nav {
	case NavNext, NavPrev:
		vp.Nav = nav
	}
	return vp
}

// Matches reports whether any value contains query, ignoring case.
// An empty query matches everything. Matching is plain substring, not word based.
func Matches(values []string, query string) bool {
	if query == "" {
		return true
	}
	needle := strings.ToLower(query)
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

// Filter returns the items whose values match query, preserving order.
// PRE: values maps an item to its searchable fields
// POST: result is a subsequence of items; empty query returns every item
func Filter[T any](items []T, query string, values func(T) []string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if Matches(values(it), query) {
			out = append(out, it)
		}
	}
	return out
}

// Paginate returns the window of items described by info.
// PRE: info was built from len(items)
// POST: len(result) <= info.PerPage
func Paginate[T any](items []T, info PageInfo) []T {
	start := info.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + info.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: returns PageInfo with TotalPages computed; Page clamped to valid range
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = PageSize
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the index of the first row on the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// StartRow returns the 1-indexed first row number on the current page.
// PRE: PageInfo is valid
// POST: Returns 0 if Total is 0, otherwise Offset+1
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow returns the 1-indexed last row number on the current page.
// PRE: PageInfo is valid
// POST: Returns min(Offset+PerPage, Total)
func (p PageInfo) EndRow() int {
	end := p.Offset() + p.PerPage
	if end > p.Total {
		end = p.Total
	}
	return end
}

// HasPrev reports whether a previous page exists.
func (p PageInfo) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether a following page exists.
func (p PageInfo) HasNext() bool {
	return p.Page < p.TotalPages
}

// ShowPagination returns true if pagination controls should be displayed.
// PRE: PageInfo is valid
// POST: Returns true if more than one page exists
func (p PageInfo) ShowPagination() bool {
	return p.TotalPages > 1
}
