// Package tableview holds the state of one searchable, paginated dashboard table.
//
// A View owns its record list exclusively. Filtering and pagination are pure
// functions of (records, query, page); the filtered set is memoised on the
// records version and query, and recomputed whenever either changes.
package tableview

import (
	"portal/internal/application/listutil"
)

// Record is one row of a dashboard table.
type Record interface {
	// Values returns every searchable field as display text.
	Values() []string
}

// View is the state of one mounted dashboard table.
// INVARIANT: page is within [1, max(1, TotalPages)] after every operation.
type View[T Record] struct {
	name    string
	records []T
	query   string
	page    int
	version int

	memoVersion  int
	memoQuery    string
	memoValid    bool
	memoFiltered []T
}

// New mounts a view over a copy of records.
// PRE: name is non-empty
// POST: query is empty, page is 1
func New[T Record](name string, records []T) *View[T] {
	own := make([]T, len(records))
	copy(own, records)
	return &View[T]{name: name, records: own, page: 1}
}

// Name returns the view name.
func (v *View[T]) Name() string {
	return v.name
}

// Len returns the number of records held, matching or not.
func (v *View[T]) Len() int {
	return len(v.records)
}

// Records returns a copy of every record in insertion order.
func (v *View[T]) Records() []T {
	out := make([]T, len(v.records))
	copy(out, v.records)
	return out
}

// Query returns the current search string.
func (v *View[T]) Query() string {
	return v.query
}

// SetSearch replaces the search query. A changed query reflows to page 1.
// POST: Query() == q; Page() == 1 if the query changed
func (v *View[T]) SetSearch(q string) {
	if q == v.query {
		return
	}
	v.query = q
	v.page = 1
}

// Filtered returns the records matching the current query, in insertion order.
// The returned slice must not be modified.
func (v *View[T]) Filtered() []T {
	if v.memoValid && v.memoVersion == v.version && v.memoQuery == v.query {
		return v.memoFiltered
	}
	v.memoFiltered = listutil.Filter(v.records, v.query, recordValues[T])
	v.memoVersion = v.version
	v.memoQuery = v.query
	v.memoValid = true
	return v.memoFiltered
}

// PageInfo returns pagination metadata for the current page.
// POST: the stored page is clamped to the valid range
func (v *View[T]) PageInfo() listutil.PageInfo {
	info := listutil.NewPageInfo(v.page, listutil.PageSize, len(v.Filtered()))
	v.page = info.Page
	return info
}

// Page returns the current 1-indexed page number.
func (v *View[T]) Page() int {
	return v.PageInfo().Page
}

// PageRows returns the rows shown on the current page.
// POST: len(result) <= listutil.PageSize
func (v *View[T]) PageRows() []T {
	return listutil.Paginate(v.Filtered(), v.PageInfo())
}

// NextPage advances one page. It is a no-op on the last page.
// POST: returns true if the page changed
func (v *View[T]) NextPage() bool {
	info := v.PageInfo()
	if !info.HasNext() {
		return false
	}
	v.page = info.Page + 1
	return true
}

// PrevPage goes back one page. It is a no-op on the first page.
// POST: returns true if the page changed
func (v *View[T]) PrevPage() bool {
	info := v.PageInfo()
	if !info.HasPrev() {
		return false
	}
	v.page = info.Page - 1
	return true
}

// GoToPage jumps to page p, clamped to the valid range.
func (v *View[T]) GoToPage(p int) {
	v.page = p
	v.PageInfo()
}

// Append adds r to the end of the record list and returns to page 1.
// POST: Len() grows by one; Page() == 1
func (v *View[T]) Append(r T) {
	v.records = append(v.records, r)
	v.version++
	v.page = 1
}

func recordValues[T Record](r T) []string {
	return r.Values()
}

// Apply runs the request-level controls against the view: a present search
// replaces the query, then an explicit page jump, then a single step.
func (v *View[T]) Apply(p listutil.ViewParams) {
	if p.HasSearch {
		v.SetSearch(p.Search)
	}
	if p.Page > 0 {
		v.GoToPage(p.Page)
	}
	switch p.Nav {
	case listutil.NavNext:
		v.NextPage()
	case listutil.NavPrev:
		v.PrevPage()
	}
}
