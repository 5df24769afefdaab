package announcement

import (
	"portal/internal/domain/validation"
)

// ViewName identifies the announcements view.
const ViewName = "announcements"

// Form field names, as submitted by the add form.
const (
	FieldTitle   = "title"
	FieldDate    = "date"
	FieldDetails = "details"
)

// Columns are the table headers, in display order. The action column is rendered separately.
var Columns = []string{"Title", "Date"}

// Announcement is a dated notice shown on the news dashboard.
// Details is optional Markdown shown in the detail panel.
type Announcement struct {
	ID      string
	Title   string
	Date    string // YYYY-MM-DD from a native date input
	Details string
}

// Values returns every searchable field.
func (a Announcement) Values() []string {
	return []string{a.Title, a.Date, a.Details}
}

// Validate checks the add-form constraints.
// Title and Date are required; Details is optional. Date format is left to the date input.
// PRE: none
// POST: returns one error per invalid field, in form order; empty when valid
func (a Announcement) Validate() validation.FieldErrors {
	var errs validation.FieldErrors
	if validation.Blank(a.Title) {
		errs.Add(FieldTitle, "Title is required")
	}
	if validation.Blank(a.Date) {
		errs.Add(FieldDate, "Date is required")
	}
	return errs
}
