package event

import (
	"regexp"
	"strings"

	"portal/internal/domain/validation"
)

// ViewName identifies the events view.
const ViewName = "events"

// Form field names, as submitted by the add form.
const (
	FieldEventName = "eventName"
	FieldStartDate = "startDate"
	FieldEndDate   = "endDate"
	FieldVenue     = "venue"
	FieldCMEPoints = "cmePoints"
	FieldWebsite   = "website"
)

// Columns are the table headers, in display order.
var Columns = []string{"Event Name", "Start Date", "End Date", "Venue", "CME Points", "Website"}

// websitePattern accepts an optional http(s) scheme, then either a dotted
// host without spaces or localhost with an optional port, then any path.
var websitePattern = regexp.MustCompile(`(?i)^(https?://)?([^\s.]+\.[^\s]{2,}|localhost[:?\d]*)\S*$`)

// Event is a continuing-medical-education event listed on the news dashboard.
// INVARIANT: none between StartDate and EndDate; ordering is not checked.
type Event struct {
	ID        string
	EventName string
	StartDate string // YYYY-MM-DD from a native date input
	EndDate   string
	Venue     string
	CMEPoints string
	Website   string
}

// Values returns every searchable field in Columns order.
func (e Event) Values() []string {
	return []string{e.EventName, e.StartDate, e.EndDate, e.Venue, e.CMEPoints, e.Website}
}

// Validate checks the add-form constraints. Every field is required and the
// website must look like a URL.
// PRE: none
// POST: returns one error per invalid field, in form order; empty when valid
func (e Event) Validate() validation.FieldErrors {
	var errs validation.FieldErrors
	if validation.Blank(e.EventName) {
		errs.Add(FieldEventName, "Event name is required")
	}
	if validation.Blank(e.StartDate) {
		errs.Add(FieldStartDate, "Start date is required")
	}
	if validation.Blank(e.EndDate) {
		errs.Add(FieldEndDate, "End date is required")
	}
	if validation.Blank(e.Venue) {
		errs.Add(FieldVenue, "Venue is required")
	}
	if validation.Blank(e.CMEPoints) {
		errs.Add(FieldCMEPoints, "CME points are required")
	}
	if !ValidWebsite(e.Website) {
		errs.Add(FieldWebsite, "Valid website is required")
	}
	return errs
}

// ValidWebsite reports whether s is a non-empty, URL-shaped website.
func ValidWebsite(s string) bool {
	return s != "" && websitePattern.MatchString(s)
}

// VisitURL returns the link target for the Visit button.
// Websites entered without a scheme are linked over https.
func (e Event) VisitURL() string {
	lower := strings.ToLower(e.Website)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return e.Website
	}
	return "https://" + e.Website
}
