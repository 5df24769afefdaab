package appointment

import (
	"errors"
	"time"
)

// ViewName identifies the today's-appointments view, also used for export filenames.
const ViewName = "today_appointments"

// DateLayout is the calendar-date format used to select today's appointments.
const DateLayout = "2006-01-02"

// Columns are the table and CSV headers, in display order.
var Columns = []string{
	"Application Number",
	"Membership Number",
	"Type",
	"Name",
	"Email",
	"Mobile",
	"Time & Date",
	"Category",
}

// Domain errors
var (
	ErrEmptyID   = errors.New("appointment id cannot be empty")
	ErrEmptyName = errors.New("appointment name cannot be empty")
	ErrBadDate   = errors.New("appointment date must be YYYY-MM-DD")
)

// Appointment is one row of the today's-appointments dashboard.
// ID and Date are storage keys; the remaining fields are the displayed record.
type Appointment struct {
	ID                string
	Date              string // YYYY-MM-DD the appointment falls on
	ApplicationNumber string
	MembershipNumber  string
	Type              string
	Name              string
	Email             string
	Mobile            string
	TimeAndDate       string // display text, e.g. "09:30 AM, 15 Oct 2026"
	Category          string
}

// Values returns the displayed fields in Columns order.
// INVARIANT: len(Values()) == len(Columns)
func (a Appointment) Values() []string {
	return []string{
		a.ApplicationNumber,
		a.MembershipNumber,
		a.Type,
		a.Name,
		a.Email,
		a.Mobile,
		a.TimeAndDate,
		a.Category,
	}
}

// Validate checks that the appointment can be stored by the loader.
// PRE: Appointment struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Appointment) Validate() error {
	if a.ID == "" {
		return ErrEmptyID
	}
	if a.Name == "" {
		return ErrEmptyName
	}
	if _, err := time.Parse(DateLayout, a.Date); err != nil {
		return ErrBadDate
	}
	return nil
}
