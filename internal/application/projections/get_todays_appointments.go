package projections

import (
	"context"
	"fmt"
	"time"

	domain "portal/internal/domain/appointment"
)

// GetTodaysAppointmentsQuery carries query parameters.
type GetTodaysAppointmentsQuery struct {
	Date string // Optional, defaults to today
}

// GetTodaysAppointmentsResult carries the query result.
type GetTodaysAppointmentsResult struct {
	Date         string
	Appointments []domain.Appointment
}

// GetTodaysAppointmentsDeps holds dependencies for GetTodaysAppointments.
type GetTodaysAppointmentsDeps struct {
	AppointmentStore AppointmentStore
	Now              func() time.Time // optional: nil uses time.Now
}

// QueryGetTodaysAppointments loads the initial record list for the today's-appointments view.
// PRE: Date, if set, is YYYY-MM-DD
// POST: Returns the day's appointments in insertion order
func QueryGetTodaysAppointments(ctx context.Context, query GetTodaysAppointmentsQuery, deps GetTodaysAppointmentsDeps) (GetTodaysAppointmentsResult, error) {
	date := query.Date
	if date == "" {
		now := time.Now
		if deps.Now != nil {
			now = deps.Now
		}
		date = now().Format(domain.DateLayout)
	} else if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return GetTodaysAppointmentsResult{}, fmt.Errorf("%w: %q", domain.ErrBadDate, date)
	}

	list, err := deps.AppointmentStore.ListByDate(ctx, date)
	if err != nil {
		return GetTodaysAppointmentsResult{}, fmt.Errorf("list appointments for %s: %w", date, err)
	}
	return GetTodaysAppointmentsResult{Date: date, Appointments: list}, nil
}
