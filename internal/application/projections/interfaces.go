package projections

import (
	"context"

	domainAnnouncement "portal/internal/domain/announcement"
	domainAppointment "portal/internal/domain/appointment"
	domainEvent "portal/internal/domain/event"
)

// AppointmentStore interface for appointment queries.
type AppointmentStore interface {
	ListByDate(ctx context.Context, date string) ([]domainAppointment.Appointment, error)
}

// AnnouncementStore interface for announcement queries.
type AnnouncementStore interface {
	List(ctx context.Context) ([]domainAnnouncement.Announcement, error)
}

// EventStore interface for event queries.
type EventStore interface {
	List(ctx context.Context) ([]domainEvent.Event, error)
}
