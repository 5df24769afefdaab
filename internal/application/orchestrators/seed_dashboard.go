package orchestrators

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	domainAnnouncement "portal/internal/domain/announcement"
	domainAppointment "portal/internal/domain/appointment"
	domainEvent "portal/internal/domain/event"
)

//go:embed default_seed.yaml
var defaultSeedYAML []byte

// AppointmentStoreForSeed defines the store interface needed by SeedDashboard.
type AppointmentStoreForSeed interface {
	Save(ctx context.Context, a domainAppointment.Appointment) error
	Count(ctx context.Context) (int, error)
	ListByDate(ctx context.Context, date string) ([]domainAppointment.Appointment, error)
}

// AnnouncementStoreForSeed defines the store interface needed by SeedDashboard.
type AnnouncementStoreForSeed interface {
	Save(ctx context.Context, a domainAnnouncement.Announcement) error
	Count(ctx context.Context) (int, error)
}

// EventStoreForSeed defines the store interface needed by SeedDashboard.
type EventStoreForSeed interface {
	Save(ctx context.Context, e domainEvent.Event) error
	Count(ctx context.Context) (int, error)
}

// SeedFixture is the YAML document that populates the loader tables.
type SeedFixture struct {
	Appointments  []AppointmentSeed  `yaml:"appointments"`
	Announcements []AnnouncementSeed `yaml:"announcements"`
	Events        []EventSeed        `yaml:"events"`
}

// AppointmentSeed represents an appointment to be seeded.
// Date defaults to the seeding day. TimeAndDate defaults to Time followed by the date.
// A seed without a Date is a standing appointment: it is seeded again on any later
// day that has no appointments, so a long-lived demo database keeps a populated today view.
type AppointmentSeed struct {
	Date              string `yaml:"date"`
	ApplicationNumber string `yaml:"application_number"`
	MembershipNumber  string `yaml:"membership_number"`
	Type              string `yaml:"type"`
	Name              string `yaml:"name"`
	Email             string `yaml:"email"`
	Mobile            string `yaml:"mobile"`
	Time              string `yaml:"time"`
	TimeAndDate       string `yaml:"time_and_date"`
	Category          string `yaml:"category"`
}

// AnnouncementSeed represents an announcement to be seeded.
type AnnouncementSeed struct {
	Title   string `yaml:"title"`
	Date    string `yaml:"date"`
	Details string `yaml:"details"`
}

// EventSeed represents an event to be seeded.
type EventSeed struct {
	EventName string `yaml:"event_name"`
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
	Venue     string `yaml:"venue"`
	CMEPoints string `yaml:"cme_points"`
	Website   string `yaml:"website"`
}

// ParseSeedFixture decodes a YAML fixture. Unknown keys are rejected.
// An empty document yields an empty fixture.
// PRE: r is non-nil
// POST: Returns the decoded fixture or a decode error
func ParseSeedFixture(r io.Reader) (SeedFixture, error) {
	var fx SeedFixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		if errors.Is(err, io.EOF) {
			return SeedFixture{}, nil
		}
		return SeedFixture{}, fmt.Errorf("decode seed fixture: %w", err)
	}
	return fx, nil
}

// DefaultSeedFixture returns the built-in demo data used when no fixture file is configured.
func DefaultSeedFixture() (SeedFixture, error) {
	return ParseSeedFixture(bytes.NewReader(defaultSeedYAML))
}

// SeedDashboardInput carries input for the seed orchestrator.
type SeedDashboardInput struct {
	Fixture SeedFixture
}

// SeedDashboardResult reports how many rows were written per table.
type SeedDashboardResult struct {
	Appointments  int
	Announcements int
	Events        int
}

// SeedDashboardDeps holds dependencies for SeedDashboard.
type SeedDashboardDeps struct {
	AppointmentStore  AppointmentStoreForSeed
	AnnouncementStore AnnouncementStoreForSeed
	EventStore        EventStoreForSeed
	GenerateID        func() string
	Now               func() time.Time
}

// ExecuteSeedDashboard populates the loader tables from a fixture.
// The whole fixture is validated before anything is written, so a bad row never
// leaves a table partly seeded. Each table is seeded only while it is empty;
// standing appointments are also seeded on a day that has none.
// PRE: deps are non-nil
// POST: on error no store was written to; otherwise empty tables hold the fixture rows
func ExecuteSeedDashboard(ctx context.Context, input SeedDashboardInput, deps SeedDashboardDeps) (SeedDashboardResult, error) {
	var res SeedDashboardResult
	today := deps.Now().Format(domainAppointment.DateLayout)

	appointments, standing, err := buildAppointments(input.Fixture.Appointments, today, deps.GenerateID)
	if err != nil {
		return res, err
	}
	announcements, err := buildAnnouncements(input.Fixture.Announcements, deps.GenerateID)
	if err != nil {
		return res, err
	}
	events, err := buildEvents(input.Fixture.Events, deps.GenerateID)
	if err != nil {
		return res, err
	}

	if res.Appointments, err = seedAppointments(ctx, appointments, standing, today, deps.AppointmentStore); err != nil {
		return res, err
	}
	if res.Announcements, err = seedTable[domainAnnouncement.Announcement](ctx, announcements, deps.AnnouncementStore); err != nil {
		return res, err
	}
	if res.Events, err = seedTable[domainEvent.Event](ctx, events, deps.EventStore); err != nil {
		return res, err
	}

	if res != (SeedDashboardResult{}) {
		slog.Info("seed_event", "event", "dashboard_seeded",
			"appointments", res.Appointments, "announcements", res.Announcements, "events", res.Events)
	}
	return res, nil
}

// buildAppointments converts and validates every appointment seed.
// standing holds the rows whose seed had no Date, already dated today.
func buildAppointments(seeds []AppointmentSeed, today string, generateID func() string) (all, standing []domainAppointment.Appointment, err error) {
	for i, s := range seeds {
		a := domainAppointment.Appointment{
			ID:                generateID(),
			Date:              s.Date,
			ApplicationNumber: s.ApplicationNumber,
			MembershipNumber:  s.MembershipNumber,
			Type:              s.Type,
			Name:              s.Name,
			Email:             s.Email,
			Mobile:            s.Mobile,
			TimeAndDate:       s.TimeAndDate,
			Category:          s.Category,
		}
		if a.Date == "" {
			a.Date = today
		}
		if a.TimeAndDate == "" && s.Time != "" {
			if d, err := time.Parse(domainAppointment.DateLayout, a.Date); err == nil {
				a.TimeAndDate = s.Time + ", " + d.Format("02 Jan 2006")
			}
		}
		if err := a.Validate(); err != nil {
			return nil, nil, fmt.Errorf("appointment %d: %w", i+1, err)
		}
		all = append(all, a)
		if s.Date == "" {
			standing = append(standing, a)
		}
	}
	return all, standing, nil
}

func buildAnnouncements(seeds []AnnouncementSeed, generateID func() string) ([]domainAnnouncement.Announcement, error) {
	out := make([]domainAnnouncement.Announcement, 0, len(seeds))
	for i, s := range seeds {
		a := domainAnnouncement.Announcement{ID: generateID(), Title: s.Title, Date: s.Date, Details: s.Details}
		if errs := a.Validate(); len(errs) > 0 {
			return nil, fmt.Errorf("announcement %d: %w", i+1, errs)
		}
		out = append(out, a)
	}
	return out, nil
}

func buildEvents(seeds []EventSeed, generateID func() string) ([]domainEvent.Event, error) {
	out := make([]domainEvent.Event, 0, len(seeds))
	for i, s := range seeds {
		e := domainEvent.Event{
			ID:        generateID(),
			EventName: s.EventName,
			StartDate: s.StartDate,
			EndDate:   s.EndDate,
			Venue:     s.Venue,
			CMEPoints: s.CMEPoints,
			Website:   s.Website,
		}
		if errs := e.Validate(); len(errs) > 0 {
			return nil, fmt.Errorf("event %d: %w", i+1, errs)
		}
		out = append(out, e)
	}
	return out, nil
}

// seedAppointments writes every row into an empty table, or only the standing
// rows when the table has data but nothing for today.
func seedAppointments(ctx context.Context, all, standing []domainAppointment.Appointment, today string, store AppointmentStoreForSeed) (int, error) {
	if len(all) == 0 {
		return 0, nil
	}
	existing, err := store.Count(ctx)
	if err != nil {
		return 0, err
	}
	rows := all
	if existing > 0 {
		if len(standing) == 0 {
			return 0, nil
		}
		current, err := store.ListByDate(ctx, today)
		if err != nil || len(current) > 0 {
			return 0, err
		}
		rows = standing
		slog.Info("seed_event", "event", "standing_appointments_redated", "date", today, "count", len(rows))
	}
	return saveAll[domainAppointment.Appointment](ctx, rows, store)
}

// saver writes one loader row.
type saver[T any] interface {
	Save(ctx context.Context, v T) error
}

// tableStore is the part of a loader store seeding writes through.
type tableStore[T any] interface {
	saver[T]
	Count(ctx context.Context) (int, error)
}

// seedTable writes rows only while the table is empty.
func seedTable[T any](ctx context.Context, rows []T, store tableStore[T]) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	existing, err := store.Count(ctx)
	if err != nil || existing > 0 {
		return 0, err
	}
	return saveAll[T](ctx, rows, store)
}

func saveAll[T any](ctx context.Context, rows []T, store saver[T]) (int, error) {
	for _, r := range rows {
		if err := store.Save(ctx, r); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}
