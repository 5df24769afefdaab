package event_test

import (
	"testing"

	"portal/internal/domain/event"
)

func validEvent() event.Event {
	return event.Event{
		EventName: "Cardiology Update",
		StartDate: "2026-11-02",
		EndDate:   "2026-11-03",
		Venue:     "Grand Hall",
		CMEPoints: "5",
		Website:   "https://example.com/cardio",
	}
}

// TestEvent_Validate_AllValid verifies a fully populated event has no errors.
func TestEvent_Validate_AllValid(t *testing.T) {
	if errs := validEvent().Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

// TestEvent_Validate_RequiredFields verifies each blank field fails on its own.
func TestEvent_Validate_RequiredFields(t *testing.T) {
	tests := []struct {
		field   string
		blank   func(e *event.Event)
		message string
	}{
		{event.FieldEventName, func(e *event.Event) { e.EventName = "" }, "Event name is required"},
		{event.FieldStartDate, func(e *event.Event) { e.StartDate = "" }, "Start date is required"},
		{event.FieldEndDate, func(e *event.Event) { e.EndDate = "  " }, "End date is required"},
		{event.FieldVenue, func(e *event.Event) { e.Venue = "" }, "Venue is required"},
		{event.FieldCMEPoints, func(e *event.Event) { e.CMEPoints = "" }, "CME points are required"},
		{event.FieldWebsite, func(e *event.Event) { e.Website = "" }, "Valid website is required"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			e := validEvent()
			tt.blank(&e)
			errs := e.Validate()
			if len(errs) != 1 {
				t.Fatalf("expected exactly 1 error, got %d: %v", len(errs), errs)
			}
			if errs[0].Field != tt.field {
				t.Errorf("field: got %q, want %q", errs[0].Field, tt.field)
			}
			if errs[0].Message != tt.message {
				t.Errorf("message: got %q, want %q", errs[0].Message, tt.message)
			}
		})
	}
}

// TestEvent_Validate_StartAfterEnd verifies date ordering is not checked.
func TestEvent_Validate_StartAfterEnd(t *testing.T) {
	e := validEvent()
	e.StartDate = "2026-12-10"
	e.EndDate = "2026-12-01"
	if errs := e.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors for reversed dates, got %v", errs)
	}
}

// TestValidWebsite verifies the website pattern.
func TestValidWebsite(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com", true},
		{"http://example.com/path?x=1", true},
		{"example.com", true},
		{"EXAMPLE.COM", true},
		{"HTTPS://Example.org/a", true},
		{"localhost", true},
		{"localhost:3000", true},
		{"http://localhost:8080/events", true},
		{"not a url", false},
		{"", false},
		{"example", false},
		{"example.c", false},
		{"https://exa mple.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := event.ValidWebsite(tt.in); got != tt.want {
				t.Errorf("ValidWebsite(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestEvent_VisitURL verifies scheme-less websites are linked over https.
func TestEvent_VisitURL(t *testing.T) {
	tests := []struct {
		website string
		want    string
	}{
		{"https://example.com", "https://example.com"},
		{"HTTP://example.com", "HTTP://example.com"},
		{"example.com/cme", "https://example.com/cme"},
	}
	for _, tt := range tests {
		e := event.Event{Website: tt.website}
		if got := e.VisitURL(); got != tt.want {
			t.Errorf("VisitURL(%q) = %q, want %q", tt.website, got, tt.want)
		}
	}
}
