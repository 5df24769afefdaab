package web

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	eventDomain "portal/internal/domain/event"
)

const validEventJSON = `{"eventName":"Derm Week","startDate":"2026-11-09","endDate":"2026-11-13",` +
	`"venue":"Hall","cmePoints":"12","website":"derm.example.com"}`

// TestEvents_InvalidWebsite verifies the URL rule rejects free text.
func TestEvents_InvalidWebsite(t *testing.T) {
	b := newBrowser(t, setupTestServer(t, &Stores{}))
	body := strings.Replace(validEventJSON, "derm.example.com", "not a url", 1)

	rr := b.postJSON("/events", body)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Errors) != 1 || resp.Errors[eventDomain.FieldWebsite] != "Valid website is required" {
		t.Errorf("errors = %v", resp.Errors)
	}
}

// TestEvents_DatesNotOrdered verifies an end date before the start date is stored as entered.
func TestEvents_DatesNotOrdered(t *testing.T) {
	b := newBrowser(t, setupTestServer(t, &Stores{}))
	body := `{"eventName":"Backwards","startDate":"2026-12-10","endDate":"2026-12-01",` +
		`"venue":"Hall","cmePoints":"2","website":"https://example.org"}`

	if rr := b.postJSON("/events", body); rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
	p := decodePage(t, b.getJSON("/events").Body.String())
	if p.Total != 1 || p.Rows[0]["startDate"] != "2026-12-10" || p.Rows[0]["endDate"] != "2026-12-01" {
		t.Errorf("rows = %v", p.Rows)
	}
}

// TestEvents_FormFlow verifies per-field errors and the Visit link.
func TestEvents_FormFlow(t *testing.T) {
	b := newBrowser(t, setupTestServer(t, &Stores{}))
	b.get("/events/new")

	rr := b.postForm("/events", url.Values{"eventName": {"Derm Week"}, "website": {"derm.example.com"}}.Encode())
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	body := rr.Body.String()
	for _, msg := range []string{"Start date is required", "End date is required", "Venue is required", "CME points are required"} {
		if !strings.Contains(body, msg) {
			t.Errorf("missing %q", msg)
		}
	}
	if strings.Contains(body, "Event name is required") || strings.Contains(body, "Valid website is required") {
		t.Error("errors shown for valid fields")
	}

	form := url.Values{
		"eventName": {"Derm Week"}, "startDate": {"2026-11-09"}, "endDate": {"2026-11-13"},
		"venue": {"Hall"}, "cmePoints": {"12"}, "website": {"derm.example.com"},
	}
	if rr := b.postForm("/events", form.Encode()); rr.Code != http.StatusSeeOther {
		t.Fatalf("valid submit status = %d, want 303", rr.Code)
	}

	body = b.get("/events").Body.String()
	if !strings.Contains(body, `href="https://derm.example.com" target="_blank" rel="noopener noreferrer"`) {
		t.Error("Visit link missing or not opening in a new tab")
	}
}

// TestEvents_Empty verifies the placeholder text.
func TestEvents_Empty(t *testing.T) {
	body := newBrowser(t, setupTestServer(t, &Stores{})).get("/events?q=none").Body.String()
	if !strings.Contains(body, `<td colspan="7">No matching events found.</td>`) {
		t.Error("missing placeholder row")
	}
}

// TestWorkspaces_Isolated verifies two browsers never see each other's additions.
func TestWorkspaces_Isolated(t *testing.T) {
	h := setupTestServer(t, &Stores{})
	alice := newBrowser(t, h)
	bob := newBrowser(t, h)

	alice.postJSON("/events", validEventJSON)
	bob.getJSON("/events?q=derm")

	if p := decodePage(t, alice.getJSON("/events").Body.String()); p.Total != 1 || p.Query != "" {
		t.Errorf("alice: total=%d query=%q", p.Total, p.Query)
	}
	if p := decodePage(t, bob.getJSON("/events").Body.String()); p.Total != 0 || p.Query != "derm" {
		t.Errorf("bob: total=%d query=%q", p.Total, p.Query)
	}
}

// TestWorkspaces_ExpireWhenIdle verifies an idle workspace is unmounted.
func TestWorkspaces_ExpireWhenIdle(t *testing.T) {
	h := setupTestServer(t, &Stores{})
	b := newBrowser(t, h)
	b.postJSON("/events", validEventJSON)

	later := testNow.Add(WorkspaceTTL + time.Hour)
	timeNow = func() time.Time { return later }

	if p := decodePage(t, b.getJSON("/events").Body.String()); p.Total != 0 {
		t.Errorf("total = %d after expiry, want 0", p.Total)
	}
}

// TestEvents_SubmitAfterWorkspaceExpired verifies an open form posted after expiry keeps the typed values.
func TestEvents_SubmitAfterWorkspaceExpired(t *testing.T) {
	b := newBrowser(t, setupTestServer(t, &Stores{}))
	b.get("/events/new")

	later := testNow.Add(WorkspaceTTL + time.Hour)
	timeNow = func() time.Time { return later }

	form := url.Values{
		"eventName": {"Derm Week"}, "startDate": {"2026-11-09"}, "endDate": {"2026-11-13"},
		"venue": {"Hall"}, "cmePoints": {"12"}, "website": {"derm.example.com"},
	}
	rr := b.postForm("/events", form.Encode())
	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rr.Code)
	}
	body := rr.Body.String()
	for _, v := range []string{`value="Derm Week"`, `value="Hall"`, `value="derm.example.com"`} {
		if !strings.Contains(body, v) {
			t.Errorf("reopened overlay missing %s", v)
		}
	}

	if rr := b.postForm("/events", form.Encode()); rr.Code != http.StatusSeeOther {
		t.Fatalf("resubmit status = %d, want 303", rr.Code)
	}
	if p := decodePage(t, b.getJSON("/events").Body.String()); p.Total != 1 {
		t.Errorf("total = %d, want 1", p.Total)
	}
}
