package web

import (
	"errors"
	"log/slog"
	"net/http"

	"portal/internal/application/addform"
	"portal/internal/application/listutil"
	"portal/internal/application/tableview"
	domain "portal/internal/domain/event"
	"portal/internal/domain/validation"
)

// eventJSON is the wire form of an event, used for rows and for JSON submissions.
type eventJSON struct {
	EventName string `json:"eventName"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Venue     string `json:"venue"`
	CMEPoints string `json:"cmePoints"`
	Website   string `json:"website"`
}

func toEventJSON(e domain.Event) eventJSON {
	return eventJSON{
		EventName: e.EventName,
		StartDate: e.StartDate,
		EndDate:   e.EndDate,
		Venue:     e.Venue,
		CMEPoints: e.CMEPoints,
		Website:   e.Website,
	}
}

func (j eventJSON) toDomain() domain.Event {
	return domain.Event{
		EventName: j.EventName,
		StartDate: j.StartDate,
		EndDate:   j.EndDate,
		Venue:     j.Venue,
		CMEPoints: j.CMEPoints,
		Website:   j.Website,
	}
}

// eventsPage is the template data for events.html.
type eventsPage struct {
	tableModel
	Rows []domain.Event
	Form formModel[domain.Event]
}

// handleEvents renders the events table. Visiting the list closes an open add form.
func handleEvents(w http.ResponseWriter, r *http.Request) {
	ws, err := requestWorkspace(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()

	v, err := ws.eventView(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	v.Apply(listutil.ParseViewParams(r.URL.Query()))

	if isJSONRequest(r) {
		rows := v.PageRows()
		out := make([]eventJSON, len(rows))
		for i, e := range rows {
			out[i] = toEventJSON(e)
		}
		writeJSON(w, http.StatusOK, newPageJSON(domain.ViewName, v.Query(), v.PageInfo(), out))
		return
	}

	ws.eventForm.Cancel()
	renderEvents(w, r, http.StatusOK, v, ws.eventForm)
}

// handleEventsNew renders the table with the add overlay open and reset to defaults.
func handleEventsNew(w http.ResponseWriter, r *http.Request) {
	ws, err := requestWorkspace(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()

	v, err := ws.eventView(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	ws.eventForm.SetOpen(true)
	renderEvents(w, r, http.StatusOK, v, ws.eventForm)
}

// handleEventsCreate submits the add form. Start and end dates are stored as entered;
// their order is not checked.
func handleEventsCreate(w http.ResponseWriter, r *http.Request) {
	ws, err := requestWorkspace(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()

	v, err := ws.eventView(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	jsonClient := hasJSONBody(r) || isJSONRequest(r)
	var input domain.Event
	if hasJSONBody(r) {
		var body eventJSON
		if err := strictDecode(r, &body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		input = body.toDomain()
		ws.eventForm.SetOpen(true)
	} else {
		input = domain.Event{
			EventName: r.PostFormValue(domain.FieldEventName),
			StartDate: r.PostFormValue(domain.FieldStartDate),
			EndDate:   r.PostFormValue(domain.FieldEndDate),
			Venue:     r.PostFormValue(domain.FieldVenue),
			CMEPoints: r.PostFormValue(domain.FieldCMEPoints),
			Website:   r.PostFormValue(domain.FieldWebsite),
		}
	}

	err = ws.eventForm.Submit(input)
	var fieldErrs validation.FieldErrors
	switch {
	case err == nil:
	case errors.Is(err, addform.ErrClosed):
		// The overlay closed after this page was rendered: reopen it with the posted values.
		ws.eventForm.Restore(input)
		slog.Debug("view_event", "event", "submit_on_closed_form", "view", domain.ViewName)
		if jsonClient {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "form is not open"})
			return
		}
		renderEvents(w, r, http.StatusConflict, v, ws.eventForm)
		return
	case errors.As(err, &fieldErrs):
		slog.Debug("view_event", "event", "validation_failed", "view", domain.ViewName, "fields", len(fieldErrs))
		if jsonClient {
			writeValidationErrors(w, fieldErrs)
			return
		}
		renderEvents(w, r, http.StatusUnprocessableEntity, v, ws.eventForm)
		return
	default:
		internalError(w, r, err)
		return
	}

	slog.Info("view_event", "event", "record_added", "view", domain.ViewName, "records", v.Len())
	if jsonClient {
		writeJSON(w, http.StatusCreated, toEventJSON(input))
		return
	}
	http.Redirect(w, r, "/events", http.StatusSeeOther)
}

func renderEvents(w http.ResponseWriter, r *http.Request, status int,
	v *tableview.View[domain.Event], form *addform.Form[domain.Event]) {
	renderTemplate(w, r, status, "events.html", eventsPage{
		tableModel: tableModel{
			Title:             "Events",
			Path:              "/events",
			Query:             v.Query(),
			Info:              v.PageInfo(),
			Columns:           domain.Columns,
			EmptyText:         "No matching events found.",
			SearchPlaceholder: "Search by any field",
			RecordNoun:        "events",
			ActionColumns:     1,
		},
		Rows: v.PageRows(),
		Form: formModel[domain.Event]{Open: form.IsOpen(), Values: form.Values(), Errors: form.Errors()},
	})
}
