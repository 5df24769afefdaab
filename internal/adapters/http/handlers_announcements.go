package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"portal/internal/application/addform"
	"portal/internal/application/listutil"
	"portal/internal/application/tableview"
	domain "portal/internal/domain/announcement"
	"portal/internal/domain/validation"
)

// announcementJSON is the wire form of an announcement, used for rows and for JSON submissions.
type announcementJSON struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Details string `json:"details"`
}

func toAnnouncementJSON(a domain.Announcement) announcementJSON {
	return announcementJSON{Title: a.Title, Date: a.Date, Details: a.Details}
}

// announcementRow is a table row with its 1-indexed position in the filtered set.
type announcementRow struct {
	Index int
	domain.Announcement
}

// formModel is the template data for an add-record overlay.
type formModel[T any] struct {
	Open   bool
	Values T
	Errors validation.FieldErrors
}

// announcementsPage is the template data for announcements.html.
type announcementsPage struct {
	tableModel
	Rows   []announcementRow
	Detail *announcementRow
	Form   formModel[domain.Announcement]
}

// handleAnnouncements renders the announcements table. Visiting the list closes an open add form.
// ?view=N opens the detail panel for the Nth filtered announcement.
func handleAnnouncements(w http.ResponseWriter, r *http.Request) {
	ws, err := requestWorkspace(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()

	v, err := ws.announcementView(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	v.Apply(listutil.ParseViewParams(r.URL.Query()))

	if isJSONRequest(r) {
		rows := v.PageRows()
		out := make([]announcementJSON, len(rows))
		for i, a := range rows {
			out[i] = toAnnouncementJSON(a)
		}
		writeJSON(w, http.StatusOK, newPageJSON(domain.ViewName, v.Query(), v.PageInfo(), out))
		return
	}

	ws.announcementForm.Cancel()
	detail, _ := strconv.Atoi(r.URL.Query().Get("view"))
	renderAnnouncements(w, r, http.StatusOK, v, ws.announcementForm, detail)
}

// handleAnnouncementsNew renders the table with the add overlay open and reset to defaults.
func handleAnnouncementsNew(w http.ResponseWriter, r *http.Request) {
	ws, err := requestWorkspace(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()

	v, err := ws.announcementView(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	ws.announcementForm.SetOpen(true)
	renderAnnouncements(w, r, http.StatusOK, v, ws.announcementForm, 0)
}

// handleAnnouncementsCreate submits the add form. A JSON body is a one-shot submission
// that opens the form implicitly.
func handleAnnouncementsCreate(w http.ResponseWriter, r *http.Request) {
	ws, err := requestWorkspace(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()

	v, err := ws.announcementView(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	jsonClient := hasJSONBody(r) || isJSONRequest(r)
	var input domain.Announcement
	if hasJSONBody(r) {
		var body announcementJSON
		if err := strictDecode(r, &body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		input = domain.Announcement{Title: body.Title, Date: body.Date, Details: body.Details}
		ws.announcementForm.SetOpen(true)
	} else {
		input = domain.Announcement{
			Title:   r.PostFormValue(domain.FieldTitle),
			Date:    r.PostFormValue(domain.FieldDate),
			Details: r.PostFormValue(domain.FieldDetails),
		}
	}

	err = ws.announcementForm.Submit(input)
	var fieldErrs validation.FieldErrors
	switch {
	case err == nil:
	case errors.Is(err, addform.ErrClosed):
		// The overlay closed after this page was rendered: reopen it with the posted values.
		ws.announcementForm.Restore(input)
		slog.Debug("view_event", "event", "submit_on_closed_form", "view", domain.ViewName)
		if jsonClient {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "form is not open"})
			return
		}
		renderAnnouncements(w, r, http.StatusConflict, v, ws.announcementForm, 0)
		return
	case errors.As(err, &fieldErrs):
		slog.Debug("view_event", "event", "validation_failed", "view", domain.ViewName, "fields", len(fieldErrs))
		if jsonClient {
			writeValidationErrors(w, fieldErrs)
			return
		}
		renderAnnouncements(w, r, http.StatusUnprocessableEntity, v, ws.announcementForm, 0)
		return
	default:
		internalError(w, r, err)
		return
	}

	slog.Info("view_event", "event", "record_added", "view", domain.ViewName, "records", v.Len())
	if jsonClient {
		writeJSON(w, http.StatusCreated, toAnnouncementJSON(input))
		return
	}
	http.Redirect(w, r, "/announcements", http.StatusSeeOther)
}

func renderAnnouncements(w http.ResponseWriter, r *http.Request, status int,
	v *tableview.View[domain.Announcement], form *addform.Form[domain.Announcement], detail int) {
	info := v.PageInfo()
	pageRows := v.PageRows()
	rows := make([]announcementRow, len(pageRows))
	for i, a := range pageRows {
		rows[i] = announcementRow{Index: info.Offset() + i + 1, Announcement: a}
	}

	data := announcementsPage{
		tableModel: tableModel{
			Title:             "Announcements",
			Path:              "/announcements",
			Query:             v.Query(),
			Info:              info,
			Columns:           domain.Columns,
			EmptyText:         "No announcements found.",
			SearchPlaceholder: "Search announcements",
			RecordNoun:        "announcements",
			ActionColumns:     1,
		},
		Rows: rows,
		Form: formModel[domain.Announcement]{Open: form.IsOpen(), Values: form.Values(), Errors: form.Errors()},
	}
	if filtered := v.Filtered(); detail >= 1 && detail <= len(filtered) {
		data.Detail = &announcementRow{Index: detail, Announcement: filtered[detail-1]}
	}
	renderTemplate(w, r, status, "announcements.html", data)
}
