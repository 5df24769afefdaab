package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"portal/internal/application/csvexport"
	"portal/internal/application/listutil"
	domain "portal/internal/domain/appointment"
)

// appointmentJSON is the wire form of an appointment row.
type appointmentJSON struct {
	ApplicationNumber string `json:"applicationNumber"`
	MembershipNumber  string `json:"membershipNumber"`
	Type              string `json:"type"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Mobile            string `json:"mobile"`
	TimeAndDate       string `json:"timeAndDate"`
	Category          string `json:"category"`
}

func toAppointmentJSON(a domain.Appointment) appointmentJSON {
	return appointmentJSON{
		ApplicationNumber: a.ApplicationNumber,
		MembershipNumber:  a.MembershipNumber,
		Type:              a.Type,
		Name:              a.Name,
		Email:             a.Email,
		Mobile:            a.Mobile,
		TimeAndDate:       a.TimeAndDate,
		Category:          a.Category,
	}
}

// appointmentsPage is the template data for appointments_today.html.
type appointmentsPage struct {
	tableModel
	Date string
	Rows []domain.Appointment
}

// handleAppointmentsToday renders the searchable table of today's appointments.
func handleAppointmentsToday(w http.ResponseWriter, r *http.Request) {
	ws, err := requestWorkspace(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()

	v, err := ws.appointmentView(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	v.Apply(listutil.ParseViewParams(r.URL.Query()))
	info := v.PageInfo()
	rows := v.PageRows()

	if isJSONRequest(r) {
		out := make([]appointmentJSON, len(rows))
		for i, a := range rows {
			out[i] = toAppointmentJSON(a)
		}
		writeJSON(w, http.StatusOK, newPageJSON(domain.ViewName, v.Query(), info, out))
		return
	}

	renderTemplate(w, r, http.StatusOK, "appointments_today.html", appointmentsPage{
		tableModel: tableModel{
			Title:             "Today's Appointments",
			Path:              "/appointments/today",
			Query:             v.Query(),
			Info:              info,
			Columns:           domain.Columns,
			EmptyText:         "No matching records found.",
			SearchPlaceholder: "Search by any field",
			RecordNoun:        "records",
		},
		Date: ws.appointmentsDate,
		Rows: rows,
	})
}

// handleAppointmentsExport downloads the filtered appointments, every page, as CSV.
// A q parameter updates the search first, the same as on the table.
func handleAppointmentsExport(w http.ResponseWriter, r *http.Request) {
	ws, err := requestWorkspace(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()

	v, err := ws.appointmentView(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	if p := listutil.ParseViewParams(r.URL.Query()); p.HasSearch {
		v.SetSearch(p.Search)
	}

	filtered := v.Filtered()
	rows := make([][]string, len(filtered))
	for i, a := range filtered {
		rows[i] = a.Values()
	}
	body := csvexport.Build(domain.Columns, rows)

	w.Header().Set("Content-Type", csvexport.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+csvexport.Filename(domain.ViewName, timeNow())+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Warn("response_write_failed", "error", err, "path", r.URL.Path)
		return
	}
	slog.Info("view_event", "event", "csv_exported", "view", domain.ViewName, "rows", len(rows), "query", v.Query())
}
