package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"portal/internal/application/listutil"
	"portal/internal/domain/validation"
)

//go:embed templates/*.html
var templatesFS embed.FS

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal_error", "error", err.Error(), "path", r.URL.Path)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// isJSONRequest reports whether the client asked for JSON rather than a page.
func isJSONRequest(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// hasJSONBody reports whether the request body is JSON.
func hasJSONBody(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("json_encode_failed", "error", err)
	}
}

// writeValidationErrors answers a rejected JSON submission.
func writeValidationErrors(w http.ResponseWriter, errs validation.FieldErrors) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": errs.Map()})
}

// renderMarkdown converts announcement details to HTML. Raw HTML is escaped.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// pageQuery builds the query string for a pagination link.
func pageQuery(search string, page int) template.URL {
	v := url.Values{}
	if search != "" {
		v.Set("q", search)
	}
	v.Set("page", strconv.Itoa(page))
	return template.URL(v.Encode())
}

// renderTemplate executes layout.html with the named page template and writes it with status.
// Output is buffered so a template failure never leaves a half-written page.
func renderTemplate(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	funcMap := template.FuncMap{
		"csrfToken":      func() string { return csrf.Token(r) },
		"csrfFieldName":  func() string { return csrfFieldName },
		"renderMarkdown": renderMarkdown,
		"pageQuery":      pageQuery,
		"add":            func(a, b int) int { return a + b },
		"sub":            func(a, b int) int { return a - b },
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templatesFS,
		"templates/layout.html", "templates/partials.html", "templates/"+templateName)
	if err != nil {
		internalError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("response_write_failed", "error", err, "path", r.URL.Path)
	}
}

// csrfFieldName is the form field gorilla/csrf reads the token from.
const csrfFieldName = "gorilla.csrf.Token"

// tableModel is the part of a page shared by every dashboard table.
type tableModel struct {
	Title             string
	Path              string // the view's base URL
	Query             string
	Info              listutil.PageInfo
	Columns           []string
	EmptyText         string
	SearchPlaceholder string
	RecordNoun        string // word used in the "Showing a to b of n" summary
	ActionColumns     int    // columns rendered after the data columns
}

// ColumnSpan is the width of a full-row cell.
func (t tableModel) ColumnSpan() int {
	return len(t.Columns) + t.ActionColumns
}

// pageJSON is the JSON page model served for Accept: application/json.
type pageJSON[T any] struct {
	View       string `json:"view"`
	Query      string `json:"query"`
	Page       int    `json:"page"`
	PerPage    int    `json:"perPage"`
	Total      int    `json:"total"`
	TotalPages int    `json:"totalPages"`
	Rows       []T    `json:"rows"`
}

func newPageJSON[T any](view, query string, info listutil.PageInfo, rows []T) pageJSON[T] {
	if rows == nil {
		rows = []T{}
	}
	return pageJSON[T]{
		View:       view,
		Query:      query,
		Page:       info.Page,
		PerPage:    info.PerPage,
		Total:      info.Total,
		TotalPages: info.TotalPages,
		Rows:       rows,
	}
}
