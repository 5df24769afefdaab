package validation

import (
	"strings"
)

// FieldError names one invalid form field and the constraint it violated.
type FieldError struct {
	Field   string
	Message string
}

// FieldErrors collects per-field failures in form order.
// A nil or empty FieldErrors means the submission is valid.
type FieldErrors []FieldError

// Error implements the error interface.
func (fe FieldErrors) Error() string {
	msgs := make([]string, len(fe))
	for i, e := range fe {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Add records a failure for field. Only the first failure per field is kept.
// PRE: field and msg are non-empty
// POST: field appears at most once
func (fe *FieldErrors) Add(field, msg string) {
	if fe.Has(field) {
		return
	}
	*fe = append(*fe, FieldError{Field: field, Message: msg})
}

// Has reports whether field failed validation.
func (fe FieldErrors) Has(field string) bool {
	for _, e := range fe {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Get returns the message for field, or "" when the field is valid.
func (fe FieldErrors) Get(field string) string {
	for _, e := range fe {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

// Map returns the failures keyed by field name.
func (fe FieldErrors) Map() map[string]string {
	m := make(map[string]string, len(fe))
	for _, e := range fe {
		m[e.Field] = e.Message
	}
	return m
}

// Blank reports whether value is empty once surrounding whitespace is removed.
func Blank(value string) bool {
	return strings.TrimSpace(value) == ""
}
