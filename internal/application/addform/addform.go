// Package addform models the slide-over form that adds one record to a view.
package addform

import (
	"errors"

	"portal/internal/domain/validation"
)

// State is the lifecycle position of a form.
type State int

const (
	Closed         State = iota // overlay hidden
	Open                        // visible, no failed submission pending
	OpenWithErrors              // visible, last submission failed validation
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case OpenWithErrors:
		return "open_with_errors"
	default:
		return "closed"
	}
}

// ErrClosed is returned when a submission arrives while the overlay is hidden.
var ErrClosed = errors.New("form is not open")

// Validatable is a record that can check its own form constraints.
type Validatable interface {
	Validate() validation.FieldErrors
}

// Form collects one record, validates it on submit and emits it once.
// Validation runs per submit attempt, never as fields change.
type Form[T Validatable] struct {
	state    State
	defaults T
	values   T
	errs     validation.FieldErrors
	onSubmit func(T)
}

// New creates a closed form that calls onSubmit with each accepted record.
// PRE: onSubmit is non-nil
func New[T Validatable](defaults T, onSubmit func(T)) *Form[T] {
	return &Form[T]{state: Closed, defaults: defaults, values: defaults, onSubmit: onSubmit}
}

// State returns the current lifecycle state.
func (f *Form[T]) State() State {
	return f.state
}

// IsOpen reports whether the overlay is visible.
func (f *Form[T]) IsOpen() bool {
	return f.state != Closed
}

// Values returns the field values currently shown in the form.
func (f *Form[T]) Values() T {
	return f.values
}

// Errors returns the per-field messages from the last failed submission.
func (f *Form[T]) Errors() validation.FieldErrors {
	return f.errs
}

// SetOpen shows or hides the overlay. Showing a closed form applies the
// defaults; hiding it is the same as Cancel.
// POST: IsOpen() == visible
func (f *Form[T]) SetOpen(visible bool) {
	if !visible {
		f.Cancel()
		return
	}
	if f.state == Closed {
		f.reset()
		f.state = Open
	}
}

// Restore reopens the overlay showing values without validating or emitting them.
// Used when a submission reaches a form that was closed meanwhile.
// POST: State() == Open and Values() == values
func (f *Form[T]) Restore(values T) {
	f.values = values
	f.errs = nil
	f.state = Open
}

// Cancel closes the overlay without validating or emitting. Entered values are discarded.
// POST: State() == Closed
func (f *Form[T]) Cancel() {
	f.reset()
	f.state = Closed
}

// Submit validates values. On success the record is emitted, the overlay
// closes and the fields reset. On failure the overlay stays open with the
// entered values and the returned error is a validation.FieldErrors.
// PRE: the form is open
// POST: on nil error onSubmit was called exactly once and State() == Closed
func (f *Form[T]) Submit(values T) error {
	if f.state == Closed {
		return ErrClosed
	}
	if errs := values.Validate(); len(errs) > 0 {
		f.values = values
		f.errs = errs
		f.state = OpenWithErrors
		return errs
	}
	f.onSubmit(values)
	f.reset()
	f.state = Closed
	return nil
}

func (f *Form[T]) reset() {
	f.values = f.defaults
	f.errs = nil
}
