package dotosu

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedField marks a value that could not be coerced to its
	// field's type. It only ever surfaces through Beatmap.Warnings.
	ErrMalformedField = errors.New("malformed field")

	// ErrUnreadableSource is returned when the source cannot be opened,
	// read or decoded as UTF-8 text.
	ErrUnreadableSource = errors.New("unreadable source")
)

// FieldError describes one recoverable decode failure. Line is the 1-based
// line number in the source; Key is empty for comma-separated rows.
type FieldError struct {
	Section string
	Line    int
	Key     string
	Value   string
	Err     error
}

func (e *FieldError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("[%s] line %d: %s: %q: %v", e.Section, e.Line, e.Key, e.Value, e.Err)
	}
	return fmt.Sprintf("[%s] line %d: %q: %v", e.Section, e.Line, e.Value, e.Err)
}

func (e *FieldError) Unwrap() []error { return []error{ErrMalformedField, e.Err} }
