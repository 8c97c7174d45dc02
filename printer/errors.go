package printer

import (
	"errors"
	"fmt"
)

// ErrNoFrame is returned when a camera frame is requested before the
// capture loop has received one.
var ErrNoFrame = errors.New("no camera frame available yet")

// ErrNotConnected is returned by operations that need a live printer
// connection when there is none.
var ErrNotConnected = errors.New("printer not connected")

// MissingFieldError reports a raw record that lacks a required field or
// carries one that cannot be converted to the declared type.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing or malformed field %q", e.Field)
}

// KeyNotFoundError reports a strict indexed lookup miss on an AMS unit
// or an AMS hub. The lenient getters return a comma-ok pair instead.
type KeyNotFoundError struct {
	Container string
	Index     int
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("%s: no entry at index %d", e.Container, e.Index)
}

// InvalidGcodeError reports a G-code line that failed local validation.
// Nothing was transmitted to the printer.
type InvalidGcodeError struct {
	Line   string
	Reason string
}

func (e *InvalidGcodeError) Error() string {
	return fmt.Sprintf("invalid gcode %q: %s", e.Line, e.Reason)
}
