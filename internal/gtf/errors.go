package gtf

import (
	"errors"
	"fmt"
)

// ErrNotSeekable is returned when a two-pass read is requested on an input
// that cannot be rewound (pipes, stdin, network streams).
var ErrNotSeekable = errors.New("gtf: two-pass mode requires random-access input")

// FormatError reports a line that cannot be decomposed into a record.
type FormatError struct {
	Line    int
	Message string
}

func (e *FormatError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("gtf format error: %s", e.Message)
	}
	return fmt.Sprintf("gtf format error at line %d: %s", e.Line, e.Message)
}

// MissingAttributeError reports a required attribute absent from a record.
type MissingAttributeError struct {
	Line      int
	Attribute string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("gtf record at line %d: missing attribute %q", e.Line, e.Attribute)
}

// InvariantViolation reports corrupt coordinates, such as an exon whose end
// lies before its start.
type InvariantViolation struct {
	Line    int
	Message string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("gtf invariant violated at line %d: %s", e.Line, e.Message)
}
