package nested

import (
	"errors"
	"fmt"
)

// Malformed input kinds, reported through *ParseError in strict mode.
var (
	ErrUnclosed        = errors.New("unclosed delimiter")
	ErrUnexpectedClose = errors.New("unexpected closing delimiter")
	ErrMismatched      = errors.New("mismatched closing delimiter")
	ErrTrailing        = errors.New("unexpected content after type")
	ErrNoRoot          = errors.New("no nested element found")
	ErrTooDeep         = errors.New("nesting too deep")
)

// ParseError describes malformed type descriptor input.
type ParseError struct {
	Kind  error
	Pos   int
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse type %q: %v at position %d", e.Input, e.Kind, e.Pos)
}

// Unwrap lets errors.Is match the Kind sentinel.
func (e *ParseError) Unwrap() error {
	return e.Kind
}
