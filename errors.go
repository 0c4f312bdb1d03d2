package measurestore

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnNotFound is returned when a column, measure or dimension name is unknown.
	ErrColumnNotFound = errors.New("column not found")

	// ErrNoAxes is returned by AxisStore.Select when no axis measure is configured.
	ErrNoAxes = errors.New("no axis measures configured")

	// ErrUnknownAxis is returned when an axis label has no configured measure.
	ErrUnknownAxis = errors.New("unknown axis")

	// ErrEmptyColumnName is returned when a dimension names an empty column.
	ErrEmptyColumnName = errors.New("column is undefined")
)

// ColumnNotFoundError reports an unknown column name.
//
// It matches ErrColumnNotFound via errors.Is.
type ColumnNotFoundError struct {
	Name string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column name not found: %s", e.Name)
}

// Is reports whether target is ErrColumnNotFound.
func (e *ColumnNotFoundError) Is(target error) bool { return target == ErrColumnNotFound }

// InvariantError wraps an accumulator invariant violation with the group key and
// column it happened on.
//
// The original underlying error can be accessed via errors.Unwrap.
type InvariantError struct {
	Column string
	Key    Key
	cause  error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("group %s, column %q: %v", e.Key, e.Column, e.cause)
}

func (e *InvariantError) Unwrap() error { return e.cause }
