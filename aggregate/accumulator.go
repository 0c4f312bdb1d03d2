package aggregate

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hupe1980/measurestore/value"
)

var (
	// ErrUnsupported is returned when an accumulator is asked for a Kind it cannot answer.
	ErrUnsupported = errors.New("unsupported aggregate")

	// ErrInvariant is returned when RemoveFrom is asked to undo a fold that never happened.
	ErrInvariant = errors.New("accumulator invariant violated")
)

// UnsupportedError reports an aggregate Kind outside a variant's Supports() list.
type UnsupportedError struct {
	Kind    Kind
	Variant Variant
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported aggregate: %s does not support %s", e.Variant, e.Kind)
}

// Is reports whether target is ErrUnsupported.
func (e *UnsupportedError) Is(target error) bool { return target == ErrUnsupported }

func unsupported(v Variant, k Kind) error {
	return &UnsupportedError{Kind: k, Variant: v}
}

func invariant(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}

// Variant selects an accumulator implementation.
type Variant uint8

const (
	// CountStar counts rows. Used for the synthetic "*" column.
	CountStar Variant = iota
	// UniqueValue detects whether all rows agree on a value.
	UniqueValue
	// CollectValues keeps all non-null values for exact statistics.
	CollectValues
	// CollectPreAggregated combines server-side partial aggregates.
	CollectPreAggregated
)

func (v Variant) String() string {
	switch v {
	case CountStar:
		return "CountStar"
	case UniqueValue:
		return "UniqueValue"
	case CollectValues:
		return "CollectValues"
	case CollectPreAggregated:
		return "CollectPreAggregated"
	default:
		return fmt.Sprintf("Variant(%d)", uint8(v))
	}
}

// MeasureSpec describes a measure column and, optionally, the columns carrying its
// server-side partial aggregates.
type MeasureSpec struct {
	Name               string `json:"name" mapstructure:"name"`
	CountColumn        string `json:"countColumn,omitempty" mapstructure:"countColumn"`
	SumColumn          string `json:"sumColumn,omitempty" mapstructure:"sumColumn"`
	SumOfSquaresColumn string `json:"sumOfSquaresColumn,omitempty" mapstructure:"sumOfSquaresColumn"`
	MinColumn          string `json:"minColumn,omitempty" mapstructure:"minColumn"`
	MaxColumn          string `json:"maxColumn,omitempty" mapstructure:"maxColumn"`
}

// PreAggregated reports whether the spec points at count or sum columns.
func (m MeasureSpec) PreAggregated() bool {
	return m.CountColumn != "" || m.SumColumn != ""
}

// Variant returns the accumulator variant a measure column uses.
func (m MeasureSpec) Variant() Variant {
	if m.PreAggregated() {
		return CollectPreAggregated
	}
	return CollectValues
}

// Accumulator is the stateful reducer for one column within one group.
//
// Implementations are not safe for concurrent use.
type Accumulator interface {
	// AddTo folds one record into the aggregate. v is the record's (unwrapped) value
	// for the accumulator's column.
	AddTo(v value.Value, rec value.Record)

	// RemoveFrom undoes a prior AddTo of the same value and record.
	RemoveFrom(v value.Value, rec value.Record) error

	// Supports lists the Kinds Result can answer.
	Supports() []Kind

	// Result computes one aggregate. Undefined results (e.g. the mean of nothing)
	// are value.Null().
	Result(k Kind) (value.Value, error)

	// Default is the scalar the accumulator stands for when used without a Kind.
	Default() value.Value

	// Variant identifies the implementation.
	Variant() Variant
}

// New creates an empty accumulator of the given variant. spec is only consulted by
// CollectPreAggregated.
func New(v Variant, spec MeasureSpec) (Accumulator, error) {
	switch v {
	case CountStar:
		return &CountStarAccumulator{}, nil
	case UniqueValue:
		return &UniqueValueAccumulator{}, nil
	case CollectValues:
		return &CollectValuesAccumulator{sorted: true}, nil
	case CollectPreAggregated:
		return NewPreAggregated(spec), nil
	default:
		return nil, fmt.Errorf("unknown accumulator variant %d", uint8(v))
	}
}

// Supports reports whether acc can answer k.
func Supports(acc Accumulator, k Kind) bool {
	return slices.Contains(acc.Supports(), k)
}

func floatResult(f float64, ok bool) value.Value {
	if !ok {
		return value.Null()
	}
	return value.Float(f)
}
