package aggregate

import "github.com/hupe1980/measurestore/value"

// UniqueValueAccumulator reports the value of a column when every row of the group
// agrees on it, comparing strings case-insensitively. Null is a value like any other,
// so a partly blank column has no unique value.
//
// Uniqueness is sticky: once two different values have been folded in, Value stays
// undefined even if the divergent row is removed again.
type UniqueValueAccumulator struct {
	set    bool
	unique bool
	value  value.Value
	values valueBag
}

// AddTo implements Accumulator.
func (a *UniqueValueAccumulator) AddTo(v value.Value, _ value.Record) {
	a.values.add(v)

	switch {
	case !a.set:
		a.set = true
		a.unique = true
		a.value = v
	case a.unique && !value.EqualFold(a.value, v):
		a.unique = false
		a.value = value.Value{}
	}
}

// RemoveFrom implements Accumulator.
func (a *UniqueValueAccumulator) RemoveFrom(v value.Value, _ value.Record) error {
	if !a.values.remove(v) {
		return invariant("unique value %q was never added", v.String())
	}
	return nil
}

// Value returns the shared value. ok is false when no value was seen or values diverged.
func (a *UniqueValueAccumulator) Value() (value.Value, bool) {
	if !a.set || !a.unique {
		return value.Null(), false
	}
	return a.value, true
}

// IsUnique reports whether no divergent value has been seen.
func (a *UniqueValueAccumulator) IsUnique() bool { return !a.set || a.unique }

// Distinct returns the distinct non-null values currently folded in, in sorted order.
func (a *UniqueValueAccumulator) Distinct() []value.Value {
	return a.values.distinct()
}

// Supports implements Accumulator.
func (a *UniqueValueAccumulator) Supports() []Kind { return []Kind{Value, Values} }

// Result implements Accumulator.
func (a *UniqueValueAccumulator) Result(k Kind) (value.Value, error) {
	switch k {
	case Value:
		v, _ := a.Value()
		return v, nil
	case Values:
		return value.Array(a.Distinct()), nil
	default:
		return value.Value{}, unsupported(UniqueValue, k)
	}
}

// Default implements Accumulator.
func (a *UniqueValueAccumulator) Default() value.Value {
	v, _ := a.Value()
	return v
}

// Variant implements Accumulator.
func (a *UniqueValueAccumulator) Variant() Variant { return UniqueValue }
