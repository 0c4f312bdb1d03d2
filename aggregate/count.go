package aggregate

import "github.com/hupe1980/measurestore/value"

// CountStarAccumulator counts folded rows.
type CountStarAccumulator struct {
	count int64
}

// AddTo implements Accumulator.
func (a *CountStarAccumulator) AddTo(value.Value, value.Record) {
	a.count++
}

// RemoveFrom implements Accumulator.
func (a *CountStarAccumulator) RemoveFrom(value.Value, value.Record) error {
	if a.count == 0 {
		return invariant("count(*) would become negative")
	}
	a.count--
	return nil
}

// Count returns the number of rows.
func (a *CountStarAccumulator) Count() int64 { return a.count }

// Supports implements Accumulator.
func (a *CountStarAccumulator) Supports() []Kind { return []Kind{Count} }

// Result implements Accumulator.
func (a *CountStarAccumulator) Result(k Kind) (value.Value, error) {
	if k != Count {
		return value.Value{}, unsupported(CountStar, k)
	}
	return value.Int(a.count), nil
}

// Default implements Accumulator.
func (a *CountStarAccumulator) Default() value.Value { return value.Int(a.count) }

// Variant implements Accumulator.
func (a *CountStarAccumulator) Variant() Variant { return CountStar }
