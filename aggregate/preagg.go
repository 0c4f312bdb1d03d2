package aggregate

import (
	"math"
	"slices"

	"github.com/hupe1980/measurestore/value"
)

// PreAggregatedAccumulator combines partial aggregates a server already computed,
// read from the count, sum, sum-of-squares, min and max columns named in its spec.
//
// The variance uses the sum-of-squares identity (N*Σx² - (Σx)²) / (N*(N-1)), which
// needs no raw values.
type PreAggregatedAccumulator struct {
	spec MeasureSpec

	count        float64
	sum          float64
	sumOfSquares float64
	// mins and maxes are multisets so RemoveFrom is exact.
	mins   floatBag
	maxes  floatBag
	values valueBag
}

// NewPreAggregated creates an empty accumulator reading the columns named in spec.
func NewPreAggregated(spec MeasureSpec) *PreAggregatedAccumulator {
	return &PreAggregatedAccumulator{spec: spec}
}

func column(rec value.Record, name string) (float64, bool) {
	if name == "" {
		return 0, false
	}
	return rec.Get(name).Float64()
}

// AddTo implements Accumulator.
func (a *PreAggregatedAccumulator) AddTo(v value.Value, rec value.Record) {
	if f, ok := column(rec, a.spec.CountColumn); ok {
		a.count += f
	}
	if f, ok := column(rec, a.spec.SumColumn); ok {
		a.sum += f
	}
	if f, ok := column(rec, a.spec.SumOfSquaresColumn); ok {
		a.sumOfSquares += f
	}
	if f, ok := column(rec, a.spec.MinColumn); ok {
		a.mins.add(f)
	}
	if f, ok := column(rec, a.spec.MaxColumn); ok {
		a.maxes.add(f)
	}
	if !v.IsNull() {
		a.values.add(v)
	}
}

// RemoveFrom implements Accumulator. The record is checked against every multiset
// before anything is removed, so a failed call leaves the accumulator unchanged.
func (a *PreAggregatedAccumulator) RemoveFrom(v value.Value, rec value.Record) error {
	lo, hasLo := column(rec, a.spec.MinColumn)
	if hasLo && !a.mins.contains(lo) {
		return invariant("partial minimum %g was never added", lo)
	}
	hi, hasHi := column(rec, a.spec.MaxColumn)
	if hasHi && !a.maxes.contains(hi) {
		return invariant("partial maximum %g was never added", hi)
	}
	if !v.IsNull() && !a.values.contains(v) {
		return invariant("value %q was never added", v.String())
	}

	if hasLo {
		a.mins.remove(lo)
	}
	if hasHi {
		a.maxes.remove(hi)
	}
	if !v.IsNull() {
		a.values.remove(v)
	}
	if f, ok := column(rec, a.spec.CountColumn); ok {
		a.count -= f
	}
	if f, ok := column(rec, a.spec.SumColumn); ok {
		a.sum -= f
	}
	if f, ok := column(rec, a.spec.SumOfSquaresColumn); ok {
		a.sumOfSquares -= f
	}
	return nil
}

// Count returns the combined count. ok is false without a count column.
func (a *PreAggregatedAccumulator) Count() (float64, bool) {
	if a.spec.CountColumn == "" {
		return 0, false
	}
	return a.count, true
}

// Sum returns the combined sum. ok is false without a sum column.
func (a *PreAggregatedAccumulator) Sum() (float64, bool) {
	if a.spec.SumColumn == "" {
		return 0, false
	}
	return a.sum, true
}

// Mean returns Sum / Count.
func (a *PreAggregatedAccumulator) Mean() (float64, bool) {
	if a.spec.CountColumn == "" || a.spec.SumColumn == "" || a.count == 0 {
		return 0, false
	}
	return a.sum / a.count, true
}

// Variance returns the sample variance from the partial sums.
func (a *PreAggregatedAccumulator) Variance() (float64, bool) {
	if a.spec.CountColumn == "" || a.spec.SumColumn == "" || a.spec.SumOfSquaresColumn == "" {
		return 0, false
	}
	n := a.count
	if n < 2 {
		return 0, false
	}
	return (n*a.sumOfSquares - a.sum*a.sum) / (n * (n - 1)), true
}

// StdDev returns the sample standard deviation.
func (a *PreAggregatedAccumulator) StdDev() (float64, bool) {
	variance, ok := a.Variance()
	if !ok {
		return 0, false
	}
	return math.Sqrt(variance), true
}

// StdErr returns the standard error of the mean.
func (a *PreAggregatedAccumulator) StdErr() (float64, bool) {
	sd, ok := a.StdDev()
	if !ok {
		return 0, false
	}
	return sd / math.Sqrt(a.count), true
}

// Min returns the smallest partial minimum.
func (a *PreAggregatedAccumulator) Min() (float64, bool) {
	lo, _, ok := a.mins.extremes()
	return lo, ok
}

// Max returns the largest partial maximum.
func (a *PreAggregatedAccumulator) Max() (float64, bool) {
	_, hi, ok := a.maxes.extremes()
	return hi, ok
}

// Supports implements Accumulator. The list depends on which source columns the measure names.
func (a *PreAggregatedAccumulator) Supports() []Kind {
	var out []Kind
	if a.spec.CountColumn != "" {
		out = append(out, Count)
	}
	if a.spec.SumColumn != "" {
		out = append(out, Sum)
	}
	if a.spec.CountColumn != "" && a.spec.SumColumn != "" {
		out = append(out, Mean)
		if a.spec.SumOfSquaresColumn != "" {
			out = append(out, StdDev, Var, StdErr)
		}
	}
	if a.spec.MinColumn != "" {
		out = append(out, Min)
	}
	if a.spec.MaxColumn != "" {
		out = append(out, Max)
	}
	return append(out, Values)
}

// Result implements Accumulator.
func (a *PreAggregatedAccumulator) Result(k Kind) (value.Value, error) {
	if !slices.Contains(a.Supports(), k) {
		return value.Value{}, unsupported(CollectPreAggregated, k)
	}
	switch k {
	case Count:
		return floatResult(a.Count()), nil
	case Sum:
		return floatResult(a.Sum()), nil
	case Mean:
		return floatResult(a.Mean()), nil
	case Var:
		return floatResult(a.Variance()), nil
	case StdDev:
		return floatResult(a.StdDev()), nil
	case StdErr:
		return floatResult(a.StdErr()), nil
	case Min:
		return floatResult(a.Min()), nil
	case Max:
		return floatResult(a.Max()), nil
	default:
		return value.Array(a.values.all()), nil
	}
}

// Default implements Accumulator. It is the mean when defined, else the sum.
func (a *PreAggregatedAccumulator) Default() value.Value {
	if m, ok := a.Mean(); ok {
		return value.Float(m)
	}
	return floatResult(a.Sum())
}

// Variant implements Accumulator.
func (a *PreAggregatedAccumulator) Variant() Variant { return CollectPreAggregated }
