package aggregate

import (
	"math"
	"slices"

	"github.com/hupe1980/measurestore/value"
)

// CollectValuesAccumulator keeps every non-null value of a measure and computes
// statistics on demand. Values are sorted lazily, on the first request that needs
// order, and the sortedness is cached until the next out-of-order AddTo.
type CollectValuesAccumulator struct {
	values     []value.Value
	sorted     bool
	nonNumeric int

	sum    float64
	sumSet bool
}

// AddTo implements Accumulator.
func (a *CollectValuesAccumulator) AddTo(v value.Value, _ value.Record) {
	if v.IsNull() {
		return
	}
	if n := len(a.values); n > 0 && a.sorted && value.Less(v, a.values[n-1]) {
		a.sorted = false
	}
	if len(a.values) == 0 {
		a.sorted = true
	}
	a.values = append(a.values, v)
	if !v.IsNumber() {
		a.nonNumeric++
	}
	if a.sumSet {
		if f, ok := v.Float64(); ok {
			a.sum += f
		}
	}
}

// RemoveFrom implements Accumulator.
func (a *CollectValuesAccumulator) RemoveFrom(v value.Value, _ value.Record) error {
	if v.IsNull() {
		return nil
	}
	a.sort()
	i, found := slices.BinarySearchFunc(a.values, v, value.Compare)
	if !found {
		return invariant("value %q was never added", v.String())
	}
	a.values = slices.Delete(a.values, i, i+1)
	if !v.IsNumber() {
		a.nonNumeric--
	}
	a.sumSet = false
	return nil
}

func (a *CollectValuesAccumulator) sort() {
	if a.sorted {
		return
	}
	slices.SortFunc(a.values, value.Compare)
	a.sorted = true
}

// Numeric reports whether every collected value is a number.
func (a *CollectValuesAccumulator) Numeric() bool { return a.nonNumeric == 0 }

// Count returns the number of non-null values.
func (a *CollectValuesAccumulator) Count() int { return len(a.values) }

// Sum returns the sum of the values. ok is false for an empty or non-numeric set.
func (a *CollectValuesAccumulator) Sum() (float64, bool) {
	if len(a.values) == 0 || !a.Numeric() {
		return 0, false
	}
	if !a.sumSet {
		var sum float64
		for _, v := range a.values {
			f, _ := v.Float64()
			sum += f
		}
		a.sum = sum
		a.sumSet = true
	}
	return a.sum, true
}

// Mean returns Sum / Count.
func (a *CollectValuesAccumulator) Mean() (float64, bool) {
	sum, ok := a.Sum()
	if !ok {
		return 0, false
	}
	return sum / float64(len(a.values)), true
}

// Variance returns the sample variance. It needs at least two values.
func (a *CollectValuesAccumulator) Variance() (float64, bool) {
	n := len(a.values)
	if n < 2 {
		return 0, false
	}
	mean, ok := a.Mean()
	if !ok {
		return 0, false
	}
	var ss float64
	for _, v := range a.values {
		f, _ := v.Float64()
		d := f - mean
		ss += d * d
	}
	return ss / float64(n-1), true
}

// StdDev returns the sample standard deviation.
func (a *CollectValuesAccumulator) StdDev() (float64, bool) {
	variance, ok := a.Variance()
	if !ok {
		return 0, false
	}
	return math.Sqrt(variance), true
}

// StdErr returns the standard error of the mean.
func (a *CollectValuesAccumulator) StdErr() (float64, bool) {
	sd, ok := a.StdDev()
	if !ok {
		return 0, false
	}
	return sd / math.Sqrt(float64(len(a.values))), true
}

// Median returns the middle value, averaging the two middle values of an even-sized set.
func (a *CollectValuesAccumulator) Median() (float64, bool) {
	n := len(a.values)
	if n == 0 || !a.Numeric() {
		return 0, false
	}
	a.sort()
	if n%2 == 1 {
		f, _ := a.values[n/2].Float64()
		return f, true
	}
	lo, _ := a.values[n/2-1].Float64()
	hi, _ := a.values[n/2].Float64()
	return (lo + hi) / 2, true
}

// Min returns the smallest value.
func (a *CollectValuesAccumulator) Min() (value.Value, bool) {
	if len(a.values) == 0 {
		return value.Null(), false
	}
	a.sort()
	return a.values[0], true
}

// Max returns the largest value.
func (a *CollectValuesAccumulator) Max() (value.Value, bool) {
	if len(a.values) == 0 {
		return value.Null(), false
	}
	a.sort()
	return a.values[len(a.values)-1], true
}

// CountDistinct returns the number of distinct values.
func (a *CollectValuesAccumulator) CountDistinct() int {
	if len(a.values) <= 1 {
		return len(a.values)
	}
	a.sort()
	count := 1
	for i := 1; i < len(a.values); i++ {
		if value.Compare(a.values[i-1], a.values[i]) != 0 {
			count++
		}
	}
	return count
}

// Values returns the collected values in sorted order. The slice must not be modified.
func (a *CollectValuesAccumulator) Values() []value.Value {
	a.sort()
	return a.values
}

// Supports implements Accumulator.
func (a *CollectValuesAccumulator) Supports() []Kind {
	if !a.Numeric() {
		return []Kind{Count, Min, Max, CountDistinct, Values}
	}
	return []Kind{Count, Sum, Mean, Median, Min, Max, Var, StdDev, StdErr, CountDistinct, Values}
}

// Result implements Accumulator.
func (a *CollectValuesAccumulator) Result(k Kind) (value.Value, error) {
	if !slices.Contains(a.Supports(), k) {
		return value.Value{}, unsupported(CollectValues, k)
	}
	switch k {
	case Count:
		return value.Int(int64(a.Count())), nil
	case Sum:
		return floatResult(a.Sum()), nil
	case Mean:
		return floatResult(a.Mean()), nil
	case Median:
		return floatResult(a.Median()), nil
	case Min:
		v, _ := a.Min()
		return v, nil
	case Max:
		v, _ := a.Max()
		return v, nil
	case Var:
		return floatResult(a.Variance()), nil
	case StdDev:
		return floatResult(a.StdDev()), nil
	case StdErr:
		return floatResult(a.StdErr()), nil
	case CountDistinct:
		return value.Int(int64(a.CountDistinct())), nil
	default:
		return value.Array(slices.Clone(a.Values())), nil
	}
}

// Default implements Accumulator. It is the mean.
func (a *CollectValuesAccumulator) Default() value.Value {
	return floatResult(a.Mean())
}

// Variant implements Accumulator.
func (a *CollectValuesAccumulator) Variant() Variant { return CollectValues }
