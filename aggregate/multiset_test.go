package aggregate

import (
	"fmt"
	"testing"
	"time"

	"github.com/hupe1980/measurestore/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueBag(t *testing.T) {
	var b valueBag
	b.add(value.String("b"))
	b.add(value.String("a"))
	b.add(value.String("b"))
	b.add(value.Null())

	assert.Equal(t, value.Strings([]string{"a", "b"}), value.Array(b.distinct()))
	assert.Equal(t, value.Strings([]string{"a", "b", "b"}), value.Array(b.all()))

	assert.True(t, b.remove(value.String("b")))
	assert.True(t, b.remove(value.String("b")))
	assert.False(t, b.remove(value.String("b")))
	assert.True(t, b.contains(value.Null()))
	assert.Equal(t, 2, b.size)
}

func TestFloatBag(t *testing.T) {
	var b floatBag
	_, _, ok := b.extremes()
	assert.False(t, ok)

	for _, f := range []float64{5, 2, 9, 2} {
		b.add(f)
	}
	lo, hi, ok := b.extremes()
	require.True(t, ok)
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 9.0, hi)

	require.True(t, b.remove(2))
	lo, _, _ = b.extremes()
	assert.Equal(t, 2.0, lo, "one 2 remains")

	require.True(t, b.remove(2))
	require.True(t, b.remove(9))
	lo, hi, _ = b.extremes()
	assert.Equal(t, 5.0, lo)
	assert.Equal(t, 5.0, hi)

	assert.False(t, b.remove(9))
	require.True(t, b.remove(5))
	_, _, ok = b.extremes()
	assert.False(t, ok)

	b.add(7)
	lo, hi, _ = b.extremes()
	assert.Equal(t, 7.0, lo)
	assert.Equal(t, 7.0, hi)
}

// Folding a large group must stay linear; sorted-slice inserts made this quadratic.
func TestAccumulatorScale(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	const n = 200_000

	values := make([]value.Value, n)
	recs := make([]value.Record, n)
	for i := range n {
		values[i] = value.String(fmt.Sprintf("v%07d", n-i))
		recs[i] = value.Record{"m_MIN": value.Float(float64(n - i)), "m_MAX": value.Float(float64(n - i))}
	}

	for _, variant := range []Variant{UniqueValue, CollectPreAggregated} {
		t.Run(variant.String(), func(t *testing.T) {
			acc, err := New(variant, MeasureSpec{Name: "m", MinColumn: "m_MIN", MaxColumn: "m_MAX"})
			require.NoError(t, err)

			start := time.Now()
			for i := range n {
				acc.AddTo(values[i], recs[i])
			}
			for i := range n / 2 {
				require.NoError(t, acc.RemoveFrom(values[i], recs[i]))
			}
			assert.Less(t, time.Since(start), 10*time.Second)

			all, err := acc.Result(Values)
			require.NoError(t, err)
			assert.Len(t, all.A, n/2)
		})
	}
}
