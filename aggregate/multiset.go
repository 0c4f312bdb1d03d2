package aggregate

import (
	"math"
	"slices"

	"github.com/hupe1980/measurestore/value"
)

type bagEntry struct {
	v value.Value
	n int
}

// valueBag is a multiset of values keyed by Value.Key. Add and remove are O(1);
// ordered views are built on demand.
type valueBag struct {
	entries map[string]*bagEntry
	size    int
}

func (b *valueBag) add(v value.Value) {
	if b.entries == nil {
		b.entries = make(map[string]*bagEntry)
	}
	k := v.Key()
	if e, ok := b.entries[k]; ok {
		e.n++
	} else {
		b.entries[k] = &bagEntry{v: v, n: 1}
	}
	b.size++
}

func (b *valueBag) contains(v value.Value) bool {
	_, ok := b.entries[v.Key()]
	return ok
}

// remove drops one occurrence of v and reports whether there was one.
func (b *valueBag) remove(v value.Value) bool {
	k := v.Key()
	e, ok := b.entries[k]
	if !ok {
		return false
	}
	if e.n--; e.n == 0 {
		delete(b.entries, k)
	}
	b.size--
	return true
}

// distinct returns one representative per non-null key, sorted.
func (b *valueBag) distinct() []value.Value {
	out := make([]value.Value, 0, len(b.entries))
	for _, e := range b.entries {
		if !e.v.IsNull() {
			out = append(out, e.v)
		}
	}
	slices.SortFunc(out, value.Compare)
	return out
}

// all returns every non-null occurrence, sorted.
func (b *valueBag) all() []value.Value {
	out := make([]value.Value, 0, b.size)
	for _, v := range b.distinct() {
		for range b.entries[v.Key()].n {
			out = append(out, v)
		}
	}
	return out
}

// floatBag is a multiset of floats whose extremes are recomputed lazily after
// the current minimum or maximum is removed. NaN is ignored.
type floatBag struct {
	counts   map[float64]int
	min, max float64
	stale    bool
}

func (b *floatBag) add(f float64) {
	if math.IsNaN(f) {
		return
	}
	if b.counts == nil {
		b.counts = make(map[float64]int)
	}
	if len(b.counts) == 0 {
		b.min, b.max, b.stale = f, f, false
	} else if !b.stale {
		b.min = math.Min(b.min, f)
		b.max = math.Max(b.max, f)
	}
	b.counts[f]++
}

func (b *floatBag) contains(f float64) bool {
	return math.IsNaN(f) || b.counts[f] > 0
}

// remove drops one occurrence of f and reports whether there was one.
func (b *floatBag) remove(f float64) bool {
	if math.IsNaN(f) {
		return true
	}
	n := b.counts[f]
	switch {
	case n == 0:
		return false
	case n == 1:
		delete(b.counts, f)
		if f == b.min || f == b.max {
			b.stale = true
		}
	default:
		b.counts[f] = n - 1
	}
	return true
}

func (b *floatBag) extremes() (lo, hi float64, ok bool) {
	if len(b.counts) == 0 {
		return 0, 0, false
	}
	if b.stale {
		first := true
		for f := range b.counts {
			if first {
				b.min, b.max, first = f, f, false
				continue
			}
			b.min = math.Min(b.min, f)
			b.max = math.Max(b.max, f)
		}
		b.stale = false
	}
	return b.min, b.max, true
}
