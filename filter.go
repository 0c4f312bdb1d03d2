package measurestore

import (
	"slices"
)

// Filter selects dimension keys. Filters see the raw dimension key, never the
// output of a group's KeyFunc.
type Filter interface {
	Match(k Key) bool
}

// FilterFunc adapts a function to Filter.
type FilterFunc func(Key) bool

// Match implements Filter.
func (f FilterFunc) Match(k Key) bool { return f(k) }

type exactFilter struct{ key Key }

func (f exactFilter) Match(k Key) bool { return f.key.Equal(k) }

// Exact matches keys equal to key.
func Exact(key Key) Filter { return exactFilter{key: key} }

type rangeFilter struct{ lo, hi Key }

func (f rangeFilter) Match(k Key) bool {
	return k.Compare(f.lo) >= 0 && k.Compare(f.hi) < 0
}

// Range matches keys in the half-open interval [lo, hi).
func Range(lo, hi Key) Filter { return rangeFilter{lo: lo, hi: hi} }

type inFilter struct{ keys []Key }

func (f inFilter) Match(k Key) bool {
	return slices.ContainsFunc(f.keys, k.Equal)
}

// In matches keys equal to any of keys.
func In(keys ...Key) Filter { return inFilter{keys: keys} }

// Predicate matches keys for which fn returns true.
func Predicate(fn func(Key) bool) Filter { return FilterFunc(fn) }
