package bitmap

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// RowSet is a set of 32-bit row ids backed by a Roaring bitmap.
// A nil *RowSet is not valid; use New.
type RowSet struct {
	rb *roaring.Bitmap
}

// New creates a RowSet holding ids.
func New(ids ...uint32) *RowSet {
	return &RowSet{rb: roaring.BitmapOf(ids...)}
}

// Range creates a RowSet holding [start, end).
func Range(start, end uint32) *RowSet {
	rb := roaring.New()
	if end > start {
		rb.AddRange(uint64(start), uint64(end))
	}
	return &RowSet{rb: rb}
}

// Add adds an id.
func (s *RowSet) Add(id uint32) { s.rb.Add(id) }

// Remove removes an id.
func (s *RowSet) Remove(id uint32) { s.rb.Remove(id) }

// Contains reports whether id is in the set.
func (s *RowSet) Contains(id uint32) bool { return s.rb.Contains(id) }

// IsEmpty reports whether the set has no ids.
func (s *RowSet) IsEmpty() bool { return s.rb.IsEmpty() }

// Cardinality returns the number of ids.
func (s *RowSet) Cardinality() int { return int(s.rb.GetCardinality()) }

// Clone returns a deep copy.
func (s *RowSet) Clone() *RowSet { return &RowSet{rb: s.rb.Clone()} }

// And intersects s with other in place.
func (s *RowSet) And(other *RowSet) { s.rb.And(other.rb) }

// Or unions other into s in place.
func (s *RowSet) Or(other *RowSet) { s.rb.Or(other.rb) }

// AndNot removes every id of other from s in place.
func (s *RowSet) AndNot(other *RowSet) { s.rb.AndNot(other.rb) }

// Equals reports whether both sets hold the same ids.
func (s *RowSet) Equals(other *RowSet) bool { return s.rb.Equals(other.rb) }

// Clear removes all ids.
func (s *RowSet) Clear() { s.rb.Clear() }

// Difference returns the ids of a missing from b.
func Difference(a, b *RowSet) *RowSet {
	return &RowSet{rb: roaring.AndNot(a.rb, b.rb)}
}

// Intersect returns the ids present in every set. With no sets it returns nil.
func Intersect(sets ...*RowSet) *RowSet {
	if len(sets) == 0 {
		return nil
	}
	out := sets[0].Clone()
	for _, s := range sets[1:] {
		out.And(s)
	}
	return out
}

// All iterates over the ids in ascending order.
func (s *RowSet) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// ToArray returns the ids in ascending order.
func (s *RowSet) ToArray() []uint32 { return s.rb.ToArray() }

// SizeInBytes returns the serialized size of the set.
func (s *RowSet) SizeInBytes() uint64 { return s.rb.GetSizeInBytes() }

// Intersects reports whether a and b share at least one id.
func Intersects(a, b *RowSet) bool { return a.rb.Intersects(b.rb) }

// AddRange adds [start, end).
func (s *RowSet) AddRange(start, end uint32) {
	if end > start {
		s.rb.AddRange(uint64(start), uint64(end))
	}
}
