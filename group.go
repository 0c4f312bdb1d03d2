package measurestore

import (
	"slices"

	"github.com/hupe1980/measurestore/aggregate"
	"github.com/hupe1980/measurestore/internal/bitmap"
)

// KeyFunc maps a dimension key to a group key, e.g. for binning.
type KeyFunc func(Key) Key

// GroupEntry holds the accumulators of one group key, one per store column.
type GroupEntry struct {
	Key          Key
	Rows         int
	Accumulators []aggregate.Accumulator
}

// Accumulator returns the accumulator of the column at index.
func (e *GroupEntry) Accumulator(index int) aggregate.Accumulator {
	if index < 0 || index >= len(e.Accumulators) {
		return nil
	}
	return e.Accumulators[index]
}

// Group reduces the records of a store by dimension key. It stays current while
// filters and records change until Dispose is called.
type Group struct {
	store *Store
	dim   *Dimension // nil groups the whole record set
	keyFn KeyFunc

	rows     *bitmap.RowSet
	entries  map[string]*GroupEntry
	disposed bool
	// err is set once an update failed halfway; the group is frozen from then on.
	err error
}

func newGroup(s *Store, dim *Dimension, keyFn KeyFunc) (*Group, error) {
	g := &Group{
		store:   s,
		dim:     dim,
		keyFn:   keyFn,
		rows:    bitmap.New(),
		entries: make(map[string]*GroupEntry),
	}
	rows := s.passing(dim)
	if err := g.apply(rows, bitmap.New()); err != nil {
		return nil, err
	}
	g.rows = rows
	return g, nil
}

func (g *Group) groupKey(row uint32) Key {
	if g.dim == nil {
		return Key{}
	}
	k := g.dim.keys[row]
	if g.keyFn != nil {
		k = g.keyFn(k)
	}
	return k
}

func (g *Group) entry(k Key) *GroupEntry {
	enc := k.encode()
	if e, ok := g.entries[enc]; ok {
		return e
	}
	cols := g.store.columns
	e := &GroupEntry{Key: k, Accumulators: make([]aggregate.Accumulator, len(cols))}
	for i, c := range cols {
		e.Accumulators[i] = c.newAccumulator()
	}
	g.entries[enc] = e
	return e
}

// apply folds added rows in and removed rows out.
func (g *Group) apply(added, removed *bitmap.RowSet) error {
	cols := g.store.columns
	for row := range removed.All() {
		rec := g.store.records[row]
		e := g.entry(g.groupKey(row))
		for i, c := range cols {
			if err := e.Accumulators[i].RemoveFrom(rec.Get(c.Name), rec); err != nil {
				return &InvariantError{Column: c.Name, Key: e.Key, cause: err}
			}
		}
		e.Rows--
	}
	for row := range added.All() {
		rec := g.store.records[row]
		e := g.entry(g.groupKey(row))
		for i, c := range cols {
			e.Accumulators[i].AddTo(rec.Get(c.Name), rec)
		}
		e.Rows++
	}
	return nil
}

// refresh brings the group in line with the store's current filters. A failed
// update freezes the group and every later refresh returns the same error.
func (g *Group) refresh() error {
	if g.err != nil {
		return g.err
	}
	next := g.store.passing(g.dim)
	if next.Equals(g.rows) {
		return nil
	}
	added := bitmap.Difference(next, g.rows)
	removed := bitmap.Difference(g.rows, next)
	if err := g.apply(added, removed); err != nil {
		g.err = err
		return err
	}
	g.rows = next
	return nil
}

// Err returns the error that froze the group, or nil.
func (g *Group) Err() error { return g.err }

// All returns the entries holding at least one record, in key order.
func (g *Group) All() []*GroupEntry {
	out := make([]*GroupEntry, 0, len(g.entries))
	for _, e := range g.entries {
		if e.Rows > 0 {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b *GroupEntry) int { return a.Key.Compare(b.Key) })
	return out
}

// Get returns the entry for k.
func (g *Group) Get(k Key) (*GroupEntry, bool) {
	e, ok := g.entries[k.encode()]
	if !ok || e.Rows == 0 {
		return nil, false
	}
	return e, true
}

// Size returns the number of non-empty entries.
func (g *Group) Size() int {
	n := 0
	for _, e := range g.entries {
		if e.Rows > 0 {
			n++
		}
	}
	return n
}

// Dispose detaches the group from its store. The entries keep their last state.
// Disposing twice is a no-op.
func (g *Group) Dispose() {
	if g.disposed {
		return
	}
	g.disposed = true
	g.store.release(g)
}

// Disposed reports whether Dispose was called.
func (g *Group) Disposed() bool { return g.disposed }
