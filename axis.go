package measurestore

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/hupe1980/measurestore/aggregate"
	"github.com/hupe1980/measurestore/value"
)

// AxisFilter is a filter an axis applies to its own store before selecting.
type AxisFilter struct {
	Columns []string
	Filter  Filter
}

type axisMeasure struct {
	index   int
	label   string
	store   *Store
	measure string
	filters []AxisFilter
}

// AxisRow is one joined row of an AxisStore selection.
type AxisRow struct {
	Key Key
	// Dims maps each selected column to its key element.
	Dims map[string]value.Value
	// Values maps each axis label to the axis measure's accumulator.
	Values map[string]aggregate.Accumulator
	// Rows maps each axis label to the full source row; only set when requested.
	Rows map[string]*Row
}

// Value computes one aggregate of the named axis.
func (r *AxisRow) Value(label string, kind aggregate.Kind) (value.Value, error) {
	acc, ok := r.Values[label]
	if !ok || acc == nil {
		return value.Null(), fmt.Errorf("axis %q: %w", label, ErrUnknownAxis)
	}
	return acc.Result(kind)
}

// AxisStore joins selections from several stores, one per plot axis, on a shared key.
type AxisStore struct {
	measures []*axisMeasure
}

// NewAxisStore returns an AxisStore without axes.
func NewAxisStore() *AxisStore {
	return &AxisStore{}
}

// SetMeasure configures the axis at index. The label names the axis in results.
// A nil store clears the axis.
func (a *AxisStore) SetMeasure(index int, label string, store *Store, measure string, filters ...AxisFilter) {
	if index < 0 {
		return
	}
	if store == nil {
		if index < len(a.measures) {
			a.measures[index] = nil
		}
		return
	}
	for len(a.measures) <= index {
		a.measures = append(a.measures, nil)
	}
	a.measures[index] = &axisMeasure{
		index:   index,
		label:   label,
		store:   store,
		measure: measure,
		filters: filters,
	}
}

// SetXMeasure configures axis 0, labelled "x".
func (a *AxisStore) SetXMeasure(store *Store, measure string, filters ...AxisFilter) {
	a.SetMeasure(0, "x", store, measure, filters...)
}

// SetYMeasure configures axis 1, labelled "y".
func (a *AxisStore) SetYMeasure(store *Store, measure string, filters ...AxisFilter) {
	a.SetMeasure(1, "y", store, measure, filters...)
}

// SetZMeasure configures axis 2, labelled "z".
func (a *AxisStore) SetZMeasure(store *Store, measure string, filters ...AxisFilter) {
	a.SetMeasure(2, "z", store, measure, filters...)
}

type joinEntry struct {
	key  Key
	rows []*Row // indexed by axis
}

// Select groups every axis store by columns and inner-joins the results on key.
// Keys missing from any configured axis are dropped.
func (a *AxisStore) Select(columns []string, includeRecords bool) ([]*AxisRow, error) {
	configured := 0
	for _, m := range a.measures {
		if m != nil {
			configured++
		}
	}
	if configured == 0 {
		return nil, ErrNoAxes
	}

	results := make([][]*Row, len(a.measures))
	for _, m := range a.measures {
		if m == nil {
			continue
		}
		if _, err := m.store.Column(m.measure); err != nil {
			return nil, fmt.Errorf("axis %q: %w", m.label, err)
		}
		for _, f := range m.filters {
			if err := m.store.Filter(f.Columns, f.Filter); err != nil {
				return nil, fmt.Errorf("axis %q: %w", m.label, err)
			}
		}
		rows, err := m.store.Select(columns...)
		if err != nil {
			return nil, fmt.Errorf("axis %q: %w", m.label, err)
		}
		results[m.index] = rows
	}

	joined := a.join(results, configured)

	out := make([]*AxisRow, 0, len(joined))
	for _, j := range joined {
		out = append(out, a.flatten(columns, j, includeRecords))
	}
	return out, nil
}

// join indexes every axis result by tagged key and keeps keys present on all axes.
func (a *AxisStore) join(results [][]*Row, configured int) []*joinEntry {
	index := make(map[string]*joinEntry)
	tagged := make(map[string]struct{})
	for axis, rows := range results {
		for _, r := range rows {
			enc := r.Key.encode()
			// a key is counted once per axis
			tag := strconv.Itoa(axis) + "/" + enc
			if _, dup := tagged[tag]; dup {
				continue
			}
			tagged[tag] = struct{}{}

			e, ok := index[enc]
			if !ok {
				e = &joinEntry{key: r.Key, rows: make([]*Row, len(results))}
				index[enc] = e
			}
			e.rows[axis] = r
		}
	}

	out := make([]*joinEntry, 0, len(index))
	for _, e := range index {
		n := 0
		for _, r := range e.rows {
			if r != nil {
				n++
			}
		}
		if n == configured {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(x, y *joinEntry) int { return x.key.Compare(y.key) })
	return out
}

func (a *AxisStore) flatten(columns []string, j *joinEntry, includeRecords bool) *AxisRow {
	r := &AxisRow{
		Key:    j.key,
		Dims:   make(map[string]value.Value, len(columns)),
		Values: make(map[string]aggregate.Accumulator, len(a.measures)),
	}
	for i, c := range columns {
		if i < len(j.key) {
			r.Dims[c] = j.key[i]
		} else {
			r.Dims[c] = value.Null()
		}
	}
	if includeRecords {
		r.Rows = make(map[string]*Row, len(a.measures))
	}
	for _, m := range a.measures {
		if m == nil {
			continue
		}
		row := j.rows[m.index]
		acc, _ := row.Get(m.measure)
		r.Values[m.label] = acc
		if includeRecords {
			r.Rows[m.label] = row
		}
	}
	return r
}
