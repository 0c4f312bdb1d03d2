package measurestore

import (
	"slices"
	"strings"

	"github.com/hupe1980/measurestore/internal/bitmap"
	"github.com/hupe1980/measurestore/value"
)

// posting lists the rows holding one dimension key.
type posting struct {
	key  Key
	rows *bitmap.RowSet
}

// Dimension is an index over every record of a store keyed by one or more columns.
// Dimensions are owned and cached by their store.
type Dimension struct {
	store   *Store
	id      string
	columns []string

	// keys is indexed by row id; removed rows hold nil.
	keys     []Key
	postings map[string]*posting

	filter Filter
	// pass holds the rows matching filter; nil while unfiltered.
	pass *bitmap.RowSet
}

func dimensionID(columns []string) string {
	var sb strings.Builder
	for _, c := range columns {
		value.AppendKey(&sb, value.String(c))
		sb.WriteByte(';')
	}
	return sb.String()
}

func newDimension(s *Store, columns []string) *Dimension {
	d := &Dimension{
		store:    s,
		id:       dimensionID(columns),
		columns:  slices.Clone(columns),
		postings: make(map[string]*posting),
	}
	d.index(0, len(s.records))
	return d
}

// Columns returns the dimension's column names.
func (d *Dimension) Columns() []string { return slices.Clone(d.columns) }

// Filtered reports whether a filter is active.
func (d *Dimension) Filtered() bool { return d.filter != nil }

// Cardinality returns the number of distinct keys over all live records.
func (d *Dimension) Cardinality() int { return len(d.postings) }

func (d *Dimension) keyOf(row uint32, rec value.Record) Key {
	k := make(Key, len(d.columns))
	for i, c := range d.columns {
		if c == CountColumn {
			k[i] = value.Int(int64(row))
			continue
		}
		k[i] = rec.Get(c)
	}
	return k
}

// index adds rows [from, to) of the store.
func (d *Dimension) index(from, to int) {
	for len(d.keys) < to {
		d.keys = append(d.keys, nil)
	}
	for i := from; i < to; i++ {
		rec := d.store.records[i]
		if rec == nil {
			continue
		}
		row := uint32(i)
		k := d.keyOf(row, rec)
		d.keys[i] = k

		enc := k.encode()
		p, ok := d.postings[enc]
		if !ok {
			p = &posting{key: k, rows: bitmap.New()}
			d.postings[enc] = p
		}
		p.rows.Add(row)

		if d.filter != nil && d.filter.Match(k) {
			d.pass.Add(row)
		}
	}
}

// unindex drops rows from the index.
func (d *Dimension) unindex(rows *bitmap.RowSet) {
	for row := range rows.All() {
		k := d.keys[row]
		if k == nil {
			continue
		}
		enc := k.encode()
		if p, ok := d.postings[enc]; ok {
			p.rows.Remove(row)
			if p.rows.IsEmpty() {
				delete(d.postings, enc)
			}
		}
		if d.pass != nil {
			d.pass.Remove(row)
		}
		d.keys[row] = nil
	}
}

// setFilter evaluates f once per distinct key. A nil filter clears.
func (d *Dimension) setFilter(f Filter) {
	d.filter = f
	if f == nil {
		d.pass = nil
		return
	}
	pass := bitmap.New()
	for _, p := range d.postings {
		if f.Match(p.key) {
			pass.Or(p.rows)
		}
	}
	d.pass = pass
}

// members returns the keys holding at least one row of rows, in key order.
func (d *Dimension) members(rows *bitmap.RowSet) []Key {
	out := make([]Key, 0, len(d.postings))
	for _, p := range d.postings {
		if bitmap.Intersects(p.rows, rows) {
			out = append(out, p.key)
		}
	}
	slices.SortFunc(out, Key.Compare)
	return out
}
