package measurestore

import (
	"encoding/json"
	"time"

	"github.com/hupe1980/measurestore/aggregate"
	"github.com/hupe1980/measurestore/value"
)

// Row is one flattened group entry: the key plus one accumulator per column.
type Row struct {
	Key     Key
	columns []*Column
	cells   []aggregate.Accumulator
	rows    int
}

func newRow(columns []*Column, e *GroupEntry) *Row {
	return &Row{Key: e.Key, columns: columns, cells: e.Accumulators, rows: e.Rows}
}

// Count returns the number of records folded into the row.
func (r *Row) Count() int { return r.rows }

// Get returns the accumulator of the named column.
func (r *Row) Get(column string) (aggregate.Accumulator, bool) {
	for i, c := range r.columns {
		if c.Name == column {
			return r.cells[i], true
		}
	}
	return nil, false
}

// Value computes one aggregate of the named column.
func (r *Row) Value(column string, kind aggregate.Kind) (value.Value, error) {
	acc, ok := r.Get(column)
	if !ok {
		return value.Null(), &ColumnNotFoundError{Name: column}
	}
	return acc.Result(kind)
}

// Map returns the default scalar of every column keyed by column name, plus "__key".
func (r *Row) Map() map[string]value.Value {
	m := make(map[string]value.Value, len(r.columns)+1)
	m["__key"] = r.Key.Value()
	for i, c := range r.columns {
		m[c.Name] = r.cells[i].Default()
	}
	return m
}

// MarshalJSON encodes the row as Map does.
func (r *Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

// Members returns the distinct keys of the dimension over columns present in the
// filtered records, in key order. The dimension's own filter is ignored.
func (s *Store) Members(columns ...string) ([]Key, error) {
	start := time.Now()
	d, err := s.Dimension(columns...)
	if err != nil {
		s.metrics.RecordSelect("members", 0, time.Since(start), err)
		return nil, err
	}
	keys := d.members(s.passing(d))
	s.metrics.RecordSelect("members", len(keys), time.Since(start), nil)
	return keys, nil
}

// entries builds a group, collects its non-empty entries and disposes it.
func (s *Store) entries(columns []string) ([]*GroupEntry, error) {
	g, err := s.Group(columns, nil)
	if err != nil {
		return nil, err
	}
	defer g.Dispose()
	return g.All(), nil
}

// Select returns one row per key of the dimension over columns.
func (s *Store) Select(columns ...string) ([]*Row, error) {
	start := time.Now()
	entries, err := s.entries(columns)
	if err != nil {
		s.metrics.RecordSelect("select", 0, time.Since(start), err)
		return nil, err
	}
	rows := make([]*Row, len(entries))
	for i, e := range entries {
		rows[i] = newRow(s.columns, e)
	}
	s.metrics.RecordSelect("select", len(rows), time.Since(start), nil)
	return rows, nil
}

func extract(entries []*GroupEntry, col *Column, kind aggregate.Kind) ([]value.Value, error) {
	out := make([]value.Value, len(entries))
	for i, e := range entries {
		v, err := e.Accumulators[col.Index].Result(kind)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// SelectArray returns one aggregate of measure per key of the dimension over columns.
func (s *Store) SelectArray(columns []string, measure string, kind aggregate.Kind) ([]value.Value, error) {
	start := time.Now()
	out, err := s.selectArray(columns, measure, kind)
	s.metrics.RecordSelect("selectArray", len(out), time.Since(start), err)
	return out, err
}

func (s *Store) selectArray(columns []string, measure string, kind aggregate.Kind) ([]value.Value, error) {
	col, err := s.Column(measure)
	if err != nil {
		return nil, err
	}
	entries, err := s.entries(columns)
	if err != nil {
		return nil, err
	}
	return extract(entries, col, kind)
}

// SelectXYArray returns two aligned aggregate arrays computed from one grouping pass.
func (s *Store) SelectXYArray(columns []string, xMeasure string, xKind aggregate.Kind, yMeasure string, yKind aggregate.Kind) ([]value.Value, []value.Value, error) {
	start := time.Now()
	xs, ys, err := s.selectXYArray(columns, xMeasure, xKind, yMeasure, yKind)
	s.metrics.RecordSelect("selectXYArray", len(xs), time.Since(start), err)
	return xs, ys, err
}

func (s *Store) selectXYArray(columns []string, xMeasure string, xKind aggregate.Kind, yMeasure string, yKind aggregate.Kind) ([]value.Value, []value.Value, error) {
	xCol, err := s.Column(xMeasure)
	if err != nil {
		return nil, nil, err
	}
	yCol, err := s.Column(yMeasure)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.entries(columns)
	if err != nil {
		return nil, nil, err
	}
	xs, err := extract(entries, xCol, xKind)
	if err != nil {
		return nil, nil, err
	}
	ys, err := extract(entries, yCol, yKind)
	if err != nil {
		return nil, nil, err
	}
	return xs, ys, nil
}
