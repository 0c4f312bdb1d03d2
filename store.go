package measurestore

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/hupe1980/measurestore/internal/bitmap"
	"github.com/hupe1980/measurestore/value"
)

// Store is an in-memory aggregation store over a batch of records.
//
// Filters set on one dimension are observed by groups over every other dimension.
// A Store is not safe for concurrent use.
type Store struct {
	// records is indexed by row id; removed rows hold nil.
	records []value.Record
	live    *bitmap.RowSet
	sample  value.Record

	explicitColumns bool
	columnNames     []string
	measures        []MeasureSpec
	columns         []*Column
	columnIndex     map[string]*Column

	dimensions map[string]*Dimension
	groups     []*Group

	responseMetadata *ResponseMetadata
	logger           *Logger
	metrics          MetricsCollector
}

// New builds a store over records.
func New(records []value.Record, optFns ...Option) (*Store, error) {
	start := time.Now()
	o := applyOptions(optFns)

	s := &Store{
		live:             bitmap.New(),
		explicitColumns:  len(o.columns) > 0,
		columnNames:      o.columns,
		measures:         o.measures,
		dimensions:       make(map[string]*Dimension),
		responseMetadata: o.responseMetadata,
		logger:           o.logger,
		metrics:          o.metricsCollector,
	}
	if s.explicitColumns {
		s.setColumns(s.columnNames)
	} else {
		s.setColumns(nil)
	}

	s.append(records)

	for _, cols := range o.dimensions {
		if _, err := s.Dimension(cols...); err != nil {
			return nil, err
		}
	}

	s.logger.LogBuild(context.Background(), len(records), len(s.columns), len(s.measures))
	s.metrics.RecordBuild(len(records), time.Since(start))
	return s, nil
}

// NewFromMaps builds a store from decoded rows, unwrapping {"value": ...} cells.
func NewFromMaps(rows []map[string]any, optFns ...Option) (*Store, error) {
	records, err := value.RecordsFromAny(rows)
	if err != nil {
		return nil, err
	}
	return New(records, optFns...)
}

func (s *Store) setColumns(names []string) {
	s.columns = buildColumns(names, s.measures, s.responseMetadata)
	s.columnIndex = make(map[string]*Column, len(s.columns))
	for _, c := range s.columns {
		s.columnIndex[c.Name] = c
	}
}

func recordColumns(rec value.Record) []string {
	names := make([]string, 0, len(rec))
	for name := range rec {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// append stores records and indexes them in every existing dimension.
func (s *Store) append(records []value.Record) {
	if len(records) == 0 {
		return
	}
	if s.sample == nil {
		s.sample = records[0]
		if !s.explicitColumns {
			s.setColumns(recordColumns(s.sample))
		}
	}

	from := len(s.records)
	for _, rec := range records {
		if rec == nil {
			rec = value.Record{}
		}
		s.records = append(s.records, rec)
	}
	s.live.AddRange(uint32(from), uint32(len(s.records)))

	for _, d := range s.dimensions {
		d.index(from, len(s.records))
	}
}

// Dimension returns the dimension over columns, creating it on first use.
// Column names are validated against the first record only.
func (s *Store) Dimension(columns ...string) (*Dimension, error) {
	if len(columns) == 0 {
		return nil, ErrEmptyColumnName
	}
	id := dimensionID(columns)
	if d, ok := s.dimensions[id]; ok {
		return d, nil
	}
	for _, c := range columns {
		if c == "" {
			return nil, ErrEmptyColumnName
		}
		if c == CountColumn {
			continue
		}
		if s.sample != nil && !s.sample.Has(c) {
			return nil, &ColumnNotFoundError{Name: c}
		}
		if s.sample == nil && s.explicitColumns && s.columnIndex[c] == nil {
			return nil, &ColumnNotFoundError{Name: c}
		}
	}

	d := newDimension(s, columns)
	s.dimensions[id] = d
	s.logger.LogDimension(context.Background(), columns, d.Cardinality())
	return d, nil
}

// Group reduces the filtered records by the given columns. Empty columns group the
// whole filtered record set under a single empty key. keyFn may be nil.
// The returned group must be disposed.
func (s *Store) Group(columns []string, keyFn KeyFunc) (*Group, error) {
	start := time.Now()
	var dim *Dimension
	if len(columns) > 0 {
		var err error
		if dim, err = s.Dimension(columns...); err != nil {
			return nil, err
		}
	}
	g, err := newGroup(s, dim, keyFn)
	if err != nil {
		s.logger.ErrorContext(context.Background(), "group failed", "error", err)
		return nil, err
	}
	s.groups = append(s.groups, g)
	s.metrics.RecordGroup(strings.Join(columns, ","), g.Size(), time.Since(start))
	return g, nil
}

func (s *Store) release(g *Group) {
	s.groups = slices.DeleteFunc(s.groups, func(o *Group) bool { return o == g })
}

// passing returns the live rows matching the filters of every dimension except skip.
func (s *Store) passing(skip *Dimension) *bitmap.RowSet {
	rows := s.live.Clone()
	for _, d := range s.dimensions {
		if d == skip || d.pass == nil {
			continue
		}
		rows.And(d.pass)
	}
	return rows
}

func (s *Store) refreshGroups() error {
	var errs []error
	for _, g := range s.groups {
		if err := g.refresh(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Filter applies f to the dimension over columns, replacing any previous filter.
// A nil f clears the filter.
func (s *Store) Filter(columns []string, f Filter) error {
	start := time.Now()
	d, err := s.Dimension(columns...)
	if err != nil {
		s.metrics.RecordFilter(strings.Join(columns, ","), time.Since(start), err)
		return err
	}
	d.setFilter(f)
	err = s.refreshGroups()

	passing := s.live.Cardinality()
	if d.pass != nil {
		passing = bitmap.Intersect(s.live, d.pass).Cardinality()
	}
	s.logger.LogFilter(context.Background(), columns, passing, err)
	s.metrics.RecordFilter(strings.Join(columns, ","), time.Since(start), err)
	return err
}

// FilterAll clears the filter on the dimension over columns.
func (s *Store) FilterAll(columns ...string) error {
	return s.Filter(columns, nil)
}

// Add appends records. Dimensions and live groups are updated.
func (s *Store) Add(records ...value.Record) error {
	s.append(records)
	err := s.refreshGroups()
	s.logger.LogMutation(context.Background(), "add", len(records), err)
	return err
}

// RemoveFiltered removes the records matching every active filter and returns how
// many were removed. With no filter active every record is removed.
func (s *Store) RemoveFiltered() (int, error) {
	removed := s.passing(nil)
	n := removed.Cardinality()
	if n == 0 {
		return 0, nil
	}

	s.live.AndNot(removed)
	err := s.refreshGroups()

	for _, d := range s.dimensions {
		d.unindex(removed)
	}
	for row := range removed.All() {
		s.records[row] = nil
	}
	s.logger.LogMutation(context.Background(), "remove", n, err)
	return n, err
}

// Size returns the number of live records.
func (s *Store) Size() int { return s.live.Cardinality() }

// Records returns the live records in insertion order.
func (s *Store) Records() []value.Record {
	out := make([]value.Record, 0, s.live.Cardinality())
	for row := range s.live.All() {
		out = append(out, s.records[row])
	}
	return out
}

// Columns returns the store columns; index 0 is the "*" count column.
func (s *Store) Columns() []*Column { return slices.Clone(s.columns) }

// Column returns the named column.
func (s *Store) Column(name string) (*Column, error) {
	c, ok := s.columnIndex[name]
	if !ok {
		return nil, &ColumnNotFoundError{Name: name}
	}
	return c, nil
}

// ResponseMetadata returns the metadata the store was built with, or nil.
func (s *Store) ResponseMetadata() *ResponseMetadata { return s.responseMetadata }
