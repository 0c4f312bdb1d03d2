package measurestore

import (
	"errors"
	"slices"
	"time"

	"github.com/hupe1980/measurestore/aggregate"
	"github.com/hupe1980/measurestore/value"
)

// ErrSeriesDimensions is returned when a series is requested without row or column dimensions.
var ErrSeriesDimensions = errors.New("series requires row and column dimensions")

// Series is a sparse [row][column] grid of rows. Cells without records are nil.
type Series struct {
	RowKeys    []Key
	ColumnKeys []Key
	Cells      [][]*Row
}

// SeriesArray is a sparse [row][column] grid of one aggregate. Cells without
// records are Null.
type SeriesArray struct {
	RowKeys    []Key
	ColumnKeys []Key
	Values     [][]value.Value
}

type seriesLayout struct {
	rowKeys, colKeys []Key
	rowIndex         map[string]int
	colIndex         map[string]int
	split            int
}

func (s *Store) seriesLayout(rowDims, colDims []string) (*seriesLayout, error) {
	if len(rowDims) == 0 || len(colDims) == 0 {
		return nil, ErrSeriesDimensions
	}
	rowKeys, err := s.Members(rowDims...)
	if err != nil {
		return nil, err
	}
	colKeys, err := s.Members(colDims...)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(rowKeys, Key.naturalCompare)
	slices.SortStableFunc(colKeys, Key.naturalCompare)

	l := &seriesLayout{
		rowKeys:  rowKeys,
		colKeys:  colKeys,
		rowIndex: make(map[string]int, len(rowKeys)),
		colIndex: make(map[string]int, len(colKeys)),
		split:    len(rowDims),
	}
	for i, k := range rowKeys {
		l.rowIndex[k.encode()] = i
	}
	for i, k := range colKeys {
		l.colIndex[k.encode()] = i
	}
	return l, nil
}

// cell locates a combined key in the grid.
func (l *seriesLayout) cell(k Key) (int, int, bool) {
	r, ok := l.rowIndex[k.slice(0, l.split).encode()]
	if !ok {
		return 0, 0, false
	}
	c, ok := l.colIndex[k.slice(l.split, len(k)).encode()]
	if !ok {
		return 0, 0, false
	}
	return r, c, true
}

// SelectSeries groups on rowDims followed by colDims and lays the rows out as a grid.
func (s *Store) SelectSeries(rowDims, colDims []string) (*Series, error) {
	start := time.Now()
	out, err := s.selectSeries(rowDims, colDims)
	n := 0
	if out != nil {
		n = len(out.RowKeys)
	}
	s.metrics.RecordSelect("selectSeries", n, time.Since(start), err)
	return out, err
}

func (s *Store) selectSeries(rowDims, colDims []string) (*Series, error) {
	l, err := s.seriesLayout(rowDims, colDims)
	if err != nil {
		return nil, err
	}
	entries, err := s.entries(slices.Concat(rowDims, colDims))
	if err != nil {
		return nil, err
	}

	out := &Series{RowKeys: l.rowKeys, ColumnKeys: l.colKeys, Cells: make([][]*Row, len(l.rowKeys))}
	for i := range out.Cells {
		out.Cells[i] = make([]*Row, len(l.colKeys))
	}
	for _, e := range entries {
		if r, c, ok := l.cell(e.Key); ok {
			out.Cells[r][c] = newRow(s.columns, e)
		}
	}
	return out, nil
}

// SelectSeriesArray is SelectSeries reduced to one aggregate of measure per cell.
func (s *Store) SelectSeriesArray(rowDims, colDims []string, measure string, kind aggregate.Kind) (*SeriesArray, error) {
	start := time.Now()
	out, err := s.selectSeriesArray(rowDims, colDims, measure, kind)
	n := 0
	if out != nil {
		n = len(out.RowKeys)
	}
	s.metrics.RecordSelect("selectSeriesArray", n, time.Since(start), err)
	return out, err
}

func (s *Store) selectSeriesArray(rowDims, colDims []string, measure string, kind aggregate.Kind) (*SeriesArray, error) {
	col, err := s.Column(measure)
	if err != nil {
		return nil, err
	}
	series, err := s.selectSeries(rowDims, colDims)
	if err != nil {
		return nil, err
	}

	out := &SeriesArray{RowKeys: series.RowKeys, ColumnKeys: series.ColumnKeys, Values: make([][]value.Value, len(series.Cells))}
	for i, cells := range series.Cells {
		out.Values[i] = make([]value.Value, len(cells))
		for j, row := range cells {
			if row == nil {
				out.Values[i][j] = value.Null()
				continue
			}
			v, err := row.cells[col.Index].Result(kind)
			if err != nil {
				return nil, err
			}
			out.Values[i][j] = v
		}
	}
	return out, nil
}
