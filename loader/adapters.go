package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/measurestore"
	"github.com/hupe1980/measurestore/value"
)

var (
	// ErrUnsupportedCellSet is returned for cellsets that do not carry exactly one
	// measure member per position on the measures axis.
	ErrUnsupportedCellSet = errors.New("unsupported cellset")

	// ErrMissingSchemaName is returned for a getData measure without alias or schema name.
	ErrMissingSchemaName = errors.New("measure has no schema name")

	// ErrUnrecognizedFormat is returned for documents matching no known response shape.
	ErrUnrecognizedFormat = errors.New("unrecognized response format")
)

// RowIndexColumn is added to every getData row and holds its position in the response.
const RowIndexColumn = "_rowIndex"

const measuresPrefix = "[Measures].["

// FromSelectRows builds a store from a selectRows result. With nil measures, the fields
// flagged as measures are used. Field metadata is attached to the matching columns.
func FromSelectRows(resp *SelectRowsResponse, measures []string, optFns ...measurestore.Option) (*measurestore.Store, error) {
	if measures == nil {
		measures = []string{}
		for _, f := range resp.MetaData.Fields {
			if !f.Measure {
				continue
			}
			name := f.Name
			if name == "" {
				name = f.FieldKey
			}
			measures = append(measures, name)
		}
	}

	md := measurestore.ResponseMetadata{
		SchemaName:    resp.SchemaName,
		QueryName:     resp.QueryName,
		ColumnAliases: resp.ColumnAliases,
		Fields:        resp.MetaData.Fields,
	}

	opts := []measurestore.Option{
		measurestore.WithMeasureNames(measures...),
		measurestore.WithResponseMetadata(md),
	}
	return measurestore.NewFromMaps(resp.Rows, append(opts, optFns...)...)
}

// ColumnName returns the column name a getData response uses for m: its alias, or
// schema, query and name joined by underscores.
func (m MeasureRef) ColumnName() (string, error) {
	if m.Alias != "" {
		return m.Alias, nil
	}
	if m.SchemaName == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingSchemaName, m.Name)
	}
	return strings.Join([]string{m.SchemaName, m.QueryName, m.Name}, "_"), nil
}

// FromGetData builds a store from a getData result. Only references flagged isMeasure
// become measures. Every row gets a RowIndexColumn; the rows of resp are modified.
func FromGetData(resp *GetDataResponse, measures []GetDataMeasure, optFns ...measurestore.Option) (*measurestore.Store, error) {
	names := make([]string, 0, len(measures))
	for _, m := range measures {
		name, err := m.Measure.ColumnName()
		if err != nil {
			return nil, err
		}
		if m.Measure.IsMeasure {
			names = append(names, name)
		}
	}

	md := measurestore.ResponseMetadata{
		SchemaName: resp.SchemaName,
		QueryName:  resp.QueryName,
	}
	if resp.ColumnAliasMap != nil {
		md.ColumnAliasMap = resp.ColumnAliasMap
	} else {
		md.ColumnAliases = resp.ColumnAliases
	}

	for i, row := range resp.Rows {
		row[RowIndexColumn] = map[string]any{"value": i}
	}

	opts := []measurestore.Option{
		measurestore.WithMeasureNames(names...),
		measurestore.WithResponseMetadata(md),
	}
	return measurestore.NewFromMaps(resp.Rows, append(opts, optFns...)...)
}

// FromCellSet builds a store from an OLAP cellset. Each cell row becomes one record keyed
// by the level unique names of its row members plus one column per measure. Measures not
// configured in measures are summed from their own column.
func FromCellSet(cs *CellSet, measures []measurestore.MeasureSpec, optFns ...measurestore.Option) (*measurestore.Store, error) {
	if len(cs.Axes) == 0 {
		return nil, fmt.Errorf("%w: no axes", ErrUnsupportedCellSet)
	}

	configured := make(map[string]measurestore.MeasureSpec, len(measures))
	for _, m := range measures {
		configured[m.Name] = m
	}

	specs := make([]measurestore.MeasureSpec, 0, len(cs.Axes[0].Positions))
	for _, pos := range cs.Axes[0].Positions {
		if len(pos) != 1 {
			return nil, fmt.Errorf("%w: nested members on the measures axis", ErrUnsupportedCellSet)
		}
		m := pos[0]
		if !strings.HasPrefix(m.UniqueName, measuresPrefix) {
			return nil, fmt.Errorf("%w: %s is not a measure", ErrUnsupportedCellSet, m.UniqueName)
		}
		spec, ok := configured[m.Name]
		if !ok {
			spec = measurestore.MeasureSpec{Name: m.Name, SumColumn: m.Name}
		}
		specs = append(specs, spec)
	}

	records := make([]value.Record, 0, len(cs.Cells))
	for r, cellRow := range cs.Cells {
		rec := make(value.Record, len(cellRow)+2)
		for c, cell := range cellRow {
			if len(cell.Positions) < 2 || len(cell.Positions[0]) == 0 {
				return nil, fmt.Errorf("%w: cell %d,%d lacks positions", ErrUnsupportedCellSet, r, c)
			}
			if c == 0 {
				for _, member := range cell.Positions[1] {
					rec[member.Level.UniqueName] = value.String(member.Name)
				}
			}
			v, err := value.FromAny(cell.Value)
			if err != nil {
				return nil, fmt.Errorf("cell %d,%d: %w", r, c, err)
			}
			rec[cell.Positions[0][0].Name] = v
		}
		records = append(records, rec)
	}

	opts := []measurestore.Option{measurestore.WithMeasures(specs...)}
	return measurestore.New(records, append(opts, optFns...)...)
}
