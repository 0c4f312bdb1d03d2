package measurestore

import (
	"slices"

	"github.com/hupe1980/measurestore/aggregate"
)

// MeasureSpec names a measure column and its optional partial-aggregate columns.
type MeasureSpec = aggregate.MeasureSpec

// CountColumn is the name of the synthetic row-count column at index 0.
// A dimension over it keys each record by its row id.
const CountColumn = "*"

// FieldMetadata describes a column as reported by the query API.
type FieldMetadata struct {
	Name      string `json:"name"`
	FieldKey  string `json:"fieldKey,omitempty"`
	Caption   string `json:"caption,omitempty"`
	JSONType  string `json:"jsonType,omitempty"`
	Measure   bool   `json:"measure,omitempty"`
	Dimension bool   `json:"dimension,omitempty"`
}

// ResponseMetadata is the query-level metadata of the response a store was built from.
type ResponseMetadata struct {
	SchemaName     string            `json:"schemaName,omitempty"`
	QueryName      string            `json:"queryName,omitempty"`
	ColumnAliases  []string          `json:"columnAliases,omitempty"`
	ColumnAliasMap map[string]string `json:"columnAliasMap,omitempty"`
	Fields         []FieldMetadata   `json:"fields,omitempty"`
}

// Field returns the metadata of the field whose field key or name is name.
// Field keys win over names.
func (m *ResponseMetadata) Field(name string) (*FieldMetadata, bool) {
	if m == nil {
		return nil, false
	}
	for i := range m.Fields {
		if m.Fields[i].FieldKey == name {
			return &m.Fields[i], true
		}
	}
	for i := range m.Fields {
		if m.Fields[i].FieldKey == "" && m.Fields[i].Name == name {
			return &m.Fields[i], true
		}
	}
	return nil, false
}

// Column describes one store column and the accumulator variant it aggregates with.
type Column struct {
	Name    string
	Index   int
	Variant aggregate.Variant
	Measure *MeasureSpec
	Field   *FieldMetadata
}

// IsMeasure reports whether the column was declared as a measure.
func (c *Column) IsMeasure() bool { return c.Measure != nil }

func (c *Column) newAccumulator() aggregate.Accumulator {
	var spec MeasureSpec
	if c.Measure != nil {
		spec = *c.Measure
	}
	acc, err := aggregate.New(c.Variant, spec)
	if err != nil {
		// Variants are assigned by buildColumns from the closed set.
		panic(err)
	}
	return acc
}

// buildColumns lays out the column list: "*" first, then names in order. Measures
// naming unknown columns are ignored.
func buildColumns(names []string, measures []MeasureSpec, md *ResponseMetadata) []*Column {
	cols := make([]*Column, 0, len(names)+1)
	cols = append(cols, &Column{Name: CountColumn, Index: 0, Variant: aggregate.CountStar})

	specs := make(map[string]*MeasureSpec, len(measures))
	for i := range measures {
		specs[measures[i].Name] = &measures[i]
	}

	for _, name := range names {
		if name == CountColumn || slices.ContainsFunc(cols, func(c *Column) bool { return c.Name == name }) {
			continue
		}
		col := &Column{Name: name, Index: len(cols), Variant: aggregate.UniqueValue}
		if spec, ok := specs[name]; ok {
			m := *spec
			col.Measure = &m
			col.Variant = m.Variant()
		}
		if f, ok := md.Field(name); ok {
			fm := *f
			col.Field = &fm
		}
		cols = append(cols, col)
	}
	return cols
}
