package loader

import "github.com/hupe1980/measurestore"

// SelectRowsResponse is a selectRows or executeSql result.
type SelectRowsResponse struct {
	SchemaName    string           `json:"schemaName,omitempty"`
	QueryName     string           `json:"queryName,omitempty"`
	MetaData      MetaData         `json:"metaData"`
	Rows          []map[string]any `json:"rows"`
	RowCount      int              `json:"rowCount,omitempty"`
	ColumnAliases []string         `json:"columnAliases,omitempty"`
}

// MetaData lists the fields of a selectRows result.
type MetaData struct {
	Fields []measurestore.FieldMetadata `json:"fields"`
}

// GetDataResponse is a visualization getData result.
type GetDataResponse struct {
	SchemaName     string            `json:"schemaName,omitempty"`
	QueryName      string            `json:"queryName,omitempty"`
	Rows           []map[string]any  `json:"rows"`
	ColumnAliases  []string          `json:"columnAliases,omitempty"`
	ColumnAliasMap map[string]string `json:"columnAliasMap,omitempty"`
}

// GetDataMeasure is one entry of the measure list a getData request was issued with.
type GetDataMeasure struct {
	Measure MeasureRef `json:"measure"`
}

// MeasureRef identifies a column of a getData request.
type MeasureRef struct {
	Alias       string `json:"alias,omitempty"`
	SchemaName  string `json:"schemaName,omitempty"`
	QueryName   string `json:"queryName,omitempty"`
	Name        string `json:"name"`
	IsMeasure   bool   `json:"isMeasure,omitempty"`
	IsDimension bool   `json:"isDimension,omitempty"`
}

// CellSet is an OLAP query result with measures on axis 0 and row members on axis 1.
type CellSet struct {
	Axes  []CellSetAxis `json:"axes"`
	Cells [][]Cell      `json:"cells"`
}

// CellSetAxis holds the member tuples of one axis.
type CellSetAxis struct {
	Positions [][]Member `json:"positions"`
}

// Cell is a single value of a CellSet together with its member tuples per axis.
type Cell struct {
	Value     any        `json:"value"`
	Positions [][]Member `json:"positions"`
}

// Member is an OLAP member.
type Member struct {
	Name       string `json:"name"`
	UniqueName string `json:"uniqueName"`
	Level      Level  `json:"level"`
}

// Level identifies the hierarchy level of a member.
type Level struct {
	UniqueName string `json:"uniqueName"`
}
