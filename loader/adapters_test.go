package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/measurestore"
	"github.com/hupe1980/measurestore/aggregate"
)

func selectRowsFixture() *SelectRowsResponse {
	return &SelectRowsResponse{
		SchemaName: "study",
		QueryName:  "Physical",
		MetaData: MetaData{Fields: []measurestore.FieldMetadata{
			{Name: "ParticipantId", FieldKey: "ParticipantId", Dimension: true},
			{Name: "Weight", FieldKey: "Weight", Caption: "Weight (kg)", Measure: true},
		}},
		Rows: []map[string]any{
			{"ParticipantId": map[string]any{"value": "p1"}, "Weight": map[string]any{"value": 60.0}},
			{"ParticipantId": map[string]any{"value": "p1"}, "Weight": map[string]any{"value": 64.0}},
			{"ParticipantId": map[string]any{"value": "p2"}, "Weight": map[string]any{"value": 80.0}},
		},
		ColumnAliases: []string{"ParticipantId", "Weight"},
	}
}

func TestFromSelectRows(t *testing.T) {
	ms, err := FromSelectRows(selectRowsFixture(), nil)
	require.NoError(t, err)

	col, err := ms.Column("Weight")
	require.NoError(t, err)
	assert.True(t, col.IsMeasure())
	assert.Equal(t, aggregate.CollectValues, col.Variant)
	require.NotNil(t, col.Field)
	assert.Equal(t, "Weight (kg)", col.Field.Caption)

	md := ms.ResponseMetadata()
	require.NotNil(t, md)
	assert.Equal(t, "study", md.SchemaName)
	assert.Equal(t, "Physical", md.QueryName)
	assert.Equal(t, []string{"ParticipantId", "Weight"}, md.ColumnAliases)

	means, err := ms.SelectArray([]string{"ParticipantId"}, "Weight", aggregate.Mean)
	require.NoError(t, err)
	require.Len(t, means, 2)
	m0, _ := means[0].Float64()
	m1, _ := means[1].Float64()
	assert.InDelta(t, 62.0, m0, 1e-9)
	assert.InDelta(t, 80.0, m1, 1e-9)
}

func TestFromSelectRowsExplicitMeasures(t *testing.T) {
	ms, err := FromSelectRows(selectRowsFixture(), []string{})
	require.NoError(t, err)

	col, err := ms.Column("Weight")
	require.NoError(t, err)
	assert.False(t, col.IsMeasure())
}

func TestFromGetData(t *testing.T) {
	resp := &GetDataResponse{
		SchemaName: "study",
		QueryName:  "Physical",
		Rows: []map[string]any{
			{"study_Physical_Weight": map[string]any{"value": 60.0}, "Visit": map[string]any{"value": "V1"}},
			{"study_Physical_Weight": map[string]any{"value": 70.0}, "Visit": map[string]any{"value": "V2"}},
		},
		ColumnAliases:  []string{"ignored"},
		ColumnAliasMap: map[string]string{"Weight": "study_Physical_Weight"},
	}
	measures := []GetDataMeasure{
		{Measure: MeasureRef{SchemaName: "study", QueryName: "Physical", Name: "Weight", IsMeasure: true}},
		{Measure: MeasureRef{Alias: "Visit", Name: "Visit", IsDimension: true}},
	}

	ms, err := FromGetData(resp, measures)
	require.NoError(t, err)

	col, err := ms.Column("study_Physical_Weight")
	require.NoError(t, err)
	assert.True(t, col.IsMeasure())

	visit, err := ms.Column("Visit")
	require.NoError(t, err)
	assert.False(t, visit.IsMeasure())

	idx, err := ms.Members(RowIndexColumn)
	require.NoError(t, err)
	require.Len(t, idx, 2)
	i0, _ := idx[0].Value().AsInt64()
	i1, _ := idx[1].Value().AsInt64()
	assert.Equal(t, []int64{0, 1}, []int64{i0, i1})

	md := ms.ResponseMetadata()
	assert.Equal(t, map[string]string{"Weight": "study_Physical_Weight"}, md.ColumnAliasMap)
	assert.Nil(t, md.ColumnAliases)
}

func TestFromGetDataMissingSchema(t *testing.T) {
	resp := &GetDataResponse{Rows: []map[string]any{{"Weight": 1.0}}}
	_, err := FromGetData(resp, []GetDataMeasure{{Measure: MeasureRef{Name: "Weight", IsMeasure: true}}})
	require.ErrorIs(t, err, ErrMissingSchemaName)
}

func TestMeasureRefColumnName(t *testing.T) {
	name, err := MeasureRef{SchemaName: "s", QueryName: "q", Name: "n"}.ColumnName()
	require.NoError(t, err)
	assert.Equal(t, "s_q_n", name)

	name, err = MeasureRef{Alias: "a", Name: "n"}.ColumnName()
	require.NoError(t, err)
	assert.Equal(t, "a", name)
}

func cellSetFixture() *CellSet {
	count := Member{Name: "ParticipantCount", UniqueName: "[Measures].[ParticipantCount]"}
	rowCount := Member{Name: "RowCount", UniqueName: "[Measures].[RowCount]"}
	female := Member{Name: "female", UniqueName: "[Gender].[female]", Level: Level{UniqueName: "[Gender].[Gender]"}}
	male := Member{Name: "male", UniqueName: "[Gender].[male]", Level: Level{UniqueName: "[Gender].[Gender]"}}

	cell := func(v float64, m, row Member) Cell {
		return Cell{Value: v, Positions: [][]Member{{m}, {row}}}
	}
	return &CellSet{
		Axes: []CellSetAxis{
			{Positions: [][]Member{{count}, {rowCount}}},
			{Positions: [][]Member{{female}, {male}}},
		},
		Cells: [][]Cell{
			{cell(12, count, female), cell(30, rowCount, female)},
			{cell(8, count, male), cell(20, rowCount, male)},
		},
	}
}

func TestFromCellSet(t *testing.T) {
	ms, err := FromCellSet(cellSetFixture(), nil)
	require.NoError(t, err)

	col, err := ms.Column("ParticipantCount")
	require.NoError(t, err)
	require.NotNil(t, col.Measure)
	assert.Equal(t, "ParticipantCount", col.Measure.SumColumn)

	members, err := ms.Members("[Gender].[Gender]")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "female", members[0].Value().StringValue())
	assert.Equal(t, "male", members[1].Value().StringValue())

	sums, err := ms.SelectArray(nil, "ParticipantCount", aggregate.Sum)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	total, _ := sums[0].Float64()
	assert.InDelta(t, 20.0, total, 1e-9)
}

func TestFromCellSetConfiguredMeasure(t *testing.T) {
	ms, err := FromCellSet(cellSetFixture(), []measurestore.MeasureSpec{{Name: "RowCount", CountColumn: "RowCount"}})
	require.NoError(t, err)

	col, err := ms.Column("RowCount")
	require.NoError(t, err)
	assert.Equal(t, "RowCount", col.Measure.CountColumn)
	assert.Empty(t, col.Measure.SumColumn)
}

func TestFromCellSetUnsupported(t *testing.T) {
	t.Run("nested", func(t *testing.T) {
		cs := cellSetFixture()
		cs.Axes[0].Positions[0] = append(cs.Axes[0].Positions[0], cs.Axes[0].Positions[1][0])
		_, err := FromCellSet(cs, nil)
		require.ErrorIs(t, err, ErrUnsupportedCellSet)
	})

	t.Run("not a measure", func(t *testing.T) {
		cs := cellSetFixture()
		cs.Axes[0].Positions[0][0].UniqueName = "[Gender].[female]"
		_, err := FromCellSet(cs, nil)
		require.ErrorIs(t, err, ErrUnsupportedCellSet)
	})

	t.Run("measures level not at the root", func(t *testing.T) {
		cs := cellSetFixture()
		cs.Axes[0].Positions[0][0].UniqueName = "[Foo].[Measures].[ParticipantCount]"
		_, err := FromCellSet(cs, nil)
		require.ErrorIs(t, err, ErrUnsupportedCellSet)
	})

	t.Run("no axes", func(t *testing.T) {
		_, err := FromCellSet(&CellSet{}, nil)
		require.ErrorIs(t, err, ErrUnsupportedCellSet)
	})
}
