package measurestore_test

import (
	"testing"

	"github.com/hupe1980/measurestore"
	"github.com/hupe1980/measurestore/aggregate"
	"github.com/hupe1980/measurestore/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visitRows() []map[string]any {
	return []map[string]any{
		{"ParticipantId": "p1", "Gender": "f", "Visit": "Visit 1", "Weight": 60.0},
		{"ParticipantId": "p1", "Gender": "f", "Visit": "Visit 2", "Weight": 62.0},
		{"ParticipantId": "p2", "Gender": "m", "Visit": "Visit 1", "Weight": 80.0},
		{"ParticipantId": "p2", "Gender": "m", "Visit": "Visit 2", "Weight": 82.0},
		{"ParticipantId": "p3", "Gender": "f", "Visit": "Visit 1", "Weight": map[string]any{"value": 55.0, "displayValue": "55 kg"}},
		{"ParticipantId": "p3", "Gender": "f", "Visit": "Visit 10", "Weight": 57.0},
	}
}

func newVisitStore(t *testing.T, opts ...measurestore.Option) *measurestore.Store {
	t.Helper()
	opts = append([]measurestore.Option{measurestore.WithMeasureNames("Weight")}, opts...)
	ms, err := measurestore.NewFromMaps(visitRows(), opts...)
	require.NoError(t, err)
	return ms
}

func floats(t *testing.T, vs []value.Value) []float64 {
	t.Helper()
	out := make([]float64, len(vs))
	for i, v := range vs {
		f, ok := v.Float64()
		require.True(t, ok, "value %d (%s) is not numeric", i, v)
		out[i] = f
	}
	return out
}

func keyStrings(keys []measurestore.Key) [][]string {
	out := make([][]string, len(keys))
	for i, k := range keys {
		out[i] = make([]string, len(k))
		for j, v := range k {
			out[i][j] = v.StringValue()
		}
	}
	return out
}

func TestColumns(t *testing.T) {
	ms := newVisitStore(t)

	cols := ms.Columns()
	require.Len(t, cols, 5)
	assert.Equal(t, "*", cols[0].Name)
	assert.Equal(t, aggregate.CountStar, cols[0].Variant)

	names := make([]string, 0, len(cols))
	for i, c := range cols {
		assert.Equal(t, i, c.Index)
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"*", "Gender", "ParticipantId", "Visit", "Weight"}, names)

	weight, err := ms.Column("Weight")
	require.NoError(t, err)
	assert.Equal(t, aggregate.CollectValues, weight.Variant)
	assert.True(t, weight.IsMeasure())

	gender, err := ms.Column("Gender")
	require.NoError(t, err)
	assert.Equal(t, aggregate.UniqueValue, gender.Variant)

	_, err = ms.Column("Height")
	assert.ErrorIs(t, err, measurestore.ErrColumnNotFound)
}

func TestExplicitColumns(t *testing.T) {
	ms, err := measurestore.NewFromMaps(visitRows(),
		measurestore.WithColumns("Visit", "Weight"),
		measurestore.WithMeasures(measurestore.MeasureSpec{Name: "Weight"}, measurestore.MeasureSpec{Name: "Unknown"}),
	)
	require.NoError(t, err)

	cols := ms.Columns()
	require.Len(t, cols, 3)
	assert.Equal(t, "Visit", cols[1].Name)
	assert.Equal(t, "Weight", cols[2].Name)
	assert.Equal(t, aggregate.CollectValues, cols[2].Variant)
}

func TestCountPartition(t *testing.T) {
	ms := newVisitStore(t)

	for _, dim := range [][]string{{"Gender"}, {"Visit"}, {"ParticipantId"}, {"Gender", "Visit"}} {
		rows, err := ms.Select(dim...)
		require.NoError(t, err)

		total := 0
		for _, r := range rows {
			v, err := r.Value("*", aggregate.Count)
			require.NoError(t, err)
			n, _ := v.AsInt64()
			total += int(n)
		}
		assert.Equal(t, ms.Size(), total, "dimension %v", dim)
	}
}

func TestSelect(t *testing.T) {
	ms := newVisitStore(t)

	rows, err := ms.Select("Gender")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "f", rows[0].Key[0].StringValue())
	assert.Equal(t, 4, rows[0].Count())

	mean, err := rows[0].Value("Weight", aggregate.Mean)
	require.NoError(t, err)
	f, _ := mean.Float64()
	assert.InDelta(t, 58.5, f, 1e-9)

	gender, ok := rows[1].Get("Gender")
	require.True(t, ok)
	v, err := gender.Result(aggregate.Value)
	require.NoError(t, err)
	assert.Equal(t, "m", v.StringValue())

	// participants differ within a gender
	pid, _ := rows[1].Get("ParticipantId")
	v, err = pid.Result(aggregate.Value)
	require.NoError(t, err)
	assert.True(t, v.IsNull())

	m := rows[1].Map()
	assert.Equal(t, "m", m["__key"].StringValue())
	assert.Equal(t, int64(2), m["*"].I64)
}

func TestSelectArray(t *testing.T) {
	ms := newVisitStore(t)

	sums, err := ms.SelectArray([]string{"ParticipantId"}, "Weight", aggregate.Sum)
	require.NoError(t, err)
	assert.Equal(t, []float64{122, 162, 112}, floats(t, sums))

	counts, err := ms.SelectArray([]string{"Visit"}, "*", aggregate.Count)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, floats(t, counts))

	t.Run("unknown measure", func(t *testing.T) {
		_, err := ms.SelectArray([]string{"Gender"}, "Height", aggregate.Mean)
		require.ErrorIs(t, err, measurestore.ErrColumnNotFound)

		var cnf *measurestore.ColumnNotFoundError
		require.ErrorAs(t, err, &cnf)
		assert.Equal(t, "Height", cnf.Name)
		assert.EqualError(t, err, "column name not found: Height")
	})

	t.Run("unsupported aggregate", func(t *testing.T) {
		_, err := ms.SelectArray([]string{"Gender"}, "Visit", aggregate.Sum)
		assert.ErrorIs(t, err, aggregate.ErrUnsupported)
	})
}

func TestSelectXYArray(t *testing.T) {
	ms := newVisitStore(t)

	xs, ys, err := ms.SelectXYArray([]string{"ParticipantId"}, "Weight", aggregate.Min, "Weight", aggregate.Max)
	require.NoError(t, err)
	assert.Equal(t, []float64{60, 80, 55}, floats(t, xs))
	assert.Equal(t, []float64{62, 82, 57}, floats(t, ys))

	_, _, err = ms.SelectXYArray([]string{"ParticipantId"}, "Weight", aggregate.Min, "Height", aggregate.Max)
	assert.ErrorIs(t, err, measurestore.ErrColumnNotFound)
}

func TestDimension(t *testing.T) {
	ms := newVisitStore(t)

	d1, err := ms.Dimension("Gender", "Visit")
	require.NoError(t, err)
	d2, err := ms.Dimension("Gender", "Visit")
	require.NoError(t, err)
	assert.Same(t, d1, d2)
	assert.Equal(t, 5, d1.Cardinality())

	_, err = ms.Dimension("Gender", "Height")
	assert.ErrorIs(t, err, measurestore.ErrColumnNotFound)

	_, err = ms.Dimension()
	assert.ErrorIs(t, err, measurestore.ErrEmptyColumnName)

	star, err := ms.Dimension("*")
	require.NoError(t, err)
	assert.Equal(t, 6, star.Cardinality())
}

func TestPrebuiltDimensions(t *testing.T) {
	_, err := measurestore.NewFromMaps(visitRows(), measurestore.WithDimensions([]string{"Gender"}, []string{"Height"}))
	assert.ErrorIs(t, err, measurestore.ErrColumnNotFound)

	ms, err := measurestore.NewFromMaps(visitRows(), measurestore.WithDimensions([]string{"Gender"}))
	require.NoError(t, err)
	d, err := ms.Dimension("Gender")
	require.NoError(t, err)
	assert.Equal(t, 2, d.Cardinality())
}

func TestMembers(t *testing.T) {
	ms := newVisitStore(t)

	members, err := ms.Members("Visit")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Visit 1"}, {"Visit 10"}, {"Visit 2"}}, keyStrings(members))

	t.Run("composite", func(t *testing.T) {
		ms, err := measurestore.NewFromMaps([]map[string]any{
			{"A": "1", "B": "y"},
			{"A": "1", "B": "x"},
			{"A": "1", "B": "x"},
		})
		require.NoError(t, err)

		members, err := ms.Members("A", "B")
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"1", "x"}, {"1", "y"}}, keyStrings(members))
	})
}

func TestCrossFilter(t *testing.T) {
	ms := newVisitStore(t)

	require.NoError(t, ms.Filter([]string{"Gender"}, measurestore.Exact(measurestore.MustKey("f"))))

	counts, err := ms.SelectArray([]string{"Visit"}, "*", aggregate.Count)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 1, 1}, floats(t, counts))

	// own filter is not observed
	genders, err := ms.Members("Gender")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"f"}, {"m"}}, keyStrings(genders))

	rows, err := ms.Select("Gender")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// whole-set groups observe every filter
	all, err := ms.Group(nil, nil)
	require.NoError(t, err)
	defer all.Dispose()
	entries := all.All()
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Key)
	assert.Equal(t, 4, entries[0].Rows)

	require.NoError(t, ms.FilterAll("Gender"))
	counts, err = ms.SelectArray([]string{"Visit"}, "*", aggregate.Count)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, floats(t, counts))
}

func TestFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter measurestore.Filter
		want   []float64
	}{
		{
			name:   "range",
			filter: measurestore.Range(measurestore.MustKey(60), measurestore.MustKey(80)),
			want:   []float64{60, 62},
		},
		{
			name:   "in",
			filter: measurestore.In(measurestore.MustKey("p1"), measurestore.MustKey("p3")),
			want:   []float64{55, 57, 60, 62},
		},
		{
			name: "predicate",
			filter: measurestore.Predicate(func(k measurestore.Key) bool {
				return k[0].StringValue() == "Visit 10"
			}),
			want: []float64{57},
		},
	}

	dims := map[string][]string{
		"range":     {"Weight"},
		"in":        {"ParticipantId"},
		"predicate": {"Visit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := newVisitStore(t)
			require.NoError(t, ms.Filter(dims[tt.name], tt.filter))

			values, err := ms.SelectArray(nil, "Weight", aggregate.Values)
			require.NoError(t, err)
			require.Len(t, values, 1)

			arr, ok := values[0].AsArray()
			require.True(t, ok)
			assert.Equal(t, tt.want, floats(t, arr))
		})
	}
}

func TestGroupMaintenance(t *testing.T) {
	ms := newVisitStore(t)

	g, err := ms.Group([]string{"Visit"}, nil)
	require.NoError(t, err)

	require.NoError(t, ms.Filter([]string{"Gender"}, measurestore.Exact(measurestore.MustKey("m"))))
	assert.Equal(t, 2, g.Size())

	e, ok := g.Get(measurestore.MustKey("Visit 1"))
	require.True(t, ok)
	assert.Equal(t, 1, e.Rows)
	mean, err := e.Accumulators[4].Result(aggregate.Mean)
	require.NoError(t, err)
	f, _ := mean.Float64()
	assert.InDelta(t, 80, f, 1e-9)

	_, ok = g.Get(measurestore.MustKey("Visit 10"))
	assert.False(t, ok)

	require.NoError(t, ms.FilterAll("Gender"))
	e, ok = g.Get(measurestore.MustKey("Visit 10"))
	require.True(t, ok)
	assert.Equal(t, 1, e.Rows)
	assert.Equal(t, 3, g.Size())

	g.Dispose()
	g.Dispose()
	assert.True(t, g.Disposed())

	// disposed groups are no longer maintained
	require.NoError(t, ms.Filter([]string{"Gender"}, measurestore.Exact(measurestore.MustKey("m"))))
	assert.Equal(t, 3, g.Size())
}

func TestRegroupIsIdempotent(t *testing.T) {
	ms := newVisitStore(t)
	require.NoError(t, ms.Filter([]string{"Visit"}, measurestore.Exact(measurestore.MustKey("Visit 1"))))

	first, err := ms.SelectArray([]string{"Gender"}, "Weight", aggregate.Mean)
	require.NoError(t, err)
	second, err := ms.SelectArray([]string{"Gender"}, "Weight", aggregate.Mean)
	require.NoError(t, err)
	assert.Equal(t, floats(t, first), floats(t, second))
	assert.InDeltaSlice(t, []float64{57.5, 80}, floats(t, first), 1e-9)
}

func TestKeyFunc(t *testing.T) {
	ms := newVisitStore(t)

	bin := func(k measurestore.Key) measurestore.Key {
		f, _ := k[0].Float64()
		return measurestore.Key{value.Int(int64(f) / 10 * 10)}
	}
	g, err := ms.Group([]string{"Weight"}, bin)
	require.NoError(t, err)
	defer g.Dispose()

	entries := g.All()
	require.Len(t, entries, 3)
	for i, want := range []int64{50, 60, 80} {
		assert.Equal(t, want, entries[i].Key[0].I64)
		assert.Equal(t, 2, entries[i].Rows)
	}
}

func TestSelectSeries(t *testing.T) {
	ms := newVisitStore(t)

	series, err := ms.SelectSeriesArray([]string{"ParticipantId"}, []string{"Visit"}, "Weight", aggregate.Sum)
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"p1"}, {"p2"}, {"p3"}}, keyStrings(series.RowKeys))
	assert.Equal(t, [][]string{{"Visit 1"}, {"Visit 2"}, {"Visit 10"}}, keyStrings(series.ColumnKeys))

	require.Len(t, series.Values, 3)
	assert.Equal(t, []float64{60, 62}, floats(t, series.Values[0][:2]))
	assert.True(t, series.Values[0][2].IsNull())
	assert.Equal(t, []float64{80, 82}, floats(t, series.Values[1][:2]))
	assert.True(t, series.Values[1][2].IsNull())
	assert.Equal(t, []float64{55}, floats(t, series.Values[2][:1]))
	assert.True(t, series.Values[2][1].IsNull())
	assert.Equal(t, []float64{57}, floats(t, series.Values[2][2:]))

	grid, err := ms.SelectSeries([]string{"ParticipantId"}, []string{"Visit"})
	require.NoError(t, err)
	assert.Nil(t, grid.Cells[2][1])
	require.NotNil(t, grid.Cells[2][2])
	assert.Equal(t, 1, grid.Cells[2][2].Count())

	_, err = ms.SelectSeries(nil, []string{"Visit"})
	assert.ErrorIs(t, err, measurestore.ErrSeriesDimensions)

	_, err = ms.SelectSeriesArray([]string{"ParticipantId"}, []string{"Visit"}, "Height", aggregate.Sum)
	assert.ErrorIs(t, err, measurestore.ErrColumnNotFound)
}

func TestAdd(t *testing.T) {
	ms := newVisitStore(t)

	g, err := ms.Group([]string{"Gender"}, nil)
	require.NoError(t, err)
	defer g.Dispose()

	require.NoError(t, ms.Filter([]string{"Gender"}, measurestore.Exact(measurestore.MustKey("f"))))
	require.NoError(t, ms.Add(value.Record{
		"ParticipantId": value.String("p4"),
		"Gender":        value.String("m"),
		"Visit":         value.String("Visit 1"),
		"Weight":        value.Float(90),
	}))
	assert.Equal(t, 7, ms.Size())

	e, ok := g.Get(measurestore.MustKey("m"))
	require.True(t, ok)
	assert.Equal(t, 3, e.Rows)

	counts, err := ms.SelectArray([]string{"Visit"}, "*", aggregate.Count)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 1, 1}, floats(t, counts))
}

func TestRemoveFiltered(t *testing.T) {
	metrics := &measurestore.BasicMetricsCollector{}
	ms := newVisitStore(t, measurestore.WithMetricsCollector(metrics))

	g, err := ms.Group([]string{"Visit"}, nil)
	require.NoError(t, err)
	defer g.Dispose()

	require.NoError(t, ms.Filter([]string{"Gender"}, measurestore.Exact(measurestore.MustKey("m"))))
	n, err := ms.RemoveFiltered()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 4, ms.Size())
	assert.Len(t, ms.Records(), 4)
	assert.Equal(t, 0, g.Size())

	genders, err := ms.Members("Gender")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"f"}}, keyStrings(genders))

	require.NoError(t, ms.FilterAll("Gender"))
	e, ok := g.Get(measurestore.MustKey("Visit 1"))
	require.True(t, ok)
	assert.Equal(t, 2, e.Rows)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.BuildCount)
	assert.Equal(t, int64(6), stats.BuildRecords)
	assert.Equal(t, int64(2), stats.FilterCount)
}

func TestPreAggregatedMeasure(t *testing.T) {
	ms, err := measurestore.NewFromMaps([]map[string]any{
		{"Site": "a", "Weight": nil, "Weight_count": 2, "Weight_sum": 10.0, "Weight_max": 7.0},
		{"Site": "a", "Weight": nil, "Weight_count": 3, "Weight_sum": 20.0, "Weight_max": 9.0},
		{"Site": "b", "Weight": nil, "Weight_count": 1, "Weight_sum": 4.0, "Weight_max": 4.0},
	}, measurestore.WithMeasures(measurestore.MeasureSpec{
		Name:        "Weight",
		CountColumn: "Weight_count",
		SumColumn:   "Weight_sum",
		MaxColumn:   "Weight_max",
	}))
	require.NoError(t, err)

	col, err := ms.Column("Weight")
	require.NoError(t, err)
	assert.Equal(t, aggregate.CollectPreAggregated, col.Variant)

	means, err := ms.SelectArray([]string{"Site"}, "Weight", aggregate.Mean)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{6, 4}, floats(t, means), 1e-9)

	maxes, err := ms.SelectArray([]string{"Site"}, "Weight", aggregate.Max)
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 4}, floats(t, maxes))

	_, err = ms.SelectArray([]string{"Site"}, "Weight", aggregate.Min)
	assert.ErrorIs(t, err, aggregate.ErrUnsupported)
}

func TestEmptyStore(t *testing.T) {
	ms, err := measurestore.New(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, ms.Size())

	rows, err := ms.Select("Anything")
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, ms.Add(value.Record{"Gender": value.String("f")}))
	members, err := ms.Members("Gender")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"f"}}, keyStrings(members))
}
