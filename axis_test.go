package measurestore_test

import (
	"testing"

	"github.com/hupe1980/measurestore"
	"github.com/hupe1980/measurestore/aggregate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAxisStoreSelect(t *testing.T) {
	weights := newVisitStore(t)
	heights, err := measurestore.NewFromMaps([]map[string]any{
		{"ParticipantId": "p1", "Height": 170.0},
		{"ParticipantId": "p2", "Height": 182.0},
		{"ParticipantId": "p4", "Height": 165.0},
	}, measurestore.WithMeasureNames("Height"))
	require.NoError(t, err)

	as := measurestore.NewAxisStore()
	as.SetXMeasure(weights, "Weight", measurestore.AxisFilter{
		Columns: []string{"Visit"},
		Filter:  measurestore.Exact(measurestore.MustKey("Visit 1")),
	})
	as.SetYMeasure(heights, "Height")

	rows, err := as.Select([]string{"ParticipantId"}, false)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "p1", rows[0].Dims["ParticipantId"].StringValue())
	assert.Equal(t, "p2", rows[1].Dims["ParticipantId"].StringValue())
	assert.Nil(t, rows[0].Rows)

	x, err := rows[0].Value("x", aggregate.Mean)
	require.NoError(t, err)
	f, _ := x.Float64()
	assert.InDelta(t, 60, f, 1e-9)

	y, err := rows[1].Value("y", aggregate.Max)
	require.NoError(t, err)
	f, _ = y.Float64()
	assert.InDelta(t, 182, f, 1e-9)

	_, err = rows[0].Value("z", aggregate.Mean)
	assert.ErrorIs(t, err, measurestore.ErrUnknownAxis)
}

func TestAxisStoreIncludeRecords(t *testing.T) {
	weights := newVisitStore(t)

	as := measurestore.NewAxisStore()
	as.SetMeasure(0, "weight", weights, "Weight")

	rows, err := as.Select([]string{"Gender", "Visit"}, true)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	first := rows[0]
	assert.Equal(t, "f", first.Dims["Gender"].StringValue())
	assert.Equal(t, "Visit 1", first.Dims["Visit"].StringValue())
	require.Contains(t, first.Rows, "weight")
	assert.Equal(t, 2, first.Rows["weight"].Count())
}

func TestAxisStoreErrors(t *testing.T) {
	as := measurestore.NewAxisStore()
	_, err := as.Select([]string{"ParticipantId"}, false)
	assert.ErrorIs(t, err, measurestore.ErrNoAxes)

	as.SetXMeasure(newVisitStore(t), "Height")
	_, err = as.Select([]string{"ParticipantId"}, false)
	assert.ErrorIs(t, err, measurestore.ErrColumnNotFound)
}

func TestAxisStoreNilStoreClearsAxis(t *testing.T) {
	as := measurestore.NewAxisStore()
	as.SetYMeasure(nil, "Weight")
	_, err := as.Select([]string{"ParticipantId"}, false)
	assert.ErrorIs(t, err, measurestore.ErrNoAxes)

	as.SetXMeasure(newVisitStore(t), "Weight")
	as.SetYMeasure(newVisitStore(t), "Weight")
	as.SetYMeasure(nil, "Weight")

	rows, err := as.Select([]string{"ParticipantId"}, false)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	_, err = rows[0].Value("y", aggregate.Mean)
	assert.ErrorIs(t, err, measurestore.ErrUnknownAxis)
}
