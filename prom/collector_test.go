package prom

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/measurestore"
)

func TestCollector(t *testing.T) {
	c := NewCollector("")
	reg := prometheus.NewRegistry()
	require.NoError(t, c.Register(reg))

	c.RecordBuild(10, time.Millisecond)
	c.RecordBuild(5, time.Millisecond)
	c.RecordFilter("Gender", time.Microsecond, nil)
	c.RecordFilter("Gender", time.Microsecond, errors.New("boom"))
	c.RecordSelect("select", 3, time.Microsecond, nil)
	c.RecordSelect("select", 0, time.Microsecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.builds))
	assert.Equal(t, 15.0, testutil.ToFloat64(c.records))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.filters.WithLabelValues("Gender", "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.selectedRows.WithLabelValues("select")))

	assert.Error(t, c.Register(reg), "duplicate registration")
}

func TestCollectorWithStore(t *testing.T) {
	c := NewCollector("test")
	reg := prometheus.NewRegistry()
	c.MustRegister(reg)

	ms, err := measurestore.NewFromMaps([]map[string]any{
		{"Gender": "f", "Weight": 60.0},
		{"Gender": "m", "Weight": 80.0},
	}, measurestore.WithMeasureNames("Weight"), measurestore.WithMetricsCollector(c))
	require.NoError(t, err)

	rows, err := ms.Select("Gender")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.builds))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.selectedRows.WithLabelValues("select")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "test_builds_total")
	assert.Contains(t, names, "test_operation_latency_seconds")
}
