// Package prom exports measure store metrics to Prometheus.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/measurestore"
)

var _ measurestore.MetricsCollector = (*Collector)(nil)

// Collector implements measurestore.MetricsCollector on top of client_golang.
type Collector struct {
	opLatency    *prometheus.HistogramVec
	builds       prometheus.Counter
	records      prometheus.Counter
	groupKeys    *prometheus.HistogramVec
	filters      *prometheus.CounterVec
	selectedRows *prometheus.CounterVec
}

// NewCollector creates a collector whose metric names start with namespace
// ("measurestore" when empty).
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "measurestore"
	}
	return &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of store operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
		builds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Total stores built",
		}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Total records loaded into stores",
		}),
		groupKeys: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "group_keys",
			Help:      "Number of keys per group",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"dimension"}),
		filters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filters_total",
			Help:      "Total filters applied or cleared",
		}, []string{"dimension", "status"}),
		selectedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selected_rows_total",
			Help:      "Total rows returned by select operations",
		}, []string{"op"}),
	}
}

// Register registers all metrics with r.
func (c *Collector) Register(r prometheus.Registerer) error {
	for _, m := range []prometheus.Collector{c.opLatency, c.builds, c.records, c.groupKeys, c.filters, c.selectedRows} {
		if err := r.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister is Register that panics on error.
func (c *Collector) MustRegister(r prometheus.Registerer) {
	if err := c.Register(r); err != nil {
		panic(err)
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordBuild implements measurestore.MetricsCollector.
func (c *Collector) RecordBuild(records int, d time.Duration) {
	c.builds.Inc()
	c.records.Add(float64(records))
	c.opLatency.WithLabelValues("build", "success").Observe(d.Seconds())
}

// RecordGroup implements measurestore.MetricsCollector.
func (c *Collector) RecordGroup(dimension string, groups int, d time.Duration) {
	c.groupKeys.WithLabelValues(dimension).Observe(float64(groups))
	c.opLatency.WithLabelValues("group", "success").Observe(d.Seconds())
}

// RecordFilter implements measurestore.MetricsCollector.
func (c *Collector) RecordFilter(dimension string, d time.Duration, err error) {
	c.filters.WithLabelValues(dimension, status(err)).Inc()
	c.opLatency.WithLabelValues("filter", status(err)).Observe(d.Seconds())
}

// RecordSelect implements measurestore.MetricsCollector.
func (c *Collector) RecordSelect(op string, rows int, d time.Duration, err error) {
	if err == nil {
		c.selectedRows.WithLabelValues(op).Add(float64(rows))
	}
	c.opLatency.WithLabelValues(op, status(err)).Observe(d.Seconds())
}
