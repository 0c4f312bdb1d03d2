package measurestore

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus
// (see the prom package).
type MetricsCollector interface {
	// RecordBuild is called after a store was constructed from records.
	RecordBuild(records int, duration time.Duration)

	// RecordGroup is called after a group was built. groups is the number of keys.
	RecordGroup(dimension string, groups int, duration time.Duration)

	// RecordFilter is called after a filter was applied or cleared.
	RecordFilter(dimension string, duration time.Duration, err error)

	// RecordSelect is called after each select operation (select, selectArray, ...).
	RecordSelect(op string, rows int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, time.Duration)                 {}
func (NoopMetricsCollector) RecordGroup(string, int, time.Duration)         {}
func (NoopMetricsCollector) RecordFilter(string, time.Duration, error)      {}
func (NoopMetricsCollector) RecordSelect(string, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount        atomic.Int64
	BuildRecords      atomic.Int64
	GroupCount        atomic.Int64
	GroupKeys         atomic.Int64
	GroupTotalNanos   atomic.Int64
	FilterCount       atomic.Int64
	FilterErrors      atomic.Int64
	SelectCount       atomic.Int64
	SelectRows        atomic.Int64
	SelectErrors      atomic.Int64
	SelectTotalNanos  atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(records int, _ time.Duration) {
	b.BuildCount.Add(1)
	b.BuildRecords.Add(int64(records))
}

// RecordGroup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGroup(_ string, groups int, duration time.Duration) {
	b.GroupCount.Add(1)
	b.GroupKeys.Add(int64(groups))
	b.GroupTotalNanos.Add(duration.Nanoseconds())
}

// RecordFilter implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFilter(_ string, _ time.Duration, err error) {
	b.FilterCount.Add(1)
	if err != nil {
		b.FilterErrors.Add(1)
	}
}

// RecordSelect implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSelect(_ string, rows int, duration time.Duration, err error) {
	b.SelectCount.Add(1)
	b.SelectRows.Add(int64(rows))
	b.SelectTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SelectErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:     b.BuildCount.Load(),
		BuildRecords:   b.BuildRecords.Load(),
		GroupCount:     b.GroupCount.Load(),
		GroupKeys:      b.GroupKeys.Load(),
		GroupAvgNanos:  avg(b.GroupTotalNanos.Load(), b.GroupCount.Load()),
		FilterCount:    b.FilterCount.Load(),
		FilterErrors:   b.FilterErrors.Load(),
		SelectCount:    b.SelectCount.Load(),
		SelectRows:     b.SelectRows.Load(),
		SelectErrors:   b.SelectErrors.Load(),
		SelectAvgNanos: avg(b.SelectTotalNanos.Load(), b.SelectCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount     int64
	BuildRecords   int64
	GroupCount     int64
	GroupKeys      int64
	GroupAvgNanos  int64
	FilterCount    int64
	FilterErrors   int64
	SelectCount    int64
	SelectRows     int64
	SelectErrors   int64
	SelectAvgNanos int64
}
