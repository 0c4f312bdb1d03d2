package measurestore

import (
	"log/slog"
)

type options struct {
	columns          []string
	measures         []MeasureSpec
	dimensions       [][]string
	responseMetadata *ResponseMetadata
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures store construction.
type Option func(*options)

// WithColumns sets the column list explicitly. Without it, columns are taken
// from the first record, in sorted order.
func WithColumns(columns ...string) Option {
	return func(o *options) {
		o.columns = append(o.columns, columns...)
	}
}

// WithMeasures declares the measure columns. A measure with a count or sum column is
// combined from server-side partial aggregates; any other measure collects its raw values.
// Specs naming unknown columns are ignored.
func WithMeasures(measures ...MeasureSpec) Option {
	return func(o *options) {
		o.measures = append(o.measures, measures...)
	}
}

// WithMeasureNames declares raw-value measures by name.
func WithMeasureNames(names ...string) Option {
	return func(o *options) {
		for _, n := range names {
			o.measures = append(o.measures, MeasureSpec{Name: n})
		}
	}
}

// WithDimensions pre-builds the given dimensions. Each entry is the column tuple of
// one dimension.
func WithDimensions(dimensions ...[]string) Option {
	return func(o *options) {
		o.dimensions = append(o.dimensions, dimensions...)
	}
}

// WithResponseMetadata attaches the metadata of the query response the records came from.
func WithResponseMetadata(md ResponseMetadata) Option {
	return func(o *options) {
		o.responseMetadata = &md
	}
}

// WithMetricsCollector enables metrics collection.
//
// Example:
//
//	metrics := &measurestore.BasicMetricsCollector{}
//	ms, _ := measurestore.New(records, measurestore.WithMetricsCollector(metrics))
//	// ... use ms ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := measurestore.NewJSONLogger(slog.LevelDebug)
//	ms, _ := measurestore.New(records, measurestore.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	return o
}
