package main

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hupe1980/measurestore"
	"github.com/hupe1980/measurestore/codec"
	"github.com/hupe1980/measurestore/loader"
	"github.com/hupe1980/measurestore/prom"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "measurestore",
		Short:         "Aggregate stored query responses",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addPersistentFlags(root.PersistentFlags())

	root.AddCommand(
		newSelectCmd(),
		newMembersCmd(),
		newArrayCmd(),
		newSeriesCmd(),
		newListCmd(),
		newPutCmd(),
		newRemoveCmd(),
	)
	return root
}

// session is one loaded document plus everything needed to report on it.
// Commands that only manage stored documents leave store nil.
type session struct {
	cfg      *config
	store    *measurestore.Store
	codec    codec.Codec
	logger   *measurestore.Logger
	registry *prometheus.Registry
	out      io.Writer
}

// connect loads the configuration and opens a loader over the configured backend.
func connect(cmd *cobra.Command) (context.Context, *session, *loader.Loader, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := cfg.logger()
	if err != nil {
		return nil, nil, nil, err
	}
	cd, err := cfg.codec()
	if err != nil {
		return nil, nil, nil, err
	}
	bs, err := cfg.blobStore(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	s := &session{cfg: cfg, codec: cd, logger: logger, out: cmd.OutOrStdout()}

	storeOpts := []measurestore.Option{}
	if cfg.MetricsFile != "" {
		s.registry = prometheus.NewRegistry()
		collector := prom.NewCollector("")
		if err := collector.Register(s.registry); err != nil {
			return nil, nil, nil, err
		}
		storeOpts = append(storeOpts, measurestore.WithMetricsCollector(collector))
	}

	l := loader.New(bs,
		loader.WithCodec(cd),
		loader.WithLogger(logger),
		loader.WithRateLimit(cfg.RateLimit, 1),
		loader.WithStoreOptions(storeOpts...),
	)
	return ctx, s, l, nil
}

// open loads the named document with filters applied.
func open(cmd *cobra.Command, name string) (*session, error) {
	ctx, s, l, err := connect(cmd)
	if err != nil {
		return nil, err
	}
	filters, err := parseFilters(s.cfg.Filters)
	if err != nil {
		return nil, err
	}
	if s.store, err = load(ctx, l, name, s.cfg.Measures); err != nil {
		return nil, err
	}
	if err := applyFilters(s.store, filters); err != nil {
		return nil, err
	}
	return s, nil
}

// load builds a store from name. Explicit measures are mapped onto the
// response shape; otherwise the document's own measures are used.
func load(ctx context.Context, l *loader.Loader, name string, measures []string) (*measurestore.Store, error) {
	if len(measures) == 0 {
		return l.Load(ctx, name)
	}

	data, err := l.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	format, err := loader.DetectFormat(nil, data)
	if err != nil {
		return nil, err
	}
	switch format {
	case loader.FormatSelectRows:
		return l.LoadSelectRows(ctx, name, measures)
	case loader.FormatGetData:
		refs := make([]loader.GetDataMeasure, len(measures))
		for i, m := range measures {
			refs[i] = loader.GetDataMeasure{Measure: loader.MeasureRef{Alias: m, Name: m, IsMeasure: true}}
		}
		return l.LoadGetData(ctx, name, refs)
	case loader.FormatCellSet:
		specs := make([]measurestore.MeasureSpec, len(measures))
		for i, m := range measures {
			specs[i] = measurestore.MeasureSpec{Name: m, SumColumn: m}
		}
		return l.LoadCellSet(ctx, name, specs)
	default:
		return nil, fmt.Errorf("%s: unrecognized response format", name)
	}
}

// print writes v as indented JSON and flushes metrics if requested.
func (s *session) print(v any) error {
	var (
		data []byte
		err  error
	)
	if ind, ok := s.codec.(codec.Indenter); ok {
		data, err = ind.MarshalIndent(v, "", "  ")
	} else {
		data, err = s.codec.Marshal(v)
	}
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(s.out, string(data)); err != nil {
		return err
	}

	if s.registry != nil {
		if err := prometheus.WriteToTextfile(s.cfg.MetricsFile, s.registry); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
