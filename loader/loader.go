package loader

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/measurestore"
	"github.com/hupe1980/measurestore/blobstore"
	"github.com/hupe1980/measurestore/codec"
)

const defaultConcurrency = 8

// Loader reads response documents from a blob store and builds stores from them.
// A Loader is safe for concurrent use; the stores it returns are not.
type Loader struct {
	store       blobstore.BlobStore
	codec       codec.Codec
	limiter     *rate.Limiter
	concurrency int
	logger      *measurestore.Logger
	storeOpts   []measurestore.Option
}

// Option configures a Loader.
type Option func(*Loader)

// WithCodec sets the codec documents are decoded with.
func WithCodec(c codec.Codec) Option {
	return func(l *Loader) {
		l.codec = c
	}
}

// WithRateLimit limits blob reads to perSecond with the given burst.
// A non-positive perSecond disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(l *Loader) {
		if perSecond <= 0 {
			l.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		l.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithConcurrency sets how many documents FetchAll reads at once.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *measurestore.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithStoreOptions sets options passed to every store the loader builds.
func WithStoreOptions(optFns ...measurestore.Option) Option {
	return func(l *Loader) {
		l.storeOpts = append(l.storeOpts, optFns...)
	}
}

// New creates a Loader reading from store.
func New(store blobstore.BlobStore, optFns ...Option) *Loader {
	l := &Loader{
		store:       store,
		codec:       codec.Default,
		concurrency: defaultConcurrency,
		logger:      measurestore.NoopLogger(),
	}
	for _, fn := range optFns {
		fn(l)
	}
	return l
}

// Fetch reads the named document and decompresses it according to its extension.
func (l *Loader) Fetch(ctx context.Context, name string) ([]byte, error) {
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	raw, err := blobstore.ReadAll(ctx, l.store, name)
	if err != nil {
		l.logger.ErrorContext(ctx, "fetch failed", "name", name, "error", err)
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}

	comp := CompressionFor(name)
	data, err := Decompress(comp, raw)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}

	l.logger.DebugContext(ctx, "fetched document",
		"name", name,
		"compression", comp.String(),
		"bytes", len(data),
		"duration", time.Since(start),
	)
	return data, nil
}

// FetchAll reads the named documents concurrently. Results are in the order of names.
// The first failure cancels the remaining reads.
func (l *Loader) FetchAll(ctx context.Context, names ...string) ([][]byte, error) {
	out := make([][]byte, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for i, name := range names {
		g.Go(func() error {
			data, err := l.Fetch(gctx, name)
			if err != nil {
				return err
			}
			out[i] = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadSelectRows builds a store from a stored selectRows result.
// With nil measures, fields flagged as measures are used.
func (l *Loader) LoadSelectRows(ctx context.Context, name string, measures []string) (*measurestore.Store, error) {
	data, err := l.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	resp, err := DecodeSelectRows(l.codec, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return FromSelectRows(resp, measures, l.options()...)
}

// LoadGetData builds a store from a stored getData result.
func (l *Loader) LoadGetData(ctx context.Context, name string, measures []GetDataMeasure) (*measurestore.Store, error) {
	data, err := l.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	resp, err := DecodeGetData(l.codec, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return FromGetData(resp, measures, l.options()...)
}

// LoadCellSet builds a store from a stored cellset.
func (l *Loader) LoadCellSet(ctx context.Context, name string, measures []measurestore.MeasureSpec) (*measurestore.Store, error) {
	data, err := l.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	cs, err := DecodeCellSet(l.codec, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return FromCellSet(cs, measures, l.options()...)
}

// Load builds a store from a stored document of any known shape, using the measures
// the document itself declares. getData documents carry no measure list, so their
// stores have none.
func (l *Loader) Load(ctx context.Context, name string) (*measurestore.Store, error) {
	data, err := l.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	return l.build(name, data)
}

// LoadAll builds one store per named document. Documents are fetched concurrently.
func (l *Loader) LoadAll(ctx context.Context, names ...string) ([]*measurestore.Store, error) {
	docs, err := l.FetchAll(ctx, names...)
	if err != nil {
		return nil, err
	}
	stores := make([]*measurestore.Store, len(docs))
	for i, data := range docs {
		if stores[i], err = l.build(names[i], data); err != nil {
			return nil, err
		}
	}
	return stores, nil
}

// List returns the sorted names of stored documents starting with prefix.
func (l *Loader) List(ctx context.Context, prefix string) ([]string, error) {
	names, err := l.store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}
	return names, nil
}

// LoadPrefix builds one store per document whose name starts with prefix.
// Stores are returned in the order of the listed names.
func (l *Loader) LoadPrefix(ctx context.Context, prefix string) ([]string, []*measurestore.Store, error) {
	names, err := l.List(ctx, prefix)
	if err != nil {
		return nil, nil, err
	}
	stores, err := l.LoadAll(ctx, names...)
	if err != nil {
		return nil, nil, err
	}
	return names, stores, nil
}

// Save stores a plain response document under name, compressed according to
// the name's extension. Documents of an unknown shape are rejected.
func (l *Loader) Save(ctx context.Context, name string, data []byte) error {
	format, err := DetectFormat(l.codec, data)
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	if format == FormatUnknown {
		return fmt.Errorf("save %s: %w", name, ErrUnrecognizedFormat)
	}
	comp := CompressionFor(name)
	packed, err := Compress(comp, data)
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	if err := l.store.Put(ctx, name, packed); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}

	l.logger.DebugContext(ctx, "saved document",
		"name", name,
		"format", format.String(),
		"compression", comp.String(),
		"bytes", len(packed),
	)
	return nil
}

// Delete removes the named document. Removing a missing document is not an error.
func (l *Loader) Delete(ctx context.Context, name string) error {
	if err := l.store.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

func (l *Loader) build(name string, data []byte) (*measurestore.Store, error) {
	format, err := DetectFormat(l.codec, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	switch format {
	case FormatSelectRows:
		resp, err := DecodeSelectRows(l.codec, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return FromSelectRows(resp, nil, l.options()...)
	case FormatGetData:
		resp, err := DecodeGetData(l.codec, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return FromGetData(resp, nil, l.options()...)
	case FormatCellSet:
		cs, err := DecodeCellSet(l.codec, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return FromCellSet(cs, nil, l.options()...)
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnrecognizedFormat)
	}
}

func (l *Loader) options() []measurestore.Option {
	opts := []measurestore.Option{measurestore.WithLogger(l.logger)}
	return append(opts, l.storeOpts...)
}
