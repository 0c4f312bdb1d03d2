package blobstore

import (
	"bytes"
	"context"

	"github.com/hupe1980/measurestore/internal/cache"
)

// CachingStore wraps a BlobStore and caches whole documents read through Fetch.
type CachingStore struct {
	inner BlobStore
	cache cache.Cache
}

// NewCachingStore creates a CachingStore holding at most capacity bytes of documents.
func NewCachingStore(inner BlobStore, capacity int64) *CachingStore {
	return &CachingStore{
		inner: inner,
		cache: cache.NewLRU(capacity),
	}
}

// Open opens a blob for reading. Cached documents are served from memory.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	if data, ok := s.cache.Get(ctx, name); ok {
		return memoryBlob{r: bytes.NewReader(data)}, nil
	}
	return s.inner.Open(ctx, name)
}

// Fetch returns the whole document, reading through to the inner store on a miss.
func (s *CachingStore) Fetch(ctx context.Context, name string) ([]byte, error) {
	if data, ok := s.cache.Get(ctx, name); ok {
		return bytes.Clone(data), nil
	}
	data, err := ReadAll(ctx, s.inner, name)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, name, bytes.Clone(data))
	return data, nil
}

// Put invalidates the cached document and writes through.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

// Delete invalidates the cached document and deletes it from the inner store.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

// List passes through to the inner store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns cache hits and misses.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.cache.Stats()
}

func (s *CachingStore) invalidate(name string) {
	s.cache.Invalidate(func(key string) bool { return key == name })
}

var (
	_ BlobStore = (*CachingStore)(nil)
	_ Fetcher   = (*CachingStore)(nil)
)
