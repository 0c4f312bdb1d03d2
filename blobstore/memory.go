package blobstore

import (
	"bytes"
	"context"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"
)

// MemoryStore keeps response documents in process memory. Stored and returned
// slices are copies, so callers may reuse their buffers.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (m *MemoryStore) lookup(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[name]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(doc), nil
}

// Open returns a handle over a snapshot of the named document.
func (m *MemoryStore) Open(ctx context.Context, name string) (Blob, error) {
	doc, err := m.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	return memoryBlob{r: bytes.NewReader(doc)}, nil
}

// Fetch returns a copy of the named document.
func (m *MemoryStore) Fetch(ctx context.Context, name string) ([]byte, error) {
	doc, err := m.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = []byte{}
	}
	return doc, nil
}

// Put stores a copy of data under name, replacing any previous document.
func (m *MemoryStore) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.docs[name] = bytes.Clone(data)
	m.mu.Unlock()
	return nil
}

// Delete removes name. Deleting a missing document is not an error.
func (m *MemoryStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.docs, name)
	m.mu.Unlock()
	return nil
}

// List returns the sorted names starting with prefix.
func (m *MemoryStore) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := slices.Sorted(maps.Keys(m.docs))
	return slices.DeleteFunc(names, func(n string) bool {
		return !strings.HasPrefix(n, prefix)
	}), nil
}

type memoryBlob struct {
	r *bytes.Reader
}

func (b memoryBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if off >= b.r.Size() {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	return io.NopCloser(io.NewSectionReader(b.r, off, length)), nil
}

func (b memoryBlob) Size() int64 { return b.r.Size() }

func (memoryBlob) Close() error { return nil }

var (
	_ BlobStore = (*MemoryStore)(nil)
	_ Fetcher   = (*MemoryStore)(nil)
)
