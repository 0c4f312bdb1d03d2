package cache

import "context"

// Cache is a byte-oriented cache for immutable documents keyed by name.
// Returned slices must be treated as read-only.
type Cache interface {
	// Get returns a cached document. ok=false if missing.
	Get(ctx context.Context, key string) (b []byte, ok bool)
	// Set caches a document. Implementations may retain b; callers must treat it as immutable.
	Set(ctx context.Context, key string, b []byte)
	// Invalidate removes entries matching the predicate.
	Invalidate(predicate func(key string) bool)
	// Stats returns cache statistics.
	Stats() (hits, misses int64)
}
