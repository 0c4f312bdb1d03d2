// Package blobstore provides storage abstraction for stored query response documents.
//
// BlobStore is the interface for reading and writing documents.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem
//   - MemoryStore: In-memory, for tests
//   - CachingStore: LRU document cache in front of any other store
//   - s3.Store: Amazon S3 with parallel ranged downloads
//   - minio.Store: MinIO and other S3-compatible storage
//
// Use ReadAll to fetch a complete document from any store:
//
//	data, err := blobstore.ReadAll(ctx, store, "participants.json.zst")
package blobstore
