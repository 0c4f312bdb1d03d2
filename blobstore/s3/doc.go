// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("responses/"),
//	    s3.WithRegion("us-east-1"),
//	)
//	data, err := blobstore.ReadAll(ctx, store, "participants.json.zst")
//
// # Features
//
//   - Parallel ranged downloads for whole documents (feature/s3/manager)
//   - Multipart uploads for large documents
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
