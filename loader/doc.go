// Package loader builds measure stores from query API responses.
//
// Three response shapes are understood: selectRows/executeSql results, visualization
// getData results and OLAP cellsets. Responses are decoded from bytes with a codec,
// and a Loader reads them (optionally compressed) from a blobstore.BlobStore:
//
//	l := loader.New(blobstore.NewLocalStore("./responses"))
//	ms, err := l.LoadSelectRows(ctx, "participants.json.zst", nil)
//
// Issuing the queries themselves is left to the caller.
package loader
