// Package imgsearch provides an embeddable content-based image retrieval engine.
//
// An Engine indexes a collection of images by colour distribution and ranks
// the collection against a query image by cosine similarity.
//
// # Quick Start
//
//	ctx := context.Background()
//	eng, _ := imgsearch.New(imgsearch.WithBlobStore(blobstore.NewLocalStore("./data")))
//	defer eng.Close()
//
//	report, _ := eng.BuildDatabaseFromDir(ctx, "./photos")
//	fmt.Println(report.Succeeded(), "images indexed")
//
//	results, _ := eng.SearchFile(ctx, "query.jpg", imgsearch.WithTopK(10))
//	for _, r := range results {
//	    fmt.Println(r.ID, r.Score)
//	}
//
// # Descriptors
//
// Each image is reduced to a normalized 4x4x4 RGB histogram (64 floats that
// sum to one). An image without pixels maps to the all-zero descriptor, which
// scores 0 against everything.
//
// # Persistence
//
// BuildDatabase saves the feature database as soon as indexing finishes. The
// database is an indented JSON object from image identifier to descriptor,
// "features.json" by default, written to the configured BlobStore in a single
// atomic put. Names ending in ".zst" or ".lz4" are compressed. Load restores a
// database and fails without touching the current state if it is malformed.
//
// Remote storage is available through blobstore/s3 and blobstore/minio.
//
// # Caching
//
// Search results are cached by image content: two decoded images with identical
// pixels share a cache entry. Entries expire after they have gone unread for
// the expiry window (10 minutes by default, see WithExpiryWindow). Concurrent
// searches for the same image are computed once. Building or loading a
// database discards all cached results.
package imgsearch
