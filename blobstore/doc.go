// Package blobstore provides the storage abstraction for persisted feature databases.
//
// BlobStore reads and writes whole named blobs. Put must be atomic: a
// concurrent reader sees either the previous blob or the new one, never a
// partial write. Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem (temp file + rename, mmap reads)
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3
//   - minio.Store: MinIO and other S3-compatible services
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
