// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
// # Usage
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "imgsearch/")
//
//	engine, _ := imgsearch.New(imgsearch.WithBlobStore(store))
//
// Put goes through the transfer manager, so large databases use multipart
// uploads. S3 only exposes an object once the upload completes, which keeps
// Put atomic for concurrent readers.
package s3
