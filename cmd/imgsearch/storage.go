package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/imgsearch/blobstore"
	miniostore "github.com/hupe1980/imgsearch/blobstore/minio"
	s3store "github.com/hupe1980/imgsearch/blobstore/s3"
	"github.com/hupe1980/imgsearch/config"
)

func openBlobStore(ctx context.Context, st config.Storage) (blobstore.BlobStore, error) {
	switch st.Kind {
	case "", config.StorageLocal:
		root := st.Root
		if root == "" {
			root = "."
		}
		return blobstore.NewLocalStore(root), nil

	case config.StorageS3:
		var loadOpts []func(*awsconfig.LoadOptions) error
		if st.Region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(st.Region))
		}
		if st.AccessKey != "" {
			loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
				awscreds.NewStaticCredentialsProvider(st.AccessKey, st.SecretKey, "")))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if st.Endpoint != "" {
				o.BaseEndpoint = aws.String(st.Endpoint)
				o.UsePathStyle = true
			}
		})
		return s3store.NewStore(client, st.Bucket, st.Prefix), nil

	case config.StorageMinio:
		client, err := minio.New(st.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(st.AccessKey, st.SecretKey, ""),
			Secure: st.Secure,
			Region: st.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("create minio client: %w", err)
		}
		return miniostore.NewStore(client, st.Bucket, st.Prefix), nil

	default:
		return nil, fmt.Errorf("unknown storage kind %q", st.Kind)
	}
}
