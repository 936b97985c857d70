package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Holocron-Auth/holocron-core/domain"
)

const (
	// uploadExpiry bounds how long a presigned target stays redeemable.
	uploadExpiry = 60 * time.Second
	// uploadMaxBytes caps a single profile asset at 1 MiB.
	uploadMaxBytes = 1 << 20
)

// S3BlobStore implements domain.BlobStore over S3 presigned POSTs
type S3BlobStore struct {
	presigner *s3.PresignClient
	bucket    string
}

// NewS3BlobStore creates a new S3-backed blob store
func NewS3BlobStore(region, bucket, accessKeyID, secretAccessKey string) domain.BlobStore {
	cfg := aws.Config{
		Region:      region,
		Credentials: credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
	}
	client := s3.NewFromConfig(cfg)

	return &S3BlobStore{
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
	}
}

// Presign implements domain.BlobStore. Keys are namespaced by owner so
// uploads never collide across accounts.
func (s *S3BlobStore) Presign(ctx context.Context, ownerID uint) (string, map[string]string, error) {
	key := fmt.Sprintf("%d/%d", ownerID, time.Now().UnixMilli())

	post, err := s.presigner.PresignPostObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignPostOptions) {
		opts.Expires = uploadExpiry
		opts.Conditions = []interface{}{
			[]interface{}{"content-length-range", 0, uploadMaxBytes},
		}
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to presign upload for owner %d: %w", ownerID, err)
	}

	return post.URL, post.Values, nil
}
