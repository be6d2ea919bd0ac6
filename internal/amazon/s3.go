package amazon

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/Lllllllleong/csvmetadataflow/internal/store"
)

// S3API is the subset of the S3 client used by ObjectStore.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// ObjectStore reads objects from S3.
type ObjectStore struct {
	client S3API
}

// NewObjectStore wraps an S3 client.
func NewObjectStore(client S3API) *ObjectStore {
	return &ObjectStore{client: client}
}

// Get downloads the whole object. The size is the ContentLength S3 reported,
// or 0 when it is absent.
func (s *ObjectStore) Get(ctx context.Context, bucket, key string) (*store.Object, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, classifyS3Error(err))
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w: %w", bucket, key, store.ErrTransient, err)
	}
	return &store.Object{Body: body, Size: aws.ToInt64(out.ContentLength)}, nil
}

func classifyS3Error(err error) error {
	var noSuchKey *types.NoSuchKey
	var noSuchBucket *types.NoSuchBucket
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &noSuchBucket) || errors.As(err, &notFound) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return fmt.Errorf("%w: %w", store.ErrNotFound, err)
		case "AccessDenied", "Forbidden", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken":
			return fmt.Errorf("%w: %w", store.ErrAccessDenied, err)
		case "SlowDown", "ServiceUnavailable", "InternalError", "RequestTimeout", "Throttling":
			return fmt.Errorf("%w: %w", store.ErrTransient, err)
		}
	}
	return err
}
