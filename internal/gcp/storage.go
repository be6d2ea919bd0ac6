package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Lllllllleong/csvmetadataflow/internal/store"
)

// openFunc opens an object for reading and returns the size recorded for it.
type openFunc func(ctx context.Context, bucket, object string) (io.ReadCloser, int64, error)

// ObjectStore reads objects from Cloud Storage.
type ObjectStore struct {
	open openFunc
}

// NewObjectStore wraps an existing Cloud Storage client.
func NewObjectStore(client *storage.Client) *ObjectStore {
	return &ObjectStore{open: func(ctx context.Context, bucket, object string) (io.ReadCloser, int64, error) {
		reader, err := client.Bucket(bucket).Object(object).NewReader(ctx)
		if err != nil {
			return nil, 0, err
		}
		return reader, reader.Attrs.Size, nil
	}}
}

// Get downloads the whole object and reports the size Cloud Storage recorded
// for it.
func (s *ObjectStore) Get(ctx context.Context, bucket, object string) (*store.Object, error) {
	reader, size, err := s.open(ctx, bucket, object)
	if err != nil {
		return nil, fmt.Errorf("failed to get GCS object reader for gs://%s/%s: %w", bucket, object, classifyStorageError(err))
	}
	defer reader.Close()

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read GCS object gs://%s/%s: %w", bucket, object, classifyStorageError(err))
	}
	if size < 0 {
		size = 0
	}
	return &store.Object{Body: body, Size: size}, nil
}

// classifyStorageError tags err with the store error kind it represents while
// keeping the original error in the chain.
func classifyStorageError(err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == http.StatusNotFound:
			return fmt.Errorf("%w: %w", store.ErrNotFound, err)
		case gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden:
			return fmt.Errorf("%w: %w", store.ErrAccessDenied, err)
		case gerr.Code == http.StatusTooManyRequests || gerr.Code >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %w", store.ErrTransient, err)
		}
		return err
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	case codes.PermissionDenied, codes.Unauthenticated:
		return fmt.Errorf("%w: %w", store.ErrAccessDenied, err)
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted, codes.Internal:
		return fmt.Errorf("%w: %w", store.ErrTransient, err)
	}
	return err
}
