package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Lllllllleong/csvmetadataflow/internal/models"
	"github.com/Lllllllleong/csvmetadataflow/internal/store"
)

// NewFirestoreClient creates and returns a new Firestore client for the given project ID.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return client, nil
}

// RecordStore writes one Firestore document per metadata record, using the
// event id as the document id.
type RecordStore struct {
	create     createFunc
	collection string
}

// createFunc creates document id in collection, failing if it already exists.
type createFunc func(ctx context.Context, collection, id string, data any) error

// NewRecordStore wraps an existing Firestore client.
func NewRecordStore(client *firestore.Client, collection string) *RecordStore {
	return &RecordStore{
		create: func(ctx context.Context, collection, id string, data any) error {
			_, err := client.Collection(collection).Doc(id).Create(ctx, data)
			return err
		},
		collection: collection,
	}
}

// Put creates the document. It never overwrites an existing one.
func (s *RecordStore) Put(ctx context.Context, record *models.MetadataRecord) error {
	if err := s.create(ctx, s.collection, record.EventID, record); err != nil {
		return fmt.Errorf("failed to create metadata document %s/%s: %w", s.collection, record.EventID, classifyFirestoreError(err))
	}
	return nil
}

func classifyFirestoreError(err error) error {
	switch status.Code(err) {
	case codes.AlreadyExists, codes.InvalidArgument, codes.FailedPrecondition, codes.PermissionDenied, codes.Unauthenticated:
		return fmt.Errorf("%w: %w", store.ErrRejected, err)
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted, codes.Internal:
		return fmt.Errorf("%w: %w", store.ErrTransient, err)
	}
	return err
}
