package services

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"

	"github.com/Lllllllleong/csvmetadataflow/internal/amazon"
	"github.com/Lllllllleong/csvmetadataflow/internal/config"
	"github.com/Lllllllleong/csvmetadataflow/internal/gcp"
	"github.com/Lllllllleong/csvmetadataflow/internal/store"
)

// Client constructors, replaced in tests.
var (
	newFirestoreClient   = gcp.NewFirestoreClient
	newStorageClient     = storage.NewClient
	closeFirestoreClient = (*firestore.Client).Close
)

// NewExtractor creates the SDK clients for the configured backend and returns
// an extractor over them. It is meant to be called once per process.
func NewExtractor(ctx context.Context, cfg *config.Config, opts ...Option) (*MetadataExtractor, error) {
	var (
		objects store.ObjectStore
		records store.RecordStore
	)

	switch cfg.Backend {
	case config.BackendGCP:
		firestoreClient, err := newFirestoreClient(ctx, cfg.GCP.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to create firestore client: %w", err)
		}
		storageClient, err := newStorageClient(ctx)
		if err != nil {
			if closeErr := closeFirestoreClient(firestoreClient); closeErr != nil {
				slog.Warn("Failed to close Firestore client", "error", closeErr)
			}
			return nil, fmt.Errorf("failed to create Storage client: %w", err)
		}
		objects = gcp.NewObjectStore(storageClient)
		records = gcp.NewRecordStore(firestoreClient, cfg.GCP.Collection)
		slog.Info("Metadata extractor initialized.", "backend", cfg.Backend, "collection", cfg.GCP.Collection)

	case config.BackendAWS:
		awsCfg, err := amazon.LoadConfig(ctx, cfg.AWS)
		if err != nil {
			return nil, err
		}
		objects = amazon.NewObjectStore(amazon.NewS3Client(awsCfg, cfg.AWS))
		records = amazon.NewRecordStore(amazon.NewDynamoDBClient(awsCfg, cfg.AWS), cfg.AWS.Table)
		slog.Info("Metadata extractor initialized.", "backend", cfg.Backend, "table", cfg.AWS.Table, "region", cfg.AWS.Region)

	default:
		return nil, fmt.Errorf("unsupported backend %q", cfg.Backend)
	}

	return NewMetadataExtractor(objects, records, opts...), nil
}
