package services

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/Lllllllleong/csvmetadataflow/internal/config"
)

func TestNewExtractorClosesFirestoreWhenStorageFails(t *testing.T) {
	client := &firestore.Client{}
	var closed []*firestore.Client

	origFirestore, origStorage, origClose := newFirestoreClient, newStorageClient, closeFirestoreClient
	t.Cleanup(func() {
		newFirestoreClient, newStorageClient, closeFirestoreClient = origFirestore, origStorage, origClose
	})
	newFirestoreClient = func(context.Context, string) (*firestore.Client, error) { return client, nil }
	newStorageClient = func(context.Context, ...option.ClientOption) (*storage.Client, error) {
		return nil, errors.New("no credentials")
	}
	closeFirestoreClient = func(c *firestore.Client) error {
		closed = append(closed, c)
		return nil
	}

	cfg := &config.Config{Backend: config.BackendGCP, GCP: config.GCPConfig{ProjectID: "demo", Collection: "event_data"}}
	extractor, err := NewExtractor(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, extractor)
	assert.Contains(t, err.Error(), "no credentials")
	assert.Equal(t, []*firestore.Client{client}, closed)
}

func TestNewExtractorFirestoreFailure(t *testing.T) {
	origFirestore, origStorage := newFirestoreClient, newStorageClient
	t.Cleanup(func() { newFirestoreClient, newStorageClient = origFirestore, origStorage })

	storageCalled := false
	newFirestoreClient = func(context.Context, string) (*firestore.Client, error) {
		return nil, errors.New("firestore down")
	}
	newStorageClient = func(context.Context, ...option.ClientOption) (*storage.Client, error) {
		storageCalled = true
		return nil, nil
	}

	cfg := &config.Config{Backend: config.BackendGCP, GCP: config.GCPConfig{ProjectID: "demo", Collection: "event_data"}}
	_, err := NewExtractor(context.Background(), cfg)
	require.Error(t, err)
	assert.False(t, storageCalled)
}

func TestNewExtractorUnsupportedBackend(t *testing.T) {
	_, err := NewExtractor(context.Background(), &config.Config{Backend: "azure"})
	assert.ErrorContains(t, err, "unsupported backend")
}
