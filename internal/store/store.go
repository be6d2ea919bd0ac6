// Package store defines the two capabilities the extractor consumes: reading
// objects from an object store and persisting metadata records to a key-value
// store. Adapters live in internal/gcp, internal/aws and internal/store/memory.
package store

import (
	"context"
	"errors"

	"github.com/Lllllllleong/csvmetadataflow/internal/models"
)

var (
	// ErrNotFound indicates the requested object does not exist.
	ErrNotFound = errors.New("object not found")

	// ErrAccessDenied indicates the caller may not read the object.
	ErrAccessDenied = errors.New("access denied")

	// ErrTransient indicates a failure that may succeed if attempted again.
	ErrTransient = errors.New("transient store failure")

	// ErrRejected indicates the record store refused the write.
	ErrRejected = errors.New("record rejected")
)

// Object is the full content of a stored object together with the size the
// store reported for it. Size is 0 when the store did not report one.
type Object struct {
	Body []byte
	Size int64
}

// ObjectStore fetches objects addressed by container and key.
type ObjectStore interface {
	Get(ctx context.Context, container, key string) (*Object, error)
}

// RecordStore persists one item per metadata record, keyed by its event id.
type RecordStore interface {
	Put(ctx context.Context, record *models.MetadataRecord) error
}
