// Package memory provides in-memory ObjectStore and RecordStore
// implementations for tests and local runs.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/Lllllllleong/csvmetadataflow/internal/models"
	"github.com/Lllllllleong/csvmetadataflow/internal/store"
)

// ObjectStore keeps objects in a map keyed by container and key.
type ObjectStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	err     error
}

// NewObjectStore creates an empty in-memory object store.
func NewObjectStore() *ObjectStore {
	return &ObjectStore{objects: make(map[string][]byte)}
}

func objectPath(container, key string) string {
	return container + "/" + key
}

// Put stores a copy of body under container/key.
func (s *ObjectStore) Put(container, key string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectPath(container, key)] = slices.Clone(body)
}

// SetError makes every subsequent Get fail with err. A nil err clears it.
func (s *ObjectStore) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Get returns a copy of the stored object.
func (s *ObjectStore) Get(ctx context.Context, container, key string) (*store.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	body, ok := s.objects[objectPath(container, key)]
	if !ok {
		return nil, fmt.Errorf("failed to get %s: %w", objectPath(container, key), store.ErrNotFound)
	}
	return &store.Object{Body: slices.Clone(body), Size: int64(len(body))}, nil
}

// RecordStore keeps metadata records in insertion order.
type RecordStore struct {
	mu      sync.RWMutex
	records []*models.MetadataRecord
	byID    map[string]*models.MetadataRecord
	err     error
}

// NewRecordStore creates an empty in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{byID: make(map[string]*models.MetadataRecord)}
}

// SetError makes every subsequent Put fail with err. A nil err clears it.
func (s *RecordStore) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Put stores a copy of record. A second record with the same event id is
// rejected.
func (s *RecordStore) Put(ctx context.Context, record *models.MetadataRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, exists := s.byID[record.EventID]; exists {
		return fmt.Errorf("record %s already exists: %w", record.EventID, store.ErrRejected)
	}
	stored := *record
	stored.ColumnNames = slices.Clone(record.ColumnNames)
	s.records = append(s.records, &stored)
	s.byID[stored.EventID] = &stored
	return nil
}

// Get returns the record with the given event id.
func (s *RecordStore) Get(eventID string) (*models.MetadataRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[eventID]
	return r, ok
}

// Records returns the stored records in insertion order.
func (s *RecordStore) Records() []*models.MetadataRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// Len returns the number of stored records.
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
