package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Lllllllleong/csvmetadataflow/internal/models"
	"github.com/Lllllllleong/csvmetadataflow/internal/store"
)

// MetadataExtractor fetches an object, summarises its delimited content and
// persists the resulting metadata record.
type MetadataExtractor struct {
	objects store.ObjectStore
	records store.RecordStore
	now     func() time.Time
	newID   func() string
	logger  *slog.Logger
}

// Option configures a MetadataExtractor.
type Option func(*MetadataExtractor)

// WithClock overrides the source of the capture instant.
func WithClock(now func() time.Time) Option {
	return func(e *MetadataExtractor) { e.now = now }
}

// WithIDGenerator overrides how event ids are generated.
func WithIDGenerator(newID func() string) Option {
	return func(e *MetadataExtractor) { e.newID = newID }
}

// WithLogger sets the logger used for per-invocation logging.
func WithLogger(logger *slog.Logger) Option {
	return func(e *MetadataExtractor) { e.logger = logger }
}

// NewMetadataExtractor creates an extractor over the given capabilities.
func NewMetadataExtractor(objects store.ObjectStore, records store.RecordStore, opts ...Option) *MetadataExtractor {
	e := &MetadataExtractor{
		objects: objects,
		records: records,
		now:     time.Now,
		newID:   uuid.NewString,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process runs fetch, parse and persist for a single object. Every returned
// error is a *ProcessingError. The record is written only once it is fully
// built.
func (e *MetadataExtractor) Process(ctx context.Context, ref models.TriggerReference) (*models.MetadataRecord, error) {
	logCtx := e.logger.With("container", ref.Container, "objectKey", ref.Key)

	if err := validateReference(ref); err != nil {
		logCtx.Warn("Rejected trigger reference.", "error", err)
		return nil, err
	}
	logCtx.Info("Processing new object.")

	obj, err := e.objects.Get(ctx, ref.Container, ref.Key)
	if err != nil {
		logCtx.Error("Failed to fetch object", "error", err)
		return nil, newProcessingError(KindRetrieval, "failed to fetch object", err)
	}

	summary, err := ParseTable(obj.Body)
	if err != nil {
		logCtx.Error("Failed to parse object content", "error", err, "kind", KindOf(err).String())
		return nil, err
	}

	record := e.buildRecord(ref, obj.Size, summary)
	logCtx = logCtx.With("eventId", record.EventID)

	if err := e.records.Put(ctx, record); err != nil {
		logCtx.Error("Failed to persist metadata record", "error", err)
		return nil, newProcessingError(KindPersistence, "failed to store metadata", err)
	}

	logCtx.Info("Metadata stored.", "rowCount", record.RowCount, "columnCount", record.ColumnCount, "fileSizeBytes", record.FileSizeBytes)
	return record, nil
}

func (e *MetadataExtractor) buildRecord(ref models.TriggerReference, size int64, summary *TableSummary) *models.MetadataRecord {
	// One instant feeds both timestamp fields.
	captured := e.now().UTC().Truncate(time.Second)
	if size < 0 {
		size = 0
	}
	return &models.MetadataRecord{
		EventID:         e.newID(),
		Filename:        ref.Key,
		UploadTimestamp: captured.Format(models.UploadTimestampLayout),
		Timestamp:       captured.Unix(),
		FileSizeBytes:   size,
		RowCount:        summary.RowCount,
		ColumnCount:     len(summary.ColumnNames),
		ColumnNames:     summary.ColumnNames,
	}
}

func validateReference(ref models.TriggerReference) error {
	if ref.Container == "" {
		return newProcessingError(KindInput, "invalid trigger reference", ErrMissingContainer)
	}
	if ref.Key == "" {
		return newProcessingError(KindInput, "invalid trigger reference", ErrMissingKey)
	}
	return nil
}
