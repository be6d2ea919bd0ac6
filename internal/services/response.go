package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Lllllllleong/csvmetadataflow/internal/models"
)

// SuccessMessage is the message of every 200 response.
const SuccessMessage = "Metadata stored successfully"

// Handle is the top-level boundary: it runs Process and converts the outcome,
// including a recovered panic, into a Response.
func (e *MetadataExtractor) Handle(ctx context.Context, ref models.TriggerReference) (resp models.Response) {
	defer func() {
		if r := recover(); r != nil {
			err := newProcessingError(KindInternal, "unexpected failure", fmt.Errorf("panic: %v", r))
			e.logger.Error("Recovered from panic while processing object", "error", err, "container", ref.Container, "objectKey", ref.Key)
			resp = NewFailureResponse(err)
		}
	}()

	record, err := e.Process(ctx, ref)
	if err != nil {
		return NewFailureResponse(err)
	}
	return NewSuccessResponse(record)
}

// HandleNotification decodes an S3-style notification and processes its first
// record.
func (e *MetadataExtractor) HandleNotification(ctx context.Context, payload []byte) models.Response {
	record, err := DecodeS3Notification(payload)
	if err != nil {
		e.logger.Warn("Could not decode notification", "error", err)
		return NewFailureResponse(err)
	}
	e.logger.Info("Received object notification.",
		"eventName", record.EventName,
		"eventSource", record.EventSource,
		"awsRegion", record.AwsRegion,
		"container", record.S3.Bucket.Name,
		"objectKey", record.S3.Object.Key,
		"objectSize", record.S3.Object.Size,
	)
	return e.Handle(ctx, record.Reference())
}

// DecodeS3Notification returns the first record of an S3-style notification.
func DecodeS3Notification(payload []byte) (models.S3EventRecord, error) {
	var n models.S3Notification
	if err := json.Unmarshal(payload, &n); err != nil {
		return models.S3EventRecord{}, newProcessingError(KindInput, "failed to decode notification", err)
	}
	if len(n.Records) == 0 {
		return models.S3EventRecord{}, newProcessingError(KindInput, "invalid notification", ErrNoRecords)
	}
	return n.Records[0], nil
}

// NewSuccessResponse builds the 200 response for record.
func NewSuccessResponse(record *models.MetadataRecord) models.Response {
	body, err := json.Marshal(models.SuccessBody{Message: SuccessMessage, Metadata: record})
	if err != nil {
		return NewFailureResponse(fmt.Errorf("failed to encode response: %w", err))
	}
	return models.Response{StatusCode: http.StatusOK, Body: string(body)}
}

// NewFailureResponse builds the 500 response for err. Only the message is
// kept; the kind is not exposed to the caller.
func NewFailureResponse(err error) models.Response {
	body, _ := json.Marshal(models.ErrorBody{Error: err.Error()})
	return models.Response{StatusCode: http.StatusInternalServerError, Body: string(body)}
}
