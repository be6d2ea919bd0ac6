package models

// These structs define the trigger payloads accepted by the extractor and the
// result it hands back to the platform.

// TriggerReference identifies the object to process.
type TriggerReference struct {
	Container string
	Key       string
}

// GCSEvent is the data of a Cloud Storage object-finalized CloudEvent.
type GCSEvent struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
	Size   string `json:"size,omitempty"`
}

// Reference converts the event into a TriggerReference.
func (e GCSEvent) Reference() TriggerReference {
	return TriggerReference{Container: e.Bucket, Key: e.Name}
}

// S3Notification is an S3-style bucket notification. Only the first record is
// processed.
type S3Notification struct {
	Records []S3EventRecord `json:"Records"`
}

type S3EventRecord struct {
	EventSource string `json:"eventSource,omitempty"`
	AwsRegion   string `json:"awsRegion,omitempty"`
	EventName   string `json:"eventName,omitempty"`
	S3          S3Data `json:"s3"`
}

type S3Data struct {
	Bucket S3BucketData `json:"bucket"`
	Object S3ObjectData `json:"object"`
}

type S3BucketData struct {
	Name string `json:"name"`
}

type S3ObjectData struct {
	Key  string `json:"key"`
	Size int64  `json:"size,omitempty"`
}

// Reference converts the record into a TriggerReference. The key is used as
// received, without URL-decoding.
func (r S3EventRecord) Reference() TriggerReference {
	return TriggerReference{Container: r.S3.Bucket.Name, Key: r.S3.Object.Key}
}

// Response is the result handed back to the caller for every invocation.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// SuccessBody is the JSON body of a 200 response.
type SuccessBody struct {
	Message  string          `json:"message"`
	Metadata *MetadataRecord `json:"metadata"`
}

// ErrorBody is the JSON body of a 500 response.
type ErrorBody struct {
	Error string `json:"error"`
}
