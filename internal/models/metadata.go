package models

// MetadataRecord is the summary persisted for every processed object.
// The same field names are used for the JSON response, the Firestore document
// and the DynamoDB item.
type MetadataRecord struct {
	EventID         string   `json:"event_id" firestore:"event_id" dynamodbav:"event_id"`
	Filename        string   `json:"filename" firestore:"filename" dynamodbav:"filename"`
	UploadTimestamp string   `json:"upload_timestamp" firestore:"upload_timestamp" dynamodbav:"upload_timestamp"`
	Timestamp       int64    `json:"timestamp" firestore:"timestamp" dynamodbav:"timestamp"`
	FileSizeBytes   int64    `json:"file_size_bytes" firestore:"file_size_bytes" dynamodbav:"file_size_bytes"`
	RowCount        int      `json:"row_count" firestore:"row_count" dynamodbav:"row_count"`
	ColumnCount     int      `json:"column_count" firestore:"column_count" dynamodbav:"column_count"`
	ColumnNames     []string `json:"column_names" firestore:"column_names" dynamodbav:"column_names"`
}

// UploadTimestampLayout is the format of MetadataRecord.UploadTimestamp.
const UploadTimestampLayout = "2006-01-02 15:04:05"
