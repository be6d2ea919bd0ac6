package amazon

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/Lllllllleong/csvmetadataflow/internal/models"
	"github.com/Lllllllleong/csvmetadataflow/internal/store"
)

// DynamoDBAPI is the subset of the DynamoDB client used by RecordStore.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// RecordStore writes one DynamoDB item per metadata record. The table's
// partition key is event_id.
type RecordStore struct {
	client DynamoDBAPI
	table  string
}

// NewRecordStore wraps a DynamoDB client.
func NewRecordStore(client DynamoDBAPI, table string) *RecordStore {
	return &RecordStore{client: client, table: table}
}

// Put writes the item unless one with the same event_id already exists.
func (s *RecordStore) Put(ctx context.Context, record *models.MetadataRecord) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata record %s: %w: %w", record.EventID, store.ErrRejected, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(event_id)"),
	})
	if err != nil {
		return fmt.Errorf("failed to put metadata record %s into %s: %w", record.EventID, s.table, classifyDynamoDBError(err))
	}
	return nil
}

func classifyDynamoDBError(err error) error {
	var conditionFailed *types.ConditionalCheckFailedException
	var tableMissing *types.ResourceNotFoundException
	if errors.As(err, &conditionFailed) || errors.As(err, &tableMissing) {
		return fmt.Errorf("%w: %w", store.ErrRejected, err)
	}

	var throughput *types.ProvisionedThroughputExceededException
	var limit *types.RequestLimitExceeded
	var internal *types.InternalServerError
	if errors.As(err, &throughput) || errors.As(err, &limit) || errors.As(err, &internal) {
		return fmt.Errorf("%w: %w", store.ErrTransient, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "ServiceUnavailable", "InternalFailure":
			return fmt.Errorf("%w: %w", store.ErrTransient, err)
		case "AccessDeniedException", "ValidationException", "UnrecognizedClientException":
			return fmt.Errorf("%w: %w", store.ErrRejected, err)
		}
	}
	return err
}
