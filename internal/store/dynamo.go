package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DefaultDynamoKeyAttribute is the partition key attribute used when none is
// configured.
const DefaultDynamoKeyAttribute = "id"

type dynamoAPI interface {
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoStore maps each collection to a DynamoDB table of the same name,
// partitioned on a single string key attribute.
type DynamoStore struct {
	client  dynamoAPI
	keyAttr string
}

// NewDynamoStore builds a store backed by the provided DynamoDB client.
func NewDynamoStore(client dynamoAPI, keyAttr string) *DynamoStore {
	if client == nil {
		panic("store: dynamodb client cannot be nil")
	}
	if keyAttr == "" {
		keyAttr = DefaultDynamoKeyAttribute
	}
	return &DynamoStore{client: client, keyAttr: keyAttr}
}

// Get performs a strongly consistent GetItem.
func (s *DynamoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if id == "" {
		return nil, errors.New("store: id required")
	}
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(collection),
		Key:            s.key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("store: dynamodb get %s/%s: %w", collection, id, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	doc := map[string]any{}
	if err := attributevalue.UnmarshalMap(out.Item, &doc); err != nil {
		return nil, fmt.Errorf("store: dynamodb decode %s/%s: %w", collection, id, err)
	}
	return Document(doc), nil
}

// Put writes the whole item, replacing any previous version.
func (s *DynamoStore) Put(ctx context.Context, collection, id string, doc Document) error {
	if id == "" {
		return errors.New("store: id required")
	}
	item, err := attributevalue.MarshalMap(map[string]any(doc))
	if err != nil {
		return fmt.Errorf("store: dynamodb encode %s/%s: %w", collection, id, err)
	}
	item[s.keyAttr] = &types.AttributeValueMemberS{Value: id}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(collection),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("store: dynamodb put %s/%s: %w", collection, id, err)
	}
	return nil
}

// Backend implements Store.
func (s *DynamoStore) Backend() string { return BackendDynamoDB }

func (s *DynamoStore) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		s.keyAttr: &types.AttributeValueMemberS{Value: id},
	}
}
