// Package dynamo implements repository.Store on top of Amazon DynamoDB.
//
// Each collection maps to one table whose partition key is the string
// attribute PK holding the record id. Every other attribute is a field.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/okian/sectorscore/internal/adapters/repository"
	"github.com/okian/sectorscore/pkg/logger"
)

// PartitionKey is the attribute name holding the record id.
const PartitionKey = "PK"

// API is the subset of the DynamoDB client the store needs.
type API interface {
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Store is a DynamoDB-backed repository.Store.
type Store struct {
	client      API
	tablePrefix string
	log         logger.Logger
}

var (
	_ repository.Store  = (*Store)(nil)
	_ repository.Seeder = (*Store)(nil)
)

// New wraps an existing client.
func New(client API, opts ...Option) *Store {
	s := &Store{
		client: client,
		log:    logger.Get().Named("dynamo-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromConfig builds a client from the default AWS credential chain.
// An empty endpoint uses the regional AWS endpoint.
func NewFromConfig(ctx context.Context, region, endpoint string, opts ...Option) (*Store, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return New(client, opts...), nil
}

func (s *Store) table(collection string) string {
	return s.tablePrefix + collection
}

// ListAll scans the whole table, following pagination.
func (s *Store) ListAll(ctx context.Context, collection string) ([]repository.Document, error) {
	table := s.table(collection)
	var (
		docs     []repository.Document
		startKey map[string]types.AttributeValue
	)
	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(table),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			s.log.Error(ctx, "scan failed", logger.String("table", table), logger.Error(err))
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}

		for _, item := range out.Items {
			doc, err := decodeItem(item)
			if err != nil {
				return nil, fmt.Errorf("decode %s item: %w", table, err)
			}
			docs = append(docs, doc)
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return docs, nil
}

func decodeItem(item map[string]types.AttributeValue) (repository.Document, error) {
	var fields map[string]any
	if err := attributevalue.UnmarshalMap(item, &fields); err != nil {
		return repository.Document{}, err
	}
	id, _ := fields[PartitionKey].(string)
	if id == "" {
		return repository.Document{}, repository.ErrEmptyID
	}
	delete(fields, PartitionKey)
	return repository.Document{ID: id, Fields: fields}, nil
}

// WriteFields issues one UpdateItem with a SET clause per field.
func (s *Store) WriteFields(ctx context.Context, collection, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	names := map[string]string{"#pk": PartitionKey}
	values := make(map[string]types.AttributeValue, len(fields))
	expr := "SET "
	for i, name := range slices.Sorted(maps.Keys(fields)) {
		av, err := attributevalue.Marshal(fields[name])
		if err != nil {
			return fmt.Errorf("marshal field %s: %w", name, err)
		}
		n, v := fmt.Sprintf("#f%d", i), fmt.Sprintf(":v%d", i)
		names[n] = name
		values[v] = av
		if i > 0 {
			expr += ", "
		}
		expr += n + " = " + v
	}

	return s.update(ctx, collection, id, &dynamodb.UpdateItemInput{
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
}

// DeleteField issues one UpdateItem with a REMOVE clause.
func (s *Store) DeleteField(ctx context.Context, collection, id, field string) error {
	return s.update(ctx, collection, id, &dynamodb.UpdateItemInput{
		UpdateExpression:         aws.String("REMOVE #f0"),
		ExpressionAttributeNames: map[string]string{"#pk": PartitionKey, "#f0": field},
	})
}

func (s *Store) update(ctx context.Context, collection, id string, in *dynamodb.UpdateItemInput) error {
	key, err := attributevalue.MarshalMap(map[string]string{PartitionKey: id})
	if err != nil {
		return fmt.Errorf("marshal key %s: %w", id, err)
	}
	in.TableName = aws.String(s.table(collection))
	in.Key = key
	in.ConditionExpression = aws.String("attribute_exists(#pk)")

	if _, err := s.client.UpdateItem(ctx, in); err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			return fmt.Errorf("%s/%s: %w", collection, id, repository.ErrNotFound)
		}
		s.log.Error(ctx, "update failed",
			logger.String("table", *in.TableName),
			logger.String("id", id),
			logger.Error(err))
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

// Put creates or replaces a whole item.
func (s *Store) Put(ctx context.Context, collection, id string, fields map[string]any) error {
	if id == "" {
		return repository.ErrEmptyID
	}
	item, err := attributevalue.MarshalMap(fields)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, id, err)
	}
	if item == nil {
		item = make(map[string]types.AttributeValue, 1)
	}
	item[PartitionKey] = &types.AttributeValueMemberS{Value: id}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table(collection)),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	return nil
}
