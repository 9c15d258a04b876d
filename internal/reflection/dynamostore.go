package reflection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/apresai/ikigen/internal/insight"
)

// DynamoAPI is the slice of the DynamoDB client DynamoStore uses.
type DynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// sessionItem is the DynamoDB record for a session.
type sessionItem struct {
	PK          string            `dynamodbav:"PK"`
	SK          string            `dynamodbav:"SK"`
	SessionID   string            `dynamodbav:"sessionId"`
	Data        Data              `dynamodbav:"data"`
	Insights    map[string]string `dynamodbav:"insights,omitempty"`
	SummaryJSON string            `dynamodbav:"summaryJson,omitempty"`
	CreatedAt   string            `dynamodbav:"createdAt"`
	UpdatedAt   string            `dynamodbav:"updatedAt"`
}

// DynamoStore keeps sessions in a single DynamoDB table keyed by PK/SK.
type DynamoStore struct {
	client    DynamoAPI
	tableName string
}

func NewDynamoStore(client DynamoAPI, tableName string) *DynamoStore {
	return &DynamoStore{client: client, tableName: tableName}
}

func sessionKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "REFLECTION#" + id},
		"SK": &types.AttributeValueMemberS{Value: "METADATA"},
	}
}

func (s *DynamoStore) Create(ctx context.Context) (*Session, error) {
	sess, err := NewSession()
	if err != nil {
		return nil, err
	}
	if err := s.put(ctx, sess, aws.String("attribute_not_exists(PK)")); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *DynamoStore) Load(ctx context.Context, id string) (*Session, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.tableName,
		Key:       sessionKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("get reflection: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	var item sessionItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal reflection: %w", err)
	}
	return item.session()
}

func (s *DynamoStore) Save(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = time.Now().UTC()
	return s.put(ctx, sess, nil)
}

func (s *DynamoStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           &s.tableName,
		Key:                 sessionKey(id),
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("delete reflection: %w", err)
	}
	return nil
}

func (s *DynamoStore) put(ctx context.Context, sess *Session, condition *string) error {
	item := sessionItem{
		PK:        "REFLECTION#" + sess.ID,
		SK:        "METADATA",
		SessionID: sess.ID,
		Data:      sess.Data,
		CreatedAt: sess.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt: sess.UpdatedAt.Format(time.RFC3339Nano),
	}
	if len(sess.Insights) > 0 {
		item.Insights = make(map[string]string, len(sess.Insights))
		for k, v := range sess.Insights {
			item.Insights[string(k)] = v
		}
	}
	if sess.Summary != nil {
		b, err := json.Marshal(sess.Summary)
		if err != nil {
			return fmt.Errorf("marshal summary: %w", err)
		}
		item.SummaryJSON = string(b)
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal reflection item: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.tableName,
		Item:                av,
		ConditionExpression: condition,
	})
	if err != nil {
		return fmt.Errorf("put reflection item: %w", err)
	}
	return nil
}

func (it sessionItem) session() (*Session, error) {
	sess := &Session{ID: it.SessionID, Data: it.Data}
	var err error
	if sess.CreatedAt, err = time.Parse(time.RFC3339Nano, it.CreatedAt); err != nil {
		return nil, fmt.Errorf("parse createdAt: %w", err)
	}
	if sess.UpdatedAt, err = time.Parse(time.RFC3339Nano, it.UpdatedAt); err != nil {
		return nil, fmt.Errorf("parse updatedAt: %w", err)
	}
	if len(it.Insights) > 0 {
		sess.Insights = make(map[StepID]string, len(it.Insights))
		for k, v := range it.Insights {
			sess.Insights[StepID(k)] = v
		}
	}
	if it.SummaryJSON != "" {
		var sum insight.Summary
		if err := json.Unmarshal([]byte(it.SummaryJSON), &sum); err != nil {
			return nil, fmt.Errorf("parse summary: %w", err)
		}
		sess.Summary = &sum
	}
	return sess, nil
}
