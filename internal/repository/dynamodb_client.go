package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"credit-agent/internal/domain"
)

const (
	pkPrefixSession = "SESS#"
	skState         = "STATE"
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// Defined here for testability.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// SessionStore defines the session persistence operations consumed by the chat service.
// GetSession reports found=false for missing or expired sessions.
type SessionStore interface {
	GetSession(ctx context.Context, sessionID string) (domain.SessionRecord, bool, error)
	SaveSession(ctx context.Context, rec domain.SessionRecord) error
	DeleteSession(ctx context.Context, sessionID string) error
}

// Client wraps a DynamoDB table holding one item per session.
type Client struct {
	api       dynamodbAPI
	tableName string
	now       func() time.Time
}

// New creates a new repository Client.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName, now: time.Now}, nil
}

// sessionPK returns the DynamoDB partition key for a session.
func sessionPK(sessionID string) string {
	return pkPrefixSession + sessionID
}

func sessionKey(sessionID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: sessionPK(sessionID)},
		"SK": &types.AttributeValueMemberS{Value: skState},
	}
}

// GetSession loads the session item. DynamoDB deletes expired items lazily, so
// the TTL is checked here as well.
func (c *Client) GetSession(ctx context.Context, sessionID string) (domain.SessionRecord, bool, error) {
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(c.tableName),
		Key:            sessionKey(sessionID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.SessionRecord{}, false, fmt.Errorf("repository: GetSession get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return domain.SessionRecord{}, false, nil
	}

	rec, err := itemToSession(out.Item)
	if err != nil {
		return domain.SessionRecord{}, false, fmt.Errorf("repository: GetSession unmarshal: %w", err)
	}
	if rec.Expired(c.now()) {
		return domain.SessionRecord{}, false, nil
	}
	return rec, true, nil
}

// SaveSession writes or replaces the session item.
func (c *Client) SaveSession(ctx context.Context, rec domain.SessionRecord) error {
	if strings.TrimSpace(rec.SessionID) == "" {
		return errors.New("repository: SaveSession: session id is required")
	}

	_, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item:      sessionItem(rec),
	})
	if err != nil {
		return fmt.Errorf("repository: SaveSession: %w", err)
	}
	return nil
}

// DeleteSession removes the session item. Deleting a missing session is not an error.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := c.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(c.tableName),
		Key:       sessionKey(sessionID),
	})
	if err != nil {
		return fmt.Errorf("repository: DeleteSession: %w", err)
	}
	return nil
}

func itemToSession(item map[string]types.AttributeValue) (domain.SessionRecord, error) {
	pk, err := strAttr(item, "PK")
	if err != nil {
		return domain.SessionRecord{}, err
	}
	state, err := strAttr(item, "state")
	if err != nil {
		return domain.SessionRecord{}, err
	}
	updatedAt, _ := strAttr(item, "updatedAt") // allow empty
	ttl, err := intAttr(item, "ttl")
	if err != nil {
		ttl = 0
	}

	return domain.SessionRecord{
		SessionID: strings.TrimPrefix(pk, pkPrefixSession),
		State:     state,
		UpdatedAt: updatedAt,
		TTL:       ttl,
	}, nil
}

func sessionItem(rec domain.SessionRecord) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":        &types.AttributeValueMemberS{Value: sessionPK(rec.SessionID)},
		"SK":        &types.AttributeValueMemberS{Value: skState},
		"sessionId": &types.AttributeValueMemberS{Value: rec.SessionID},
		"state":     &types.AttributeValueMemberS{Value: rec.State},
		"updatedAt": &types.AttributeValueMemberS{Value: rec.UpdatedAt},
		"ttl":       &types.AttributeValueMemberN{Value: strconv.FormatInt(rec.TTL, 10)},
	}
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}

func intAttr(item map[string]types.AttributeValue, key string) (int64, error) {
	v, ok := item[key]
	if !ok {
		return 0, fmt.Errorf("repository: missing attribute %q", key)
	}
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("repository: attribute %q is not a number", key)
	}
	parsed, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("repository: parse attribute %q: %w", key, err)
	}
	return parsed, nil
}
