package repository

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"

	"credit-agent/internal/domain"
)

type fakeDynamo struct {
	getOut       *dynamodb.GetItemOutput
	getErr       error
	putErr       error
	deleteErr    error
	lastGetInput *dynamodb.GetItemInput
	lastPutInput *dynamodb.PutItemInput
	lastDelInput *dynamodb.DeleteItemInput
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.lastGetInput = in
	return f.getOut, f.getErr
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.lastPutInput = in
	return &dynamodb.PutItemOutput{}, f.putErr
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.lastDelInput = in
	return &dynamodb.DeleteItemOutput{}, f.deleteErr
}

func makeSessionItem(id, state string, ttl int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":        &types.AttributeValueMemberS{Value: sessionPK(id)},
		"SK":        &types.AttributeValueMemberS{Value: skState},
		"sessionId": &types.AttributeValueMemberS{Value: id},
		"state":     &types.AttributeValueMemberS{Value: state},
		"updatedAt": &types.AttributeValueMemberS{Value: "2026-01-02T03:04:05Z"},
		"ttl":       &types.AttributeValueMemberN{Value: strconv.FormatInt(ttl, 10)},
	}
}

func mustNewClient(t *testing.T, db *fakeDynamo) *Client {
	t.Helper()
	c, err := New(db, "test-table")
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, "t")
	require.Error(t, err)
	_, err = New(&fakeDynamo{}, " ")
	require.Error(t, err)
}

func TestGetSession_HappyPath(t *testing.T) {
	ttl := time.Now().Add(time.Hour).Unix()
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: makeSessionItem("abc", `{"history":[]}`, ttl)}}
	c := mustNewClient(t, db)

	rec, found, err := c.GetSession(context.Background(), "abc")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "abc", rec.SessionID)
	require.Equal(t, `{"history":[]}`, rec.State)
	require.Equal(t, ttl, rec.TTL)

	require.Equal(t, "test-table", *db.lastGetInput.TableName)
	require.True(t, *db.lastGetInput.ConsistentRead)
	pk := db.lastGetInput.Key["PK"].(*types.AttributeValueMemberS)
	require.Equal(t, "SESS#abc", pk.Value)
}

func TestGetSession_Missing(t *testing.T) {
	c := mustNewClient(t, &fakeDynamo{getOut: &dynamodb.GetItemOutput{}})
	_, found, err := c.GetSession(context.Background(), "abc")
	require.NoError(t, err)
	require.False(t, found)
}

func TestGetSession_ExpiredTreatedAsMissing(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: makeSessionItem("abc", "{}", now.Add(-time.Second).Unix())}}
	c := mustNewClient(t, db)
	c.now = func() time.Time { return now }

	_, found, err := c.GetSession(context.Background(), "abc")
	require.NoError(t, err)
	require.False(t, found)
}

func TestGetSession_APIError(t *testing.T) {
	c := mustNewClient(t, &fakeDynamo{getErr: errors.New("throttled")})
	_, _, err := c.GetSession(context.Background(), "abc")
	require.ErrorContains(t, err, "throttled")
}

func TestGetSession_MissingStateAttribute(t *testing.T) {
	item := makeSessionItem("abc", "{}", 0)
	delete(item, "state")
	c := mustNewClient(t, &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: item}})
	_, _, err := c.GetSession(context.Background(), "abc")
	require.ErrorContains(t, err, "state")
}

func TestSaveSession_WritesItem(t *testing.T) {
	db := &fakeDynamo{}
	c := mustNewClient(t, db)
	rec := domain.NewSessionRecord("abc", `{"awaitingId":true}`, 30*time.Minute)

	require.NoError(t, c.SaveSession(context.Background(), rec))
	item := db.lastPutInput.Item
	require.Equal(t, "SESS#abc", item["PK"].(*types.AttributeValueMemberS).Value)
	require.Equal(t, "STATE", item["SK"].(*types.AttributeValueMemberS).Value)
	require.Equal(t, `{"awaitingId":true}`, item["state"].(*types.AttributeValueMemberS).Value)
	require.Equal(t, strconv.FormatInt(rec.TTL, 10), item["ttl"].(*types.AttributeValueMemberN).Value)
}

func TestSaveSession_RequiresKeys(t *testing.T) {
	c := mustNewClient(t, &fakeDynamo{})
	err := c.SaveSession(context.Background(), domain.SessionRecord{SessionID: " ", State: "{}"})
	require.Error(t, err)
}

func TestSaveSession_APIError(t *testing.T) {
	c := mustNewClient(t, &fakeDynamo{putErr: errors.New("boom")})
	err := c.SaveSession(context.Background(), domain.NewSessionRecord("abc", "{}", time.Minute))
	require.ErrorContains(t, err, "boom")
}

func TestDeleteSession(t *testing.T) {
	db := &fakeDynamo{}
	c := mustNewClient(t, db)
	require.NoError(t, c.DeleteSession(context.Background(), "abc"))
	require.Equal(t, "SESS#abc", db.lastDelInput.Key["PK"].(*types.AttributeValueMemberS).Value)

	db.deleteErr = errors.New("boom")
	require.ErrorContains(t, c.DeleteSession(context.Background(), "abc"), "boom")
}

func TestNewSessionRecord_TTL(t *testing.T) {
	before := time.Now().Add(30 * time.Minute).Unix()
	rec := domain.NewSessionRecord("abc", "{}", 30*time.Minute)
	after := time.Now().Add(30 * time.Minute).Unix()
	require.GreaterOrEqual(t, rec.TTL, before)
	require.LessOrEqual(t, rec.TTL, after)
	require.NotEmpty(t, rec.UpdatedAt)
}
