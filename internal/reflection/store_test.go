package reflection_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apresai/ikigen/internal/insight"
	"github.com/apresai/ikigen/internal/reflection"
)

// memDynamo keeps items by PK and honours the two condition expressions the store uses.
type memDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
}

func newMemDynamo() *memDynamo {
	return &memDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func pkOf(m map[string]types.AttributeValue) string {
	return m["PK"].(*types.AttributeValueMemberS).Value
}

func (m *memDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk := pkOf(in.Item)
	if aws.ToString(in.ConditionExpression) == "attribute_not_exists(PK)" {
		if _, ok := m.items[pk]; ok {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("exists")}
		}
	}
	m.items[pk] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *memDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: m.items[pkOf(in.Key)]}, nil
}

func (m *memDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk := pkOf(in.Key)
	if _, ok := m.items[pk]; !ok {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("missing")}
	}
	delete(m.items, pk)
	return &dynamodb.DeleteItemOutput{}, nil
}

func storeRoundTrip(t *testing.T, store reflection.Store) {
	t.Helper()
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	require.NoError(t, sess.Data.Set(reflection.StepLove, "cooking for friends"))
	require.NoError(t, sess.SetInsight(reflection.StepLove, "You feed belonging."))
	sess.Summary = &insight.Summary{Ikigai: "You gather people.", Meaning: "m", Suggestions: []string{"host"}}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "cooking for friends", got.Data.Love)
	assert.Equal(t, "You feed belonging.", got.Insights[reflection.StepLove])
	require.NotNil(t, got.Summary)
	assert.Equal(t, "You gather people.", got.Summary.Ikigai)
	assert.True(t, got.CreatedAt.Equal(sess.CreatedAt))
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.Load(ctx, sess.ID)
	assert.ErrorIs(t, err, reflection.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, sess.ID), reflection.ErrNotFound)
}

func TestFileStore(t *testing.T) {
	store, err := reflection.NewFileStore(t.TempDir())
	require.NoError(t, err)
	storeRoundTrip(t, store)
}

func TestFileStoreRejectsNonULID(t *testing.T) {
	store, err := reflection.NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, reflection.ErrNotFound)
	assert.ErrorIs(t, store.Delete(context.Background(), "nope"), reflection.ErrNotFound)
}

func TestDynamoStore(t *testing.T) {
	db := newMemDynamo()
	store := reflection.NewDynamoStore(db, "ikigen-test")
	storeRoundTrip(t, store)
}

func TestDynamoStoreKeys(t *testing.T) {
	db := newMemDynamo()
	store := reflection.NewDynamoStore(db, "ikigen-test")

	sess, err := store.Create(context.Background())
	require.NoError(t, err)

	require.Len(t, db.items, 1)
	for pk, item := range db.items {
		assert.True(t, strings.HasPrefix(pk, "REFLECTION#"))
		assert.Equal(t, "METADATA", item["SK"].(*types.AttributeValueMemberS).Value)
		assert.Equal(t, sess.ID, item["sessionId"].(*types.AttributeValueMemberS).Value)
	}
}
