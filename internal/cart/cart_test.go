package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront/internal/model"
)

func newStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, time.Hour), mr
}

func TestCart_SetQuantity(t *testing.T) {
	c := &Cart{}
	a, b := uuid.New(), uuid.New()

	require.NoError(t, c.SetQuantity(a, 2, ""))
	require.NoError(t, c.SetQuantity(b, 1, model.TierWholesale))
	require.NoError(t, c.SetQuantity(a, 5, model.TierRetail))
	assert.Len(t, c.Items, 2)
	assert.Equal(t, 6, c.Count())

	require.NoError(t, c.SetQuantity(a, 0, model.TierRetail))
	require.Len(t, c.Items, 1)
	assert.Equal(t, b, c.Items[0].ProductID)

	assert.ErrorIs(t, c.SetQuantity(b, -1, model.TierWholesale), ErrInvalidQuantity)
	require.NoError(t, c.SetQuantity(uuid.New(), 0, ""))
	assert.Len(t, c.Items, 1)
}

func TestRedisStore_RoundTripAndExpiry(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()
	id := NewSessionID()

	empty, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	require.NoError(t, empty.SetQuantity(uuid.New(), 3, ""))
	require.NoError(t, store.Save(ctx, empty))
	assert.True(t, mr.Exists(keyPrefix+id))
	assert.Equal(t, time.Hour, mr.TTL(keyPrefix+id))

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Count())

	mr.FastForward(2 * time.Hour)
	expired, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.True(t, expired.IsEmpty())
}

func TestRedisStore_EmptyCartIsDeleted(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()
	id := NewSessionID()

	c := &Cart{SessionID: id}
	require.NoError(t, c.SetQuantity(uuid.New(), 1, ""))
	require.NoError(t, store.Save(ctx, c))

	c.Items = nil
	require.NoError(t, store.Save(ctx, c))
	assert.False(t, mr.Exists(keyPrefix+id))
}

func TestRedisStore_RejectsBadSession(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	_, err := store.Load(ctx, "../../etc")
	assert.ErrorIs(t, err, ErrInvalidSession)
	assert.ErrorIs(t, store.Clear(ctx, ""), ErrInvalidSession)
}
