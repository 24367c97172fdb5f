package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisStore on top of it
func setupTestRedis(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	store := NewRedisStore(client, "terminal-1", ttl)
	t.Cleanup(func() { store.Close() })

	return store, mr
}

func TestRedisStore(t *testing.T) {
	store, _ := setupTestRedis(t, 0)
	exerciseKV(t, store)
}

func TestRedisStore_KeyFormat(t *testing.T) {
	store, mr := setupTestRedis(t, 0)

	require.NoError(t, store.Set(context.Background(), "order-storage", []byte("{}")))
	assert.True(t, mr.Exists("pos:terminal-1:order-storage"))
	assert.Equal(t, "pos:terminal-1:order-storage", store.storageKey("order-storage"))
}

func TestRedisStore_NoTTLByDefault(t *testing.T) {
	store, mr := setupTestRedis(t, 0)

	require.NoError(t, store.Set(context.Background(), "order-storage", []byte("{}")))
	assert.Equal(t, time.Duration(0), mr.TTL("pos:terminal-1:order-storage"))
}

func TestRedisStore_WithTTL(t *testing.T) {
	store, mr := setupTestRedis(t, time.Hour)

	require.NoError(t, store.Set(context.Background(), "order-storage", []byte("{}")))
	assert.Equal(t, time.Hour, mr.TTL("pos:terminal-1:order-storage"))
}

func TestRedisStore_ServerDown(t *testing.T) {
	store, mr := setupTestRedis(t, 0)
	mr.Close()

	_, err := store.Get(context.Background(), "order-storage")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, "redis get failed")
}
