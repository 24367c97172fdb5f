package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseKV runs the behaviour every backend has to share.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, err := kv.Get(ctx, "order-storage")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, "order-storage", []byte(`{"items":[]}`)))
	got, err := kv.Get(ctx, "order-storage")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, string(got))

	// overwrite
	require.NoError(t, kv.Set(ctx, "order-storage", []byte(`{"items":[{"quantity":1}]}`)))
	got, err = kv.Get(ctx, "order-storage")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[{"quantity":1}]}`, string(got))

	require.NoError(t, kv.Delete(ctx, "order-storage"))
	_, err = kv.Get(ctx, "order-storage")
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting a missing key is not an error
	assert.NoError(t, kv.Delete(ctx, "nonexistent"))
}

func TestMemoryStore(t *testing.T) {
	exerciseKV(t, NewMemoryStore())
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	value := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
