package session

import (
	"context"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_SetGetDelete(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	store := NewRedisStore(client, "test")

	ctx := context.Background()

	_, ok, err := store.Get(ctx, KeyUser)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, KeyUser, `{"id":"u1"}`))
	require.NoError(t, store.Set(ctx, KeyToken, "tok"))

	// entries land under the namespace prefix
	require.True(t, m.Exists("test:user"))
	require.True(t, m.Exists("test:token"))

	v, ok, err := store.Get(ctx, KeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"id":"u1"}`, v)

	require.NoError(t, store.Delete(ctx, KeyUser, KeyToken))
	_, ok, err = store.Get(ctx, KeyToken)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisStore_ManagerContract(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	store := NewRedisStore(client, "test")

	// malformed persisted user degrades to signed-out, same as the file store
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, KeyUser, "{{{nope"))
	require.NoError(t, store.Set(ctx, KeyToken, "tok"))

	_, _, ok := NewManager(store).Load(ctx)
	require.False(t, ok)
}
