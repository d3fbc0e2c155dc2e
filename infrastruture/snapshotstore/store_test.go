package snapshotstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/beka-birhanu/vinom-gather/snapshot"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store snapshot.Store) {
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, snapshot.ErrNotFound)

	require.NoError(t, store.Save(ctx, []byte("first")))
	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), data)

	require.NoError(t, store.Save(ctx, []byte("second")))
	data, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state", "game.snapshot")

	testStore(t, NewFile(path))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	key := "vinom-gather:test:" + t.Name()
	require.NoError(t, client.Del(context.Background(), key).Err())

	testStore(t, NewRedis(client, key))
}
