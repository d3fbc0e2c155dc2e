package snapshotstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-gather/snapshot"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// Redis keeps the latest snapshot under a single key.
// Implements snapshot.Store.
type Redis struct {
	client *redis.Client
	locker *redsync.Redsync
	key    string
}

// NewRedis initializes a Redis store with the provided client and key.
func NewRedis(client *redis.Client, key string) *Redis {
	pool := goredis.NewPool(client)
	return &Redis{
		client: client,
		locker: redsync.New(pool),
		key:    key,
	}
}

// Save replaces the stored snapshot. Writers on other servers sharing the
// key are excluded by a distributed lock.
func (r *Redis) Save(ctx context.Context, data []byte) error {
	mutex := r.locker.NewMutex(r.key + ":save_lock")
	if err := mutex.LockContext(ctx); err != nil {
		return fmt.Errorf("locking %s: %w", r.key, err)
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("writing %s: %w", r.key, err)
	}
	return nil
}

// Load returns the stored snapshot or snapshot.ErrNotFound.
func (r *Redis) Load(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, snapshot.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", r.key, err)
	}
	return data, nil
}
