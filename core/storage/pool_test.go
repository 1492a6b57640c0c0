package storage_test

import (
	"context"
	"testing"
	"time"

	"drive-manager/core/storage"

	"github.com/stretchr/testify/assert"
)

type resolverFunc func(ctx context.Context, ownerID string) (*storage.Config, error)

func (f resolverFunc) Resolve(ctx context.Context, ownerID string) (*storage.Config, error) {
	return f(ctx, ownerID)
}

func TestPool_ClientFor(t *testing.T) {
	t.Run("ReusesClientWithinTTL", func(t *testing.T) {
		calls := 0
		pool := storage.NewPool(resolverFunc(func(ctx context.Context, ownerID string) (*storage.Config, error) {
			calls++
			return &storage.Config{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s", Bucket: "b"}, nil
		}), time.Minute)

		c1, bucket, err := pool.ClientFor(context.Background(), "u1")
		assert.NoError(t, err)
		assert.Equal(t, "b", bucket)

		c2, _, err := pool.ClientFor(context.Background(), "u1")
		assert.NoError(t, err)
		assert.Same(t, c1, c2)
		assert.Equal(t, 1, calls)
	})

	t.Run("MissingCredentials", func(t *testing.T) {
		pool := storage.NewPool(resolverFunc(func(ctx context.Context, ownerID string) (*storage.Config, error) {
			return nil, nil
		}), time.Minute)

		_, _, err := pool.ClientFor(context.Background(), "nobody")
		assert.ErrorIs(t, err, storage.ErrNoCredentials)
		assert.Equal(t, 0, pool.Len())
	})

	t.Run("EvictForcesRebuild", func(t *testing.T) {
		calls := 0
		pool := storage.NewPool(resolverFunc(func(ctx context.Context, ownerID string) (*storage.Config, error) {
			calls++
			return &storage.Config{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s", Bucket: "b"}, nil
		}), time.Minute)

		_, _, err := pool.ClientFor(context.Background(), "u1")
		assert.NoError(t, err)
		pool.Evict("u1")
		_, _, err = pool.ClientFor(context.Background(), "u1")
		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("OwnersAreIsolated", func(t *testing.T) {
		pool := storage.NewPool(resolverFunc(func(ctx context.Context, ownerID string) (*storage.Config, error) {
			return &storage.Config{Endpoint: "localhost:9000", AccessKey: ownerID, SecretKey: "s", Bucket: ownerID + "-bucket"}, nil
		}), time.Minute)

		_, b1, err := pool.ClientFor(context.Background(), "u1")
		assert.NoError(t, err)
		_, b2, err := pool.ClientFor(context.Background(), "u2")
		assert.NoError(t, err)
		assert.NotEqual(t, b1, b2)
		assert.Equal(t, 2, pool.Len())
	})
}
