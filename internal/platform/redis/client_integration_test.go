//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etatcivil/internal/platform/config"
	"etatcivil/internal/platform/redis"
	"etatcivil/pkg/testutil/containers"
)

func TestNew(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	t.Run("empty url disables redis", func(t *testing.T) {
		client, err := redis.New(ctx, config.Redis{})
		require.NoError(t, err)
		assert.Nil(t, client)
	})

	t.Run("connects and reports health", func(t *testing.T) {
		rc := containers.GetManager().GetRedis(t)
		client, err := redis.New(ctx, config.Redis{
			URL:         rc.Addr,
			PoolSize:    4,
			DialTimeout: 2 * time.Second,
		})
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		assert.NoError(t, client.Health(ctx))
		assert.Equal(t, 4, client.Options().PoolSize)
	})

	t.Run("malformed url", func(t *testing.T) {
		_, err := redis.New(ctx, config.Redis{URL: "://nope"})
		assert.ErrorContains(t, err, "parse redis URL")
	})
}
