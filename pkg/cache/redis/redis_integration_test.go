//go:build integration

package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/taskmill/taskmill/pkg/cache"
	"github.com/taskmill/taskmill/pkg/config"
	testcontainersredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupRedis(t *testing.T, ctx context.Context) string {
	t.Helper()
	is := is.New(t)

	container, err := testcontainersredis.Run(ctx, "redis:7-alpine")
	is.NoErr(err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	})

	addr, err := container.ConnectionString(ctx)
	is.NoErr(err)
	return strings.TrimPrefix(addr, "redis://")
}

func TestRedisCache(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	addr := setupRedis(t, ctx)

	c, err := cache.New(ctx, "redis",
		WithConfig(config.RedisConfig{Addr: addr}),
		WithPrefix("taskmill:"),
	)
	is.NoErr(err)
	t.Cleanup(func() { _ = c.(*Cache).Close() })

	c.Set(ctx, "webhooks:task.create", `[{"id":1}]`)
	is.True(c.Contains(ctx, "webhooks:task.create"))

	v, ok := c.Get(ctx, "webhooks:task.create")
	is.True(ok)
	is.Equal(v, `[{"id":1}]`)
	is.Equal(c.Keys(ctx), []string{"webhooks:task.create"})
	is.Equal(c.Len(ctx), int64(1))

	c.Delete(ctx, "webhooks:task.create")
	_, ok = c.Get(ctx, "webhooks:task.create")
	is.True(!ok)

	c.Set(ctx, "short", "lived", cache.WithTTL(100*time.Millisecond))
	time.Sleep(300 * time.Millisecond)
	is.True(!c.Contains(ctx, "short"))
}

func TestRedisCacheUnreachable(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewCache(ctx, WithConfig(config.RedisConfig{Addr: "127.0.0.1:1"}))
	is.True(err != nil)
}
