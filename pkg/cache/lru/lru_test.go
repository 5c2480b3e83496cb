package lru

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/taskmill/taskmill/pkg/cache"
)

func TestCache(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()

	var evicted []string
	c, err := cache.New(ctx, "lru", WithSize(2), WithEvictCallback(func(key string, _ any) {
		evicted = append(evicted, key)
	}))
	is.NoErr(err)

	c.Set(ctx, "a", "1")
	c.Set(ctx, "b", "2")
	c.Set(ctx, "c", "3")
	is.Equal(c.Len(ctx), int64(2))
	is.Equal(evicted, []string{"a"})
	is.True(!c.Contains(ctx, "a"))

	v, ok := c.Get(ctx, "b")
	is.True(ok)
	is.Equal(v, "2")

	c.Delete(ctx, "b")
	is.Equal(c.Keys(ctx), []string{"c"})
}

func TestCacheTTL(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()

	c, err := New(WithSize(8), WithTTL(20*time.Millisecond))
	is.NoErr(err)

	c.Set(ctx, "k", "v")
	is.True(c.Contains(ctx, "k"))
	time.Sleep(60 * time.Millisecond)
	_, ok := c.Get(ctx, "k")
	is.True(!ok)
}

func TestCacheDefaultSize(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()

	c, err := New()
	is.NoErr(err)
	c.Set(ctx, "a", 1)
	c.Set(ctx, "b", 2)
	is.Equal(c.Len(ctx), int64(1))
}
