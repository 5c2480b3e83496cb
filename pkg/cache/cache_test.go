package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"
)

type mapCache map[string]any

func (m mapCache) Get(_ context.Context, key string) (any, bool) { v, ok := m[key]; return v, ok }
func (m mapCache) Set(_ context.Context, key string, val any, _ ...ItemOption) {
	m[key] = val
}
func (m mapCache) Keys(context.Context) []string             { return nil }
func (m mapCache) Len(context.Context) int64                 { return int64(len(m)) }
func (m mapCache) Contains(_ context.Context, k string) bool { _, ok := m[k]; return ok }
func (m mapCache) Delete(_ context.Context, k string)        { delete(m, k) }

func TestRegistry(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()

	_, err := New(ctx, "missing")
	is.True(errors.Is(err, ErrCacheNotFound))

	Register("map", func(context.Context, ...Option) (Cache, error) {
		return mapCache{}, nil
	})
	c, err := New(ctx, "map")
	is.NoErr(err)
	c.Set(ctx, "k", "v")
	is.True(c.Contains(ctx, "k"))
	is.Equal(Registered(), []string{"map"})
}

func TestContext(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	is.Equal(FromContext(ctx), nil)
	is.Equal(WithContext(ctx, nil), ctx)

	c := mapCache{}
	ctx = WithContext(ctx, c)
	is.True(FromContext(ctx) != nil)
}

func TestItemOptions(t *testing.T) {
	is := is.New(t)
	is.Equal(ApplyItemOptions().TTL, time.Duration(0))
	is.Equal(ApplyItemOptions(WithTTL(time.Second)).TTL, time.Second)
}
