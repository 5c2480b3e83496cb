// Package lru is an in-memory cache backend.
package lru

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/taskmill/taskmill/pkg/cache"
)

func init() {
	cache.Register("lru", newCache)
}

// store is the subset of the golang-lru caches used here.
type store interface {
	Add(key string, value any) bool
	Get(key string) (any, bool)
	Contains(key string) bool
	Remove(key string) bool
	Keys() []string
	Len() int
}

// Cache is a memory cache that uses a LRU cache policy.
type Cache struct {
	cache   store
	onEvict func(key string, value any)
	size    int
	ttl     time.Duration
}

var _ cache.Cache = (*Cache)(nil)

// WithSize sets the cache size.
func WithSize(s int) cache.Option {
	return func(c cache.Cache) {
		ca := c.(*Cache)
		ca.size = s
	}
}

// WithTTL expires every entry ttl after it was set. Zero disables expiry.
func WithTTL(ttl time.Duration) cache.Option {
	return func(c cache.Cache) {
		ca := c.(*Cache)
		ca.ttl = ttl
	}
}

// WithEvictCallback sets the eviction callback.
func WithEvictCallback(cb func(key string, value any)) cache.Option {
	return func(c cache.Cache) {
		ca := c.(*Cache)
		ca.onEvict = cb
	}
}

// New returns a new Cache.
func New(opts ...cache.Option) (*Cache, error) {
	c := &Cache{}
	for _, opt := range opts {
		opt(c)
	}

	if c.size <= 0 {
		c.size = 1
	}

	if c.ttl > 0 {
		c.cache = expirable.NewLRU[string, any](c.size, c.onEvict, c.ttl)
		return c, nil
	}

	var err error
	c.cache, err = lru.NewWithEvict[string, any](c.size, c.onEvict)
	if err != nil {
		return nil, err
	}

	return c, nil
}

func newCache(_ context.Context, opts ...cache.Option) (cache.Cache, error) {
	return New(opts...)
}

// Delete implements cache.Cache.
func (c *Cache) Delete(_ context.Context, key string) {
	c.cache.Remove(key)
}

// Get implements cache.Cache.
func (c *Cache) Get(_ context.Context, key string) (value any, ok bool) {
	value, ok = c.cache.Get(key)
	return
}

// Keys implements cache.Cache.
func (c *Cache) Keys(_ context.Context) []string {
	return c.cache.Keys()
}

// Set implements cache.Cache.
func (c *Cache) Set(_ context.Context, key string, val any, _ ...cache.ItemOption) {
	c.cache.Add(key, val)
}

// Len implements cache.Cache.
func (c *Cache) Len(_ context.Context) int64 {
	return int64(c.cache.Len())
}

// Contains implements cache.Cache.
func (c *Cache) Contains(_ context.Context, key string) bool {
	return c.cache.Contains(key)
}
