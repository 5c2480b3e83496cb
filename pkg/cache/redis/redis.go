// Package redis is a cache backend shared by every taskmill replica.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/taskmill/taskmill/pkg/cache"
	"github.com/taskmill/taskmill/pkg/config"
)

func init() {
	cache.Register("redis", NewCache)
}

// Cache is a Redis cache. Values are stored as strings.
type Cache struct {
	client *redis.Client
	cfg    config.RedisConfig
	ttl    time.Duration
	prefix string
}

var _ cache.Cache = (*Cache)(nil)

// WithConfig overrides the Redis configuration taken from the context.
func WithConfig(cfg config.RedisConfig) cache.Option {
	return func(c cache.Cache) {
		c.(*Cache).cfg = cfg
	}
}

// WithTTL sets the default expiry of items set without cache.WithTTL.
func WithTTL(ttl time.Duration) cache.Option {
	return func(c cache.Cache) {
		c.(*Cache).ttl = ttl
	}
}

// WithPrefix namespaces every key.
func WithPrefix(prefix string) cache.Option {
	return func(c cache.Cache) {
		c.(*Cache).prefix = prefix
	}
}

// NewCache returns a new Redis cache. The connection is checked with a PING.
func NewCache(ctx context.Context, opts ...cache.Option) (cache.Cache, error) {
	c := &Cache{}
	if cfg := config.FromContext(ctx); cfg != nil {
		c.cfg = cfg.Cache.Redis
	} else {
		c.cfg = config.DefaultConfig().Cache.Redis
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client = redis.NewClient(&redis.Options{
		Addr:     c.cfg.Addr,
		Username: c.cfg.Username,
		Password: c.cfg.Password,
		DB:       c.cfg.DB,
	})

	if err := c.client.Ping(ctx).Err(); err != nil {
		_ = c.client.Close()
		return nil, err
	}

	return c, nil
}

// Close closes the Redis client.
func (r *Cache) Close() error {
	return r.client.Close()
}

func (r *Cache) key(k string) string {
	return r.prefix + k
}

// Contains implements cache.Cache.
func (r *Cache) Contains(ctx context.Context, key string) bool {
	return r.client.Exists(ctx, r.key(key)).Val() == 1
}

// Delete implements cache.Cache.
func (r *Cache) Delete(ctx context.Context, key string) {
	r.client.Del(ctx, r.key(key))
}

// Get implements cache.Cache.
func (r *Cache) Get(ctx context.Context, key string) (value any, ok bool) {
	val := r.client.Get(ctx, r.key(key))
	if val.Err() != nil {
		return nil, false
	}

	return val.Val(), true
}

// Keys implements cache.Cache.
func (r *Cache) Keys(ctx context.Context) []string {
	keys := r.client.Keys(ctx, r.prefix+"*").Val()
	for i, k := range keys {
		keys[i] = k[len(r.prefix):]
	}
	return keys
}

// Len implements cache.Cache.
func (r *Cache) Len(ctx context.Context) int64 {
	if r.prefix == "" {
		return r.client.DBSize(ctx).Val()
	}
	return int64(len(r.client.Keys(ctx, r.prefix+"*").Val()))
}

// Set implements cache.Cache.
func (r *Cache) Set(ctx context.Context, key string, val any, opts ...cache.ItemOption) {
	item := cache.ApplyItemOptions(opts...)
	ttl := item.TTL
	if ttl == 0 {
		ttl = r.ttl
	}
	r.client.Set(ctx, r.key(key), val, ttl)
}
