// Package cache provides the pluggable cache used to keep webhook
// subscriptions close to the dispatcher.
package cache

import (
	"context"
	"time"
)

// ItemOption is an option for setting cache items.
type ItemOption func(*Item)

// Item holds per-item settings applied by ItemOptions.
type Item struct {
	TTL time.Duration
}

// WithTTL sets the TTL for a cache item. Backends without per-item expiry
// ignore it.
func WithTTL(ttl time.Duration) ItemOption {
	return func(i *Item) {
		i.TTL = ttl
	}
}

// ApplyItemOptions returns the Item described by opts.
func ApplyItemOptions(opts ...ItemOption) Item {
	var i Item
	for _, o := range opts {
		o(&i)
	}
	return i
}

// Option is an option for creating new cache.
type Option func(Cache)

// Cache is a caching interface.
type Cache interface {
	Get(ctx context.Context, key string) (value any, ok bool)
	Set(ctx context.Context, key string, val any, opts ...ItemOption)
	Keys(ctx context.Context) []string
	Len(ctx context.Context) int64
	Contains(ctx context.Context, key string) bool
	Delete(ctx context.Context, key string)
}
