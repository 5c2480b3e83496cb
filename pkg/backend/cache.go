package backend

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/taskmill/taskmill/pkg/cache"
	"github.com/taskmill/taskmill/pkg/cache/lru"
	"github.com/taskmill/taskmill/pkg/cache/noop"
	"github.com/taskmill/taskmill/pkg/cache/redis"
	"github.com/taskmill/taskmill/pkg/config"
	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/db/models"
	"github.com/taskmill/taskmill/pkg/webhook"
)

// newCache returns the configured subscription cache. A backend that cannot
// be reached is replaced by the noop cache so webhooks still work, uncached.
func newCache(ctx context.Context, cfg *config.Config, logger *log.Logger) cache.Cache {
	var opts []cache.Option
	switch cfg.Cache.Backend {
	case "lru":
		opts = append(opts, lru.WithSize(cfg.Cache.Size), lru.WithTTL(cfg.Cache.TTL))
	case "redis":
		opts = append(opts, redis.WithTTL(cfg.Cache.TTL), redis.WithPrefix("taskmill:"))
	}

	c, err := cache.New(ctx, cfg.Cache.Backend, opts...)
	if err != nil {
		logger.Error("failed to create cache, caching disabled", "backend", cfg.Cache.Backend, "err", err)
		c, _ = noop.NewCache(ctx)
	}

	return c
}

func webhooksCacheKey(action string) string {
	return "webhooks:" + action
}

// cachedWebhook is the cached form of a webhook. Secrets stay in the
// database so they never reach a shared cache backend.
type cachedWebhook struct {
	ID        int64           `json:"id"`
	Action    string          `json:"action"`
	URL       string          `json:"url"`
	Headers   []models.Header `json:"headers"`
	Enabled   bool            `json:"enabled"`
	HasSecret bool            `json:"has_secret"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// cachedWebhooks returns the cached webhooks of action, without their
// secrets.
func (d *Backend) cachedWebhooks(ctx context.Context, action string) ([]cachedWebhook, bool) {
	v, ok := d.cache.Get(ctx, webhooksCacheKey(action))
	if !ok {
		return nil, false
	}
	s, ok := v.(string)
	if !ok {
		return nil, false
	}

	var hooks []cachedWebhook
	if err := json.Unmarshal([]byte(s), &hooks); err != nil {
		d.logger.Warn("dropping unreadable cache entry", "action", action, "err", err)
		d.cache.Delete(ctx, webhooksCacheKey(action))
		return nil, false
	}

	return hooks, true
}

// webhooksGeneration returns the current cache generation. A lookup must read
// it before querying the database and pass it to cacheWebhooks.
func (d *Backend) webhooksGeneration() uint64 {
	d.webhooksMu.Lock()
	defer d.webhooksMu.Unlock()
	return d.webhooksGen
}

// cacheWebhooks stores the webhooks of action read at generation gen. The
// entry is discarded when a write invalidated the cache since then, so a
// lookup racing a toggle cannot bring back the old state.
func (d *Backend) cacheWebhooks(ctx context.Context, action string, gen uint64, ms []models.Webhook) {
	hooks := make([]cachedWebhook, len(ms))
	for i, m := range ms {
		hooks[i] = cachedWebhook{
			ID:        m.ID,
			Action:    m.Action,
			URL:       m.URL,
			Headers:   m.Headers,
			Enabled:   m.Enabled,
			HasSecret: m.HMACSecret != "",
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		}
	}
	bts, err := json.Marshal(hooks)
	if err != nil {
		return
	}

	d.webhooksMu.Lock()
	defer d.webhooksMu.Unlock()
	if gen != d.webhooksGen {
		return
	}
	d.cache.Set(ctx, webhooksCacheKey(action), string(bts))
}

// invalidateWebhooks drops the cached webhooks of the given actions. It must
// be called after the write has committed.
func (d *Backend) invalidateWebhooks(ctx context.Context, actions ...string) {
	d.webhooksMu.Lock()
	defer d.webhooksMu.Unlock()
	d.webhooksGen++
	for _, a := range actions {
		d.cache.Delete(ctx, webhooksCacheKey(a))
	}
}

// withSecrets turns cached webhooks back into models, loading the secrets of
// those that have one.
func (d *Backend) withSecrets(ctx context.Context, hooks []cachedWebhook) ([]models.Webhook, error) {
	var ids []int64
	for _, h := range hooks {
		if h.HasSecret {
			ids = append(ids, h.ID)
		}
	}

	var secrets map[int64]string
	if len(ids) > 0 {
		if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
			var err error
			secrets, err = d.store.GetWebhookSecretsByIDs(ctx, tx, ids)
			return err
		}); err != nil {
			return nil, db.WrapError(err)
		}
	}

	ms := make([]models.Webhook, 0, len(hooks))
	for _, h := range hooks {
		secret, ok := secrets[h.ID]
		if h.HasSecret && !ok {
			// Deleted or stripped of its secret since it was cached.
			continue
		}
		ms = append(ms, models.Webhook{
			ID:         h.ID,
			Action:     h.Action,
			URL:        h.URL,
			Headers:    h.Headers,
			HMACSecret: secret,
			Enabled:    h.Enabled,
			CreatedAt:  h.CreatedAt,
			UpdatedAt:  h.UpdatedAt,
		})
	}
	return ms, nil
}

var _ webhook.Registry = (*Backend)(nil)
