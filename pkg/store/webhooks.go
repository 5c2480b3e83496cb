package store

import (
	"context"
	"time"

	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/db/models"
)

// WebhookStore is an interface for managing webhooks.
type WebhookStore interface {
	// GetWebhookByID returns a webhook by its ID.
	GetWebhookByID(ctx context.Context, h db.Handler, id int64) (models.Webhook, error)
	// GetWebhooks returns all webhooks, newest first.
	GetWebhooks(ctx context.Context, h db.Handler) ([]models.Webhook, error)
	// GetWebhooksByAction returns enabled and disabled webhooks subscribed to an action.
	GetWebhooksByAction(ctx context.Context, h db.Handler, action string) ([]models.Webhook, error)
	// GetWebhookSecretsByIDs returns the signing secrets of the given
	// webhooks that have one, keyed by webhook ID.
	GetWebhookSecretsByIDs(ctx context.Context, h db.Handler, ids []int64) (map[int64]string, error)
	// CreateWebhook creates a webhook.
	CreateWebhook(ctx context.Context, h db.Handler, action string, url string, headers []models.Header, secret string, enabled bool) (models.Webhook, error)
	// UpdateWebhookByID replaces the definition of a webhook. The enabled flag is left untouched.
	UpdateWebhookByID(ctx context.Context, h db.Handler, id int64, action string, url string, headers []models.Header, secret string) (models.Webhook, error)
	// SetWebhookEnabledByID sets the enabled flag of a webhook.
	SetWebhookEnabledByID(ctx context.Context, h db.Handler, id int64, enabled bool) error
	// DeleteWebhookByID deletes a webhook by its ID.
	DeleteWebhookByID(ctx context.Context, h db.Handler, id int64) error
}

// WebhookLogStore is an append-only store of delivery attempts.
type WebhookLogStore interface {
	// CreateWebhookLog appends a delivery attempt.
	CreateWebhookLog(ctx context.Context, h db.Handler, log models.WebhookLog) (models.WebhookLog, error)
	// GetWebhookLogByID returns a single delivery attempt of a webhook.
	GetWebhookLogByID(ctx context.Context, h db.Handler, webhookID int64, id int64) (models.WebhookLog, error)
	// GetWebhookLogsByWebhookID returns the latest delivery attempts of a webhook, newest first.
	GetWebhookLogsByWebhookID(ctx context.Context, h db.Handler, webhookID int64, limit int) ([]models.WebhookLog, error)
	// DeleteWebhookLogsByWebhookID deletes every delivery attempt of a webhook.
	DeleteWebhookLogsByWebhookID(ctx context.Context, h db.Handler, webhookID int64) error
	// DeleteWebhookLogsBefore deletes delivery attempts created before t and
	// returns how many were removed.
	DeleteWebhookLogsBefore(ctx context.Context, h db.Handler, t time.Time) (int64, error)
}
