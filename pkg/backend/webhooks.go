package backend

import (
	"context"
	"errors"
	"time"

	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/db/models"
	"github.com/taskmill/taskmill/pkg/proto"
	"github.com/taskmill/taskmill/pkg/webhook"
)

// DefaultWebhookLogsLimit is the number of log entries returned when no
// limit is given.
const DefaultWebhookLogsLimit = 20

// CreateWebhook validates and stores a new, enabled webhook.
func (d *Backend) CreateWebhook(ctx context.Context, def webhook.Definition) (webhook.Hook, error) {
	if err := def.Validate(); err != nil {
		return webhook.Hook{}, err
	}

	var m models.Webhook
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.CreateWebhook(ctx, tx, def.Action, def.URL, def.ModelHeaders(), def.Secret, true)
		return err
	}); err != nil {
		err = wrapError(err, proto.ErrWebhookNotFound)
		d.logger.Error("error creating webhook", "action", def.Action, "err", err)
		return webhook.Hook{}, err
	}

	d.invalidateWebhooks(ctx, m.Action)
	return webhook.NewHook(m)
}

// UpdateWebhook replaces the action, URL, headers, and secret of a webhook.
// Its enabled state is left alone.
func (d *Backend) UpdateWebhook(ctx context.Context, id int64, def webhook.Definition) (webhook.Hook, error) {
	if err := def.Validate(); err != nil {
		return webhook.Hook{}, err
	}

	var old, m models.Webhook
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		old, err = d.store.GetWebhookByID(ctx, tx, id)
		if err != nil {
			return err
		}

		m, err = d.store.UpdateWebhookByID(ctx, tx, id, def.Action, def.URL, def.ModelHeaders(), def.Secret)
		return err
	}); err != nil {
		return webhook.Hook{}, wrapError(err, proto.ErrWebhookNotFound)
	}

	d.invalidateWebhooks(ctx, old.Action, m.Action)
	return webhook.NewHook(m)
}

// DeleteWebhook deletes a webhook and its delivery log.
func (d *Backend) DeleteWebhook(ctx context.Context, id int64) error {
	var m models.Webhook
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.GetWebhookByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := d.store.DeleteWebhookLogsByWebhookID(ctx, tx, id); err != nil {
			return err
		}

		return d.store.DeleteWebhookByID(ctx, tx, id)
	}); err != nil {
		return wrapError(err, proto.ErrWebhookNotFound)
	}

	d.invalidateWebhooks(ctx, m.Action)
	return nil
}

// ToggleWebhook flips the enabled state of a webhook and returns the new
// state.
func (d *Backend) ToggleWebhook(ctx context.Context, id int64) (bool, error) {
	var m models.Webhook
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.GetWebhookByID(ctx, tx, id)
		if err != nil {
			return err
		}

		m.Enabled = !m.Enabled
		return d.store.SetWebhookEnabledByID(ctx, tx, id, m.Enabled)
	}); err != nil {
		return false, wrapError(err, proto.ErrWebhookNotFound)
	}

	d.invalidateWebhooks(ctx, m.Action)
	return m.Enabled, nil
}

// Webhook returns a webhook.
func (d *Backend) Webhook(ctx context.Context, id int64) (webhook.Hook, error) {
	var m models.Webhook
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.GetWebhookByID(ctx, tx, id)
		return err
	}); err != nil {
		return webhook.Hook{}, wrapError(err, proto.ErrWebhookNotFound)
	}

	return webhook.NewHook(m)
}

// ListWebhooks returns every webhook, newest first.
func (d *Backend) ListWebhooks(ctx context.Context) ([]webhook.Hook, error) {
	var ms []models.Webhook
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		ms, err = d.store.GetWebhooks(ctx, tx)
		return err
	}); err != nil {
		return nil, db.WrapError(err)
	}

	return d.toHooks(ms), nil
}

// WebhooksByAction returns the webhooks subscribed to action, enabled or
// not.
//
// It implements webhook.Registry.
func (d *Backend) WebhooksByAction(ctx context.Context, action webhook.Action) ([]webhook.Hook, error) {
	if cached, ok := d.cachedWebhooks(ctx, action.String()); ok {
		ms, err := d.withSecrets(ctx, cached)
		if err != nil {
			return nil, err
		}
		return d.toHooks(ms), nil
	}

	gen := d.webhooksGeneration()
	var ms []models.Webhook
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		ms, err = d.store.GetWebhooksByAction(ctx, tx, action.String())
		return err
	}); err != nil {
		return nil, db.WrapError(err)
	}

	d.cacheWebhooks(ctx, action.String(), gen, ms)
	return d.toHooks(ms), nil
}

// toHooks converts stored webhooks, skipping any with an unknown action.
func (d *Backend) toHooks(ms []models.Webhook) []webhook.Hook {
	hooks := make([]webhook.Hook, 0, len(ms))
	for _, m := range ms {
		h, err := webhook.NewHook(m)
		if err != nil {
			d.logger.Warn("skipping webhook", "webhook_id", m.ID, "err", err)
			continue
		}
		hooks = append(hooks, h)
	}
	return hooks
}

// AppendWebhookLog records a delivery. Entries are never modified once
// written.
//
// It implements webhook.Registry.
func (d *Backend) AppendWebhookLog(ctx context.Context, l webhook.Log) (webhook.Log, error) {
	m, err := d.store.CreateWebhookLog(ctx, d.db, l.Model())
	if err != nil {
		err = db.WrapError(err)
		if errors.Is(err, db.ErrForeignKey) {
			return webhook.Log{}, proto.ErrWebhookNotFound
		}
		return webhook.Log{}, err
	}

	return webhook.NewLog(m), nil
}

// LatestWebhookLogs returns the latest delivery log entries of a webhook,
// newest first. A limit of zero or less returns DefaultWebhookLogsLimit
// entries.
func (d *Backend) LatestWebhookLogs(ctx context.Context, webhookID int64, limit int) ([]webhook.Log, error) {
	if limit <= 0 {
		limit = DefaultWebhookLogsLimit
	}

	var ms []models.WebhookLog
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.store.GetWebhookByID(ctx, tx, webhookID); err != nil {
			return err
		}

		var err error
		ms, err = d.store.GetWebhookLogsByWebhookID(ctx, tx, webhookID, limit)
		return err
	}); err != nil {
		return nil, wrapError(err, proto.ErrWebhookNotFound)
	}

	logs := make([]webhook.Log, len(ms))
	for i, m := range ms {
		logs[i] = webhook.NewLog(m)
	}

	return logs, nil
}

// WebhookLog returns a single delivery log entry of a webhook.
func (d *Backend) WebhookLog(ctx context.Context, webhookID int64, id int64) (webhook.Log, error) {
	var m models.WebhookLog
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.GetWebhookLogByID(ctx, tx, webhookID, id)
		return err
	}); err != nil {
		return webhook.Log{}, wrapError(err, proto.ErrWebhookLogNotFound)
	}

	return webhook.NewLog(m), nil
}

// PruneWebhookLogs deletes the delivery log entries written before t and
// returns how many were removed.
func (d *Backend) PruneWebhookLogs(ctx context.Context, t time.Time) (int64, error) {
	var n int64
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		n, err = d.store.DeleteWebhookLogsBefore(ctx, tx, t)
		return err
	}); err != nil {
		return 0, db.WrapError(err)
	}

	return n, nil
}

// TestWebhook sends a synthetic payload to a webhook, enabled or not, and
// reports what came back. Unlike a real delivery, a test writes nothing to
// the delivery log.
func (d *Backend) TestWebhook(ctx context.Context, id int64) (webhook.TestResult, error) {
	h, err := d.Webhook(ctx, id)
	if err != nil {
		return webhook.TestResult{}, err
	}

	return d.dispatcher.Sender().Test(ctx, h, d.cfg.Webhook.TestTimeout), nil
}
