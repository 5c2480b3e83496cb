package database

import (
	"context"
	"time"

	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/db/models"
	"github.com/taskmill/taskmill/pkg/store"
)

type webhookLogStore struct{}

var _ store.WebhookLogStore = (*webhookLogStore)(nil)

// CreateWebhookLog implements store.WebhookLogStore.
func (s *webhookLogStore) CreateWebhookLog(ctx context.Context, h db.Handler, l models.WebhookLog) (models.WebhookLog, error) {
	query := h.Rebind(`
		INSERT INTO
		  webhook_logs (webhook_id, delivery_id, action, payload, response, status_code, duration_ms)
		VALUES
		  (?, ?, ?, ?, ?, ?, ?) RETURNING id;
	`)

	var id int64
	if err := h.GetContext(ctx, &id, query,
		l.WebhookID, l.DeliveryID, l.Action, l.Payload, l.Response, l.StatusCode, l.DurationMs,
	); err != nil {
		return models.WebhookLog{}, err
	}

	return s.GetWebhookLogByID(ctx, h, l.WebhookID, id)
}

// GetWebhookLogByID implements store.WebhookLogStore.
func (*webhookLogStore) GetWebhookLogByID(ctx context.Context, h db.Handler, webhookID int64, id int64) (models.WebhookLog, error) {
	var m models.WebhookLog
	query := h.Rebind(`
		SELECT
		  *
		FROM
		  webhook_logs
		WHERE
		  webhook_id = ?
		  AND id = ?
	`)
	err := h.GetContext(ctx, &m, query, webhookID, id)
	return m, err
}

// GetWebhookLogsByWebhookID implements store.WebhookLogStore.
func (*webhookLogStore) GetWebhookLogsByWebhookID(ctx context.Context, h db.Handler, webhookID int64, limit int) ([]models.WebhookLog, error) {
	var m []models.WebhookLog
	query := h.Rebind(`
		SELECT
		  *
		FROM
		  webhook_logs
		WHERE
		  webhook_id = ?
		ORDER BY
		  created_at DESC,
		  id DESC
		LIMIT ?
	`)
	err := h.SelectContext(ctx, &m, query, webhookID, limit)
	return m, err
}

// DeleteWebhookLogsByWebhookID implements store.WebhookLogStore.
func (*webhookLogStore) DeleteWebhookLogsByWebhookID(ctx context.Context, h db.Handler, webhookID int64) error {
	query := h.Rebind(`
		DELETE FROM webhook_logs
		WHERE
		  webhook_id = ?
	`)
	_, err := h.ExecContext(ctx, query, webhookID)
	return err
}

// DeleteWebhookLogsBefore implements store.WebhookLogStore.
func (*webhookLogStore) DeleteWebhookLogsBefore(ctx context.Context, h db.Handler, t time.Time) (int64, error) {
	query := h.Rebind(`
		DELETE FROM webhook_logs
		WHERE
		  created_at < ?
	`)
	res, err := h.ExecContext(ctx, query, t.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
