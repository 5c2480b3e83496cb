package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/db/models"
	"github.com/taskmill/taskmill/pkg/store"
)

type webhookStore struct{}

var _ store.WebhookStore = (*webhookStore)(nil)

// CreateWebhook implements store.WebhookStore.
func (s *webhookStore) CreateWebhook(ctx context.Context, h db.Handler, action string, url string, headers []models.Header, secret string, enabled bool) (models.Webhook, error) {
	query := h.Rebind(`
		INSERT INTO
		  webhooks (action, url, headers, hmac_secret, enabled, updated_at)
		VALUES
		  (?, ?, ?, ?, ?, CURRENT_TIMESTAMP) RETURNING id;
	`)

	var id int64
	if err := h.GetContext(ctx, &id, query, action, url, models.JSONList[models.Header](headers), secret, enabled); err != nil {
		return models.Webhook{}, err
	}

	return s.GetWebhookByID(ctx, h, id)
}

// DeleteWebhookByID implements store.WebhookStore.
func (*webhookStore) DeleteWebhookByID(ctx context.Context, h db.Handler, id int64) error {
	query := h.Rebind(`
		DELETE FROM webhooks
		WHERE
		  id = ?
	`)
	_, err := h.ExecContext(ctx, query, id)
	return err
}

// GetWebhookByID implements store.WebhookStore.
func (*webhookStore) GetWebhookByID(ctx context.Context, h db.Handler, id int64) (models.Webhook, error) {
	var m models.Webhook
	query := h.Rebind(`
		SELECT
		  *
		FROM
		  webhooks
		WHERE
		  id = ?
	`)
	err := h.GetContext(ctx, &m, query, id)
	return m, err
}

// GetWebhooks implements store.WebhookStore.
func (*webhookStore) GetWebhooks(ctx context.Context, h db.Handler) ([]models.Webhook, error) {
	var m []models.Webhook
	query := `
		SELECT
		  *
		FROM
		  webhooks
		ORDER BY
		  created_at DESC,
		  id DESC
	`
	err := h.SelectContext(ctx, &m, query)
	return m, err
}

// GetWebhooksByAction implements store.WebhookStore.
func (*webhookStore) GetWebhooksByAction(ctx context.Context, h db.Handler, action string) ([]models.Webhook, error) {
	var m []models.Webhook
	query := h.Rebind(`
		SELECT
		  *
		FROM
		  webhooks
		WHERE
		  action = ?
		ORDER BY
		  id ASC
	`)
	err := h.SelectContext(ctx, &m, query, action)
	return m, err
}

// GetWebhookSecretsByIDs implements store.WebhookStore.
func (*webhookStore) GetWebhookSecretsByIDs(ctx context.Context, h db.Handler, ids []int64) (map[int64]string, error) {
	secrets := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return secrets, nil
	}

	query, args, err := sqlx.In(`
		SELECT
		  id, hmac_secret
		FROM
		  webhooks
		WHERE
		  id IN (?) AND hmac_secret <> ''
	`, ids)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ID     int64  `db:"id"`
		Secret string `db:"hmac_secret"`
	}
	if err := h.SelectContext(ctx, &rows, h.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, r := range rows {
		secrets[r.ID] = r.Secret
	}
	return secrets, nil
}

// UpdateWebhookByID implements store.WebhookStore.
func (s *webhookStore) UpdateWebhookByID(ctx context.Context, h db.Handler, id int64, action string, url string, headers []models.Header, secret string) (models.Webhook, error) {
	query := h.Rebind(`
		UPDATE
		  webhooks
		SET
		  action = ?,
		  url = ?,
		  headers = ?,
		  hmac_secret = ?,
		  updated_at = CURRENT_TIMESTAMP
		WHERE
		  id = ?
	`)
	if _, err := h.ExecContext(ctx, query, action, url, models.JSONList[models.Header](headers), secret, id); err != nil {
		return models.Webhook{}, err
	}

	return s.GetWebhookByID(ctx, h, id)
}

// SetWebhookEnabledByID implements store.WebhookStore.
func (*webhookStore) SetWebhookEnabledByID(ctx context.Context, h db.Handler, id int64, enabled bool) error {
	query := h.Rebind(`
		UPDATE
		  webhooks
		SET
		  enabled = ?,
		  updated_at = CURRENT_TIMESTAMP
		WHERE
		  id = ?
	`)
	_, err := h.ExecContext(ctx, query, enabled, id)
	return err
}
