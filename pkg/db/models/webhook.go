package models

import (
	"database/sql"
	"time"
)

// Header is a static header sent with every delivery of a webhook.
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Webhook is a registered delivery target.
type Webhook struct {
	ID         int64            `db:"id"`
	Action     string           `db:"action"`
	URL        string           `db:"url"`
	Headers    JSONList[Header] `db:"headers"`
	HMACSecret string           `db:"hmac_secret"`
	Enabled    bool             `db:"enabled"`
	CreatedAt  time.Time        `db:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at"`
}

// WebhookLog is one delivery attempt. Rows are never updated.
type WebhookLog struct {
	ID         int64         `db:"id"`
	WebhookID  int64         `db:"webhook_id"`
	DeliveryID string        `db:"delivery_id"`
	Action     string        `db:"action"`
	Payload    string        `db:"payload"`
	Response   string        `db:"response"`
	StatusCode sql.NullInt64 `db:"status_code"`
	DurationMs int64         `db:"duration_ms"`
	CreatedAt  time.Time     `db:"created_at"`
}
