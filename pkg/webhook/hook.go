package webhook

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/taskmill/taskmill/pkg/db/models"
	"github.com/taskmill/taskmill/pkg/proto"
)

// Header is a static header sent with every delivery of a webhook.
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Hook is a webhook. Hooks are values: the dispatcher works on a copy taken
// when an event is dispatched.
type Hook struct {
	ID        int64
	Action    Action
	URL       string
	Headers   []Header
	Secret    string
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type hookJSON struct {
	ID        int64     `json:"id"`
	Action    Action    `json:"action"`
	URL       string    `json:"url"`
	Headers   []Header  `json:"headers"`
	HasSecret bool      `json:"has_secret"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MarshalJSON implements json.Marshaler. The secret itself is never
// serialized.
func (h Hook) MarshalJSON() ([]byte, error) {
	headers := h.Headers
	if headers == nil {
		headers = []Header{}
	}
	return json.Marshal(hookJSON{
		ID:        h.ID,
		Action:    h.Action,
		URL:       h.URL,
		Headers:   headers,
		HasSecret: h.Secret != "",
		Enabled:   h.Enabled,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	})
}

// NewHook converts a stored webhook into a Hook.
func NewHook(m models.Webhook) (Hook, error) {
	action, err := ParseAction(m.Action)
	if err != nil {
		return Hook{}, fmt.Errorf("webhook %d: %w: %q", m.ID, err, m.Action)
	}

	var headers []Header
	if len(m.Headers) > 0 {
		headers = make([]Header, len(m.Headers))
		for i, h := range m.Headers {
			headers[i] = Header{Key: h.Key, Value: h.Value}
		}
	}

	return Hook{
		ID:        m.ID,
		Action:    action,
		URL:       m.URL,
		Headers:   headers,
		Secret:    m.HMACSecret,
		Enabled:   m.Enabled,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// Definition is the operator supplied part of a webhook, as accepted by
// create and update.
type Definition struct {
	Action  string   `json:"action" yaml:"action"`
	URL     string   `json:"url" yaml:"url"`
	Headers []Header `json:"headers" yaml:"headers"`
	Secret  string   `json:"hmac_secret" yaml:"hmac_secret"`
}

// Validate checks d and returns a *proto.ValidationError listing every
// offending field.
func (d Definition) Validate() error {
	verr := proto.NewValidationError()

	if d.Action == "" {
		verr.Add("action", "is required")
	} else if !IsValidAction(d.Action) {
		verr.Add("action", "is not a supported action")
	}

	if d.URL == "" {
		verr.Add("url", "is required")
	} else if err := ValidateURL(d.URL); err != nil {
		verr.Add("url", err.Error())
	}

	for i, h := range d.Headers {
		if h.Key == "" {
			verr.Add("headers."+strconv.Itoa(i)+".key", "is required")
		}
	}

	return verr.Err()
}

// ModelHeaders returns the headers of d in their stored form.
func (d Definition) ModelHeaders() []models.Header {
	if len(d.Headers) == 0 {
		return nil
	}
	headers := make([]models.Header, len(d.Headers))
	for i, h := range d.Headers {
		headers[i] = models.Header{Key: h.Key, Value: h.Value}
	}
	return headers
}

// Event is something that happened to an entity. The payload is serialized
// once, when the event is created, so later changes to the entity do not
// leak into deliveries.
type Event struct {
	Action     Action
	Payload    json.RawMessage
	OccurredAt time.Time
}

// NewEvent serializes v into a new event.
func NewEvent(action Action, v any) (Event, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return Event{}, fmt.Errorf("serializing %s payload: %w", action, err)
	}

	return Event{
		Action:     action,
		Payload:    payload,
		OccurredAt: time.Now(),
	}, nil
}

// Log is a delivery log entry: the outcome of one delivery attempt.
type Log struct {
	ID         int64     `json:"id"`
	WebhookID  int64     `json:"webhook_id"`
	DeliveryID string    `json:"delivery_id"`
	Action     string    `json:"action"`
	Payload    string    `json:"payload"`
	Response   string    `json:"response"`
	StatusCode *int      `json:"status_code"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewLog converts a stored delivery log entry into a Log.
func NewLog(m models.WebhookLog) Log {
	l := Log{
		ID:         m.ID,
		WebhookID:  m.WebhookID,
		DeliveryID: m.DeliveryID,
		Action:     m.Action,
		Payload:    m.Payload,
		Response:   m.Response,
		DurationMs: m.DurationMs,
		CreatedAt:  m.CreatedAt,
	}
	if m.StatusCode.Valid {
		code := int(m.StatusCode.Int64)
		l.StatusCode = &code
	}
	return l
}

// Model returns l in its stored form.
func (l Log) Model() models.WebhookLog {
	m := models.WebhookLog{
		ID:         l.ID,
		WebhookID:  l.WebhookID,
		DeliveryID: l.DeliveryID,
		Action:     l.Action,
		Payload:    l.Payload,
		Response:   l.Response,
		DurationMs: l.DurationMs,
		CreatedAt:  l.CreatedAt,
	}
	if l.StatusCode != nil {
		m.StatusCode = sql.NullInt64{Int64: int64(*l.StatusCode), Valid: true}
	}
	return m
}

// hostOf returns the host of a webhook URL for logging.
func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}

// hostnameOf returns the host of a webhook URL without its port.
func hostnameOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
