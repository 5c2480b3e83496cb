package webhook

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/taskmill/taskmill/internal/sync"
	"github.com/taskmill/taskmill/pkg/config"
)

// Registry is where the dispatcher finds webhooks and records deliveries.
type Registry interface {
	// WebhooksByAction returns every webhook subscribed to action, enabled
	// or not.
	WebhooksByAction(ctx context.Context, action Action) ([]Hook, error)

	// AppendWebhookLog records the outcome of one delivery.
	AppendWebhookLog(ctx context.Context, l Log) (Log, error)
}

// Dispatcher fans events out to the webhooks subscribed to them.
type Dispatcher struct {
	registry Registry
	sender   *Sender
	workers  int
	timeout  time.Duration
	logger   *log.Logger
}

// NewDispatcher returns a Dispatcher configured from the context config.
func NewDispatcher(ctx context.Context, registry Registry) *Dispatcher {
	cfg := config.FromContext(ctx)
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Dispatcher{
		registry: registry,
		sender:   NewSender(cfg.Webhook),
		workers:  cfg.Webhook.Workers,
		timeout:  cfg.Webhook.Timeout,
		logger:   log.FromContext(ctx).WithPrefix("webhook"),
	}
}

// Sender returns the sender used for deliveries.
func (d *Dispatcher) Sender() *Sender {
	return d.sender
}

// Dispatch delivers ev to every enabled webhook subscribed to its action and
// logs each attempt. Deliveries are independent: a failing webhook affects
// only its own log entry. Failures are logged, never returned.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	hooks, err := d.registry.WebhooksByAction(ctx, ev.Action)
	if err != nil {
		d.logger.Error("failed to look up webhooks", "action", ev.Action, "err", err)
		CountDropped(ev.Action, "lookup")
		return
	}

	body := []byte(ev.Payload)
	if len(body) == 0 {
		body = []byte("null")
	}

	wq := sync.NewWorkQueue(d.workers)
	for _, h := range hooks {
		if !h.Enabled {
			continue
		}

		wq.Add(strconv.FormatInt(h.ID, 10), func() {
			d.deliver(ctx, h, ev.Action, body)
		})
	}

	wq.Run()
}

func (d *Dispatcher) deliver(ctx context.Context, h Hook, action Action, body []byte) {
	ctx, span := startDeliverySpan(ctx, h, action)
	res, err := d.sender.Send(ctx, h, action.String(), body, d.timeout)
	endDeliverySpan(span, res, err)

	deliveriesCounter.WithLabelValues(action.String(), statusLabel(res.StatusCode, err)).Inc()
	deliveryDuration.WithLabelValues(action.String()).Observe(res.Duration.Seconds())

	entry := Log{
		WebhookID:  h.ID,
		DeliveryID: res.DeliveryID,
		Action:     action.String(),
		Payload:    string(body),
		DurationMs: res.Duration.Milliseconds(),
	}
	if err != nil {
		entry.Response = err.Error()
		d.logger.Warn("webhook delivery failed", "webhook_id", h.ID, "action", action, "host", hostOf(h.URL), "err", err)
	} else {
		code := res.StatusCode
		entry.StatusCode = &code
		entry.Response = res.Body
		d.logger.Debug("webhook delivered", "webhook_id", h.ID, "action", action, "status", code, "duration", res.Duration)
	}

	if _, err := d.registry.AppendWebhookLog(ctx, entry); err != nil {
		logFailuresCounter.Inc()
		d.logger.Error("failed to append webhook log", "webhook_id", h.ID, "action", action, "err", err)
	}
}
