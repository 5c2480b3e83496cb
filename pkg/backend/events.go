package backend

import (
	"context"
	"errors"

	"github.com/taskmill/taskmill/pkg/webhook"
)

// Dispatch sends v to the webhooks subscribed to action. It is used by
// callers whose writes do not emit on their own, such as comments, time
// logs, and roles. Failures are logged, never returned.
func (d *Backend) Dispatch(ctx context.Context, action webhook.Action, v any) {
	d.emit(ctx, action, v)
}

// emit serializes v and hands the event to the queue, or dispatches it in
// place when the queue is disabled. It must be called after the write that
// caused it has committed.
func (d *Backend) emit(ctx context.Context, action webhook.Action, v any) {
	ev, err := webhook.NewEvent(action, v)
	if err != nil {
		d.logger.Error("failed to serialize webhook payload", "action", action, "err", err)
		webhook.CountDropped(action, "serialize")
		return
	}

	if d.queue == nil {
		d.dispatcher.Dispatch(context.WithoutCancel(ctx), ev)
		return
	}

	if err := d.queue.Enqueue(ctx, ev); err != nil {
		reason := "timeout"
		if errors.Is(err, webhook.ErrQueueClosed) {
			reason = "closed"
		}
		d.logger.Warn("webhook event dropped", "action", action, "reason", reason, "err", err)
		webhook.CountDropped(action, reason)
	}
}

// emitEntity emits the lifecycle event of an entity kind.
func (d *Backend) emitEntity(ctx context.Context, kind string, verb string, v any) {
	action, err := webhook.EntityAction(kind, verb)
	if err != nil {
		d.logger.Error("unknown entity action", "kind", kind, "verb", verb)
		return
	}
	d.emit(ctx, action, v)
}
