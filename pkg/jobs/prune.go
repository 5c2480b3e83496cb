package jobs

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/taskmill/taskmill/pkg/backend"
	"github.com/taskmill/taskmill/pkg/config"
)

func init() {
	Register("prune-webhook-logs", pruneWebhookLogs{})
}

// pruneWebhookLogs deletes delivery log entries older than the configured
// retention.
type pruneWebhookLogs struct{}

// Spec implements Runner.
func (pruneWebhookLogs) Spec(ctx context.Context) string {
	cfg := config.FromContext(ctx)
	if cfg == nil || cfg.Jobs.WebhookLogRetention <= 0 {
		return ""
	}
	return cfg.Jobs.PruneWebhookLogs
}

// Func implements Runner.
func (pruneWebhookLogs) Func(ctx context.Context) func() {
	cfg := config.FromContext(ctx)
	be := backend.FromContext(ctx)
	logger := log.FromContext(ctx).WithPrefix("jobs.prune-webhook-logs")
	return func() {
		if cfg.Jobs.WebhookLogRetention <= 0 {
			logger.Info("webhook log retention is disabled")
			return
		}
		before := time.Now().Add(-cfg.Jobs.WebhookLogRetention)
		n, err := be.PruneWebhookLogs(ctx, before)
		if err != nil {
			logger.Error("error pruning webhook logs", "err", err)
			return
		}
		logger.Info("pruned webhook logs", "deleted", n, "before", before.Format(time.DateTime))
	}
}
