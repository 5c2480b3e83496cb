package backend

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/taskmill/taskmill/pkg/cache"
	"github.com/taskmill/taskmill/pkg/config"
	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/proto"
	"github.com/taskmill/taskmill/pkg/store"
	"github.com/taskmill/taskmill/pkg/webhook"
)

// Backend is the Taskmill backend that manages projects, tasks, users,
// roles, and the webhooks notified when they change.
type Backend struct {
	ctx        context.Context
	cfg        *config.Config
	db         *db.DB
	store      store.Store
	logger     *log.Logger
	cache      cache.Cache
	dispatcher *webhook.Dispatcher
	queue      *webhook.Queue

	webhooksMu  sync.Mutex
	webhooksGen uint64
}

// New returns a new Taskmill backend. When webhook.async is set, events are
// queued until Start is called.
func New(ctx context.Context, cfg *config.Config, db *db.DB, st store.Store) *Backend {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ctx = config.WithContext(ctx, cfg)
	logger := log.FromContext(ctx).WithPrefix("backend")
	d := &Backend{
		ctx:    ctx,
		cfg:    cfg,
		db:     db,
		store:  st,
		logger: logger,
		cache:  newCache(ctx, cfg, logger),
	}

	d.dispatcher = webhook.NewDispatcher(ctx, d)
	if cfg.Webhook.Async {
		d.queue = webhook.NewQueue(d.dispatcher.Dispatch, cfg.Webhook.QueueSize, cfg.Webhook.QueueWorkers)
	}

	return d
}

// Start starts dispatching queued webhook events.
func (d *Backend) Start(ctx context.Context) {
	if d.queue != nil {
		d.queue.Start(ctx)
	}
}

// Close stops accepting webhook events, waits for the queued ones to be
// delivered or ctx to be done, and releases the cache.
func (d *Backend) Close(ctx context.Context) error {
	var errs []error
	if d.queue != nil {
		if err := d.queue.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if c, ok := d.cache.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Ping checks the database connection.
func (d *Backend) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// wrapError translates database errors into proto errors. notFound is
// returned for missing records.
func wrapError(err error, notFound error) error {
	err = db.WrapError(err)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, db.ErrRecordNotFound):
		return notFound
	case errors.Is(err, db.ErrDuplicateKey):
		return proto.ErrAlreadyExists
	case errors.Is(err, db.ErrForeignKey):
		return proto.ErrInUse
	}
	return err
}
