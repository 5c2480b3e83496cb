// Package database implements store.Store on top of sqlx.
package database

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/taskmill/taskmill/pkg/config"
	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/store"
)

type datastore struct {
	ctx    context.Context
	cfg    *config.Config
	db     *db.DB
	logger *log.Logger

	*webhookStore
	*webhookLogStore
	*userStore
	*roleStore
	*projectStore
	*taskStore
}

// New returns a new store.Store database.
func New(ctx context.Context, db *db.DB) store.Store {
	cfg := config.FromContext(ctx)
	logger := log.FromContext(ctx).WithPrefix("store")

	s := &datastore{
		ctx:    ctx,
		cfg:    cfg,
		db:     db,
		logger: logger,

		webhookStore:    &webhookStore{},
		webhookLogStore: &webhookLogStore{},
		userStore:       &userStore{},
		roleStore:       &roleStore{},
		projectStore:    &projectStore{},
		taskStore:       &taskStore{},
	}

	return s
}
