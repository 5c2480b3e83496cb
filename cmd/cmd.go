// Package cmd holds the helpers shared by the taskmill commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/taskmill/taskmill/pkg/backend"
	"github.com/taskmill/taskmill/pkg/config"
	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/store"
	"github.com/taskmill/taskmill/pkg/store/database"
)

// ShutdownTimeout bounds how long queued webhook events may take to drain
// when a command exits.
const ShutdownTimeout = 5 * time.Second

// InitBackendContext opens the database and attaches it, the store, and the
// backend to the command context.
func InitBackendContext(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return config.ErrNilConfig
	}
	if _, err := os.Stat(cfg.DataPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(cfg.DataPath, os.ModePerm); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}
	dbx, err := db.Open(ctx, cfg.DB.Driver, cfg.DB.DataSource)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	ctx = db.WithContext(ctx, dbx)
	dbstore := database.New(ctx, dbx)
	ctx = store.WithContext(ctx, dbstore)
	be := backend.New(ctx, cfg, dbx, dbstore)
	ctx = backend.WithContext(ctx, be)

	cmd.SetContext(ctx)

	return nil
}

// CloseDBContext drains the backend and closes the database.
func CloseDBContext(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	var errs []error
	if be := backend.FromContext(ctx); be != nil {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		if err := be.Close(cctx); err != nil {
			errs = append(errs, fmt.Errorf("close backend: %w", err))
		}
	}

	if dbx := db.FromContext(ctx); dbx != nil {
		if err := dbx.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
