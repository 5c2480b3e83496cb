package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/taskmill/taskmill/pkg/backend"
	"github.com/taskmill/taskmill/pkg/config"
	"github.com/taskmill/taskmill/pkg/cron"
	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/jobs"
	"github.com/taskmill/taskmill/pkg/stats"
	"github.com/taskmill/taskmill/pkg/tracing"
	"github.com/taskmill/taskmill/pkg/web"
	"golang.org/x/sync/errgroup"
)

// Server is the Taskmill server.
type Server struct {
	HTTPServer  *web.HTTPServer
	StatsServer *stats.StatsServer
	Cron        *cron.Scheduler
	Config      *config.Config
	Backend     *backend.Backend
	DB          *db.DB

	shutdownTracing tracing.ShutdownFunc
	logger          *log.Logger
	ctx             context.Context
}

// NewServer returns a new *Server.
// It expects a context with *backend.Backend, *db.DB, *log.Logger, and
// *config.Config attached.
func NewServer(ctx context.Context) (*Server, error) {
	var err error
	cfg := config.FromContext(ctx)
	be := backend.FromContext(ctx)
	db := db.FromContext(ctx)
	logger := log.FromContext(ctx).WithPrefix("server")
	srv := &Server{
		Config:  cfg,
		Backend: be,
		DB:      db,
		logger:  logger,
		ctx:     ctx,
	}

	srv.shutdownTracing, err = tracing.Install(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("install tracing: %w", err)
	}

	// Add cron jobs.
	sched := cron.NewScheduler(ctx)
	for n, j := range jobs.List() {
		spec := j.Runner.Spec(ctx)
		if spec == "" {
			logger.Debug("cron job disabled", "job", n)
			continue
		}

		id, err := sched.AddJob(n, spec, j.Runner.Func(ctx))
		if err != nil {
			logger.Warn("error adding cron job", "job", n, "err", err)
		}

		j.ID = id
	}

	srv.Cron = sched

	srv.HTTPServer, err = web.NewHTTPServer(ctx)
	if err != nil {
		return nil, fmt.Errorf("create http server: %w", err)
	}

	srv.StatsServer, err = stats.NewStatsServer(ctx)
	if err != nil {
		return nil, fmt.Errorf("create stats server: %w", err)
	}

	return srv, nil
}

// Start starts the webhook queue, the cron scheduler, and the HTTP and stats
// servers. It returns when the servers stop.
func (s *Server) Start() error {
	s.Backend.Start(s.ctx)

	errg, _ := errgroup.WithContext(s.ctx)
	errg.Go(func() error {
		s.logger.Print("Starting HTTP server", "addr", s.Config.HTTP.ListenAddr)
		if err := s.HTTPServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if s.Config.Stats.ListenAddr != "" {
		errg.Go(func() error {
			s.logger.Print("Starting Stats server", "addr", s.Config.Stats.ListenAddr)
			if err := s.StatsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	errg.Go(func() error {
		s.Cron.Start()
		return nil
	})
	return errg.Wait()
}

// Shutdown stops accepting requests, then drains the webhook queue. Both are
// bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	errg, gctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		return s.HTTPServer.Shutdown(gctx)
	})
	errg.Go(func() error {
		return s.StatsServer.Shutdown(gctx)
	})
	errg.Go(func() error {
		for _, j := range jobs.List() {
			s.Cron.Remove(j.ID)
		}
		s.Cron.Shutdown()
		return nil
	})
	if err := errg.Wait(); err != nil {
		return err
	}

	if err := s.Backend.Close(ctx); err != nil {
		return err
	}
	return s.shutdownTracing(ctx)
}

// Close closes the servers immediately.
func (s *Server) Close() error {
	var errg errgroup.Group
	errg.Go(s.HTTPServer.Close)
	errg.Go(s.StatsServer.Close)
	errg.Go(func() error {
		s.Cron.Stop()
		return nil
	})
	return errg.Wait()
}
