// Package cron runs the periodic jobs of taskmill.
package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// Scheduler is a cron-like job scheduler.
type Scheduler struct {
	*cron.Cron
	logger *log.Logger
}

// cronLogger adapts a log.Logger to cron.Logger.
type cronLogger struct {
	logger *log.Logger
}

// Info logs routine messages about cron's operation.
func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

// Error logs an error condition.
func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "err", err)...)
}

// NewScheduler returns a new Scheduler. Jobs still running when a run is due
// are skipped, and panicking jobs are recovered.
func NewScheduler(ctx context.Context) *Scheduler {
	logger := log.FromContext(ctx).WithPrefix("cron")
	clogger := cronLogger{logger}
	return &Scheduler{
		Cron: cron.New(
			cron.WithLogger(clogger),
			cron.WithChain(cron.Recover(clogger), cron.SkipIfStillRunning(clogger)),
		),
		logger: logger,
	}
}

// Shutdown stops the Scheduler and waits up to 30 seconds for running jobs.
func (s *Scheduler) Shutdown() {
	ctx, cancel := context.WithTimeout(s.Cron.Stop(), 30*time.Second)
	defer cancel()
	<-ctx.Done()
}

// Start starts the Scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
}

// AddJob schedules fn under name. Each run is logged with its duration.
func (s *Scheduler) AddJob(name string, spec string, fn func()) (int, error) {
	id, err := s.Cron.AddFunc(spec, func() {
		start := time.Now()
		s.logger.Debug("running job", "job", name)
		fn()
		s.logger.Debug("job finished", "job", name, "took", time.Since(start))
	})
	if err != nil {
		return 0, fmt.Errorf("schedule %s: %w", name, err)
	}
	return int(id), nil
}

// Remove removes a job from the Scheduler.
func (s *Scheduler) Remove(id int) {
	s.Cron.Remove(cron.EntryID(id))
}
