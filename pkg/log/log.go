// Package log builds the taskmill logger from its configuration.
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/taskmill/taskmill/pkg/config"
)

var formatters = map[string]log.Formatter{
	"":       log.TextFormatter,
	"text":   log.TextFormatter,
	"logfmt": log.LogfmtFormatter,
	"json":   log.JSONFormatter,
}

// NewLogger returns the logger described by cfg. When cfg.Log.Path is set
// the logger writes to that file, and the caller owns the returned *os.File.
func NewLogger(cfg *config.Config) (*log.Logger, *os.File, error) {
	if cfg == nil {
		return nil, nil, config.ErrNilConfig
	}

	formatter, ok := formatters[strings.ToLower(cfg.Log.Format)]
	if !ok {
		return nil, nil, fmt.Errorf("unknown log format %q", cfg.Log.Format)
	}

	timeFormat := cfg.Log.TimeFormat
	if timeFormat == "" {
		timeFormat = time.DateTime
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      timeFormat,
		Formatter:       formatter,
	})

	if config.IsDebug() || config.IsVerbose() {
		logger.SetLevel(log.DebugLevel)
	}
	if config.IsVerbose() {
		logger.SetReportCaller(true)
	}

	if cfg.Log.Path == "" {
		return logger, nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Log.Path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.Log.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600) //nolint:gosec
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)

	return logger, f, nil
}
