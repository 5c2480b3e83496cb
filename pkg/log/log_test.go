package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taskmill/taskmill/pkg/config"
)

func TestGoodNewLogger(t *testing.T) {
	for _, c := range []*config.Config{
		config.DefaultConfig(),
		{},
		{Log: config.LogConfig{Format: "json"}},
		{Log: config.LogConfig{Path: filepath.Join(t.TempDir(), "logfile.txt")}},
	} {
		_, f, err := NewLogger(c)
		if err != nil {
			t.Errorf("NewLogger(%v) => _, _, %v, want _, _, nil", c, err)
		}
		if f != nil {
			f.Close()
		}
	}
}

func TestBadNewLogger(t *testing.T) {
	for _, c := range []*config.Config{
		nil,
		{Log: config.LogConfig{Format: "xml"}},
		{Log: config.LogConfig{Path: "\x00"}},
	} {
		_, f, err := NewLogger(c)
		if err == nil {
			t.Errorf("NewLogger(%v) => _, _, nil, want _, _, %v", c, err)
		}
		if f != nil {
			f.Close()
		}
	}
}

func TestLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskmill.log")
	logger, f, err := NewLogger(&config.Config{Log: config.LogConfig{Format: "logfmt", Path: path}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("delivered", "webhook_id", 7)
	f.Close()

	bts, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(bts), "webhook_id=7") {
		t.Errorf("log file => %q, want webhook_id=7", bts)
	}
}
