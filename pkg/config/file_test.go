package config

import (
	"strings"
	"testing"
)

func TestNewConfigFile(t *testing.T) {
	for _, cfg := range []*Config{
		nil,
		DefaultConfig(),
		{},
	} {
		if s := newConfigFile(cfg); s == "" {
			t.Errorf("newConfigFile(%v) => %q, want non-empty string", cfg, s)
		}
	}
}

func TestNewConfigFileWebhook(t *testing.T) {
	s := newConfigFile(DefaultConfig())
	for _, want := range []string{
		`timeout: "10s"`,
		`test_timeout: "5s"`,
		`backend: "lru"`,
		`- "http://localhost:8080"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("config file is missing %q", want)
		}
	}
}
