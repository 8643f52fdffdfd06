package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.example.com/api/v1
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("expected default memory backend, got %q", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("expected default cache TTL 5m, got %v", cfg.Cache.TTL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.API.Timeout)
	}
	if cfg.Archive.Interval != time.Minute {
		t.Errorf("expected default archive interval 1m, got %v", cfg.Archive.Interval)
	}
	if cfg.Archive.PageSize != 100 {
		t.Errorf("expected default page size 100, got %d", cfg.Archive.PageSize)
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
api:
  base_url: https://api.example.com/api/v1
  token: secret
  timeout: 10s
cache:
  backend: redis
  ttl: 90s
redis:
  url: redis://localhost:6379/0
archive:
  interval: 5m
  page_size: 50
  products: [42, 43]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.API.Timeout)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.TTL != 90*time.Second {
		t.Errorf("unexpected cache config: %+v", cfg.Cache)
	}
	if cfg.Archive.Interval != 5*time.Minute || cfg.Archive.PageSize != 50 {
		t.Errorf("unexpected archive config: %+v", cfg.Archive)
	}
	if len(cfg.Archive.Products) != 2 || cfg.Archive.Products[0] != 42 {
		t.Errorf("unexpected products: %v", cfg.Archive.Products)
	}
}

func TestLoadEnvExpansion(t *testing.T) {
	t.Setenv("TEST_STOREFRONT_TOKEN", "from-env")

	path := writeConfig(t, `
api:
  base_url: https://api.example.com/api/v1
  token: ${TEST_STOREFRONT_TOKEN}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.Token != "from-env" {
		t.Errorf("expected env-expanded token, got %q", cfg.API.Token)
	}
}

func TestLoadRejectsMissingBaseURL(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for missing api.base_url")
	}
}

func TestLoadRejectsBadBackend(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.example.com/api/v1
cache:
  backend: memcached
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for unsupported cache backend")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.example.com/api/v1
  timeout: soonish
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for unparseable duration")
	}
}
