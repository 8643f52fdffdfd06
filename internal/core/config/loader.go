package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/vietddude/storefront/internal/infra/cache"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("api.base_url is required")
	}

	// Set defaults if necessary
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.Backend != "memory" && cfg.Cache.Backend != "redis" {
		return nil, fmt.Errorf("cache.backend must be memory or redis, got %q", cfg.Cache.Backend)
	}
	if cfg.Archive.PageSize == 0 {
		cfg.Archive.PageSize = 100
	}

	if cfg.API.Timeout, err = parseDuration("api.timeout", cfg.API.TimeoutSetting, 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.Cache.TTL, err = parseDuration("cache.ttl", cfg.Cache.TTLSetting, cache.DefaultTTL); err != nil {
		return nil, err
	}
	if cfg.Cache.Sweep, err = parseDuration("cache.sweep", cfg.Cache.SweepSetting, 0); err != nil {
		return nil, err
	}
	if cfg.Archive.Interval, err = parseDuration("archive.interval", cfg.Archive.IntervalSetting, time.Minute); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	return d, nil
}
