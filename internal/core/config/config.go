package config

import (
	"time"

	"github.com/vietddude/storefront/internal/infra/cache"
	"github.com/vietddude/storefront/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig      `yaml:"server"`
	API      APIConfig         `yaml:"api"`
	Cache    CacheConfig       `yaml:"cache"`
	Redis    cache.RedisConfig `yaml:"redis"`
	Database postgres.Config   `yaml:"database"`
	Archive  ArchiveConfig     `yaml:"archive"`
	Logging  LoggingConfig     `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// APIConfig holds storefront backend settings. Token is usually an
// env reference like ${STOREFRONT_API_TOKEN}, expanded at load time.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	Token          string `yaml:"token"`
	TimeoutSetting string `yaml:"timeout"` // duration string, e.g. "30s"

	Timeout time.Duration `yaml:"-"`
}

// CacheConfig selects and tunes the TTL cache backend.
type CacheConfig struct {
	Backend      string `yaml:"backend"` // memory, redis
	TTLSetting   string `yaml:"ttl"`     // duration string, e.g. "5m"
	SweepSetting string `yaml:"sweep"`   // memory backend only; "" disables

	TTL   time.Duration `yaml:"-"`
	Sweep time.Duration `yaml:"-"`
}

// ArchiveConfig holds archive worker settings.
type ArchiveConfig struct {
	IntervalSetting string  `yaml:"interval"` // duration string, e.g. "1m"
	PageSize        int     `yaml:"page_size"`
	Products        []int64 `yaml:"products"`

	Interval time.Duration `yaml:"-"`
}
