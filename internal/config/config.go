// Package config loads gateway configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/Fabricesimpore/ZakaMall-sub001/pkg/config"
	"github.com/Fabricesimpore/ZakaMall-sub001/pkg/database"
)

// Config holds all configuration for the search gateway.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort       int      `env:"SEARCH_HTTP_PORT" envDefault:"8010"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Elasticsearch. An empty URL disables the primary backend entirely:
	// every request is then served by the Postgres fallback.
	ElasticsearchURL   string `env:"ELASTICSEARCH_URL" envDefault:"http://localhost:9200"`
	ElasticsearchIndex string `env:"ELASTICSEARCH_INDEX" envDefault:"zakamall_products"`

	// Cache
	SearchCacheTTL  time.Duration `env:"SEARCH_CACHE_TTL" envDefault:"600s"`
	SuggestCacheTTL time.Duration `env:"SUGGEST_CACHE_TTL" envDefault:"300s"`

	// Backend timeouts
	ProbeTimeout   time.Duration `env:"PRIMARY_PROBE_TIMEOUT" envDefault:"2s"`
	PrimaryTimeout time.Duration `env:"PRIMARY_SEARCH_TIMEOUT" envDefault:"5s"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Tracing
	OTLPEndpoint string `env:"OTLP_ENDPOINT" envDefault:""`

	Postgres database.PostgresConfig
	Redis    database.RedisConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, fmt.Errorf("load search gateway config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PrimaryConfigured reports whether the primary backend has an endpoint.
func (c *Config) PrimaryConfigured() bool {
	return c.ElasticsearchURL != ""
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.SearchCacheTTL <= 0 || c.SuggestCacheTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	return nil
}
