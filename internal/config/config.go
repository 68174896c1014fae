// Package config defines service configuration structures and loading hooks.
package config

import (
	"time"

	"github.com/okian/sectorscore/internal/adapters/repository"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreDynamoDB = "dynamodb"
	StoreRedis    = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat selects the slog handler: json or text.
	LogFormat string `koanf:"log_format" validate:"oneof=json text"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// Store selects the document store backend.
	Store string `koanf:"store" validate:"oneof=memory dynamodb redis"`

	Memory   MemoryConfig   `koanf:"memory"`
	DynamoDB DynamoDBConfig `koanf:"dynamodb"`
	Redis    RedisConfig    `koanf:"redis"`

	Collections repository.Collections `koanf:"collections"`

	Metrics MetricsConfig `koanf:"metrics"`

	// WriteConcurrency bounds concurrent competitor writes per run.
	WriteConcurrency int `koanf:"write_concurrency" validate:"min=1,max=1024"`

	// DuplicatePolicy is "first" or "reject".
	DuplicatePolicy string `koanf:"duplicate_policy" validate:"oneof=first reject"`

	// QueueSize bounds pending recompute triggers.
	QueueSize int `koanf:"queue_size" validate:"min=1"`

	// RecomputeWorkers drains the trigger queue.
	RecomputeWorkers int `koanf:"recompute_workers" validate:"min=1"`

	// RecomputeInterval schedules periodic runs; zero disables the scheduler.
	RecomputeInterval time.Duration `koanf:"recompute_interval" validate:"min=0"`
}

// MemoryConfig configures the in-process store.
type MemoryConfig struct {
	// SeedFile is an optional YAML fixture loaded at startup.
	SeedFile string `koanf:"seed_file"`
}

// DynamoDBConfig configures the DynamoDB store.
type DynamoDBConfig struct {
	Region      string `koanf:"region"`
	Endpoint    string `koanf:"endpoint" validate:"omitempty,url"`
	TablePrefix string `koanf:"table_prefix"`
}

// RedisConfig configures the Redis store.
type RedisConfig struct {
	Addr     string `koanf:"addr" validate:"omitempty,hostname_port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"min=0,max=15"`
	Prefix   string `koanf:"prefix"`
}

// MetricsConfig shapes the Prometheus collectors. Empty values keep the
// collector defaults.
type MetricsConfig struct {
	Namespace       string        `koanf:"namespace"`
	Subsystem       string        `koanf:"subsystem"`
	LatencyBuckets  []float64     `koanf:"latency_buckets" validate:"omitempty,dive,gt=0"`
	RefreshInterval time.Duration `koanf:"refresh_interval" validate:"min=0"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "json",
		Addr:              ":9080",
		Store:             StoreMemory,
		Redis:             RedisConfig{Addr: "localhost:6379", Prefix: "sectorscore"},
		DynamoDB:          DynamoDBConfig{Region: "eu-west-1"},
		Collections:       repository.DefaultCollections(),
		Metrics:           MetricsConfig{Namespace: "sectorscore", Subsystem: "scoring", RefreshInterval: 10 * time.Second},
		WriteConcurrency:  16,
		DuplicatePolicy:   "first",
		QueueSize:         16,
		RecomputeWorkers:  1,
		RecomputeInterval: 0,
	}
}
