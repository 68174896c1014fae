package config_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/sectorscore/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load()

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 16)
				convey.So(cfg.RecomputeWorkers, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SECTORSCORE_ADDR", ":8080")
			_ = os.Setenv("SECTORSCORE_STORE", "redis")
			_ = os.Setenv("SECTORSCORE_REDIS__ADDR", "cache:6380")
			_ = os.Setenv("SECTORSCORE_REDIS__DB", "3")
			_ = os.Setenv("SECTORSCORE_DUPLICATE_POLICY", "reject")
			_ = os.Setenv("SECTORSCORE_RECOMPUTE_INTERVAL", "90s")
			_ = os.Setenv("SECTORSCORE_COLLECTIONS__COMPETITORS", "anglers")

			cfg, err := config.Load()

			convey.Convey("Then it should override defaults, including nested keys", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Store, convey.ShouldEqual, config.StoreRedis)
				convey.So(cfg.Redis.Addr, convey.ShouldEqual, "cache:6380")
				convey.So(cfg.Redis.DB, convey.ShouldEqual, 3)
				convey.So(cfg.Redis.Prefix, convey.ShouldEqual, "sectorscore")
				convey.So(cfg.DuplicatePolicy, convey.ShouldEqual, "reject")
				convey.So(cfg.RecomputeInterval, convey.ShouldEqual, 90*time.Second)
				convey.So(cfg.Collections.Competitors, convey.ShouldEqual, "anglers")
				convey.So(cfg.Collections.BigCatches, convey.ShouldEqual, "big_catches")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
store: dynamodb
dynamodb:
  region: us-east-1
  endpoint: http://localhost:8000
queue_size: 64
write_concurrency: 4
recompute_interval: 5m
metrics:
  namespace: tourney
  latency_buckets: [1, 10, 100]
  refresh_interval: 30s
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("SECTORSCORE_CONFIG", tmpFile)

			cfg, err := config.Load()

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.Store, convey.ShouldEqual, config.StoreDynamoDB)
				convey.So(cfg.DynamoDB.Region, convey.ShouldEqual, "us-east-1")
				convey.So(cfg.DynamoDB.Endpoint, convey.ShouldEqual, "http://localhost:8000")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.WriteConcurrency, convey.ShouldEqual, 4)
				convey.So(cfg.RecomputeInterval, convey.ShouldEqual, 5*time.Minute)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
				convey.So(cfg.Metrics.Namespace, convey.ShouldEqual, "tourney")
				convey.So(cfg.Metrics.Subsystem, convey.ShouldEqual, "scoring")
				convey.So(cfg.Metrics.LatencyBuckets, convey.ShouldResemble, []float64{1, 10, 100})
				convey.So(cfg.Metrics.RefreshInterval, convey.ShouldEqual, 30*time.Second)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
queue_size: 64
recompute_workers: 2
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("SECTORSCORE_CONFIG", tmpFile)
			_ = os.Setenv("SECTORSCORE_ADDR", ":8080")
			_ = os.Setenv("SECTORSCORE_RECOMPUTE_WORKERS", "3")

			cfg, err := config.Load()

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.RecomputeWorkers, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("SECTORSCORE_CONFIG", tmpFile)

			cfg, err := config.Load()

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("SECTORSCORE_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load()

			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("SECTORSCORE_ADDR", "")

			cfg, err := config.Load()

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "Addr")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("SECTORSCORE_QUEUE_SIZE", "invalid")

			cfg, err := config.Load()

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with a negative queue size", func() {
			_ = os.Setenv("SECTORSCORE_QUEUE_SIZE", "-1")

			cfg, err := config.Load()

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"SECTORSCORE_CONFIG",
		"SECTORSCORE_ADDR",
		"SECTORSCORE_STORE",
		"SECTORSCORE_REDIS__ADDR",
		"SECTORSCORE_REDIS__DB",
		"SECTORSCORE_DUPLICATE_POLICY",
		"SECTORSCORE_RECOMPUTE_INTERVAL",
		"SECTORSCORE_RECOMPUTE_WORKERS",
		"SECTORSCORE_COLLECTIONS__COMPETITORS",
		"SECTORSCORE_QUEUE_SIZE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "sectorscore-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
