package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/sectorscore/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Store, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.Collections.Competitors, convey.ShouldEqual, "competitors")
			convey.So(cfg.Collections.HourlyEntries, convey.ShouldEqual, "hourly_entries")
			convey.So(cfg.Collections.BigCatches, convey.ShouldEqual, "big_catches")
			convey.So(cfg.WriteConcurrency, convey.ShouldEqual, 16)
			convey.So(cfg.DuplicatePolicy, convey.ShouldEqual, "first")
			convey.So(cfg.RecomputeInterval, convey.ShouldEqual, time.Duration(0))
			convey.So(cfg.Metrics.Namespace, convey.ShouldEqual, "sectorscore")
			convey.So(cfg.Metrics.RefreshInterval, convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		convey.Convey("When the duplicate policy is unknown", func() {
			cfg.DuplicatePolicy = "last"
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "DuplicatePolicy")
		})

		convey.Convey("When a latency bucket is not positive", func() {
			cfg.Metrics.LatencyBuckets = []float64{5, 0}
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When write concurrency is zero", func() {
			cfg.WriteConcurrency = 0
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When a collection name is blank", func() {
			cfg.Collections.BigCatches = ""
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When the store is unknown", func() {
			cfg.Store = "postgres"
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When the dynamodb store has no region", func() {
			cfg.Store = config.StoreDynamoDB
			cfg.DynamoDB.Region = ""
			err := cfg.Validate()
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "dynamodb.region")
		})

		convey.Convey("When the redis store has no address", func() {
			cfg.Store = config.StoreRedis
			cfg.Redis.Addr = ""
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When the redis address is malformed", func() {
			cfg.Store = config.StoreRedis
			cfg.Redis.Addr = "not an address"
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})
	})
}
