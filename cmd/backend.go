package main

import (
	"context"
	"fmt"

	"github.com/okian/sectorscore/internal/adapters/dynamo"
	"github.com/okian/sectorscore/internal/adapters/redisstore"
	"github.com/okian/sectorscore/internal/adapters/repository"
	"github.com/okian/sectorscore/internal/config"
	"github.com/okian/sectorscore/pkg/logger"
)

// backend is an opened document store plus its release hook.
type backend struct {
	store *repository.Instrumented
	close func() error
}

// openBackend builds the configured store, wrapped with store metrics.
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	log := logger.Get().Named("backend")
	noop := func() error { return nil }

	switch cfg.Store {
	case config.StoreMemory:
		mem := repository.NewMemoryStore()
		if cfg.Memory.SeedFile != "" {
			n, err := mem.LoadSeedFile(ctx, cfg.Memory.SeedFile)
			if err != nil {
				return nil, err
			}
			log.Info(ctx, "memory store seeded", logger.String("file", cfg.Memory.SeedFile), logger.Int("documents", n))
		}
		return &backend{store: repository.Instrument(mem), close: noop}, nil

	case config.StoreDynamoDB:
		st, err := dynamo.NewFromConfig(ctx, cfg.DynamoDB.Region, cfg.DynamoDB.Endpoint,
			dynamo.WithTablePrefix(cfg.DynamoDB.TablePrefix))
		if err != nil {
			return nil, err
		}
		log.Info(ctx, "using dynamodb store", logger.String("region", cfg.DynamoDB.Region))
		return &backend{store: repository.Instrument(st), close: noop}, nil

	case config.StoreRedis:
		st, client, err := redisstore.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisstore.WithPrefix(cfg.Redis.Prefix))
		if err != nil {
			return nil, err
		}
		log.Info(ctx, "using redis store", logger.String("addr", cfg.Redis.Addr), logger.Int("db", cfg.Redis.DB))
		return &backend{store: repository.Instrument(st), close: client.Close}, nil

	default:
		return nil, fmt.Errorf("%w: %q", repository.ErrUnknownBackend, cfg.Store)
	}
}
