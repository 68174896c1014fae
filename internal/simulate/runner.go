// Package simulate generates a synthetic tournament, pushes it through the
// scoring service and checks the stored results against independently
// computed expectations.
package simulate

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/sectorscore/internal/adapters/repository"
	service "github.com/okian/sectorscore/internal/app"
	"github.com/okian/sectorscore/internal/domain/types"
	"github.com/okian/sectorscore/pkg/logger"
)

// Target is a store the simulator can both seed and score.
type Target interface {
	repository.Store
	repository.Seeder
}

// RunStats condenses one service run.
type RunStats struct {
	Processed int `json:"processed"`
	Changed   int `json:"changed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"errors"`
	Warnings  int `json:"warnings,omitempty"`
}

// Report is the outcome of one simulation.
type Report struct {
	Seed             uint64        `json:"seed"`
	Competitors      int           `json:"competitors"`
	HourlyEntries    int           `json:"hourly_entries"`
	BigCatches       int           `json:"big_catches"`
	LegacyBigCatches int           `json:"legacy_big_catches"`
	Duplicates       int           `json:"duplicates"`
	Migration        RunStats      `json:"migration"`
	Remigration      RunStats      `json:"remigration"`
	FirstRun         RunStats      `json:"first_run"`
	SecondRun        RunStats      `json:"second_run"`
	Checks           []Check       `json:"checks"`
	Passed           bool          `json:"passed"`
	Duration         time.Duration `json:"duration_ns"`
}

// Run seeds target with a generated tournament, migrates legacy big catches,
// recomputes twice and verifies the outcome.
//
// A returned error means the simulation could not run; failed checks are
// reported in the Report with Passed=false.
func Run(ctx context.Context, target Target, cfg Config) (Report, error) {
	if err := cfg.validate(); err != nil {
		return Report{}, err
	}
	if cfg.Workers < 1 {
		cfg.Workers = DefaultWorkers
	}
	start := time.Now()
	log := logger.Get().Named("simulate")

	t := newGenerator(cfg).generate()
	rep := Report{
		Seed:             cfg.Seed,
		Competitors:      len(t.competitors),
		HourlyEntries:    len(t.hourly),
		BigCatches:       len(t.bigCatches),
		LegacyBigCatches: t.legacyOnly,
		Duplicates:       t.duplicates,
	}
	log.Info(ctx, "generated tournament",
		logger.Int("competitors", rep.Competitors),
		logger.Int("hourly", rep.HourlyEntries),
		logger.Int("bigCatches", rep.BigCatches),
		logger.Int("legacy", rep.LegacyBigCatches),
		logger.Int("duplicates", rep.Duplicates))

	if err := seed(ctx, target, cfg, t); err != nil {
		return rep, err
	}

	svc := service.New(
		service.WithStore(target),
		service.WithCollections(cfg.Collections),
		service.WithDuplicatePolicy(service.PolicyFirst),
	)

	mig := svc.MigrateBigCatches(ctx)
	rep.Migration = migrationStats(mig)
	first := svc.Recompute(ctx)
	rep.FirstRun = recomputeStats(first)
	second := svc.Recompute(ctx)
	rep.SecondRun = recomputeStats(second)
	remig := svc.MigrateBigCatches(ctx)
	rep.Remigration = migrationStats(remig)

	if err := verify(ctx, target, cfg, t, &rep); err != nil {
		return rep, err
	}

	rep.Duration = time.Since(start)
	log.Info(ctx, "simulation finished",
		logger.Bool("passed", rep.Passed),
		logger.Int("checks", len(rep.Checks)),
		logger.Duration("took", rep.Duration))
	return rep, nil
}

// seed writes every generated record, bounded by cfg.Workers.
func seed(ctx context.Context, target repository.Seeder, cfg Config, t tournament) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	put := func(collection string, rs []record) {
		for _, r := range rs {
			g.Go(func() error {
				if err := target.Put(gctx, collection, r.id, r.fields); err != nil {
					return fmt.Errorf("seed %s/%s: %w", collection, r.id, err)
				}
				return nil
			})
		}
	}
	put(cfg.Collections.Competitors, t.competitors)
	put(cfg.Collections.HourlyEntries, t.hourly)
	put(cfg.Collections.BigCatches, t.bigCatches)
	return g.Wait()
}

func recomputeStats(s types.Summary) RunStats {
	return RunStats{Processed: s.Processed, Changed: s.Updated, Skipped: s.Skipped, Failed: s.Failed, Warnings: len(s.Warnings)}
}

func migrationStats(s types.MigrationSummary) RunStats {
	return RunStats{Processed: s.Processed, Changed: s.Migrated, Skipped: s.Skipped, Failed: s.Failed}
}
