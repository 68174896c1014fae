package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/sectorscore/internal/domain/model"
	"github.com/okian/sectorscore/pkg/logger"
	"github.com/okian/sectorscore/pkg/metrics"
)

type migrationResult struct {
	outcome string // migrated, skipped, failed
	detail  string
}

// MigrateBigCatches moves every big-catch weight from the legacy biggestCatch
// field to grossePrise:
//
//   - legacy only: grossePrise = legacy (0 if not numeric), legacy removed
//   - both: grossePrise kept, legacy removed; an invalid grossePrise is
//     replaced by the legacy value first
//   - grossePrise only: skipped
//   - neither: grossePrise = 0
//
// A second run skips every record.
func (s *Service) MigrateBigCatches(ctx context.Context) (sum MigrationSummary) {
	sum = MigrationSummary{RunID: uuid.NewString(), StartedAt: s.now()}
	log := s.logger.Named("migrate")
	defer func() {
		sum.Duration = s.now().Sub(sum.StartedAt)
		metrics.RecordMigrationRun(runOutcome(sum.Success, sum.Processed, sum.Failed))
		log.Info(ctx, "big-catch migration finished",
			logger.String("run_id", sum.RunID),
			logger.Bool("success", sum.Success),
			logger.Int("processed", sum.Processed),
			logger.Int("migrated", sum.Migrated),
			logger.Int("skipped", sum.Skipped),
			logger.Int("errors", sum.Failed),
			logger.Duration("took", sum.Duration),
		)
	}()

	docs, err := s.store.ListAll(ctx, s.collections.BigCatches)
	if err != nil {
		err = fmt.Errorf("read %s: %w", s.collections.BigCatches, err)
		log.Error(ctx, "big-catch read failed", logger.Error(err))
		sum.Failed = 1
		sum.Details = []string{generalError(err)}
		return sum
	}

	entries := make([]model.BigCatchEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, model.DecodeBigCatchEntry(d.ID, d.Fields))
	}
	slices.SortStableFunc(entries, func(a, b model.BigCatchEntry) int { return strings.Compare(a.ID, b.ID) })

	results := make([]migrationResult, len(entries))
	var g errgroup.Group
	g.SetLimit(s.writeConcurrency)
	for i, e := range entries {
		g.Go(func() error {
			results[i] = s.migrateOne(ctx, e)
			return nil
		})
	}
	_ = g.Wait()

	sum.Processed = len(entries)
	sum.Details = make([]string, 0, len(entries))
	for _, r := range results {
		switch r.outcome {
		case "migrated":
			sum.Migrated++
		case "skipped":
			sum.Skipped++
		default:
			sum.Failed++
		}
		metrics.RecordMigrationRecord(r.outcome)
		sum.Details = append(sum.Details, r.detail)
	}
	sum.Success = sum.Failed == 0
	return sum
}

func (s *Service) migrateOne(ctx context.Context, e model.BigCatchEntry) migrationResult {
	col := s.collections.BigCatches
	fail := func(err error) migrationResult {
		return migrationResult{outcome: "failed", detail: errorLine(e.ID, err)}
	}

	switch {
	case e.HasCanonicalField && e.HasLegacyField && e.Canonical != nil:
		if err := s.store.DeleteField(ctx, col, e.ID, model.FieldLegacyBiggestCatch); err != nil {
			return fail(err)
		}
		return migrationResult{outcome: "migrated", detail: fmt.Sprintf("removed legacy field: %s (kept grossePrise %s)", e.ID, grams(*e.Canonical))}

	case e.HasCanonicalField && e.HasLegacyField:
		// grossePrise is unusable, so reads fall back to the legacy value.
		// Persist that fallback before the legacy field goes away.
		w := e.Weight()
		if err := s.store.WriteFields(ctx, col, e.ID, map[string]any{model.FieldGrossePrise: w}); err != nil {
			return fail(err)
		}
		if err := s.store.DeleteField(ctx, col, e.ID, model.FieldLegacyBiggestCatch); err != nil {
			return fail(err)
		}
		return migrationResult{outcome: "migrated", detail: fmt.Sprintf("replaced invalid grossePrise: %s (%s -> grossePrise)", e.ID, grams(w))}

	case e.HasCanonicalField:
		return migrationResult{outcome: "skipped", detail: "already migrated: " + e.ID}

	case e.HasLegacyField:
		w := 0.0
		if e.Legacy != nil {
			w = *e.Legacy
		}
		if err := s.store.WriteFields(ctx, col, e.ID, map[string]any{model.FieldGrossePrise: w}); err != nil {
			return fail(err)
		}
		if err := s.store.DeleteField(ctx, col, e.ID, model.FieldLegacyBiggestCatch); err != nil {
			return fail(err)
		}
		return migrationResult{outcome: "migrated", detail: fmt.Sprintf("migrated: %s (%s -> grossePrise)", e.ID, grams(w))}

	default:
		if err := s.store.WriteFields(ctx, col, e.ID, map[string]any{model.FieldGrossePrise: 0.0}); err != nil {
			return fail(err)
		}
		return migrationResult{outcome: "migrated", detail: fmt.Sprintf("added grossePrise: %s (0g)", e.ID)}
	}
}
