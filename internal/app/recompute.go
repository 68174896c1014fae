package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/sectorscore/internal/domain/model"
	"github.com/okian/sectorscore/internal/domain/scoring"
	"github.com/okian/sectorscore/pkg/logger"
	"github.com/okian/sectorscore/pkg/metrics"
)

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeUpdated
	outcomeFailed
)

type competitorResult struct {
	outcome outcome
	err     error
}

// readSnapshot fetches the three collections concurrently. Any read failure
// fails the whole snapshot.
func (s *Service) readSnapshot(ctx context.Context) (model.Snapshot, error) {
	var snap model.Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		docs, err := s.store.ListAll(gctx, s.collections.Competitors)
		if err != nil {
			return fmt.Errorf("read %s: %w", s.collections.Competitors, err)
		}
		snap.Competitors = make([]model.Competitor, 0, len(docs))
		for _, d := range docs {
			snap.Competitors = append(snap.Competitors, model.DecodeCompetitor(d.ID, d.Fields))
		}
		return nil
	})
	g.Go(func() error {
		docs, err := s.store.ListAll(gctx, s.collections.HourlyEntries)
		if err != nil {
			return fmt.Errorf("read %s: %w", s.collections.HourlyEntries, err)
		}
		snap.Hourly = make([]model.HourlyEntry, 0, len(docs))
		for _, d := range docs {
			snap.Hourly = append(snap.Hourly, model.DecodeHourlyEntry(d.ID, d.Fields))
		}
		return nil
	})
	g.Go(func() error {
		docs, err := s.store.ListAll(gctx, s.collections.BigCatches)
		if err != nil {
			return fmt.Errorf("read %s: %w", s.collections.BigCatches, err)
		}
		snap.BigCatches = make([]model.BigCatchEntry, 0, len(docs))
		for _, d := range docs {
			snap.BigCatches = append(snap.BigCatches, model.DecodeBigCatchEntry(d.ID, d.Fields))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return model.Snapshot{}, err
	}
	snap.SortByID()
	return snap, nil
}

// Recompute recalculates every competitor's derived fields from the raw
// records and writes back only the competitors whose stored values differ.
//
// It never returns an error: read failures and per-competitor write failures
// are reported in the Summary.
func (s *Service) Recompute(ctx context.Context) (sum Summary) {
	finish := metrics.RecomputeStarted()
	defer finish()

	sum = Summary{RunID: uuid.NewString(), StartedAt: s.now()}
	log := s.logger.Named("recompute")
	defer func() {
		sum.Duration = s.now().Sub(sum.StartedAt)
		metrics.RecordRecomputeRun(runOutcome(sum.Success, sum.Processed, sum.Failed), elapsedMs(sum.Duration))
		s.recordSummary(sum)
		log.Info(ctx, "recompute finished",
			logger.String("run_id", sum.RunID),
			logger.Bool("success", sum.Success),
			logger.Int("processed", sum.Processed),
			logger.Int("updated", sum.Updated),
			logger.Int("skipped", sum.Skipped),
			logger.Int("errors", sum.Failed),
			logger.Int("warnings", len(sum.Warnings)),
			logger.Duration("took", sum.Duration),
		)
	}()

	snap, err := s.readSnapshot(ctx)
	if err != nil {
		log.Error(ctx, "snapshot read failed", logger.String("run_id", sum.RunID), logger.Error(err))
		sum.Failed = 1
		sum.Details = []string{generalError(err)}
		return sum
	}

	res := scoring.Compute(snap)

	rejected := make(map[string]bool)
	for _, d := range res.Duplicates {
		metrics.RecordDuplicateEntry(string(d.Kind))
		sum.Warnings = append(sum.Warnings, d.String())
		if s.duplicatePolicy == PolicyReject {
			rejected[d.CompetitorID] = true
		}
	}

	competitors := slices.Clone(snap.Competitors)
	slices.SortFunc(competitors, func(a, b model.Competitor) int {
		if c := cmp.Compare(a.Sector, b.Sector); c != 0 {
			return c
		}
		if c := cmp.Compare(a.BoxNumber, b.BoxNumber); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	results := s.writeBack(ctx, competitors, res, rejected)

	sum.Processed = len(competitors)
	sum.Details = make([]string, 0, len(competitors))
	for i, c := range competitors {
		r := results[i]
		switch r.outcome {
		case outcomeUpdated:
			sum.Updated++
			sum.Details = append(sum.Details, updatedLine(c, res.Derived[c.ID]))
			metrics.RecordCompetitorResult("updated")
		case outcomeSkipped:
			sum.Skipped++
			sum.Details = append(sum.Details, upToDateLine(c))
			metrics.RecordCompetitorResult("skipped")
		case outcomeFailed:
			sum.Failed++
			sum.Details = append(sum.Details, errorLine(c.DisplayName(), r.err))
			metrics.RecordCompetitorResult("failed")
			log.Warn(ctx, "competitor not written",
				logger.String("run_id", sum.RunID),
				logger.String("competitor_id", c.ID),
				logger.Error(r.err))
		}
	}
	sum.Success = sum.Failed == 0

	metrics.UpdateCompetitorsTotal(len(competitors))
	for _, sector := range model.Sectors {
		metrics.UpdateSectorFishTotal(sector, res.SectorFish[sector])
	}
	return sum
}

// writeBack writes changed competitors concurrently, bounded by
// writeConcurrency. results[i] belongs to competitors[i].
func (s *Service) writeBack(ctx context.Context, competitors []model.Competitor, res scoring.Result, rejected map[string]bool) []competitorResult {
	results := make([]competitorResult, len(competitors))

	var g errgroup.Group
	g.SetLimit(s.writeConcurrency)
	for i, c := range competitors {
		if rejected[c.ID] {
			results[i] = competitorResult{outcome: outcomeFailed, err: ErrDuplicateEntry}
			continue
		}
		d := res.Derived[c.ID]
		if d.Matches(c.Stored) {
			results[i] = competitorResult{outcome: outcomeSkipped}
			continue
		}
		g.Go(func() error {
			if err := s.store.WriteFields(ctx, s.collections.Competitors, c.ID, d.Fields()); err != nil {
				results[i] = competitorResult{outcome: outcomeFailed, err: err}
				return nil
			}
			results[i] = competitorResult{outcome: outcomeUpdated}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func runOutcome(success bool, processed, failed int) string {
	switch {
	case success:
		return "success"
	case processed == 0 || failed == processed:
		return "failed"
	default:
		return "partial"
	}
}

func elapsedMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
