package simulate

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/sectorscore/internal/domain/model"
)

const coefficientTolerance = 1e-9

// Check is one verified property.
type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

type checker struct {
	checks []Check
}

func (c *checker) add(name string, problems []string) {
	ch := Check{Name: name, Passed: len(problems) == 0}
	if !ch.Passed {
		ch.Detail = problems[0]
		if len(problems) > 1 {
			ch.Detail = fmt.Sprintf("%s (and %d more)", problems[0], len(problems)-1)
		}
	}
	c.checks = append(c.checks, ch)
}

// verify reads the stored records back and compares them to the generator's
// expectations.
func verify(ctx context.Context, target Target, cfg Config, t tournament, rep *Report) error {
	compDocs, err := target.ListAll(ctx, cfg.Collections.Competitors)
	if err != nil {
		return fmt.Errorf("read back competitors: %w", err)
	}
	bigDocs, err := target.ListAll(ctx, cfg.Collections.BigCatches)
	if err != nil {
		return fmt.Errorf("read back big catches: %w", err)
	}

	var c checker

	var mig []string
	if rep.Migration.Failed != 0 {
		mig = append(mig, fmt.Sprintf("%d migration errors", rep.Migration.Failed))
	}
	if rep.Migration.Changed != t.legacyOnly {
		mig = append(mig, fmt.Sprintf("migrated %d records, expected %d", rep.Migration.Changed, t.legacyOnly))
	}
	for _, d := range bigDocs {
		b := model.DecodeBigCatchEntry(d.ID, d.Fields)
		if b.HasLegacyField || !b.HasCanonicalField {
			mig = append(mig, fmt.Sprintf("big catch %s still has the old layout", d.ID))
		}
	}
	c.add("big catches migrated", mig)

	var remig []string
	if rep.Remigration.Changed != 0 || rep.Remigration.Skipped != len(t.bigCatches) {
		remig = append(remig, fmt.Sprintf("second migration changed %d, skipped %d of %d",
			rep.Remigration.Changed, rep.Remigration.Skipped, len(t.bigCatches)))
	}
	c.add("migration idempotent", remig)

	var complete []string
	if rep.FirstRun.Failed != 0 {
		complete = append(complete, fmt.Sprintf("%d write errors", rep.FirstRun.Failed))
	}
	if rep.FirstRun.Processed != len(t.competitors) || rep.FirstRun.Changed != len(t.competitors) {
		complete = append(complete, fmt.Sprintf("first run processed %d, updated %d of %d",
			rep.FirstRun.Processed, rep.FirstRun.Changed, len(t.competitors)))
	}
	competitors := make(map[string]model.Competitor, len(compDocs))
	for _, d := range compDocs {
		comp := model.DecodeCompetitor(d.ID, d.Fields)
		competitors[comp.ID] = comp
		s := comp.Stored
		if s.FishCountGlobal == nil || s.TotalWeightGlobal == nil || s.BiggestCatch == nil || s.Points == nil || s.SectorCoefficient == nil {
			complete = append(complete, fmt.Sprintf("competitor %s is missing derived fields", comp.ID))
		}
	}
	c.add("every competitor scored", complete)

	var dups []string
	if rep.FirstRun.Warnings != t.duplicates {
		dups = append(dups, fmt.Sprintf("%d duplicate warnings, expected %d", rep.FirstRun.Warnings, t.duplicates))
	}
	c.add("duplicates reported", dups)

	sectorFish := make(map[string]int)
	for _, e := range t.expected {
		sectorFish[e.sector] += e.fish
	}

	var totals, points, coeffs, quiet []string
	for _, r := range t.competitors {
		id, e := r.id, t.expected[r.id]
		s := competitors[id].Stored
		if s.FishCountGlobal == nil || s.TotalWeightGlobal == nil || s.BiggestCatch == nil || s.Points == nil || s.SectorCoefficient == nil {
			continue
		}
		if int(*s.FishCountGlobal) != e.fish || *s.TotalWeightGlobal != e.weight || *s.BiggestCatch != e.biggestCatch {
			totals = append(totals, fmt.Sprintf("competitor %s stored (%v fish, %vg, big %vg), expected (%d, %vg, %vg)",
				id, *s.FishCountGlobal, *s.TotalWeightGlobal, *s.BiggestCatch, e.fish, e.weight, e.biggestCatch))
		}
		wantPoints := float64(e.fish)*50 + e.weight
		if *s.Points != wantPoints {
			points = append(points, fmt.Sprintf("competitor %s has %v points, expected %v", id, *s.Points, wantPoints))
		}
		wantCoeff := 0.0
		if total := sectorFish[e.sector]; total > 0 {
			wantCoeff = wantPoints * float64(e.fish) / float64(total)
		}
		if math.Abs(*s.SectorCoefficient-wantCoeff) > coefficientTolerance*math.Max(1, math.Abs(wantCoeff)) {
			coeffs = append(coeffs, fmt.Sprintf("competitor %s has coefficient %v, expected %v", id, *s.SectorCoefficient, wantCoeff))
		}
		if e.sector == cfg.QuietSector && *s.SectorCoefficient != 0 {
			quiet = append(quiet, fmt.Sprintf("competitor %s in quiet sector %s has coefficient %v", id, e.sector, *s.SectorCoefficient))
		}
	}
	c.add("totals match countable entries", totals)
	c.add("points formula", points)
	c.add("sector coefficients", coeffs)
	if cfg.QuietSector != "" {
		c.add("quiet sector coefficients are zero", quiet)
	}

	var idem []string
	if rep.SecondRun.Changed != 0 || rep.SecondRun.Skipped != len(t.competitors) || rep.SecondRun.Failed != 0 {
		idem = append(idem, fmt.Sprintf("second run updated %d, skipped %d, errors %d",
			rep.SecondRun.Changed, rep.SecondRun.Skipped, rep.SecondRun.Failed))
	}
	c.add("second run writes nothing", idem)

	rep.Checks = c.checks
	rep.Passed = true
	for _, ch := range c.checks {
		rep.Passed = rep.Passed && ch.Passed
	}
	return nil
}
