// Package scoring turns raw tournament records into per-competitor totals,
// points and sector coefficients.
//
// Everything here is pure: the same snapshot always yields the same result,
// and nothing reads storage or the clock.
package scoring

import (
	"github.com/okian/sectorscore/internal/domain/dedupe"
	"github.com/okian/sectorscore/internal/domain/model"
)

// PointsPerFish is the fixed fish-to-grams equivalence of the tournament rules.
const PointsPerFish = 50

// Totals is the per-competitor output of the first pass.
type Totals struct {
	CompetitorID      string
	FishCountGlobal   int
	TotalWeightGlobal float64
	BiggestCatch      float64

	// Duplicates lists countable records that lost the first-match tie-break.
	Duplicates []dedupe.Key
}

// Points returns fish*50 + weight.
func Points(fishCount int, totalWeight float64) float64 {
	return float64(fishCount)*PointsPerFish + totalWeight
}

// Points returns the points of these totals.
func (t Totals) Points() float64 {
	return Points(t.FishCountGlobal, t.TotalWeightGlobal)
}

// Aggregate sums one competitor's countable hourly entries over hours 1..7
// and picks their countable big catch.
//
// For each (competitor, hour) the first countable entry in slice order is
// used; later ones are reported in Totals.Duplicates and ignored. The same
// rule applies to big catches. Missing hours contribute zero.
func Aggregate(competitorID string, hourly []model.HourlyEntry, bigCatches []model.BigCatchEntry) Totals {
	tr := dedupe.NewTracker(dedupe.WithExpectedSize(model.LastHour + 1))
	t := Totals{CompetitorID: competitorID}

	for _, e := range hourly {
		if e.CompetitorID != competitorID || e.Hour < model.FirstHour || e.Hour > model.LastHour {
			continue
		}
		if !e.Status.IsCountable() {
			continue
		}
		if tr.SeenAndRecord(dedupe.HourKey(competitorID, e.Hour, e.ID)) {
			continue
		}
		t.FishCountGlobal += e.FishCount
		t.TotalWeightGlobal += e.TotalWeight
	}

	for _, b := range bigCatches {
		if b.CompetitorID != competitorID || !b.Status.IsCountable() {
			continue
		}
		if tr.SeenAndRecord(dedupe.BigCatchKey(competitorID, b.ID)) {
			continue
		}
		t.BiggestCatch = b.Weight()
	}

	t.Duplicates = tr.Duplicates()
	return t
}

// SectorCoefficient returns (points*fish)/sectorTotal, or 0 when the sector
// has no countable fish.
func SectorCoefficient(points float64, fishCount, sectorTotalFish int) float64 {
	if sectorTotalFish <= 0 {
		return 0
	}
	return (points * float64(fishCount)) / float64(sectorTotalFish)
}

// SectorTotals sums FishCountGlobal per sector in one pass.
func SectorTotals(competitors []model.Competitor, totals map[string]Totals) map[string]int {
	out := make(map[string]int)
	for _, c := range competitors {
		out[c.Sector] += totals[c.ID].FishCountGlobal
	}
	return out
}

// Result is the outcome of a full two-pass computation.
type Result struct {
	// Derived holds the five engine-owned fields per competitor id.
	Derived map[string]model.Derived
	// Totals holds the first-pass output per competitor id.
	Totals map[string]Totals
	// SectorFish is the countable fish total per sector.
	SectorFish map[string]int
	// Duplicates lists every tie-break loser, in competitor order.
	Duplicates []dedupe.Key
}

// Compute runs the first pass (Aggregate per competitor) over the whole
// registry, then the second pass (sector totals, coefficients).
//
// Entries are bucketed by competitor id once so the work is linear in the
// snapshot size; bucket order preserves slice order, so first-match
// selection is the same as calling Aggregate on the full slices.
func Compute(s model.Snapshot) Result {
	hourlyBy := make(map[string][]model.HourlyEntry, len(s.Competitors))
	for _, e := range s.Hourly {
		hourlyBy[e.CompetitorID] = append(hourlyBy[e.CompetitorID], e)
	}
	bigBy := make(map[string][]model.BigCatchEntry, len(s.Competitors))
	for _, b := range s.BigCatches {
		bigBy[b.CompetitorID] = append(bigBy[b.CompetitorID], b)
	}

	res := Result{
		Derived: make(map[string]model.Derived, len(s.Competitors)),
		Totals:  make(map[string]Totals, len(s.Competitors)),
	}
	for _, c := range s.Competitors {
		t := Aggregate(c.ID, hourlyBy[c.ID], bigBy[c.ID])
		res.Totals[c.ID] = t
		res.Duplicates = append(res.Duplicates, t.Duplicates...)
	}

	res.SectorFish = SectorTotals(s.Competitors, res.Totals)
	for _, c := range s.Competitors {
		t := res.Totals[c.ID]
		points := t.Points()
		res.Derived[c.ID] = model.Derived{
			FishCountGlobal:   t.FishCountGlobal,
			TotalWeightGlobal: t.TotalWeightGlobal,
			BiggestCatch:      t.BiggestCatch,
			Points:            points,
			SectorCoefficient: SectorCoefficient(points, t.FishCountGlobal, res.SectorFish[c.Sector]),
		}
	}
	return res
}
