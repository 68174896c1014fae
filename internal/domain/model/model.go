// Package model contains the tournament records passed between layers.
package model

import (
	"slices"
	"strings"

	"github.com/okian/sectorscore/internal/domain/status"
)

// Scoring hours are always 1..7 inclusive.
const (
	FirstHour = 1
	LastHour  = 7
)

// Sectors is the fixed set of sector codes.
var Sectors = []string{"A", "B", "C", "D", "E", "F"} //nolint:gochecknoglobals // fixed business rule

// NormalizeSector trims and upper-cases a sector code.
func NormalizeSector(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsKnownSector reports whether s (after normalization) is one of Sectors.
func IsKnownSector(s string) bool {
	return slices.Contains(Sectors, NormalizeSector(s))
}

// Competitor holds registration facts and the derived fields currently stored.
type Competitor struct {
	ID        string
	FullName  string
	Team      string
	Sector    string
	BoxNumber int
	BoxCode   string
	Photo     string

	// Stored is what the storage layer holds today; it may be partially absent.
	Stored StoredDerived
}

// DisplayName falls back to the id when no name is registered.
func (c Competitor) DisplayName() string {
	if c.FullName != "" {
		return c.FullName
	}
	return c.ID
}

// HourlyEntry is one competitor's catch report for one scoring hour.
type HourlyEntry struct {
	ID           string
	CompetitorID string
	Hour         int
	FishCount    int
	TotalWeight  float64 // grams
	Status       status.Status
}

// BigCatchEntry is a competitor's single largest catch.
//
// The weight lives in grossePrise; older records carry it in biggestCatch.
// HasCanonicalField/HasLegacyField track key presence even when the value is
// not numeric, which the migration needs.
type BigCatchEntry struct {
	ID                string
	CompetitorID      string
	Canonical         *float64
	Legacy            *float64
	HasCanonicalField bool
	HasLegacyField    bool
	Status            status.Status
}

// Weight returns the canonical value, then the legacy one, then 0.
func (b BigCatchEntry) Weight() float64 {
	if b.Canonical != nil {
		return *b.Canonical
	}
	if b.Legacy != nil {
		return *b.Legacy
	}
	return 0
}

// Derived are the five fields owned by the scoring engine.
type Derived struct {
	FishCountGlobal   int     `json:"fishCountGlobal"`
	TotalWeightGlobal float64 `json:"totalWeightGlobal"`
	BiggestCatch      float64 `json:"biggestCatch"`
	Points            float64 `json:"points"`
	SectorCoefficient float64 `json:"sectorCoefficient"`
}

// Fields renders the derived values as a storage field map.
func (d Derived) Fields() map[string]any {
	return map[string]any{
		FieldFishCountGlobal:   d.FishCountGlobal,
		FieldTotalWeightGlobal: d.TotalWeightGlobal,
		FieldBiggestCatch:      d.BiggestCatch,
		FieldPoints:            d.Points,
		FieldSectorCoefficient: d.SectorCoefficient,
	}
}

// StoredDerived mirrors Derived with presence tracking. A nil field was absent
// or not numeric in storage.
type StoredDerived struct {
	FishCountGlobal   *float64
	TotalWeightGlobal *float64
	BiggestCatch      *float64
	Points            *float64
	SectorCoefficient *float64
}

// Matches reports whether every stored field is present and exactly equal to d.
func (d Derived) Matches(s StoredDerived) bool {
	return eq(s.FishCountGlobal, float64(d.FishCountGlobal)) &&
		eq(s.TotalWeightGlobal, d.TotalWeightGlobal) &&
		eq(s.BiggestCatch, d.BiggestCatch) &&
		eq(s.Points, d.Points) &&
		eq(s.SectorCoefficient, d.SectorCoefficient)
}

func eq(stored *float64, v float64) bool {
	return stored != nil && *stored == v
}

// Snapshot is one consistent read of the three record sets.
type Snapshot struct {
	Competitors []Competitor
	Hourly      []HourlyEntry
	BigCatches  []BigCatchEntry
}

// SortByID orders every record set by record id so that first-match
// selection does not depend on storage scan order.
func (s *Snapshot) SortByID() {
	slices.SortStableFunc(s.Competitors, func(a, b Competitor) int { return strings.Compare(a.ID, b.ID) })
	slices.SortStableFunc(s.Hourly, func(a, b HourlyEntry) int { return strings.Compare(a.ID, b.ID) })
	slices.SortStableFunc(s.BigCatches, func(a, b BigCatchEntry) int { return strings.Compare(a.ID, b.ID) })
}
