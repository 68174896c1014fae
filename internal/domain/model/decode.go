package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/okian/sectorscore/internal/domain/status"
)

// Storage field names.
const (
	FieldFullName  = "fullName"
	FieldTeam      = "equipe"
	FieldSector    = "sector"
	FieldBoxNumber = "boxNumber"
	FieldBoxCode   = "boxCode"
	FieldPhoto     = "photo"

	FieldFishCountGlobal   = "fishCountGlobal"
	FieldTotalWeightGlobal = "totalWeightGlobal"
	FieldBiggestCatch      = "biggestCatch"
	FieldPoints            = "points"
	FieldSectorCoefficient = "sectorCoefficient"

	FieldCompetitorID = "competitorId"
	FieldHour         = "hour"
	FieldFishCount    = "fishCount"
	FieldTotalWeight  = "totalWeight"
	FieldStatus       = "status"

	// FieldGrossePrise is the canonical big-catch weight field.
	FieldGrossePrise = "grossePrise"
	// FieldLegacyBiggestCatch is the pre-rename big-catch weight field.
	FieldLegacyBiggestCatch = "biggestCatch"
)

// DerivedFieldNames lists the fields a recomputation may write.
var DerivedFieldNames = []string{ //nolint:gochecknoglobals // fixed schema
	FieldFishCountGlobal,
	FieldTotalWeightGlobal,
	FieldBiggestCatch,
	FieldPoints,
	FieldSectorCoefficient,
}

// DecodeCompetitor builds a Competitor from a stored document.
func DecodeCompetitor(id string, f map[string]any) Competitor {
	box, _ := Count(f[FieldBoxNumber])
	return Competitor{
		ID:        id,
		FullName:  str(f[FieldFullName]),
		Team:      str(f[FieldTeam]),
		Sector:    NormalizeSector(str(f[FieldSector])),
		BoxNumber: box,
		BoxCode:   str(f[FieldBoxCode]),
		Photo:     str(f[FieldPhoto]),
		Stored: StoredDerived{
			FishCountGlobal:   numPtr(f, FieldFishCountGlobal),
			TotalWeightGlobal: numPtr(f, FieldTotalWeightGlobal),
			BiggestCatch:      numPtr(f, FieldBiggestCatch),
			Points:            numPtr(f, FieldPoints),
			SectorCoefficient: numPtr(f, FieldSectorCoefficient),
		},
	}
}

// DecodeHourlyEntry builds an HourlyEntry from a stored document.
// Malformed numbers decode as 0; an unknown status decodes as NotSubmitted.
func DecodeHourlyEntry(id string, f map[string]any) HourlyEntry {
	hour, _ := Count(f[FieldHour])
	fish, _ := Count(f[FieldFishCount])
	st, _ := status.Parse(str(f[FieldStatus]))
	return HourlyEntry{
		ID:           id,
		CompetitorID: str(f[FieldCompetitorID]),
		Hour:         hour,
		FishCount:    fish,
		TotalWeight:  Weight(f[FieldTotalWeight]),
		Status:       st,
	}
}

// DecodeBigCatchEntry builds a BigCatchEntry from a stored document.
func DecodeBigCatchEntry(id string, f map[string]any) BigCatchEntry {
	_, hasCanonical := f[FieldGrossePrise]
	_, hasLegacy := f[FieldLegacyBiggestCatch]
	st, _ := status.Parse(str(f[FieldStatus]))
	return BigCatchEntry{
		ID:                id,
		CompetitorID:      str(f[FieldCompetitorID]),
		Canonical:         weightPtr(f, FieldGrossePrise),
		Legacy:            weightPtr(f, FieldLegacyBiggestCatch),
		HasCanonicalField: hasCanonical,
		HasLegacyField:    hasLegacy,
		Status:            st,
	}
}

// Number converts a stored value to float64. Strings are parsed so that
// string-typed stores (Redis hashes) decode the same as typed ones.
func Number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		p, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = p
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Count decodes a non-negative integer. Anything else yields (0, false).
func Count(v any) (int, bool) {
	f, ok := Number(v)
	if !ok || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// Weight decodes a non-negative weight; anything else yields 0.
func Weight(v any) float64 {
	f, ok := Number(v)
	if !ok || f < 0 {
		return 0
	}
	return f
}

func weightPtr(f map[string]any, key string) *float64 {
	v, ok := f[key]
	if !ok {
		return nil
	}
	n, ok := Number(v)
	if !ok || n < 0 {
		return nil
	}
	return &n
}

func numPtr(f map[string]any, key string) *float64 {
	v, ok := f[key]
	if !ok {
		return nil
	}
	n, ok := Number(v)
	if !ok {
		return nil
	}
	return &n
}

func str(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		if n, ok := Number(s); ok {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
		return ""
	}
}
