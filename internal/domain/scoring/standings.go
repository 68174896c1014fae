package scoring

import (
	"cmp"
	"slices"
	"strings"

	"github.com/okian/sectorscore/internal/domain/model"
	"github.com/okian/sectorscore/internal/domain/types"
)

// Rank orders competitors into the general ranking and one ranking per sector.
//
// General: points desc, fish count desc, id asc.
// Sector: coefficient desc, points desc, box number asc, id asc.
// Ranks are 1-based positions; ties are broken, never shared.
// Competitors outside the known sectors appear in the general ranking only.
func Rank(competitors []model.Competitor, res Result) types.Standings {
	entries := make([]types.Entry, 0, len(competitors))
	for _, c := range competitors {
		d := res.Derived[c.ID]
		entries = append(entries, types.Entry{
			CompetitorID:      c.ID,
			FullName:          c.DisplayName(),
			Team:              c.Team,
			Sector:            c.Sector,
			BoxNumber:         c.BoxNumber,
			BoxCode:           c.BoxCode,
			FishCount:         d.FishCountGlobal,
			TotalWeight:       d.TotalWeightGlobal,
			BiggestCatch:      d.BiggestCatch,
			Points:            d.Points,
			SectorCoefficient: d.SectorCoefficient,
		})
	}

	general := slices.Clone(entries)
	slices.SortFunc(general, func(a, b types.Entry) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		if c := cmp.Compare(b.FishCount, a.FishCount); c != 0 {
			return c
		}
		return strings.Compare(a.CompetitorID, b.CompetitorID)
	})
	assignRanks(general)

	sectors := make(map[string][]types.Entry)
	for _, s := range model.Sectors {
		sectors[s] = []types.Entry{}
	}
	for _, e := range entries {
		if !model.IsKnownSector(e.Sector) {
			continue
		}
		sectors[e.Sector] = append(sectors[e.Sector], e)
	}
	for _, rows := range sectors {
		slices.SortFunc(rows, compareInSector)
		assignRanks(rows)
	}

	return types.Standings{General: general, Sectors: sectors}
}

func compareInSector(a, b types.Entry) int {
	if c := cmp.Compare(b.SectorCoefficient, a.SectorCoefficient); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Points, a.Points); c != 0 {
		return c
	}
	if c := cmp.Compare(a.BoxNumber, b.BoxNumber); c != 0 {
		return c
	}
	return strings.Compare(a.CompetitorID, b.CompetitorID)
}

func assignRanks(rows []types.Entry) {
	for i := range rows {
		rows[i].Rank = i + 1
	}
}
