package simulate

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/sectorscore/internal/domain/model"
	"github.com/okian/sectorscore/internal/domain/status"
)

// Weight ranges in grams. Whole grams keep every sum exact.
const (
	minFishWeight   = 150
	maxFishWeight   = 900
	maxFishPerHour  = 8
	minBigCatch     = 400
	maxBigCatch     = 3500
	bigCatchPresent = 0.8
)

var teams = []string{"Carpe Diem", "Les Ferrés", "Team Float", "Amorce", ""} //nolint:gochecknoglobals // fixture names

type record struct {
	id     string
	fields map[string]any
}

// expectation is what the engine must derive for one competitor, computed
// here without the scoring package.
type expectation struct {
	sector       string
	fish         int
	weight       float64
	biggestCatch float64
}

// tournament is a generated data set plus its expected outcome.
type tournament struct {
	competitors []record
	hourly      []record
	bigCatches  []record
	legacyOnly  int
	duplicates  int
	expected    map[string]*expectation
}

type generator struct {
	cfg Config
	rng *rand.Rand
	ids *rand.ChaCha8
}

func newGenerator(cfg Config) *generator {
	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[:8], cfg.Seed)
	return &generator{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		ids: rand.NewChaCha8(seed),
	}
}

func (g *generator) id() string {
	return uuid.Must(uuid.NewRandomFromReader(g.ids)).String()
}

func (g *generator) status(quiet bool) status.Status {
	if quiet || g.rng.Float64() < g.cfg.PendingRate {
		return status.Pending
	}
	return countableStatuses[g.rng.IntN(len(countableStatuses))]
}

var countableStatuses = func() []status.Status { //nolint:gochecknoglobals // fixed lookup table
	var out []status.Status
	for _, s := range status.All() {
		if s.IsCountable() {
			out = append(out, s)
		}
	}
	return out
}()

func (g *generator) grams(lo, hi int) float64 {
	return float64(lo + g.rng.IntN(hi-lo+1))
}

func (g *generator) generate() tournament {
	t := tournament{expected: make(map[string]*expectation, g.cfg.Competitors)}

	for i := range g.cfg.Competitors {
		sector := model.Sectors[i%len(model.Sectors)]
		box := i/len(model.Sectors) + 1
		cid := g.id()
		t.competitors = append(t.competitors, record{id: cid, fields: map[string]any{
			model.FieldFullName:  fmt.Sprintf("Angler %03d", i+1),
			model.FieldTeam:      teams[g.rng.IntN(len(teams))],
			model.FieldSector:    sector,
			model.FieldBoxNumber: box,
			model.FieldBoxCode:   fmt.Sprintf("%s%02d", sector, box),
		}})
		exp := &expectation{sector: sector}
		t.expected[cid] = exp
		quiet := sector == g.cfg.QuietSector

		for hour := model.FirstHour; hour <= model.LastHour; hour++ {
			if g.rng.Float64() < g.cfg.MissingRate {
				continue
			}
			copies := 1
			if g.rng.Float64() < g.cfg.DuplicateRate {
				copies = 2
			}
			var hourEntries []record
			for range copies {
				fish := g.rng.IntN(maxFishPerHour + 1)
				weight := 0.0
				for range fish {
					weight += g.grams(minFishWeight, maxFishWeight)
				}
				st := g.status(quiet)
				hourEntries = append(hourEntries, record{id: g.id(), fields: map[string]any{
					model.FieldCompetitorID: cid,
					model.FieldHour:         hour,
					model.FieldFishCount:    fish,
					model.FieldTotalWeight:  weight,
					model.FieldStatus:       st.String(),
				}})
			}
			if w, ok := firstCountable(hourEntries); ok {
				exp.fish += w.fields[model.FieldFishCount].(int)
				exp.weight += w.fields[model.FieldTotalWeight].(float64)
			}
			t.duplicates += countableCount(hourEntries) - min(1, countableCount(hourEntries))
			t.hourly = append(t.hourly, hourEntries...)
		}

		if g.rng.Float64() >= bigCatchPresent {
			continue
		}
		copies := 1
		if g.rng.Float64() < g.cfg.DuplicateRate {
			copies = 2
		}
		var catches []record
		for range copies {
			weight := g.grams(minBigCatch, maxBigCatch)
			fields := map[string]any{
				model.FieldCompetitorID: cid,
				model.FieldStatus:       g.status(quiet).String(),
			}
			if g.rng.Float64() < g.cfg.LegacyRate {
				fields[model.FieldLegacyBiggestCatch] = weight
				t.legacyOnly++
			} else {
				fields[model.FieldGrossePrise] = weight
			}
			catches = append(catches, record{id: g.id(), fields: fields})
		}
		if w, ok := firstCountable(catches); ok {
			if v, has := w.fields[model.FieldGrossePrise]; has {
				exp.biggestCatch = v.(float64)
			} else {
				exp.biggestCatch = w.fields[model.FieldLegacyBiggestCatch].(float64)
			}
		}
		t.duplicates += countableCount(catches) - min(1, countableCount(catches))
		t.bigCatches = append(t.bigCatches, catches...)
	}
	return t
}

func isCountable(r record) bool {
	st, _ := status.Parse(r.fields[model.FieldStatus].(string))
	return st.IsCountable()
}

// firstCountable picks the countable record with the lowest id.
func firstCountable(rs []record) (record, bool) {
	var winners []record
	for _, r := range rs {
		if isCountable(r) {
			winners = append(winners, r)
		}
	}
	if len(winners) == 0 {
		return record{}, false
	}
	return slices.MinFunc(winners, func(a, b record) int {
		return strings.Compare(a.id, b.id)
	}), true
}

func countableCount(rs []record) int {
	n := 0
	for _, r := range rs {
		if isCountable(r) {
			n++
		}
	}
	return n
}
