package simulate

import (
	"context"
	"errors"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/sectorscore/internal/adapters/repository"
	"github.com/okian/sectorscore/internal/domain/model"
	"github.com/okian/sectorscore/internal/domain/status"
	"github.com/okian/sectorscore/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestGenerator(t *testing.T) {
	Convey("Given a fixed seed", t, func() {
		cfg := DefaultConfig()
		cfg.Competitors = 24
		cfg.Seed = 42

		a := newGenerator(cfg).generate()
		b := newGenerator(cfg).generate()

		Convey("Then generation is reproducible", func() {
			So(len(a.competitors), ShouldEqual, 24)
			So(a.competitors[0].id, ShouldEqual, b.competitors[0].id)
			So(len(a.hourly), ShouldEqual, len(b.hourly))
			So(a.duplicates, ShouldEqual, b.duplicates)
		})

		Convey("Then competitors are spread over every sector with unique boxes", func() {
			boxes := make(map[string]bool)
			sectors := make(map[string]int)
			for _, c := range a.competitors {
				key := c.fields[model.FieldBoxCode].(string)
				So(boxes[key], ShouldBeFalse)
				boxes[key] = true
				sectors[c.fields[model.FieldSector].(string)]++
			}
			So(len(sectors), ShouldEqual, len(model.Sectors))
		})

		Convey("Then hours stay within 1..7", func() {
			for _, h := range a.hourly {
				hour := h.fields[model.FieldHour].(int)
				So(hour, ShouldBeBetweenOrEqual, model.FirstHour, model.LastHour)
			}
		})

		Convey("Then the quiet sector has nothing countable", func() {
			for _, c := range a.competitors {
				if c.fields[model.FieldSector] == "F" {
					So(a.expected[c.id].fish, ShouldEqual, 0)
					So(a.expected[c.id].biggestCatch, ShouldEqual, 0)
				}
			}
		})
	})

	Convey("Given duplicate copies", t, func() {
		rs := []record{
			{id: "b", fields: map[string]any{model.FieldStatus: "locked_judge"}},
			{id: "a", fields: map[string]any{model.FieldStatus: "pending"}},
			{id: "c", fields: map[string]any{model.FieldStatus: "offline_admin"}},
		}

		Convey("Then the lowest countable id wins", func() {
			w, ok := firstCountable(rs)
			So(ok, ShouldBeTrue)
			So(w.id, ShouldEqual, "b")
			So(countableCount(rs), ShouldEqual, 2)
		})

		Convey("Then nothing wins when nothing is countable", func() {
			_, ok := firstCountable(rs[1:2])
			So(ok, ShouldBeFalse)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given an in-memory store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()

		Convey("When a default tournament is simulated", func() {
			rep, err := Run(ctx, store, DefaultConfig())

			Convey("Then every check passes", func() {
				So(err, ShouldBeNil)
				for _, ch := range rep.Checks {
					So(ch.Detail, ShouldBeEmpty)
				}
				So(rep.Passed, ShouldBeTrue)
				So(rep.Competitors, ShouldEqual, DefaultCompetitors)
				So(rep.FirstRun.Changed, ShouldEqual, DefaultCompetitors)
				So(rep.SecondRun.Changed, ShouldEqual, 0)
				So(rep.Remigration.Changed, ShouldEqual, 0)
				So(store.Count("competitors"), ShouldEqual, DefaultCompetitors)
			})
		})

		Convey("When every entry is duplicated and half are legacy", func() {
			cfg := DefaultConfig()
			cfg.Competitors = 13
			cfg.Seed = 7
			cfg.DuplicateRate = 1
			cfg.LegacyRate = 0.5
			cfg.QuietSector = ""

			rep, err := Run(ctx, store, cfg)

			So(err, ShouldBeNil)
			So(rep.Passed, ShouldBeTrue)
			So(rep.Duplicates, ShouldBeGreaterThan, 0)
			So(rep.FirstRun.Warnings, ShouldEqual, rep.Duplicates)
		})

		Convey("When the config is invalid", func() {
			cfg := DefaultConfig()
			cfg.Competitors = 0
			_, err := Run(ctx, store, cfg)
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)

			cfg = DefaultConfig()
			cfg.PendingRate = 1.5
			_, err = Run(ctx, store, cfg)
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := Run(cctx, store, DefaultConfig())
			So(err, ShouldNotBeNil)
		})
	})
}

func TestCountableStatuses(t *testing.T) {
	Convey("Given the statuses the generator draws for submitted entries", t, func() {
		Convey("Then they are exactly the countable explicit states", func() {
			So(countableStatuses, ShouldHaveLength, 4)
			for _, st := range countableStatuses {
				So(st.IsCountable(), ShouldBeTrue)
			}
			So(countableStatuses, ShouldNotContain, status.Pending)
		})
	})
}
