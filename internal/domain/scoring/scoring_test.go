package scoring_test

import (
	"testing"

	"github.com/okian/sectorscore/internal/domain/model"
	"github.com/okian/sectorscore/internal/domain/scoring"
	"github.com/okian/sectorscore/internal/domain/status"
	. "github.com/smartystreets/goconvey/convey"
)

func hourly(id, competitor string, hour, fish int, weight float64, st status.Status) model.HourlyEntry {
	return model.HourlyEntry{ID: id, CompetitorID: competitor, Hour: hour, FishCount: fish, TotalWeight: weight, Status: st}
}

func legacyBigCatch(id, competitor string, weight float64, st status.Status) model.BigCatchEntry {
	w := weight
	return model.BigCatchEntry{ID: id, CompetitorID: competitor, Legacy: &w, HasLegacyField: true, Status: st}
}

func canonicalBigCatch(id, competitor string, weight float64, st status.Status) model.BigCatchEntry {
	w := weight
	return model.BigCatchEntry{ID: id, CompetitorID: competitor, Canonical: &w, HasCanonicalField: true, Status: st}
}

func TestPoints(t *testing.T) {
	Convey("Given the fixed points formula", t, func() {
		So(scoring.Points(0, 0), ShouldEqual, 0)
		So(scoring.Points(3, 150), ShouldEqual, 300)
		So(scoring.Points(1, 0.5), ShouldEqual, 50.5)
	})
}

func TestAggregate(t *testing.T) {
	Convey("Given a competitor with a partial tournament", t, func() {
		entries := []model.HourlyEntry{
			hourly("h1", "c1", 1, 2, 100, status.LockedJudge),
			hourly("h3", "c1", 3, 1, 50, status.OfflineAdmin),
			hourly("hx", "c2", 1, 9, 900, status.LockedJudge),
		}

		Convey("When aggregating hours 1 and 3 only", func() {
			tot := scoring.Aggregate("c1", entries, nil)

			Convey("Then missing hours count as zero", func() {
				So(tot.FishCountGlobal, ShouldEqual, 3)
				So(tot.TotalWeightGlobal, ShouldEqual, 150)
				So(tot.Points(), ShouldEqual, 300)
				So(tot.BiggestCatch, ShouldEqual, 0)
				So(tot.Duplicates, ShouldBeEmpty)
			})
		})

		Convey("When an entry is still pending", func() {
			pending := append(entries, hourly("h5", "c1", 5, 4, 400, status.Pending))
			before := scoring.Aggregate("c1", pending, nil)

			Convey("Then it contributes nothing", func() {
				So(before.FishCountGlobal, ShouldEqual, 3)
				So(before.TotalWeightGlobal, ShouldEqual, 150)
			})

			Convey("Then locking it with unchanged fields includes it", func() {
				pending[len(pending)-1].Status = status.LockedJudge
				after := scoring.Aggregate("c1", pending, nil)
				So(after.FishCountGlobal, ShouldEqual, 7)
				So(after.TotalWeightGlobal, ShouldEqual, 550)
			})
		})

		Convey("When entries fall outside hours 1..7", func() {
			out := append(entries,
				hourly("h0", "c1", 0, 5, 500, status.LockedAdmin),
				hourly("h8", "c1", 8, 5, 500, status.LockedAdmin),
			)
			tot := scoring.Aggregate("c1", out, nil)
			So(tot.FishCountGlobal, ShouldEqual, 3)
		})

		Convey("When two countable entries share an hour", func() {
			dup := append(entries, hourly("h9", "c1", 1, 10, 1000, status.LockedAdmin))
			tot := scoring.Aggregate("c1", dup, nil)

			Convey("Then the first one in slice order wins and the other is reported", func() {
				So(tot.FishCountGlobal, ShouldEqual, 3)
				So(tot.TotalWeightGlobal, ShouldEqual, 150)
				So(len(tot.Duplicates), ShouldEqual, 1)
				So(tot.Duplicates[0].RecordID, ShouldEqual, "h9")
			})
		})

		Convey("When a pending entry precedes a countable one for the same hour", func() {
			mixed := []model.HourlyEntry{
				hourly("a", "c1", 2, 8, 800, status.Pending),
				hourly("b", "c1", 2, 1, 10, status.LockedJudge),
			}
			tot := scoring.Aggregate("c1", mixed, nil)

			Convey("Then the countable one is used and no duplicate is reported", func() {
				So(tot.FishCountGlobal, ShouldEqual, 1)
				So(tot.Duplicates, ShouldBeEmpty)
			})
		})
	})

	Convey("Given big-catch records", t, func() {
		Convey("When only the legacy field holds 42", func() {
			tot := scoring.Aggregate("c1", nil, []model.BigCatchEntry{legacyBigCatch("b1", "c1", 42, status.LockedJudge)})
			So(tot.BiggestCatch, ShouldEqual, 42)
		})

		Convey("When the same record has been migrated", func() {
			tot := scoring.Aggregate("c1", nil, []model.BigCatchEntry{canonicalBigCatch("b1", "c1", 42, status.LockedJudge)})
			So(tot.BiggestCatch, ShouldEqual, 42)
		})

		Convey("When the big catch is pending", func() {
			tot := scoring.Aggregate("c1", nil, []model.BigCatchEntry{canonicalBigCatch("b1", "c1", 42, status.Pending)})
			So(tot.BiggestCatch, ShouldEqual, 0)
		})

		Convey("When two countable big catches exist", func() {
			tot := scoring.Aggregate("c1", nil, []model.BigCatchEntry{
				canonicalBigCatch("b1", "c1", 42, status.LockedJudge),
				canonicalBigCatch("b2", "c1", 99, status.LockedAdmin),
			})
			So(tot.BiggestCatch, ShouldEqual, 42)
			So(tot.Duplicates[0].RecordID, ShouldEqual, "b2")
		})
	})

	Convey("Given identical inputs", t, func() {
		entries := []model.HourlyEntry{
			hourly("h1", "c1", 1, 2, 100.25, status.LockedJudge),
			hourly("h2", "c1", 2, 1, 0.125, status.OfflineJudge),
		}
		bigs := []model.BigCatchEntry{canonicalBigCatch("b1", "c1", 77, status.OfflineAdmin)}

		Convey("When aggregating twice", func() {
			So(scoring.Aggregate("c1", entries, bigs), ShouldResemble, scoring.Aggregate("c1", entries, bigs))
		})
	})
}

func TestSectorCoefficient(t *testing.T) {
	Convey("Given the sector coefficient formula", t, func() {
		So(scoring.SectorCoefficient(100, 2, 2), ShouldEqual, 100)
		So(scoring.SectorCoefficient(300, 3, 6), ShouldEqual, 150)

		Convey("When the competitor caught nothing", func() {
			So(scoring.SectorCoefficient(500, 0, 10), ShouldEqual, 0)
		})

		Convey("When the sector caught nothing", func() {
			So(scoring.SectorCoefficient(500, 0, 0), ShouldEqual, 0)
		})
	})
}

func TestCompute(t *testing.T) {
	Convey("Given a two-competitor sector", t, func() {
		snap := model.Snapshot{
			Competitors: []model.Competitor{
				{ID: "a", Sector: "A", BoxNumber: 1},
				{ID: "b", Sector: "A", BoxNumber: 2},
				{ID: "z", Sector: "B", BoxNumber: 1},
			},
			Hourly: []model.HourlyEntry{
				hourly("h1", "a", 1, 2, 0, status.LockedJudge),
				hourly("h2", "z", 1, 1, 40, status.LockedJudge),
			},
		}

		Convey("When computing", func() {
			res := scoring.Compute(snap)

			Convey("Then A's coefficient is (points*fish)/sectorTotal and B's is zero", func() {
				So(res.Derived["a"].Points, ShouldEqual, 100)
				So(res.SectorFish["A"], ShouldEqual, 2)
				So(res.Derived["a"].SectorCoefficient, ShouldEqual, 100)
				So(res.Derived["b"].Points, ShouldEqual, 0)
				So(res.Derived["b"].SectorCoefficient, ShouldEqual, 0)
			})

			Convey("Then sectors are normalized independently", func() {
				So(res.SectorFish["B"], ShouldEqual, 1)
				So(res.Derived["z"].SectorCoefficient, ShouldEqual, 90)
			})

			Convey("Then every competitor satisfies the points formula", func() {
				for _, c := range snap.Competitors {
					d := res.Derived[c.ID]
					So(d.Points, ShouldEqual, float64(d.FishCountGlobal)*50+d.TotalWeightGlobal)
					if d.FishCountGlobal == 0 {
						So(d.SectorCoefficient, ShouldEqual, 0)
					}
				}
			})
		})

		Convey("When entries reference unknown competitors", func() {
			snap.Hourly = append(snap.Hourly, hourly("hx", "ghost", 1, 50, 5000, status.LockedJudge))
			res := scoring.Compute(snap)

			Convey("Then they are ignored", func() {
				So(res.SectorFish["A"], ShouldEqual, 2)
				_, ok := res.Derived["ghost"]
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When Compute and Aggregate are given the same data", func() {
			res := scoring.Compute(snap)
			direct := scoring.Aggregate("z", snap.Hourly, snap.BigCatches)
			So(res.Totals["z"].FishCountGlobal, ShouldEqual, direct.FishCountGlobal)
			So(res.Totals["z"].TotalWeightGlobal, ShouldEqual, direct.TotalWeightGlobal)
		})
	})

	Convey("Given duplicates across competitors", t, func() {
		snap := model.Snapshot{
			Competitors: []model.Competitor{{ID: "a", Sector: "A"}, {ID: "b", Sector: "A"}},
			Hourly: []model.HourlyEntry{
				hourly("h1", "a", 1, 1, 10, status.LockedJudge),
				hourly("h2", "a", 1, 1, 10, status.LockedJudge),
				hourly("h3", "b", 4, 1, 10, status.LockedJudge),
				hourly("h4", "b", 4, 1, 10, status.OfflineJudge),
			},
		}
		res := scoring.Compute(snap)

		So(len(res.Duplicates), ShouldEqual, 2)
		So(res.Duplicates[0].CompetitorID, ShouldEqual, "a")
		So(res.Duplicates[1].CompetitorID, ShouldEqual, "b")
		So(res.SectorFish["A"], ShouldEqual, 2)
	})
}

func TestRank(t *testing.T) {
	Convey("Given computed results for two sectors", t, func() {
		snap := model.Snapshot{
			Competitors: []model.Competitor{
				{ID: "a1", FullName: "Alice", Sector: "A", BoxNumber: 2},
				{ID: "a2", FullName: "Bruno", Sector: "A", BoxNumber: 1},
				{ID: "a3", Sector: "A", BoxNumber: 3},
				{ID: "b1", FullName: "Chloe", Sector: "B", BoxNumber: 1},
			},
			Hourly: []model.HourlyEntry{
				hourly("h1", "a1", 1, 1, 500, status.LockedJudge),
				hourly("h2", "a2", 1, 3, 100, status.LockedJudge),
				hourly("h3", "b1", 1, 2, 1000, status.LockedJudge),
			},
		}
		st := scoring.Rank(snap.Competitors, scoring.Compute(snap))

		Convey("Then the general ranking orders by points", func() {
			So(st.General[0].CompetitorID, ShouldEqual, "b1")
			So(st.General[0].Rank, ShouldEqual, 1)
			So(st.General[1].CompetitorID, ShouldEqual, "a1")
			So(st.General[2].CompetitorID, ShouldEqual, "a2")
			So(st.General[3].FullName, ShouldEqual, "a3")
		})

		Convey("Then a sector ranking orders by coefficient", func() {
			rows := st.Sectors["A"]
			So(len(rows), ShouldEqual, 3)
			// a1: 550*1/4, a2: 250*3/4
			So(rows[0].CompetitorID, ShouldEqual, "a2")
			So(rows[1].CompetitorID, ShouldEqual, "a1")
			So(rows[2].CompetitorID, ShouldEqual, "a3")
			So(rows[2].Rank, ShouldEqual, 3)
		})

		Convey("Then empty known sectors are present", func() {
			So(st.Sectors["F"], ShouldNotBeNil)
			So(st.Sectors["F"], ShouldBeEmpty)
		})
	})

	Convey("Given competitors outside the known sectors", t, func() {
		snap := model.Snapshot{
			Competitors: []model.Competitor{
				{ID: "a1", Sector: "A", BoxNumber: 1},
				{ID: "g1", Sector: "G", BoxNumber: 1},
				{ID: "n1", Sector: "", BoxNumber: 1},
			},
			Hourly: []model.HourlyEntry{
				hourly("h1", "g1", 1, 2, 300, status.LockedJudge),
			},
		}
		st := scoring.Rank(snap.Competitors, scoring.Compute(snap))

		Convey("Then they are ranked in the general view only", func() {
			So(st.General, ShouldHaveLength, 3)
			So(st.General[0].CompetitorID, ShouldEqual, "g1")
			So(st.Sectors, ShouldHaveLength, len(model.Sectors))
			So(st.Sectors, ShouldNotContainKey, "G")
			So(st.Sectors, ShouldNotContainKey, "")
			So(st.Sectors["A"], ShouldHaveLength, 1)
		})
	})
}
