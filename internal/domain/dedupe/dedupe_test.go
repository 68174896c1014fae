package dedupe_test

import (
	"testing"

	"github.com/okian/sectorscore/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTracker(t *testing.T) {
	Convey("Given a new Tracker", t, func() {
		tr := dedupe.NewTracker(dedupe.WithExpectedSize(16))

		Convey("When claiming distinct slots", func() {
			So(tr.SeenAndRecord(dedupe.HourKey("c1", 1, "h1")), ShouldBeFalse)
			So(tr.SeenAndRecord(dedupe.HourKey("c1", 2, "h2")), ShouldBeFalse)
			So(tr.SeenAndRecord(dedupe.HourKey("c2", 1, "h3")), ShouldBeFalse)
			So(tr.SeenAndRecord(dedupe.BigCatchKey("c1", "b1")), ShouldBeFalse)

			Convey("Then every slot is recorded once and no duplicate is reported", func() {
				So(tr.Duplicates(), ShouldBeEmpty)
			})
		})

		Convey("When a slot is claimed twice", func() {
			tr.SeenAndRecord(dedupe.HourKey("c1", 3, "h1"))
			seen := tr.SeenAndRecord(dedupe.HourKey("c1", 3, "h7"))

			Convey("Then the first claim wins and the second is a duplicate", func() {
				So(seen, ShouldBeTrue)
				dups := tr.Duplicates()
				So(len(dups), ShouldEqual, 1)
				So(dups[0].RecordID, ShouldEqual, "h7")
				So(dups[0].String(), ShouldContainSubstring, "hour 3")
			})
		})

		Convey("When big-catch slots collide", func() {
			tr.SeenAndRecord(dedupe.BigCatchKey("c9", "b1"))
			So(tr.SeenAndRecord(dedupe.BigCatchKey("c9", "b2")), ShouldBeTrue)
			So(tr.Duplicates()[0].String(), ShouldContainSubstring, "big catch b2")
		})

		Convey("When the original claim is repeated", func() {
			tr.SeenAndRecord(dedupe.HourKey("c1", 4, "h1"))
			So(tr.SeenAndRecord(dedupe.HourKey("c1", 4, "h1")), ShouldBeTrue)
			So(tr.Duplicates(), ShouldHaveLength, 1)
		})

		Convey("When hourly and big-catch keys share a competitor", func() {
			So(tr.SeenAndRecord(dedupe.HourKey("c1", 1, "h1")), ShouldBeFalse)
			So(tr.SeenAndRecord(dedupe.BigCatchKey("c1", "b1")), ShouldBeFalse)
		})

		Convey("When callers mutate the duplicates slice", func() {
			tr.SeenAndRecord(dedupe.BigCatchKey("c1", "b1"))
			tr.SeenAndRecord(dedupe.BigCatchKey("c1", "b2"))
			dups := tr.Duplicates()
			dups[0].RecordID = "changed"
			So(tr.Duplicates()[0].RecordID, ShouldEqual, "b2")
		})
	})
}
