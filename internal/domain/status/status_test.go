package status_test

import (
	"testing"

	"github.com/okian/sectorscore/internal/domain/status"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStatus(t *testing.T) {
	Convey("Given the entry status model", t, func() {
		Convey("When parsing every wire value", func() {
			for _, s := range status.All() {
				parsed, ok := status.Parse(s.String())
				So(ok, ShouldBeTrue)
				So(parsed, ShouldEqual, s)
			}
		})

		Convey("When parsing unknown or empty values", func() {
			for _, raw := range []string{"", "locked", "LOCKED_JUDGE", "done"} {
				parsed, ok := status.Parse(raw)

				So(ok, ShouldBeFalse)
				So(parsed, ShouldEqual, status.NotSubmitted)
			}
		})

		Convey("When checking countability", func() {
			So(status.LockedJudge.IsCountable(), ShouldBeTrue)
			So(status.LockedAdmin.IsCountable(), ShouldBeTrue)
			So(status.OfflineJudge.IsCountable(), ShouldBeTrue)
			So(status.OfflineAdmin.IsCountable(), ShouldBeTrue)

			Convey("Then pending and absent entries never count", func() {
				So(status.Pending.IsCountable(), ShouldBeFalse)
				So(status.NotSubmitted.IsCountable(), ShouldBeFalse)
				So(status.Status(200).IsCountable(), ShouldBeFalse)
			})
		})

		Convey("When rendering", func() {
			So(status.NotSubmitted.String(), ShouldEqual, "")
			So(status.OfflineAdmin.String(), ShouldEqual, "offline_admin")
			So(status.Status(200).String(), ShouldEqual, "")
		})

		Convey("When parsing tolerates surrounding whitespace", func() {
			parsed, ok := status.Parse(" locked_admin ")
			So(ok, ShouldBeTrue)
			So(parsed, ShouldEqual, status.LockedAdmin)
		})
	})
}
