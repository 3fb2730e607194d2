package nflweek

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

var lim = Limits{MaxNFLWeek: 18, MaxStandingsWeek: 14}

func TestDerive(t *testing.T) {
	Convey("Given a mid-season state", t, func() {
		w := Derive(State{Season: "2025", SeasonType: "regular", Week: 9}, lim)

		Convey("Then current and prior weeks follow the state", func() {
			So(w.Season, ShouldEqual, "2025")
			So(w.SeasonType, ShouldEqual, "regular")
			So(*w.RawWeek, ShouldEqual, 9)
			So(w.CurrentWeek, ShouldEqual, 9)
			So(*w.PriorWeek, ShouldEqual, 8)
			So(w.CappedMaxWeekForStandings, ShouldEqual, 9)
			So(*w.CappedPriorForStandings, ShouldEqual, 8)
		})

		Convey("Then the week lists cover the allowed ranges", func() {
			So(w.WeeksArrayAll, ShouldHaveLength, 18)
			So(w.WeeksArrayAll[0], ShouldEqual, 1)
			So(w.WeeksArrayAll[17], ShouldEqual, 18)
			So(w.WeeksArrayStandings, ShouldResemble, []int{1, 2, 3, 4, 5, 6, 7, 8, 9})
		})
	})

	Convey("Given a week past the standings cap", t, func() {
		w := Derive(State{Season: "2025", SeasonType: "regular", Week: 16}, lim)

		Convey("Then the standings values are capped", func() {
			So(w.CurrentWeek, ShouldEqual, 16)
			So(w.CappedMaxWeekForStandings, ShouldEqual, 14)
			So(*w.CappedPriorForStandings, ShouldEqual, 13)
			So(w.WeeksArrayStandings, ShouldHaveLength, 14)
		})
	})

	Convey("Given a week outside the NFL calendar", t, func() {
		high := Derive(State{Week: 22}, lim)
		low := Derive(State{Week: -3}, lim)

		Convey("Then the current week is clamped but the raw week is kept", func() {
			So(high.CurrentWeek, ShouldEqual, 18)
			So(*high.RawWeek, ShouldEqual, 22)
			So(low.CurrentWeek, ShouldEqual, 1)
			So(*low.RawWeek, ShouldEqual, -3)
			So(low.PriorWeek, ShouldBeNil)
		})
	})

	Convey("Given an off-season state without a week", t, func() {
		w := Derive(State{Season: "2026"}, lim)

		Convey("Then week one and the off season type are assumed", func() {
			So(w.SeasonType, ShouldEqual, "off")
			So(*w.RawWeek, ShouldEqual, 1)
			So(w.CurrentWeek, ShouldEqual, 1)
			So(w.PriorWeek, ShouldBeNil)
			So(w.CappedPriorForStandings, ShouldBeNil)
			So(w.WeeksArrayStandings, ShouldResemble, []int{1})
		})
	})
}

func TestFallback(t *testing.T) {
	Convey("Given the fallback payload", t, func() {
		w := Fallback(lim)

		Convey("Then it points at week one of an unknown season", func() {
			So(w.Season, ShouldEqual, "")
			So(w.SeasonType, ShouldEqual, "off")
			So(*w.RawWeek, ShouldEqual, 1)
			So(w.CurrentWeek, ShouldEqual, 1)
			So(w.PriorWeek, ShouldBeNil)
			So(w.CappedMaxWeekForStandings, ShouldEqual, 1)
			So(w.WeeksArrayAll, ShouldHaveLength, 18)
			So(w.WeeksArrayStandings, ShouldResemble, []int{1})
		})
	})
}
