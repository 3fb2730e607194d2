package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/allplay/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNFLWeek(t *testing.T) {
	Convey("Given an NFLWeek in week one", t, func() {
		raw := 1
		w := types.NFLWeek{
			Season:                    "2025",
			SeasonType:                "regular",
			RawWeek:                   &raw,
			CurrentWeek:               1,
			CappedMaxWeekForStandings: 1,
			WeeksArrayAll:             []int{1, 2},
			WeeksArrayStandings:       []int{1},
		}

		Convey("When encoding to JSON", func() {
			b, err := json.Marshal(w)
			So(err, ShouldBeNil)

			var m map[string]any
			So(json.Unmarshal(b, &m), ShouldBeNil)

			Convey("Then prior weeks are explicit nulls", func() {
				So(m, ShouldContainKey, "priorWeek")
				So(m["priorWeek"], ShouldBeNil)
				So(m, ShouldContainKey, "cappedPriorForStandings")
				So(m["cappedPriorForStandings"], ShouldBeNil)
			})

			Convey("Then keys use the dashboard's casing", func() {
				So(m["season_type"], ShouldEqual, "regular")
				So(m["rawWeek"], ShouldEqual, 1)
				So(m["cappedMaxWeekForStandings"], ShouldEqual, 1)
			})
		})
	})
}

func TestStarter(t *testing.T) {
	Convey("Given a starter unknown to the players map", t, func() {
		s := types.Starter{ID: "9999", Name: "Unknown"}

		Convey("When encoding to JSON", func() {
			b, err := json.Marshal(s)
			So(err, ShouldBeNil)

			Convey("Then position and team are empty and the headshot is null", func() {
				So(string(b), ShouldContainSubstring, `"pos":""`)
				So(string(b), ShouldContainSubstring, `"team":""`)
				So(string(b), ShouldContainSubstring, `"headshot":null`)
			})
		})
	})
}

func TestProjection(t *testing.T) {
	Convey("Given a projection", t, func() {
		p := types.Projection{RosterID: 3, ProjectedPoints: 101.25}

		Convey("Then it encodes with snake_case keys", func() {
			b, err := json.Marshal(p)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `{"roster_id":3,"projected_points":101.25}`)
		})
	})
}
