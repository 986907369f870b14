package model_test

import (
	"encoding/json"
	"math"
	"testing"

	model "github.com/okian/aigi/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestValue(t *testing.T) {
	convey.Convey("Given optional metric values", t, func() {
		convey.Convey("When wrapping a finite number", func() {
			v := model.Some(12.5)

			convey.Convey("Then it should be present", func() {
				f, ok := v.Get()
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(f, convey.ShouldEqual, 12.5)
				convey.So(v.Or(-1), convey.ShouldEqual, 12.5)
			})
		})

		convey.Convey("When wrapping non-finite numbers", func() {
			convey.Convey("Then they should collapse to missing", func() {
				convey.So(model.Some(math.NaN()).Present(), convey.ShouldBeFalse)
				convey.So(model.Some(math.Inf(1)).Present(), convey.ShouldBeFalse)
				convey.So(model.Some(math.Inf(-1)).Present(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When using the zero value", func() {
			var v model.Value

			convey.Convey("Then it should be missing and distinct from zero", func() {
				convey.So(v.Present(), convey.ShouldBeFalse)
				convey.So(v.Or(7), convey.ShouldEqual, 7)
				convey.So(model.Some(0).Present(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When subtracting and averaging", func() {
			convey.So(model.Sub(model.Some(10), model.Some(4)).Or(-1), convey.ShouldEqual, 6)
			convey.So(model.Sub(model.Some(10), model.Missing).Present(), convey.ShouldBeFalse)
			convey.So(model.Mean(model.Some(1), model.Some(2), model.Some(3)).Or(-1), convey.ShouldEqual, 2)
			convey.So(model.Mean(model.Some(1), model.Missing).Present(), convey.ShouldBeFalse)
			convey.So(model.Mean().Present(), convey.ShouldBeFalse)
		})

		convey.Convey("When encoding as JSON", func() {
			b, err := json.Marshal([]model.Value{model.Some(1.5), model.Missing})
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(b), convey.ShouldEqual, "[1.5,null]")

			var back []model.Value
			convey.So(json.Unmarshal(b, &back), convey.ShouldBeNil)
			convey.So(back[0].Or(-1), convey.ShouldEqual, 1.5)
			convey.So(back[1].Present(), convey.ShouldBeFalse)
		})
	})
}

func TestColumns(t *testing.T) {
	convey.Convey("Given the scored column set", t, func() {
		convey.Convey("Then names should round-trip", func() {
			for _, c := range model.Columns() {
				got, ok := model.ParseColumn(c.String())
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(got, convey.ShouldEqual, c)
			}
			_, ok := model.ParseColumn("nope")
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("Then ten columns should be feed-backed", func() {
			convey.So(len(model.RawColumns()), convey.ShouldEqual, 10)
			convey.So(model.ReleaseFrequency.Raw(), convey.ShouldBeTrue)
			convey.So(model.EloDelta.Raw(), convey.ShouldBeFalse)
		})

		convey.Convey("Then only momentum-relevant metrics should have previous values", func() {
			convey.So(model.Arena.HasPrevious(), convey.ShouldBeTrue)
			convey.So(model.CitationVelocity.HasPrevious(), convey.ShouldBeTrue)
			convey.So(model.Multimodal.HasPrevious(), convey.ShouldBeFalse)
			convey.So(model.GitHubGrowth.HasPrevious(), convey.ShouldBeFalse)
		})

		convey.Convey("Then tiers should validate", func() {
			convey.So(model.TierA.Valid(), convey.ShouldBeTrue)
			convey.So(model.Tier("D").Valid(), convey.ShouldBeFalse)
		})
	})
}

func TestRecordAndTable(t *testing.T) {
	convey.Convey("Given a table built from registry entries", t, func() {
		table := model.NewTable(2)
		convey.So(table.Add(model.NewRecord(model.Spec{Name: "gpt-4", Tier: model.TierA})), convey.ShouldBeTrue)
		convey.So(table.Add(model.NewRecord(model.Spec{Name: "llama-3-70b", Tier: model.TierB})), convey.ShouldBeTrue)

		convey.Convey("When adding a duplicate name", func() {
			convey.Convey("Then it should be rejected", func() {
				convey.So(table.Add(model.NewRecord(model.Spec{Name: "gpt-4", Tier: model.TierC})), convey.ShouldBeFalse)
				convey.So(table.Len(), convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When setting columns by identifier", func() {
			r, ok := table.Get("gpt-4")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(r.SetColumn(model.Arena, model.Some(1250)), convey.ShouldBeTrue)
			convey.So(r.SetPrevious(model.Arena, model.Some(1190)), convey.ShouldBeTrue)
			convey.So(r.SetPrevious(model.Robustness, model.Some(1)), convey.ShouldBeFalse)

			convey.Convey("Then named fields should reflect the values", func() {
				convey.So(r.Arena.Or(0), convey.ShouldEqual, 1250)
				convey.So(r.PrevArena.Or(0), convey.ShouldEqual, 1190)
				convey.So(r.Previous(model.Robustness).Present(), convey.ShouldBeFalse)
			})

			convey.Convey("Then column views should follow table order", func() {
				vals := table.ColumnValues(model.Arena)
				convey.So(len(vals), convey.ShouldEqual, 2)
				convey.So(vals[0].Or(0), convey.ShouldEqual, 1250)
				convey.So(vals[1].Present(), convey.ShouldBeFalse)
				convey.So(table.MissingCount(model.Arena), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When setting pillar scores", func() {
			r, _ := table.Get("llama-3-70b")
			r.SetPillar(model.Adoption, model.Some(42))

			convey.Convey("Then they should be readable by pillar", func() {
				convey.So(r.Pillar(model.Adoption).Or(0), convey.ShouldEqual, 42)
				convey.So(r.Pillar(model.Intelligence).Present(), convey.ShouldBeFalse)
			})
		})
	})
}
