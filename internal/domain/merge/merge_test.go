package merge

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/aigi/internal/domain/feed"
	"github.com/okian/aigi/internal/domain/model"
)

func specs() []model.Spec {
	return []model.Spec{
		{Name: "gpt-4", Tier: model.TierA},
		{Name: "llama-3-70b", Tier: model.TierB},
		{Name: "mistral-large", Tier: model.TierC},
	}
}

func TestMerge(t *testing.T) {
	arena := feed.Source{Column: model.Arena}
	prevArena := feed.Source{Column: model.Arena, Previous: true}

	Convey("Given a registry and feeds", t, func() {
		set, err := feed.NewSet(
			feed.Feed{Source: arena, Rows: []feed.Row{
				{Model: "mistral-large", Value: model.Some(1150)},
				{Model: "unknown-model", Value: model.Some(999)},
				{Model: "gpt-4", Value: model.Some(1250)},
				{Model: "gpt-4", Value: model.Some(1)},
			}},
			feed.Feed{Source: prevArena, Rows: []feed.Row{
				{Model: "gpt-4", Value: model.Some(1190)},
			}},
		)
		So(err, ShouldBeNil)

		Convey("When merged", func() {
			table, st := Merge(specs(), set)

			Convey("Then every registry model appears once in registry order", func() {
				So(table.Len(), ShouldEqual, 3)
				So(table.Records()[0].Name, ShouldEqual, "gpt-4")
				So(table.Records()[2].Name, ShouldEqual, "mistral-large")
			})

			Convey("Then values land on the right model", func() {
				r, _ := table.Get("gpt-4")
				So(r.Arena.Or(0), ShouldEqual, 1250)
				So(r.PrevArena.Or(0), ShouldEqual, 1190)
				r, _ = table.Get("mistral-large")
				So(r.Arena.Or(0), ShouldEqual, 1150)
				So(r.PrevArena.Present(), ShouldBeFalse)
			})

			Convey("Then models absent from a feed are missing", func() {
				r, _ := table.Get("llama-3-70b")
				So(r.Arena.Present(), ShouldBeFalse)
				So(r.MMLU.Present(), ShouldBeFalse)
			})

			Convey("Then unknown and repeated rows are counted", func() {
				So(st.Unknown[arena], ShouldEqual, 1)
				So(st.Duplicates[arena], ShouldEqual, 1)
				So(st.Dropped(), ShouldEqual, 2)
			})
		})

		Convey("When there are no feeds at all", func() {
			table, st := Merge(specs(), nil)
			So(table.Len(), ShouldEqual, 3)
			So(table.MissingCount(model.Arena), ShouldEqual, 3)
			So(st.Dropped(), ShouldEqual, 0)
		})

		Convey("When previous values are filled from current", func() {
			table, _ := Merge(specs(), set)
			n := PreviousFromCurrent(table)

			Convey("Then only missing previous values are filled", func() {
				So(n, ShouldEqual, 1)
				r, _ := table.Get("gpt-4")
				So(r.PrevArena.Or(0), ShouldEqual, 1190)
				r, _ = table.Get("mistral-large")
				So(r.PrevArena.Or(0), ShouldEqual, 1150)
			})
		})
	})
}
