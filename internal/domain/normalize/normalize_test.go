package normalize

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/aigi/internal/domain/model"
)

func values(xs ...float64) []model.Value {
	out := make([]model.Value, len(xs))
	for i, x := range xs {
		out[i] = model.Some(x)
	}
	return out
}

func TestMinMax(t *testing.T) {
	Convey("Given a column of values", t, func() {
		Convey("When values spread", func() {
			out := MinMax(values(1250, 1150, 1200))

			Convey("Then the extremes map to 0 and 1", func() {
				So(out[0].Or(-1), ShouldEqual, 1)
				So(out[1].Or(-1), ShouldEqual, 0)
				So(out[2].Or(-1), ShouldAlmostEqual, 0.5, 1e-12)
			})
		})

		Convey("When every value is equal", func() {
			out := MinMax(values(7, 7, 7))

			Convey("Then all map to 0", func() {
				for _, v := range out {
					So(v.Or(-1), ShouldEqual, 0)
				}
			})
		})

		Convey("When some values are missing", func() {
			in := []model.Value{model.Some(2), model.Missing, model.Some(4), model.Some(math.NaN())}
			out := MinMax(in)

			Convey("Then missing stays missing and the rest use present extremes", func() {
				So(out[0].Or(-1), ShouldEqual, 0)
				So(out[1].Present(), ShouldBeFalse)
				So(out[2].Or(-1), ShouldEqual, 1)
				So(out[3].Present(), ShouldBeFalse)
			})
		})

		Convey("When a single value is present", func() {
			out := MinMax([]model.Value{model.Missing, model.Some(3)})
			So(out[1].Or(-1), ShouldEqual, 0)
		})

		Convey("When nothing is present", func() {
			out := MinMax([]model.Value{model.Missing, model.Missing})
			So(out[0].Present(), ShouldBeFalse)
			So(out[1].Present(), ShouldBeFalse)
			So(MinMax(nil), ShouldBeEmpty)
		})

		Convey("Then every present output lies in [0, 1]", func() {
			for _, v := range MinMax(values(-5, 3.2, 1e6, 0, 42)) {
				x, ok := v.Get()
				So(ok, ShouldBeTrue)
				So(x, ShouldBeBetweenOrEqual, 0, 1)
			}
		})
	})
}

func TestAll(t *testing.T) {
	Convey("Given a table with raw and derived columns", t, func() {
		tb := model.NewTable(2)
		a := model.NewRecord(model.Spec{Name: "a", Tier: model.TierA})
		b := model.NewRecord(model.Spec{Name: "b", Tier: model.TierB})
		a.Arena, b.Arena = model.Some(1250), model.Some(1150)
		a.EloDelta, b.EloDelta = model.Some(60), model.Some(60)
		tb.Add(a)
		tb.Add(b)

		All(tb)

		So(a.Norm[model.Arena].Or(-1), ShouldEqual, 1)
		So(b.Norm[model.Arena].Or(-1), ShouldEqual, 0)
		So(a.Norm[model.EloDelta].Or(-1), ShouldEqual, 0)
		So(a.Norm[model.MMLU].Present(), ShouldBeFalse)
	})
}
