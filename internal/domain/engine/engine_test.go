package engine

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"

	"github.com/okian/aigi/internal/domain/feed"
	"github.com/okian/aigi/internal/domain/model"
	"github.com/okian/aigi/internal/domain/scoring"
)

func arenaOnly(t *testing.T) *feed.Set {
	set, err := feed.NewSet(feed.FromMap(
		feed.Source{Column: model.Arena},
		map[string]model.Value{"gpt-4": model.Some(1250), "llama-3-70b": model.Some(1180)},
	))
	require.NoError(t, err)
	return set
}

func TestRun(t *testing.T) {
	specs := []model.Spec{
		{Name: "gpt-4", Tier: model.TierA},
		{Name: "llama-3-70b", Tier: model.TierB},
	}

	Convey("Given two models and only an arena feed", t, func() {
		res := Run(specs, arenaOnly(t), scoring.DefaultWeights())
		gpt, _ := res.Table.Get("gpt-4")
		llama, _ := res.Table.Get("llama-3-70b")

		Convey("Then arena normalizes to the extremes", func() {
			So(gpt.Norm[model.Arena].Or(-1), ShouldEqual, 1)
			So(llama.Norm[model.Arena].Or(-1), ShouldEqual, 0)
		})

		Convey("Then intelligence uses only the arena weight", func() {
			So(gpt.IntelligenceScore.Or(-1), ShouldAlmostEqual, 30, 1e-9)
			So(llama.IntelligenceScore.Or(-1), ShouldEqual, 0)
		})

		Convey("Then model scores are not renormalized", func() {
			So(gpt.ModelScore.Or(-1), ShouldAlmostEqual, 15, 1e-9)
			So(llama.ModelScore.Or(-1), ShouldEqual, 0)
		})

		Convey("Then CIS is 7.5", func() {
			So(res.CIS, ShouldAlmostEqual, 7.5, 1e-9)
		})

		Convey("Then gaps are counted per column", func() {
			So(res.Missing[model.Arena], ShouldEqual, 0)
			So(res.Missing[model.MMLU], ShouldEqual, 2)
			So(res.Missing[model.EloDelta], ShouldEqual, 2)
		})
	})

	Convey("Given no feeds at all", t, func() {
		res := Run(specs, nil, scoring.DefaultWeights())

		Convey("Then every score is zero", func() {
			for _, r := range res.Table.Records() {
				So(r.ModelScore.Or(-1), ShouldEqual, 0)
			}
			So(res.CIS, ShouldEqual, 0)
		})
	})

	Convey("Given previous values are backfilled from current", t, func() {
		res := Run(specs, arenaOnly(t), scoring.DefaultWeights(), WithPreviousFromCurrent(true))
		gpt, _ := res.Table.Get("gpt-4")

		Convey("Then deltas collapse to zero", func() {
			So(res.Backfilled, ShouldEqual, 2)
			So(gpt.EloDelta.Or(-1), ShouldEqual, 0)
			So(gpt.MomentumScore.Or(-1), ShouldEqual, 0)
		})
	})

	Convey("Given the same inputs twice", t, func() {
		a := Run(specs, arenaOnly(t), scoring.DefaultWeights())
		b := Run(specs, arenaOnly(t), scoring.DefaultWeights())

		Convey("Then the runs agree", func() {
			So(a.CIS, ShouldEqual, b.CIS)
			for i, r := range a.Table.Records() {
				So(r.ModelScore, ShouldResemble, b.Table.Records()[i].ModelScore)
			}
		})
	})
}
