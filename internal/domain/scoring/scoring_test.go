package scoring_test

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/aigi/internal/domain/model"
	scoring "github.com/okian/aigi/internal/domain/scoring"
)

func normRecord(vals map[model.Column]float64) *model.Record {
	r := model.NewRecord(model.Spec{Name: "m", Tier: model.TierA})
	for c, v := range vals {
		r.Norm[c] = model.Some(v)
	}
	return r
}

func TestNewWeights(t *testing.T) {
	Convey("Given weight tables", t, func() {
		Convey("When the defaults are used", func() {
			w := scoring.DefaultWeights()

			Convey("Then the published values are exposed", func() {
				tbl := w.Tables()
				So(tbl.Intelligence["arena"], ShouldEqual, 0.30)
				So(tbl.Adoption["downloads"], ShouldEqual, 0.40)
				So(tbl.Momentum["citation_growth"], ShouldEqual, 0.15)
				So(tbl.Adoption, ShouldNotContainKey, "arena")
				So(w.Tier(model.TierB), ShouldEqual, 0.35)
				So(w.Pillar(model.Momentum), ShouldEqual, 0.2)
			})

			Convey("Then Tables returns an independent copy", func() {
				tbl := w.Tables()
				tbl.Tier["A"] = 9
				So(w.Tier(model.TierA), ShouldEqual, 0.5)
				So(tbl.Intelligence["humaneval"], ShouldEqual, 0.15)
			})
		})

		Convey("When a table does not sum to one", func() {
			tbl := scoring.DefaultTables()
			tbl.Tier["A"] = 0.6
			_, err := scoring.NewWeights(tbl)
			So(errors.Is(err, scoring.ErrInvalidWeights), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "tier")
		})

		Convey("When the sum is within tolerance", func() {
			tbl := scoring.DefaultTables()
			tbl.ModelScore["momentum"] = 0.2 + 1e-12
			_, err := scoring.NewWeights(tbl)
			So(err, ShouldBeNil)
		})

		Convey("When a key is missing", func() {
			tbl := scoring.DefaultTables()
			delete(tbl.Momentum, "elo_delta")
			tbl.Momentum["benchmark_delta"] = 0.6
			_, err := scoring.NewWeights(tbl)
			So(errors.Is(err, scoring.ErrInvalidWeights), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "elo_delta")
		})

		Convey("When an unknown key is present", func() {
			tbl := scoring.DefaultTables()
			tbl.Adoption["stars"] = 0
			_, err := scoring.NewWeights(tbl)
			So(errors.Is(err, scoring.ErrInvalidWeights), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "stars")
		})

		Convey("When a weight is negative or not finite", func() {
			tbl := scoring.DefaultTables()
			tbl.Intelligence["arena"] = -0.1
			tbl.Intelligence["mmlu"] = 0.6
			_, err := scoring.NewWeights(tbl)
			So(errors.Is(err, scoring.ErrInvalidWeights), ShouldBeTrue)

			tbl = scoring.DefaultTables()
			tbl.Intelligence["arena"] = math.NaN()
			_, err = scoring.NewWeights(tbl)
			So(errors.Is(err, scoring.ErrInvalidWeights), ShouldBeTrue)
		})
	})
}

func TestScorer(t *testing.T) {
	Convey("Given the default scorer", t, func() {
		s := scoring.NewScorer(scoring.DefaultWeights())

		Convey("When every intelligence column is at its maximum", func() {
			r := normRecord(map[model.Column]float64{
				model.Arena: 1, model.MMLU: 1, model.GSM8K: 1,
				model.HumanEval: 1, model.Multimodal: 1, model.Robustness: 1,
			})

			Convey("Then the intelligence score is 100", func() {
				So(s.Pillar(r, model.Intelligence).Or(-1), ShouldAlmostEqual, 100, 1e-9)
			})
		})

		Convey("When every intelligence column is at its minimum", func() {
			r := normRecord(map[model.Column]float64{
				model.Arena: 0, model.MMLU: 0, model.GSM8K: 0,
				model.HumanEval: 0, model.Multimodal: 0, model.Robustness: 0,
			})
			So(s.Pillar(r, model.Intelligence).Or(-1), ShouldEqual, 0)
		})

		Convey("When only arena is present", func() {
			r := normRecord(map[model.Column]float64{model.Arena: 1})

			Convey("Then the missing weight is not redistributed", func() {
				So(s.Pillar(r, model.Intelligence).Or(-1), ShouldAlmostEqual, 30, 1e-9)
				So(s.Pillar(r, model.Adoption).Or(-1), ShouldEqual, 0)
			})
		})

		Convey("When pillars are blended", func() {
			r := normRecord(nil)
			r.IntelligenceScore = model.Some(80)
			r.AdoptionScore = model.Some(50)
			r.MomentumScore = model.Missing

			Convey("Then missing pillars are skipped without renormalizing", func() {
				So(s.Model(r).Or(-1), ShouldAlmostEqual, 0.5*80+0.3*50, 1e-9)
			})
		})

		Convey("When a table is scored", func() {
			tb := model.NewTable(2)
			a := normRecord(map[model.Column]float64{model.Arena: 1, model.Downloads: 1, model.EloDelta: 1})
			a.Name = "a"
			b := normRecord(map[model.Column]float64{model.Arena: 0})
			b.Name = "b"
			tb.Add(a)
			tb.Add(b)
			s.Score(tb)

			Convey("Then every record carries pillar and model scores", func() {
				So(a.IntelligenceScore.Or(-1), ShouldAlmostEqual, 30, 1e-9)
				So(a.AdoptionScore.Or(-1), ShouldAlmostEqual, 40, 1e-9)
				So(a.MomentumScore.Or(-1), ShouldAlmostEqual, 30, 1e-9)
				So(a.ModelScore.Or(-1), ShouldAlmostEqual, 0.5*30+0.3*40+0.2*30, 1e-9)
				So(b.ModelScore.Or(-1), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a scorer that redistributes missing weight", t, func() {
		s := scoring.NewScorer(scoring.DefaultWeights(), scoring.WithRedistribution(true))

		Convey("When only arena is present", func() {
			r := normRecord(map[model.Column]float64{model.Arena: 1})

			Convey("Then the present column carries the whole pillar", func() {
				So(s.Pillar(r, model.Intelligence).Or(-1), ShouldAlmostEqual, 100, 1e-9)
				So(s.Pillar(r, model.Adoption).Present(), ShouldBeFalse)
			})
		})

		Convey("When only one pillar is present", func() {
			r := normRecord(nil)
			r.AdoptionScore = model.Some(50)
			So(s.Model(r).Or(-1), ShouldAlmostEqual, 50, 1e-9)
		})
	})
}
