package aggregate_test

import (
	"testing"

	aggregate "github.com/okian/metaforge/internal/domain/aggregate"
	model "github.com/okian/metaforge/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func candidate(skillID string, supportIDs ...string) *model.Candidate {
	supports := make([]*model.SupportDefinition, len(supportIDs))
	for i, id := range supportIDs {
		supports[i] = &model.SupportDefinition{ID: id}
	}
	return &model.Candidate{
		Skill:      &model.SkillDefinition{ID: skillID},
		Ascendancy: &model.AscendancyDefinition{ID: "stormcaller", Class: "witch"},
		Supports:   supports,
	}
}

func TestMerge(t *testing.T) {
	Convey("Given results from the three sources", t, func() {
		heuristic := aggregate.Result{
			Source:     model.SourceHeuristic,
			Candidates: []*model.Candidate{candidate("arc", "a", "b", "c"), candidate("spark", "d", "e", "f")},
		}
		formula := aggregate.Result{
			Source:     model.SourceFormula,
			Candidates: []*model.Candidate{candidate("fireball", "g", "h", "i")},
		}
		curated := aggregate.Result{
			Source:     model.SourceCurated,
			Candidates: []*model.Candidate{candidate("arc", "a", "b", "c")},
		}

		Convey("When merging them", func() {
			pool := aggregate.Merge(heuristic, formula, curated)

			Convey("Then every candidate should survive, duplicates included", func() {
				So(pool, ShouldHaveLength, 4)
			})

			Convey("Then provenance should be stamped per source", func() {
				So(pool[0].Source, ShouldEqual, model.SourceHeuristic)
				So(pool[1].Source, ShouldEqual, model.SourceHeuristic)
				So(pool[2].Source, ShouldEqual, model.SourceFormula)
				So(pool[3].Source, ShouldEqual, model.SourceCurated)
			})

			Convey("Then sequence numbers should be pool-wide and ordered", func() {
				for i, c := range pool {
					So(c.Seq, ShouldEqual, i)
				}
			})

			Convey("Then cross-source duplicates should keep distinct provenance", func() {
				So(pool[0].Fingerprint(), ShouldEqual, pool[3].Fingerprint())
				So(pool[0].Source, ShouldNotEqual, pool[3].Source)
			})
		})

		Convey("When a source leaves derived fields unset", func() {
			bare := candidate("arc", "a", "b", "c")
			pool := aggregate.Merge(aggregate.Result{Source: model.SourceCurated, Candidates: []*model.Candidate{bare}})

			Convey("Then neutral non-zero defaults should backfill them", func() {
				c := pool[0]
				So(c.Synergy, ShouldEqual, aggregate.NeutralSynergy)
				So(c.Innovation, ShouldEqual, aggregate.NeutralInnovation)
				So(c.Viability, ShouldEqual, aggregate.NeutralViability)
				So(c.DPS, ShouldEqual, aggregate.NeutralDPS)
				So(c.Cost, ShouldEqual, aggregate.NeutralCost)
			})
		})

		Convey("When a source provides real scores", func() {
			scoredCandidate := candidate("arc", "a", "b", "c")
			scoredCandidate.State = model.StateAccepted
			scoredCandidate.Synergy = 2.4
			scoredCandidate.Innovation = 0.8
			scoredCandidate.Viability = 9.0
			scoredCandidate.DPS = 250_000
			scoredCandidate.Cost = 70

			pool := aggregate.Merge(aggregate.Result{Source: model.SourceHeuristic, Candidates: []*model.Candidate{scoredCandidate}})

			Convey("Then the real values should pass through untouched", func() {
				c := pool[0]
				So(c.Synergy, ShouldEqual, 2.4)
				So(c.Innovation, ShouldEqual, 0.8)
				So(c.Viability, ShouldEqual, 9.0)
				So(c.DPS, ShouldEqual, 250_000)
				So(c.Cost, ShouldEqual, 70)
			})
		})

		Convey("When a scored candidate legitimately costs nothing", func() {
			freeBuild := candidate("arc", "a", "b", "c")
			freeBuild.State = model.StateAccepted
			freeBuild.Synergy = 1.8
			freeBuild.Innovation = 0.6
			freeBuild.Viability = 8.0
			freeBuild.DPS = 40_000
			freeBuild.Cost = 0

			pool := aggregate.Merge(aggregate.Result{Source: model.SourceHeuristic, Candidates: []*model.Candidate{freeBuild}})

			Convey("Then the zero cost should survive, not become the neutral default", func() {
				So(pool[0].Cost, ShouldEqual, 0)
				So(pool[0].Viability, ShouldEqual, 8.0)
			})
		})

		Convey("When a source contributes nothing", func() {
			pool := aggregate.Merge(
				aggregate.Result{Source: model.SourceHeuristic},
				formula,
			)

			Convey("Then the merge should skip it cleanly", func() {
				So(pool, ShouldHaveLength, 1)
				So(pool[0].Source, ShouldEqual, model.SourceFormula)
				So(pool[0].Seq, ShouldEqual, 0)
			})
		})

		Convey("When merging no results at all", func() {
			pool := aggregate.Merge()

			Convey("Then the pool should be empty", func() {
				So(pool, ShouldBeEmpty)
			})
		})
	})
}
