package types_test

import (
	"testing"

	model "github.com/okian/metaforge/internal/domain/model"
	types "github.com/okian/metaforge/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecommendation(t *testing.T) {
	Convey("Given a scored candidate", t, func() {
		c := &model.Candidate{
			Skill: &model.SkillDefinition{
				ID:         "arc",
				Category:   model.CategorySpell,
				DamageKind: "lightning",
				Tags:       model.NewTagSet("lightning", "spell"),
			},
			Ascendancy: &model.AscendancyDefinition{
				ID:    "stormcaller",
				Class: "witch",
			},
			Supports: []*model.SupportDefinition{
				{ID: "added-lightning"},
				{ID: "spell-echo"},
				{ID: "controlled-destruction"},
			},
			Source:     model.SourceHeuristic,
			State:      model.StateAccepted,
			Synergy:    2.1,
			Innovation: 0.8,
			DPS:        125000,
			Cost:       64,
			Viability:  8.5,
			Name:       "Stormforged Stormcaller Arc",
			Issues: []model.Issue{
				{Severity: model.SeverityMinor, Code: "high_link_count", Detail: "5 linked gems"},
			},
		}

		Convey("When converting it to the wire shape", func() {
			rec := types.FromCandidate(1, c, 0.73)

			Convey("Then all fields should carry over", func() {
				So(rec.Rank, ShouldEqual, 1)
				So(rec.ID, ShouldEqual, c.ID())
				So(rec.Name, ShouldEqual, "Stormforged Stormcaller Arc")
				So(rec.Skill, ShouldEqual, "arc")
				So(rec.Ascendancy, ShouldEqual, "stormcaller")
				So(rec.Class, ShouldEqual, "witch")
				So(rec.Supports, ShouldResemble, []string{"added-lightning", "spell-echo", "controlled-destruction"})
				So(rec.Source, ShouldEqual, "heuristic")
				So(rec.Synergy, ShouldEqual, 2.1)
				So(rec.Innovation, ShouldEqual, 0.8)
				So(rec.DPS, ShouldEqual, 125000)
				So(rec.Cost, ShouldEqual, 64)
				So(rec.Viability, ShouldEqual, 8.5)
				So(rec.Composite, ShouldEqual, 0.73)
			})

			Convey("Then issues should be flattened to strings", func() {
				So(rec.Issues, ShouldHaveLength, 1)
				So(rec.Issues[0].Severity, ShouldEqual, "minor")
				So(rec.Issues[0].Code, ShouldEqual, "high_link_count")
				So(rec.Issues[0].Detail, ShouldEqual, "5 linked gems")
			})
		})

		Convey("When converting a candidate with no issues", func() {
			c.Issues = nil
			rec := types.FromCandidate(3, c, 0.5)

			Convey("Then the issue list should be empty", func() {
				So(rec.Issues, ShouldBeEmpty)
				So(rec.Rank, ShouldEqual, 3)
			})
		})
	})
}
