package model_test

import (
	"testing"

	"github.com/okian/metaforge/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleCandidate() *model.Candidate {
	return &model.Candidate{
		Skill: &model.SkillDefinition{
			ID:         "arc",
			Category:   model.CategorySpell,
			DamageKind: "lightning",
			Tags:       model.NewTagSet("spell", "lightning", "chaining"),
			Usage:      0.30,
		},
		Ascendancy: &model.AscendancyDefinition{
			ID:    "stormcaller",
			Class: "witch",
			Usage: 0.20,
		},
		Supports: []*model.SupportDefinition{
			{ID: "added-lightning", Usage: 0.40},
			{ID: "spell-echo", Usage: 0.20},
			{ID: "controlled-destruction", Usage: 0.30},
		},
	}
}

func TestTagSet(t *testing.T) {
	Convey("Given two tag sets", t, func() {
		a := model.NewTagSet("spell", "lightning", "aoe")
		b := model.NewTagSet("lightning", "aoe", "projectile")

		Convey("Then membership checks work", func() {
			So(a.Has("spell"), ShouldBeTrue)
			So(a.Has("projectile"), ShouldBeFalse)
		})

		Convey("Then the intersection count is symmetric", func() {
			So(a.IntersectCount(b), ShouldEqual, 2)
			So(b.IntersectCount(a), ShouldEqual, 2)
		})

		Convey("Then an empty set intersects with nothing", func() {
			So(model.NewTagSet().IntersectCount(a), ShouldEqual, 0)
		})
	})
}

func TestCandidateIdentity(t *testing.T) {
	Convey("Given a candidate", t, func() {
		c := sampleCandidate()

		Convey("Then its fingerprint covers skill, ascendancy, and support order", func() {
			So(c.Fingerprint(), ShouldEqual, "arc|stormcaller|added-lightning|spell-echo|controlled-destruction")
		})

		Convey("Then its ID is deterministic", func() {
			So(c.ID(), ShouldEqual, sampleCandidate().ID())
		})

		Convey("When the support order changes", func() {
			c.Supports[0], c.Supports[1] = c.Supports[1], c.Supports[0]

			Convey("Then the identity changes too", func() {
				So(c.ID(), ShouldNotEqual, sampleCandidate().ID())
			})
		})

		Convey("Then the class comes from the ascendancy owner", func() {
			So(c.Class(), ShouldEqual, "witch")
		})
	})
}

func TestCandidatePopularity(t *testing.T) {
	Convey("Given a candidate with known usage fractions", t, func() {
		c := sampleCandidate()

		Convey("Then popularity blends skill, ascendancy, and mean support usage", func() {
			// skill 0.30, ascendancy 0.20, supports mean 0.30
			So(c.Popularity(), ShouldAlmostEqual, (0.30+0.20+0.30)/3, 1e-9)
		})
	})
}

func TestCandidateIssues(t *testing.T) {
	Convey("Given a candidate with mixed issues", t, func() {
		c := sampleCandidate()
		c.Issues = []model.Issue{
			{Severity: model.SeverityMajor, Code: "high_cost"},
			{Severity: model.SeverityCritical, Code: "blocked_pair"},
			{Severity: model.SeverityMinor, Code: "high_link_count"},
		}

		Convey("Then HasCritical reports the critical one", func() {
			So(c.HasCritical(), ShouldBeTrue)
		})

		Convey("Then severity counting works", func() {
			So(c.IssuesBySeverity(model.SeverityMajor), ShouldEqual, 1)
			So(c.IssuesBySeverity(model.SeverityMinor), ShouldEqual, 1)
		})
	})

	Convey("Given states", t, func() {
		c := sampleCandidate()

		Convey("Then only rejected and accepted are terminal", func() {
			c.State = model.StateScored
			So(c.Terminal(), ShouldBeFalse)
			c.State = model.StateRejected
			So(c.Terminal(), ShouldBeTrue)
			c.State = model.StateAccepted
			So(c.Terminal(), ShouldBeTrue)
		})
	})
}

func TestSkillMaxRequirement(t *testing.T) {
	Convey("Given a skill with requirements", t, func() {
		s := &model.SkillDefinition{Requirements: map[string]int{"int": 155, "dex": 52}}

		Convey("Then the max requirement is returned", func() {
			So(s.MaxRequirement(), ShouldEqual, 155)
		})
	})

	Convey("Given a skill without requirements", t, func() {
		s := &model.SkillDefinition{}

		Convey("Then the max requirement is zero", func() {
			So(s.MaxRequirement(), ShouldEqual, 0)
		})
	})
}
