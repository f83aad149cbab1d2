package catgen_test

import (
	"testing"

	catgen "github.com/okian/metaforge/internal/catgen"
	catalog "github.com/okian/metaforge/internal/domain/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given a seeded catalog generator", t, func() {
		g := catgen.New(42,
			catgen.WithSkillCount(25),
			catgen.WithSupportCount(40),
			catgen.WithAscendancyCount(7),
		)

		Convey("When a document is generated", func() {
			doc, err := g.Generate()
			So(err, ShouldBeNil)

			Convey("Then it should carry the requested counts", func() {
				So(len(doc.Skills), ShouldEqual, 25)
				So(len(doc.Supports), ShouldEqual, 40)
				So(len(doc.Ascendancies), ShouldEqual, 7)
				So(doc.UniversalSupports, ShouldNotBeEmpty)
				So(doc.Rules, ShouldNotBeEmpty)
				So(doc.Repairs, ShouldNotBeEmpty)
			})

			Convey("Then it should build a valid catalog", func() {
				cat, err := catalog.FromRaw(doc)
				So(err, ShouldBeNil)
				So(len(cat.Skills()), ShouldEqual, 25)
			})

			Convey("Then every skill should keep a workable support pool", func() {
				cat, err := catalog.FromRaw(doc)
				So(err, ShouldBeNil)
				for _, skill := range cat.Skills() {
					So(len(cat.CompatibleSupports(skill)), ShouldBeGreaterThanOrEqualTo, 4)
				}
			})
		})

		Convey("When the same seed is used twice", func() {
			first, err := g.Generate()
			So(err, ShouldBeNil)

			again, err := catgen.New(42,
				catgen.WithSkillCount(25),
				catgen.WithSupportCount(40),
				catgen.WithAscendancyCount(7),
			).Generate()
			So(err, ShouldBeNil)

			Convey("Then the rendered documents should be identical", func() {
				a, err := catgen.Marshal(first)
				So(err, ShouldBeNil)
				b, err := catgen.Marshal(again)
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, string(a))
			})
		})

		Convey("When the support count is below the per-kind floor", func() {
			tiny, err := catgen.New(7, catgen.WithSupportCount(5)).Generate()

			Convey("Then the floor should win", func() {
				So(err, ShouldBeNil)
				So(len(tiny.Supports), ShouldBeGreaterThanOrEqualTo, 20)
			})
		})
	})
}
