package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	repository "github.com/okian/metaforge/internal/adapters/repository"
	catalog "github.com/okian/metaforge/internal/domain/catalog"
	model "github.com/okian/metaforge/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func testCatalog() *catalog.Catalog {
	defs := catalog.Definitions{
		Skills: map[string]*model.SkillDefinition{
			"arc": {
				ID: "arc", Category: model.CategorySpell, DamageKind: "lightning",
				Tags:     model.NewTagSet("lightning", "spell"),
				BaseCost: 20, BaseDamage: 1200, Usage: 0.10,
			},
			"cleave": {
				ID: "cleave", Category: model.CategoryAttack, DamageKind: "physical",
				Tags:     model.NewTagSet("physical", "attack", "melee"),
				BaseCost: 15, BaseDamage: 1000, Usage: 0.30,
			},
		},
		Supports: map[string]*model.SupportDefinition{
			"added-lightning":        {ID: "added-lightning", DamageMult: 1.3, CostMult: 1.2, SynergyTags: model.NewTagSet("lightning"), Usage: 0.40},
			"spell-echo":             {ID: "spell-echo", DamageMult: 1.5, CostMult: 1.4, SynergyTags: model.NewTagSet("spell"), Usage: 0.60},
			"controlled-destruction": {ID: "controlled-destruction", DamageMult: 1.4, CostMult: 1.1, SynergyTags: model.NewTagSet("spell"), Usage: 0.50},
			"brutality":              {ID: "brutality", DamageMult: 1.4, CostMult: 1.1, SynergyTags: model.NewTagSet("physical"), Usage: 0.25},
			"multistrike":            {ID: "multistrike", DamageMult: 1.35, CostMult: 1.3, SynergyTags: model.NewTagSet("attack", "melee"), Usage: 0.55},
			"fortify":                {ID: "fortify", DamageMult: 1.1, CostMult: 1.05, SynergyTags: model.NewTagSet("melee"), Usage: 0.20},
		},
		Ascendancies: map[string]*model.AscendancyDefinition{
			"stormcaller": {ID: "stormcaller", Class: "witch", PreferredTags: model.NewTagSet("lightning", "spell"), Usage: 0.20},
			"gladiator":   {ID: "gladiator", Class: "duelist", PreferredTags: model.NewTagSet("physical", "melee"), Usage: 0.35},
		},
	}

	cat, err := catalog.New(defs)
	So(err, ShouldBeNil)
	return cat
}

func testEntries() []repository.Entry {
	return []repository.Entry{
		{
			Skill: "cleave", Ascendancy: "gladiator",
			Supports: []string{"brutality", "multistrike", "fortify"},
			Name:     "Crushing Gladiator Cleave",
		},
		{
			Skill: "arc", Ascendancy: "stormcaller",
			Supports: []string{"added-lightning", "spell-echo", "controlled-destruction"},
			Name:     "Stormforged Stormcaller Arc",
		},
	}
}

func TestInMemoryStore(t *testing.T) {
	Convey("Given a curated build store", t, func() {
		cat := testCatalog()
		ctx := context.Background()

		Convey("When building it from valid entries", func() {
			store, err := repository.NewInMemoryStore(cat, testEntries())

			Convey("Then every entry should resolve", func() {
				So(err, ShouldBeNil)
				So(store.Count(ctx), ShouldEqual, 2)
			})

			Convey("Then All should serve unscored copies in fingerprint order", func() {
				So(err, ShouldBeNil)
				builds := store.All(ctx)
				So(builds, ShouldHaveLength, 2)
				So(builds[0].Skill.ID, ShouldEqual, "arc")
				So(builds[1].Skill.ID, ShouldEqual, "cleave")
				for _, b := range builds {
					So(b.State, ShouldEqual, model.StateUnscored)
				}
			})

			Convey("Then served candidates should be independent copies", func() {
				So(err, ShouldBeNil)
				first := store.All(ctx)
				first[0].Viability = 9.9
				first[0].Supports[0] = nil

				second := store.All(ctx)
				So(second[0].Viability, ShouldEqual, 0.0)
				So(second[0].Supports[0], ShouldNotBeNil)
			})

			Convey("Then ByClass should filter on the owning class", func() {
				So(err, ShouldBeNil)
				duelist := store.ByClass(ctx, "duelist")
				So(duelist, ShouldHaveLength, 1)
				So(duelist[0].Skill.ID, ShouldEqual, "cleave")

				So(store.ByClass(ctx, "ranger"), ShouldBeEmpty)
			})
		})

		Convey("When an entry references an unknown skill", func() {
			entries := []repository.Entry{{
				Skill: "no-such-skill", Ascendancy: "stormcaller",
				Supports: []string{"added-lightning", "spell-echo", "controlled-destruction"},
			}}
			_, err := repository.NewInMemoryStore(cat, entries)

			Convey("Then construction should fail with an integrity error", func() {
				So(errors.Is(err, catalog.ErrIntegrity), ShouldBeTrue)
			})
		})

		Convey("When an entry has too few supports", func() {
			entries := []repository.Entry{{
				Skill: "arc", Ascendancy: "stormcaller",
				Supports: []string{"added-lightning", "spell-echo"},
			}}
			_, err := repository.NewInMemoryStore(cat, entries)

			Convey("Then construction should reject the entry", func() {
				So(errors.Is(err, repository.ErrInvalidEntry), ShouldBeTrue)
			})
		})

		Convey("When a serving limit is set", func() {
			store, err := repository.NewInMemoryStore(cat, testEntries(), repository.WithServingLimit(1))
			So(err, ShouldBeNil)

			Convey("Then All should stop at the limit", func() {
				So(store.All(ctx), ShouldHaveLength, 1)
				So(store.Count(ctx), ShouldEqual, 2)
			})
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a curated build YAML document", t, func() {
		cat := testCatalog()
		ctx := context.Background()

		doc := `
builds:
  - skill: arc
    ascendancy: stormcaller
    supports: [added-lightning, spell-echo, controlled-destruction]
    name: Stormforged Stormcaller Arc
  - skill: cleave
    ascendancy: gladiator
    supports: [brutality, multistrike, fortify]
    name: Crushing Gladiator Cleave
`

		dir := t.TempDir()
		path := filepath.Join(dir, "builds.yaml")
		So(os.WriteFile(path, []byte(doc), 0o600), ShouldBeNil)

		Convey("When loading it", func() {
			store, err := repository.Load(ctx, cat, path)

			Convey("Then the store should carry both builds", func() {
				So(err, ShouldBeNil)
				So(store.Count(ctx), ShouldEqual, 2)
				So(store.All(ctx)[0].Name, ShouldEqual, "Stormforged Stormcaller Arc")
			})
		})

		Convey("When the file does not exist", func() {
			_, err := repository.Load(ctx, cat, filepath.Join(dir, "missing.yaml"))

			Convey("Then Load should fail with the load sentinel", func() {
				So(errors.Is(err, repository.ErrLoad), ShouldBeTrue)
			})
		})
	})
}
