package service_test

import (
	"context"
	"testing"
	"time"

	service "github.com/okian/metaforge/internal/app"
	catalog "github.com/okian/metaforge/internal/domain/catalog"
	model "github.com/okian/metaforge/internal/domain/model"
	"github.com/okian/metaforge/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestRequestValidate(t *testing.T) {
	Convey("Given a recommendation request", t, func() {
		valid := service.Request{ResultCount: 5}

		Convey("Then a minimal request should pass", func() {
			So(valid.Validate(), ShouldBeNil)
		})

		Convey("Then result_count outside its range should fail by name", func() {
			for _, n := range []int{0, -1, 21} {
				req := valid
				req.ResultCount = n
				err := req.Validate()
				So(err, ShouldNotBeNil)
				So(service.IsValidation(err), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "result_count")
			}
		})

		Convey("Then a negative budget should fail by name", func() {
			req := valid
			req.BudgetLimit = -10
			err := req.Validate()
			So(service.IsValidation(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "budget_limit")
		})

		Convey("Then a negative min DPS should fail by name", func() {
			req := valid
			req.MinDPS = -1
			err := req.Validate()
			So(service.IsValidation(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "min_dps")
		})

		Convey("Then a support cap outside the build limits should fail by name", func() {
			for _, n := range []int{1, 2, 7} {
				req := valid
				req.MaxSupportCount = n
				err := req.Validate()
				So(service.IsValidation(err), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "max_support_count")
			}
		})

		Convey("Then a support cap inside the limits should pass", func() {
			for n := model.MinSupports; n <= model.MaxSupports; n++ {
				req := valid
				req.MaxSupportCount = n
				So(req.Validate(), ShouldBeNil)
			}
		})

		Convey("Then an unknown innovation level should fail by name", func() {
			req := valid
			req.InnovationLevel = "reckless"
			err := req.Validate()
			So(service.IsValidation(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "innovation_level")
		})

		Convey("Then every known innovation level should pass", func() {
			for _, lvl := range []string{"conservative", "balanced", "experimental"} {
				req := valid
				req.InnovationLevel = lvl
				So(req.Validate(), ShouldBeNil)
			}
		})
	})
}

func minimalCatalog() *catalog.Catalog {
	defs := catalog.Definitions{
		Skills: map[string]*model.SkillDefinition{
			"arc": {
				ID: "arc", Category: model.CategorySpell, DamageKind: "lightning",
				Tags:     model.NewTagSet("lightning", "spell"),
				BaseCost: 20, BaseDamage: 1200, Usage: 0.10,
			},
		},
		Supports: map[string]*model.SupportDefinition{
			"added-lightning": {
				ID: "added-lightning", DamageMult: 1.3, CostMult: 1.2,
				SynergyTags: model.NewTagSet("lightning"), Usage: 0.40,
			},
			"spell-echo": {
				ID: "spell-echo", DamageMult: 1.5, CostMult: 1.4,
				SynergyTags: model.NewTagSet("spell"), Usage: 0.60,
			},
			"controlled-destruction": {
				ID: "controlled-destruction", DamageMult: 1.4, CostMult: 1.1,
				SynergyTags: model.NewTagSet("spell"), Usage: 0.50,
			},
			"faster-casting": {
				ID: "faster-casting", DamageMult: 1.2, CostMult: 1.1,
				SynergyTags: model.NewTagSet("spell"), Usage: 0.70,
			},
		},
		Ascendancies: map[string]*model.AscendancyDefinition{
			"stormcaller": {
				ID: "stormcaller", Class: "witch",
				PreferredTags: model.NewTagSet("lightning", "spell"), Usage: 0.20,
			},
		},
	}

	cat, err := catalog.New(defs)
	So(err, ShouldBeNil)
	return cat
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a service over a minimal catalog", t, func() {
		ctx := context.Background()
		cat := minimalCatalog()
		svc := service.New(cat,
			service.WithWorkerCount(2),
			service.WithSourceTimeout(time.Second),
		)

		Convey("When Recommend is called before Start", func() {
			_, err := svc.Recommend(ctx, service.Request{ResultCount: 1})

			Convey("Then it should refuse", func() {
				So(err, ShouldEqual, service.ErrNotStarted)
			})
		})

		Convey("When the service is started", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})

			Convey("Then an invalid request should fail validation, not panic", func() {
				_, err := svc.Recommend(ctx, service.Request{ResultCount: 0})
				So(service.IsValidation(err), ShouldBeTrue)
			})

			Convey("Then stats should reflect the catalog", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["skills"], ShouldEqual, 1)
				So(stats["supports"], ShouldEqual, 4)
				So(stats["ascendancies"], ShouldEqual, 1)
				So(stats["maxAchievableDPS"], ShouldEqual, cat.MaxAchievableDPS())
			})

			Convey("Then a valid request should return ranked recommendations", func() {
				resp, err := svc.Recommend(ctx, service.Request{ResultCount: 3, Seed: 42})
				So(err, ShouldBeNil)
				So(resp, ShouldNotBeNil)
				So(len(resp.Recommendations), ShouldBeLessThanOrEqualTo, 3)
				So(len(resp.Recommendations), ShouldBeGreaterThan, 0)
				So(resp.Seed, ShouldEqual, 42)
			})
		})
	})
}
