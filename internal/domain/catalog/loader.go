package catalog

import (
	"context"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/metaforge/internal/domain/model"
)

// RawSkill is the wire shape of a skill entry. Pre-validated upstream;
// the loader only converts and leaves integrity checks to New.
type RawSkill struct {
	Category     string         `koanf:"category"`
	DamageKind   string         `koanf:"damage_kind"`
	Tags         []string       `koanf:"tags"`
	BaseCost     int            `koanf:"base_cost"`
	BaseDamage   int            `koanf:"base_damage"`
	Requirements map[string]int `koanf:"requirements"`
	Usage        float64        `koanf:"usage"`
}

// RawSupport is the wire shape of a support entry.
type RawSupport struct {
	DamageMult       float64  `koanf:"damage_mult"`
	CostMult         float64  `koanf:"cost_mult"`
	SynergyTags      []string `koanf:"synergy_tags"`
	IncompatibleTags []string `koanf:"incompatible_tags"`
	Usage            float64  `koanf:"usage"`
}

// RawAscendancy is the wire shape of an ascendancy entry.
type RawAscendancy struct {
	Class         string   `koanf:"class"`
	BonusTags     []string `koanf:"bonus_tags"`
	PreferredTags []string `koanf:"preferred_tags"`
	Usage         float64  `koanf:"usage"`
}

// RawRule is the wire shape of one compatibility rule.
type RawRule struct {
	Kind    string `koanf:"kind"`
	Key     string `koanf:"key"`
	Support string `koanf:"support"`
}

// RawRepair is the wire shape of one curated repair entry.
type RawRepair struct {
	Kind        string `koanf:"kind"`
	Key         string `koanf:"key"`
	Support     string `koanf:"support"`
	Replacement string `koanf:"replacement"`
}

// File is the full mapping-of-mappings catalog document.
type File struct {
	Skills            map[string]RawSkill      `koanf:"skills"`
	Supports          map[string]RawSupport    `koanf:"supports"`
	Ascendancies      map[string]RawAscendancy `koanf:"ascendancies"`
	Rules             []RawRule                `koanf:"rules"`
	Repairs           []RawRepair              `koanf:"repairs"`
	UniversalSupports []string                 `koanf:"universal_supports"`
}

// Load reads a YAML catalog document from path and builds the Catalog.
func Load(_ context.Context, path string) (*Catalog, error) {
	const op = "catalog.load"

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, WrapLoad(op, err)
	}

	var raw File
	if err := k.UnmarshalWithConf("", &raw, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, WrapLoad(op, err)
	}

	return FromRaw(raw)
}

// FromRaw converts the wire document into immutable definitions and builds
// a validated Catalog.
func FromRaw(raw File) (*Catalog, error) {
	defs := Definitions{
		Skills:       make(map[string]*model.SkillDefinition, len(raw.Skills)),
		Supports:     make(map[string]*model.SupportDefinition, len(raw.Supports)),
		Ascendancies: make(map[string]*model.AscendancyDefinition, len(raw.Ascendancies)),
	}

	for id, s := range raw.Skills {
		defs.Skills[id] = &model.SkillDefinition{
			ID:           id,
			Category:     model.SkillCategory(s.Category),
			DamageKind:   s.DamageKind,
			Tags:         model.NewTagSet(s.Tags...),
			BaseCost:     s.BaseCost,
			BaseDamage:   s.BaseDamage,
			Requirements: s.Requirements,
			Usage:        s.Usage,
		}
	}

	for id, s := range raw.Supports {
		defs.Supports[id] = &model.SupportDefinition{
			ID:               id,
			DamageMult:       s.DamageMult,
			CostMult:         s.CostMult,
			SynergyTags:      model.NewTagSet(s.SynergyTags...),
			IncompatibleTags: model.NewTagSet(s.IncompatibleTags...),
			Usage:            s.Usage,
		}
	}

	for id, a := range raw.Ascendancies {
		defs.Ascendancies[id] = &model.AscendancyDefinition{
			ID:            id,
			Class:         a.Class,
			BonusTags:     model.NewTagSet(a.BonusTags...),
			PreferredTags: model.NewTagSet(a.PreferredTags...),
			Usage:         a.Usage,
		}
	}

	rules := make(RuleSet, 0, len(raw.Rules))
	for _, r := range raw.Rules {
		rules = append(rules, Rule{
			Kind:      RuleKind(r.Kind),
			Key:       r.Key,
			SupportID: r.Support,
		})
	}

	repairs := make(RepairTable, len(raw.Repairs))
	for _, r := range raw.Repairs {
		repairs[RepairKey{
			Kind:      RepairKeyKind(r.Kind),
			Key:       r.Key,
			SupportID: r.Support,
		}] = r.Replacement
	}

	return New(defs,
		WithRules(rules),
		WithRepairTable(repairs),
		WithUniversalSupports(raw.UniversalSupports),
	)
}
