// Package catgen synthesizes demo catalogs. Output is seeded and
// deterministic: the same seed and counts always produce the same
// document, so generated catalogs are usable in replayable load tests.
// Every generated document passes catalog validation before it is
// handed back, and every skill is guaranteed a compatible-support pool
// large enough for the candidate generator to draw from.
package catgen

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/knadh/koanf/parsers/yaml"

	"github.com/okian/metaforge/internal/domain/catalog"
)

// Generation defaults.
const (
	defaultSkillCount      = 40
	defaultSupportCount    = 60
	defaultAscendancyCount = 12

	// minSupportsPerKind keeps every skill's compatible pool above the
	// candidate generator's resample threshold.
	minSupportsPerKind = 4
)

// Stat pools the generator draws from.
var (
	damageKinds = []string{"physical", "fire", "cold", "lightning", "chaos"}
	classes     = []string{"witch", "duelist", "ranger", "marauder", "templar", "shadow", "scion"}
	extraTags   = []string{"area", "projectile", "chaining", "duration", "channelling"}

	skillWords   = []string{"nova", "bolt", "burst", "lash", "wave", "brand", "spike", "orb", "rend", "volley"}
	supportWords = []string{"added", "greater", "swift", "heavy", "arcane", "brutal", "precise", "volatile", "seething", "stubborn"}
	ascWords     = []string{"caller", "dancer", "warden", "herald", "binder", "zealot", "stalker"}
)

// Generator builds synthetic catalog documents from a seeded random
// source.
type Generator struct {
	rng          *rand.Rand
	skills       int
	supports     int
	ascendancies int
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSkillCount sets how many skills to synthesize.
func WithSkillCount(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.skills = n
		}
	}
}

// WithSupportCount sets how many supports to synthesize. Counts below
// the per-kind floor are raised so every skill keeps a workable pool.
func WithSupportCount(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.supports = n
		}
	}
}

// WithAscendancyCount sets how many ascendancies to synthesize.
func WithAscendancyCount(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.ascendancies = n
		}
	}
}

// New creates a Generator seeded with seed.
func New(seed int64, opts ...Option) *Generator {
	g := &Generator{
		rng:          rand.New(rand.NewSource(seed)),
		skills:       defaultSkillCount,
		supports:     defaultSupportCount,
		ascendancies: defaultAscendancyCount,
	}

	for _, opt := range opts {
		opt(g)
	}

	floor := minSupportsPerKind * len(damageKinds)
	if g.supports < floor {
		g.supports = floor
	}
	return g
}

// Generate synthesizes one catalog document and validates it before
// returning.
func (g *Generator) Generate() (catalog.File, error) {
	doc := catalog.File{
		Skills:       make(map[string]catalog.RawSkill, g.skills),
		Supports:     make(map[string]catalog.RawSupport, g.supports),
		Ascendancies: make(map[string]catalog.RawAscendancy, g.ascendancies),
	}

	g.fillSupports(&doc)
	g.fillSkills(&doc)
	g.fillAscendancies(&doc)
	g.fillRules(&doc)

	if _, err := catalog.FromRaw(doc); err != nil {
		return catalog.File{}, fmt.Errorf("catgen: generated document failed validation: %w", err)
	}
	return doc, nil
}

// fillSupports creates the support table: a guaranteed clean block per
// damage kind first, then flavored extras that may carry incompatible
// tags, then the universal fallbacks.
func (g *Generator) fillSupports(doc *catalog.File) {
	made := 0
	for _, kind := range damageKinds {
		for i := 0; i < minSupportsPerKind; i++ {
			id := fmt.Sprintf("%s-%s", supportWords[i%len(supportWords)], kind)
			doc.Supports[id] = catalog.RawSupport{
				DamageMult:  g.mult(1.1, 0.5),
				CostMult:    g.mult(0.8, 0.6),
				SynergyTags: []string{kind},
				Usage:       g.usage(),
			}
			made++
		}
	}

	for made < g.supports-2 {
		kind := damageKinds[g.rng.Intn(len(damageKinds))]
		word := supportWords[g.rng.Intn(len(supportWords))]
		id := fmt.Sprintf("%s-%s-%d", word, kind, made)

		s := catalog.RawSupport{
			DamageMult:  g.mult(1.1, 0.5),
			CostMult:    g.mult(0.7, 0.8),
			SynergyTags: []string{kind},
			Usage:       g.usage(),
		}
		// A slice of the extras are category-bound: spell supports that
		// refuse attacks and the other way round.
		switch g.rng.Intn(4) {
		case 0:
			s.SynergyTags = append(s.SynergyTags, "spell")
			s.IncompatibleTags = []string{"attack"}
		case 1:
			s.SynergyTags = append(s.SynergyTags, "attack")
			s.IncompatibleTags = []string{"spell"}
		}
		doc.Supports[id] = s
		made++
	}

	// Universal fallbacks for the repair chain: synergize with both
	// categories, never incompatible.
	doc.Supports["focused-intent"] = catalog.RawSupport{
		DamageMult:  1.15,
		CostMult:    0.9,
		SynergyTags: []string{"spell", "attack"},
		Usage:       g.usage(),
	}
	doc.Supports["streamlined-effort"] = catalog.RawSupport{
		DamageMult:  1.1,
		CostMult:    0.8,
		SynergyTags: []string{"spell", "attack"},
		Usage:       g.usage(),
	}
	doc.UniversalSupports = []string{"focused-intent", "streamlined-effort"}
}

// fillSkills creates the skill table, rotating damage kinds so every
// kind's support block is exercised.
func (g *Generator) fillSkills(doc *catalog.File) {
	for i := 0; i < g.skills; i++ {
		kind := damageKinds[i%len(damageKinds)]
		word := skillWords[g.rng.Intn(len(skillWords))]
		id := fmt.Sprintf("%s-%s-%d", kind, word, i)

		category := "spell"
		if g.rng.Intn(2) == 0 {
			category = "attack"
		}

		tags := []string{kind, category}
		if g.rng.Intn(2) == 0 {
			tags = append(tags, extraTags[g.rng.Intn(len(extraTags))])
		}

		doc.Skills[id] = catalog.RawSkill{
			Category:   category,
			DamageKind: kind,
			Tags:       tags,
			BaseCost:   10 + g.rng.Intn(31),
			BaseDamage: 800 + g.rng.Intn(1701),
			Usage:      g.usage(),
		}
	}
}

// fillAscendancies creates the ascendancy table with kind-flavored
// preferred tags.
func (g *Generator) fillAscendancies(doc *catalog.File) {
	for i := 0; i < g.ascendancies; i++ {
		kind := damageKinds[i%len(damageKinds)]
		word := ascWords[i%len(ascWords)]
		id := fmt.Sprintf("%s-%s-%d", kind, word, i)

		category := "spell"
		if g.rng.Intn(2) == 0 {
			category = "attack"
		}

		doc.Ascendancies[id] = catalog.RawAscendancy{
			Class:         classes[i%len(classes)],
			BonusTags:     []string{kind},
			PreferredTags: []string{kind, category},
			Usage:         g.usage(),
		}
	}
}

// fillRules blocks one clean support per kind for the opposite category
// and curates a repair entry pointing back into the same kind's block,
// so the repair table has real work to do.
func (g *Generator) fillRules(doc *catalog.File) {
	for _, kind := range damageKinds {
		blocked := fmt.Sprintf("%s-%s", supportWords[0], kind)
		replacement := fmt.Sprintf("%s-%s", supportWords[1], kind)

		doc.Rules = append(doc.Rules, catalog.RawRule{
			Kind:    string(catalog.RuleSkillCategory),
			Key:     "attack",
			Support: blocked,
		})
		doc.Repairs = append(doc.Repairs, catalog.RawRepair{
			Kind:        string(catalog.RepairByCategory),
			Key:         "attack",
			Support:     blocked,
			Replacement: replacement,
		})
	}
}

// mult draws a multiplier in [base, base+span) rounded to two decimals.
func (g *Generator) mult(base, span float64) float64 {
	return round2(base + g.rng.Float64()*span)
}

// usage draws a historical-usage fraction skewed toward the low end,
// the shape real usage data has.
func (g *Generator) usage() float64 {
	u := g.rng.Float64()
	return round2(u * u)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Marshal renders the document as YAML in the loader's wire layout.
func Marshal(doc catalog.File) ([]byte, error) {
	skills := make(map[string]interface{}, len(doc.Skills))
	for id, s := range doc.Skills {
		skills[id] = map[string]interface{}{
			"category":    s.Category,
			"damage_kind": s.DamageKind,
			"tags":        s.Tags,
			"base_cost":   s.BaseCost,
			"base_damage": s.BaseDamage,
			"usage":       s.Usage,
		}
	}

	supports := make(map[string]interface{}, len(doc.Supports))
	for id, s := range doc.Supports {
		entry := map[string]interface{}{
			"damage_mult":  s.DamageMult,
			"cost_mult":    s.CostMult,
			"synergy_tags": s.SynergyTags,
			"usage":        s.Usage,
		}
		if len(s.IncompatibleTags) > 0 {
			entry["incompatible_tags"] = s.IncompatibleTags
		}
		supports[id] = entry
	}

	ascendancies := make(map[string]interface{}, len(doc.Ascendancies))
	for id, a := range doc.Ascendancies {
		ascendancies[id] = map[string]interface{}{
			"class":          a.Class,
			"bonus_tags":     a.BonusTags,
			"preferred_tags": a.PreferredTags,
			"usage":          a.Usage,
		}
	}

	rules := make([]interface{}, 0, len(doc.Rules))
	for _, r := range doc.Rules {
		rules = append(rules, map[string]interface{}{
			"kind":    r.Kind,
			"key":     r.Key,
			"support": r.Support,
		})
	}

	repairs := make([]interface{}, 0, len(doc.Repairs))
	for _, r := range doc.Repairs {
		repairs = append(repairs, map[string]interface{}{
			"kind":        r.Kind,
			"key":         r.Key,
			"support":     r.Support,
			"replacement": r.Replacement,
		})
	}

	out, err := yaml.Parser().Marshal(map[string]interface{}{
		"skills":             skills,
		"supports":           supports,
		"ascendancies":       ascendancies,
		"rules":              rules,
		"repairs":            repairs,
		"universal_supports": doc.UniversalSupports,
	})
	if err != nil {
		return nil, fmt.Errorf("catgen: marshal: %w", err)
	}
	return out, nil
}
