// Package catalog holds the immutable reference data the pipeline draws
// from: skills, support modifiers, ascendancy classes, and the
// compatibility/repair rule tables. A Catalog is built once, validated
// once, and shared read-only across concurrent requests.
package catalog

import (
	"fmt"
	"sort"

	"github.com/okian/metaforge/internal/domain/model"
)

// Catalog is the read-only reference data for one process lifetime.
type Catalog struct {
	skills       map[string]*model.SkillDefinition
	supports     map[string]*model.SupportDefinition
	ascendancies map[string]*model.AscendancyDefinition

	// Sorted ID slices give deterministic iteration order for seeded sampling.
	skillIDs      []string
	supportIDs    []string
	ascendancyIDs []string

	rules     RuleSet
	repairs   RepairTable
	universal []string // fallback support IDs for repair, in preference order
}

// Definitions bundles the entity maps a Catalog is built from.
type Definitions struct {
	Skills       map[string]*model.SkillDefinition
	Supports     map[string]*model.SupportDefinition
	Ascendancies map[string]*model.AscendancyDefinition
}

// Option applies a configuration option to the Catalog under construction.
type Option func(*Catalog)

// WithRules sets the compatibility rule set.
func WithRules(rules RuleSet) Option {
	return func(c *Catalog) {
		c.rules = rules
	}
}

// WithRepairTable sets the curated repair lookup table.
func WithRepairTable(repairs RepairTable) Option {
	return func(c *Catalog) {
		c.repairs = repairs
	}
}

// WithUniversalSupports sets the fixed fallback support list used when
// repair finds no curated or tag-overlap replacement.
func WithUniversalSupports(ids []string) Option {
	return func(c *Catalog) {
		c.universal = ids
	}
}

// New builds a Catalog from definitions and validates referential
// integrity once. Definitions are assumed schema-valid by the loader;
// New only checks that every referenced identifier resolves.
func New(defs Definitions, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		skills:       defs.Skills,
		supports:     defs.Supports,
		ascendancies: defs.Ascendancies,
		repairs:      RepairTable{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.skills == nil {
		c.skills = map[string]*model.SkillDefinition{}
	}
	if c.supports == nil {
		c.supports = map[string]*model.SupportDefinition{}
	}
	if c.ascendancies == nil {
		c.ascendancies = map[string]*model.AscendancyDefinition{}
	}

	for id := range c.skills {
		c.skillIDs = append(c.skillIDs, id)
	}
	for id := range c.supports {
		c.supportIDs = append(c.supportIDs, id)
	}
	for id := range c.ascendancies {
		c.ascendancyIDs = append(c.ascendancyIDs, id)
	}
	sort.Strings(c.skillIDs)
	sort.Strings(c.supportIDs)
	sort.Strings(c.ascendancyIDs)

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// validate checks that every identifier the rule tables reference exists.
func (c *Catalog) validate() error {
	const op = "catalog.validate"
	for _, r := range c.rules {
		if _, ok := c.supports[r.SupportID]; !ok {
			return WrapIntegrity(op, fmt.Errorf("rule references unknown support %q", r.SupportID))
		}
	}
	for key, replacement := range c.repairs {
		if _, ok := c.supports[key.SupportID]; !ok {
			return WrapIntegrity(op, fmt.Errorf("repair entry references unknown support %q", key.SupportID))
		}
		if _, ok := c.supports[replacement]; !ok {
			return WrapIntegrity(op, fmt.Errorf("repair entry references unknown replacement %q", replacement))
		}
	}
	for _, id := range c.universal {
		if _, ok := c.supports[id]; !ok {
			return WrapIntegrity(op, fmt.Errorf("universal support list references unknown support %q", id))
		}
	}
	return nil
}

// Skill returns the skill definition for id.
func (c *Catalog) Skill(id string) (*model.SkillDefinition, error) {
	s, ok := c.skills[id]
	if !ok {
		return nil, WrapIntegrity("catalog.skill", fmt.Errorf("unknown skill %q", id))
	}
	return s, nil
}

// Support returns the support definition for id.
func (c *Catalog) Support(id string) (*model.SupportDefinition, error) {
	s, ok := c.supports[id]
	if !ok {
		return nil, WrapIntegrity("catalog.support", fmt.Errorf("unknown support %q", id))
	}
	return s, nil
}

// Ascendancy returns the ascendancy definition for id.
func (c *Catalog) Ascendancy(id string) (*model.AscendancyDefinition, error) {
	a, ok := c.ascendancies[id]
	if !ok {
		return nil, WrapIntegrity("catalog.ascendancy", fmt.Errorf("unknown ascendancy %q", id))
	}
	return a, nil
}

// Skills returns all skills in sorted-ID order.
func (c *Catalog) Skills() []*model.SkillDefinition {
	out := make([]*model.SkillDefinition, len(c.skillIDs))
	for i, id := range c.skillIDs {
		out[i] = c.skills[id]
	}
	return out
}

// Supports returns all supports in sorted-ID order.
func (c *Catalog) Supports() []*model.SupportDefinition {
	out := make([]*model.SupportDefinition, len(c.supportIDs))
	for i, id := range c.supportIDs {
		out[i] = c.supports[id]
	}
	return out
}

// Ascendancies returns all ascendancies in sorted-ID order.
func (c *Catalog) Ascendancies() []*model.AscendancyDefinition {
	out := make([]*model.AscendancyDefinition, len(c.ascendancyIDs))
	for i, id := range c.ascendancyIDs {
		out[i] = c.ascendancies[id]
	}
	return out
}

// Counts returns the number of skills, supports, and ascendancies.
func (c *Catalog) Counts() (skills, supports, ascendancies int) {
	return len(c.skills), len(c.supports), len(c.ascendancies)
}

// Rules returns the compatibility rule set.
func (c *Catalog) Rules() RuleSet {
	return c.rules
}

// Repairs returns the curated repair lookup table.
func (c *Catalog) Repairs() RepairTable {
	return c.repairs
}

// UniversalSupports returns the fixed fallback supports in preference order.
func (c *Catalog) UniversalSupports() []*model.SupportDefinition {
	out := make([]*model.SupportDefinition, 0, len(c.universal))
	for _, id := range c.universal {
		out = append(out, c.supports[id])
	}
	return out
}

// Blocked reports whether the skill/support pairing is marked impossible
// by the compatibility rule set.
func (c *Catalog) Blocked(skill *model.SkillDefinition, supportID string) bool {
	return c.rules.Blocked(skill, supportID)
}

// Compatible reports whether support can serve skill: the pairing must not
// be rule-blocked, must not trip the support's incompatible tags, and must
// share at least one synergy tag or match the skill's damage kind.
func (c *Catalog) Compatible(skill *model.SkillDefinition, support *model.SupportDefinition) bool {
	if c.Blocked(skill, support.ID) {
		return false
	}
	if support.IncompatibleTags.IntersectCount(skill.Tags) > 0 {
		return false
	}
	if support.SynergyTags.Has(skill.DamageKind) {
		return true
	}
	return support.SynergyTags.IntersectCount(skill.Tags) > 0
}

// CompatibleSupports returns every support compatible with skill, in
// sorted-ID order.
func (c *Catalog) CompatibleSupports(skill *model.SkillDefinition) []*model.SupportDefinition {
	var out []*model.SupportDefinition
	for _, id := range c.supportIDs {
		s := c.supports[id]
		if c.Compatible(skill, s) {
			out = append(out, s)
		}
	}
	return out
}

// MaxAchievableDPS returns the highest estimated DPS any single skill can
// reach with its compatible supports. Used for request sanity reporting.
func (c *Catalog) MaxAchievableDPS() int {
	best := 0
	for _, id := range c.skillIDs {
		skill := c.skills[id]
		dps := float64(skill.BaseDamage)
		for _, s := range c.CompatibleSupports(skill) {
			if s.DamageMult > 1.0 {
				dps *= s.DamageMult
			}
		}
		if int(dps) > best {
			best = int(dps)
		}
	}
	return best
}
