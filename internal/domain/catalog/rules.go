package catalog

import "github.com/okian/metaforge/internal/domain/model"

// RuleKind selects which skill facet a compatibility rule matches on.
type RuleKind string

// Rule kinds. The set is closed; Matches handles each explicitly.
const (
	RuleSkillTag      RuleKind = "skill_tag"
	RuleSkillCategory RuleKind = "skill_category"
	RuleDamageKind    RuleKind = "damage_kind"
)

// Rule marks one (skill facet, support) pairing as impossible.
type Rule struct {
	Kind      RuleKind
	Key       string // tag, category, or damage kind, per Kind
	SupportID string
}

// Matches reports whether this rule blocks the given skill/support pairing.
func (r Rule) Matches(skill *model.SkillDefinition, supportID string) bool {
	if r.SupportID != supportID {
		return false
	}
	switch r.Kind {
	case RuleSkillTag:
		return skill.Tags.Has(r.Key)
	case RuleSkillCategory:
		return string(skill.Category) == r.Key
	case RuleDamageKind:
		return skill.DamageKind == r.Key
	default:
		return false
	}
}

// RuleSet is the full anti-synergy rule table. Membership only: a pairing
// is either blocked or it is not.
type RuleSet []Rule

// Blocked reports whether any rule forbids the skill/support pairing.
func (rs RuleSet) Blocked(skill *model.SkillDefinition, supportID string) bool {
	for _, r := range rs {
		if r.Matches(skill, supportID) {
			return true
		}
	}
	return false
}

// RepairKeyKind selects which skill facet a repair entry is keyed on.
type RepairKeyKind string

// Repair key kinds, tried in this order.
const (
	RepairByCategory   RepairKeyKind = "category"
	RepairByDamageKind RepairKeyKind = "damage_kind"
)

// RepairKey identifies one curated replacement entry.
type RepairKey struct {
	Kind      RepairKeyKind
	Key       string
	SupportID string // the incompatible support being replaced
}

// RepairTable maps curated (skill facet, support) pairs to a replacement
// support ID. The table is hand-curated and intentionally incomplete; many
// pairs fall through to the generic tag-overlap search or the universal
// list.
type RepairTable map[RepairKey]string

// Lookup returns the curated replacement for the skill/support pair,
// trying the skill-category key first and the damage-kind key second.
func (t RepairTable) Lookup(skill *model.SkillDefinition, supportID string) (string, bool) {
	if r, ok := t[RepairKey{Kind: RepairByCategory, Key: string(skill.Category), SupportID: supportID}]; ok {
		return r, true
	}
	if r, ok := t[RepairKey{Kind: RepairByDamageKind, Key: skill.DamageKind, SupportID: supportID}]; ok {
		return r, true
	}
	return "", false
}
