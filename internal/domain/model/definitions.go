// Package model contains domain models passed between layers.
package model

// SkillCategory classifies a skill's delivery mechanism.
type SkillCategory string

// Skill categories.
const (
	CategorySpell  SkillCategory = "spell"
	CategoryAttack SkillCategory = "attack"
)

// TagSet is an unordered set of gameplay tags.
type TagSet map[string]struct{}

// NewTagSet builds a TagSet from a list of tags.
func NewTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether tag is in the set.
func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// IntersectCount returns the number of tags shared with other.
func (s TagSet) IntersectCount(other TagSet) int {
	// Iterate over the smaller set
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	n := 0
	for t := range small {
		if large.Has(t) {
			n++
		}
	}
	return n
}

// List returns the tags as a slice. Order is not defined.
func (s TagSet) List() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	return out
}

// SkillDefinition is an immutable catalog entry for a primary skill.
// Treat all fields as read-only after catalog construction.
type SkillDefinition struct {
	ID           string
	Category     SkillCategory
	DamageKind   string
	Tags         TagSet
	BaseCost     int            // resource cost before support multipliers
	BaseDamage   int            // damage per second before support multipliers
	Requirements map[string]int // attribute name -> required value
	Usage        float64        // historical-usage fraction, 0..1
}

// MaxRequirement returns the highest attribute requirement of the skill.
func (s *SkillDefinition) MaxRequirement() int {
	maxReq := 0
	for _, v := range s.Requirements {
		if v > maxReq {
			maxReq = v
		}
	}
	return maxReq
}

// SupportDefinition is an immutable catalog entry for a support modifier.
type SupportDefinition struct {
	ID               string
	DamageMult       float64
	CostMult         float64
	SynergyTags      TagSet
	IncompatibleTags TagSet
	Usage            float64
}

// AscendancyDefinition is an immutable catalog entry for a specialization class.
type AscendancyDefinition struct {
	ID            string
	Class         string // owning base class; fixes the candidate's reported class
	BonusTags     TagSet
	PreferredTags TagSet // preferred-skill tag profile
	Usage         float64
}
