package filter

import (
	"github.com/okian/metaforge/internal/domain/model"
)

// Repair replaces each incompatible support with a compatible alternative:
// the curated lookup table first, then the highest tag-overlap compatible
// support from the catalog, then the fixed universal-support list, else
// the support is left unchanged. Returns true when at least one support
// was replaced. Repair runs at most once per candidate; calling it again
// is a no-op.
func (s *Stage) Repair(c *model.Candidate) bool {
	if c.Repaired {
		return false
	}

	changed := false
	for i, sup := range c.Supports {
		if s.cat.Compatible(c.Skill, sup) {
			continue
		}
		if repl := s.replacement(c, sup.ID); repl != nil {
			c.Supports[i] = repl
			changed = true
		}
	}

	if changed {
		c.Repaired = true
		c.State = model.StateRepaired
	}
	return changed
}

// replacement picks the substitute for one incompatible support, walking
// the fallback chain. Returns nil when nothing usable was found.
func (s *Stage) replacement(c *model.Candidate, supportID string) *model.SupportDefinition {
	// Curated lookup: (skill category, support), then (damage kind, support).
	if id, ok := s.cat.Repairs().Lookup(c.Skill, supportID); ok {
		if repl, err := s.cat.Support(id); err == nil && s.usable(c, repl) {
			return repl
		}
	}

	// Highest tag-overlap compatible support. CompatibleSupports iterates
	// in sorted-ID order, so the first maximum is deterministic.
	var best *model.SupportDefinition
	bestOverlap := 0
	for _, cand := range s.cat.CompatibleSupports(c.Skill) {
		if !s.usable(c, cand) {
			continue
		}
		overlap := cand.SynergyTags.IntersectCount(c.Skill.Tags)
		if overlap > bestOverlap {
			best, bestOverlap = cand, overlap
		}
	}
	if best != nil {
		return best
	}

	// Fixed universal-support fallback, in preference order.
	for _, u := range s.cat.UniversalSupports() {
		if s.cat.Compatible(c.Skill, u) && s.usable(c, u) {
			return u
		}
	}

	return nil
}

// usable reports whether repl is compatible and not already in the build.
func (s *Stage) usable(c *model.Candidate, repl *model.SupportDefinition) bool {
	if !s.cat.Compatible(c.Skill, repl) {
		return false
	}
	for _, existing := range c.Supports {
		if existing.ID == repl.ID {
			return false
		}
	}
	return true
}
