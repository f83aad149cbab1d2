// Package scoring computes the derived scores of a candidate build:
// synergy, innovation, estimated DPS and resource cost. All formulas are
// deterministic arithmetic over the catalog; identical candidate and
// catalog always produce bit-identical scores.
package scoring

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/metaforge/internal/domain/catalog"
	"github.com/okian/metaforge/internal/domain/model"
)

// Default scoring configuration constants.
const (
	defaultTagSynergyBonus    = 0.3 // per shared synergy tag, per support
	defaultDamageKindBonus    = 1.4 // extra factor when a support covers the skill's damage kind
	defaultSynergyCap         = 3.0
	defaultInnovationExponent = 0.3 // dampens the support-usage product
	defaultSupportUsageOffset = 0.2
	defaultAscUsageOffset     = 0.3
	maxViability              = 10.0
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithSynergyCap overrides the synergy score ceiling.
func WithSynergyCap(cap float64) Option {
	return func(e *Engine) {
		if cap > 0 {
			e.synergyCap = cap
		}
	}
}

// WithTagSynergyBonus overrides the per-tag synergy bonus.
func WithTagSynergyBonus(bonus float64) Option {
	return func(e *Engine) {
		if bonus > 0 {
			e.tagSynergyBonus = bonus
		}
	}
}

// Scorer computes derived scores for a candidate.
type Scorer interface {
	// Score fills the candidate's derived score fields in place and
	// advances its lifecycle state. It honors ctx at the candidate
	// boundary only; it never leaves a candidate partially scored.
	Score(ctx context.Context, c *model.Candidate) error
}

// Engine implements Scorer against a read-only catalog.
type Engine struct {
	cat *catalog.Catalog

	tagSynergyBonus    float64
	damageKindBonus    float64
	synergyCap         float64
	innovationExponent float64
	supportUsageOffset float64
	ascUsageOffset     float64
}

// NewEngine creates a scoring engine bound to cat.
func NewEngine(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		cat:                cat,
		tagSynergyBonus:    defaultTagSynergyBonus,
		damageKindBonus:    defaultDamageKindBonus,
		synergyCap:         defaultSynergyCap,
		innovationExponent: defaultInnovationExponent,
		supportUsageOffset: defaultSupportUsageOffset,
		ascUsageOffset:     defaultAscUsageOffset,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Score computes all derived scores for the candidate.
func (e *Engine) Score(ctx context.Context, c *model.Candidate) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("scoring cancelled: %w", ctx.Err())
	default:
	}

	c.Synergy = e.synergy(c)
	c.Innovation = e.innovation(c)
	c.DPS, c.Cost = e.estimate(c)

	// A fresh scoring pass resets the issue ledger; the filter stage owns
	// re-deriving issues and viability from these scores.
	c.Viability = maxViability
	c.Issues = nil

	if c.Repaired {
		c.State = model.StateRescored
	} else {
		c.State = model.StateScored
	}
	return nil
}

// synergy measures tag/damage-kind overlap between the skill and its
// supports. Starts at 1.0 and is capped at the configured ceiling.
func (e *Engine) synergy(c *model.Candidate) float64 {
	score := 1.0
	for _, s := range c.Supports {
		overlap := s.SynergyTags.IntersectCount(c.Skill.Tags)
		score *= 1 + e.tagSynergyBonus*float64(overlap)
		if s.SynergyTags.Has(c.Skill.DamageKind) {
			score *= e.damageKindBonus
		}
	}
	return math.Min(score, e.synergyCap)
}

// innovation is the inverse-popularity measure: rarely used parts push it
// toward 1, meta staples push it toward 0.
func (e *Engine) innovation(c *model.Candidate) float64 {
	supportProduct := 1.0
	for _, s := range c.Supports {
		supportProduct *= 1 - s.Usage + e.supportUsageOffset
	}

	score := (1 - c.Skill.Usage) * 2 *
		math.Pow(supportProduct, e.innovationExponent) *
		(1 - c.Ascendancy.Usage + e.ascUsageOffset)

	return math.Max(0, math.Min(score, 1))
}

// estimate computes DPS and resource cost. Incompatible supports
// contribute a neutral 1.0 multiplier here; rejecting them is the filter
// stage's job, not this one.
func (e *Engine) estimate(c *model.Candidate) (dps, cost int) {
	damage := float64(c.Skill.BaseDamage)
	resource := float64(c.Skill.BaseCost)

	for _, s := range c.Supports {
		if !e.cat.Compatible(c.Skill, s) {
			continue
		}
		damage *= s.DamageMult
		resource *= s.CostMult
	}

	if damage < 0 {
		damage = 0
	}
	if resource < 0 {
		resource = 0
	}
	return int(damage), int(resource)
}
