// Package filter classifies build issues and applies rule-based repair.
// It drives each candidate through the lifecycle
// Scored -> {Rejected | Repaired -> Rescored -> {Rejected | Accepted}};
// Rejected and Accepted are terminal, and a candidate is repaired at most
// once. Repair failures never escalate: an unrepairable candidate is
// simply Rejected.
package filter

import (
	"context"
	"fmt"

	"github.com/okian/metaforge/internal/domain/catalog"
	"github.com/okian/metaforge/internal/domain/model"
	"github.com/okian/metaforge/pkg/metrics"
)

// Thresholds holds the rule-check limits. Loaded once into the Stage at
// construction; there is no ambient mutable rule state.
type Thresholds struct {
	CriticalStatRequirement int
	CriticalResourceCost    int
	CriticalMinDPS          int

	MajorStatRequirement int
	MajorResourceCost    int
	MajorSynergyFloor    float64
	MajorTagRatioFloor   float64

	MinorLinkCount int

	MajorPenalty         float64
	MinorPenalty         float64
	RepairViabilityFloor float64
}

// DefaultThresholds returns the standard rule-check limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CriticalStatRequirement: 500,
		CriticalResourceCost:    200,
		CriticalMinDPS:          500,

		MajorStatRequirement: 350,
		MajorResourceCost:    120,
		MajorSynergyFloor:    0.8,
		MajorTagRatioFloor:   0.2,

		MinorLinkCount: 5,

		MajorPenalty:         2.0,
		MinorPenalty:         0.5,
		RepairViabilityFloor: 5.0,
	}
}

// Option applies a configuration option to the Stage.
type Option func(*Stage)

// WithThresholds overrides the rule-check limits.
func WithThresholds(t Thresholds) Option {
	return func(s *Stage) {
		s.thresholds = t
	}
}

// Scorer re-scores a candidate after repair.
type Scorer interface {
	Score(ctx context.Context, c *model.Candidate) error
}

// Stage is the filter & repair stage of the pipeline.
type Stage struct {
	cat        *catalog.Catalog
	scorer     Scorer
	thresholds Thresholds
}

// NewStage creates a filter stage bound to cat and scorer.
func NewStage(cat *catalog.Catalog, scorer Scorer, opts ...Option) *Stage {
	s := &Stage{
		cat:        cat,
		scorer:     scorer,
		thresholds: DefaultThresholds(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Evaluate classifies the candidate's issues, attempts one repair pass
// when critical issues implicate supports, and drives the candidate to a
// terminal state. The candidate must already be scored.
func (s *Stage) Evaluate(ctx context.Context, c *model.Candidate) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("filter cancelled: %w", ctx.Err())
	default:
	}

	s.classify(c)
	if !c.HasCritical() {
		c.State = model.StateAccepted
		return nil
	}

	if c.Repaired {
		// Already went through repair once; still critical is terminal.
		s.reject(c, "post_repair_critical")
		return nil
	}

	if !s.Repair(c) {
		s.reject(c, "unrepairable")
		return nil
	}
	metrics.RecordCandidateRepaired()

	if err := s.scorer.Score(ctx, c); err != nil {
		return fmt.Errorf("rescore after repair: %w", err)
	}

	s.classify(c)
	switch {
	case c.HasCritical():
		s.reject(c, "post_repair_critical")
	case c.Viability < s.thresholds.RepairViabilityFloor:
		s.reject(c, "post_repair_viability")
	default:
		c.State = model.StateAccepted
	}
	return nil
}

// reject moves the candidate to the terminal Rejected state and forces
// viability to zero.
func (s *Stage) reject(c *model.Candidate, reason string) {
	c.State = model.StateRejected
	c.Viability = 0
	metrics.RecordCandidateRejected(reason)
}

// classify rebuilds the issue list from the candidate's current scores and
// recomputes viability. Stale issues from a previous pass never survive.
func (s *Stage) classify(c *model.Candidate) {
	t := s.thresholds
	c.Issues = c.Issues[:0]

	// Critical checks.
	for _, sup := range c.Supports {
		if !s.cat.Compatible(c.Skill, sup) {
			s.flag(c, model.SeverityCritical, "incompatible_support", sup.ID)
		}
	}
	if req := c.Skill.MaxRequirement(); req > t.CriticalStatRequirement {
		s.flag(c, model.SeverityCritical, "stat_requirement", fmt.Sprintf("requires %d", req))
	}
	if c.Cost > t.CriticalResourceCost {
		s.flag(c, model.SeverityCritical, "resource_cost", fmt.Sprintf("costs %d", c.Cost))
	}
	if c.DPS < t.CriticalMinDPS {
		s.flag(c, model.SeverityCritical, "low_dps", fmt.Sprintf("estimated %d", c.DPS))
	}

	// Major checks.
	if s.ascendancyTagRatio(c) < t.MajorTagRatioFloor {
		s.flag(c, model.SeverityMajor, "ascendancy_mismatch", c.Ascendancy.ID)
	}
	if c.Cost > t.MajorResourceCost {
		s.flag(c, model.SeverityMajor, "high_cost", fmt.Sprintf("costs %d", c.Cost))
	}
	if c.Synergy < t.MajorSynergyFloor {
		s.flag(c, model.SeverityMajor, "low_synergy", fmt.Sprintf("synergy %.2f", c.Synergy))
	}
	if req := c.Skill.MaxRequirement(); req > t.MajorStatRequirement {
		s.flag(c, model.SeverityMajor, "high_requirement", fmt.Sprintf("requires %d", req))
	}

	// Minor checks.
	if len(c.Supports)+1 >= t.MinorLinkCount {
		s.flag(c, model.SeverityMinor, "high_link_count", fmt.Sprintf("%d links", len(c.Supports)+1))
	}

	viability := maxViability -
		t.MajorPenalty*float64(c.IssuesBySeverity(model.SeverityMajor)) -
		t.MinorPenalty*float64(c.IssuesBySeverity(model.SeverityMinor))
	if viability < 0 {
		viability = 0
	}
	c.Viability = viability
}

const maxViability = 10.0

func (s *Stage) flag(c *model.Candidate, sev model.Severity, code, detail string) {
	c.Issues = append(c.Issues, model.Issue{Severity: sev, Code: code, Detail: detail})
	metrics.RecordIssueFlagged(string(sev))
}

// ascendancyTagRatio measures how much of the skill's tag set the
// ascendancy's preferred-skill profile covers. A tagless skill matches
// nothing.
func (s *Stage) ascendancyTagRatio(c *model.Candidate) float64 {
	if len(c.Skill.Tags) == 0 {
		return 0
	}
	overlap := c.Ascendancy.PreferredTags.IntersectCount(c.Skill.Tags)
	return float64(overlap) / float64(len(c.Skill.Tags))
}
