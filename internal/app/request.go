package service

import (
	"fmt"

	"github.com/okian/metaforge/internal/domain/model"
	"github.com/okian/metaforge/internal/domain/rank"
	"github.com/okian/metaforge/internal/domain/types"
)

// Request bounds.
const (
	MinResultCount = 1
	MaxResultCount = 20
)

// Request carries one recommendation query. Zero values on the optional
// fields mean "no constraint".
type Request struct {
	// PreferredClass narrows results to one base class. Optional.
	PreferredClass string `json:"preferred_class,omitempty" koanf:"preferred_class"`

	// BudgetLimit is the maximum estimated resource cost. Optional, > 0
	// when set.
	BudgetLimit int `json:"budget_limit,omitempty" koanf:"budget_limit"`

	// MinDPS is the minimum estimated damage per second. Optional.
	MinDPS int `json:"min_dps,omitempty" koanf:"min_dps"`

	// MaxSupportCount caps the supports per build. Optional; when set it
	// must stay inside the build limits.
	MaxSupportCount int `json:"max_support_count,omitempty" koanf:"max_support_count"`

	// InnovationLevel selects the ranking preset. Empty means balanced.
	InnovationLevel string `json:"innovation_level,omitempty" koanf:"innovation_level"`

	// ResultCount is how many recommendations to return.
	ResultCount int `json:"result_count" koanf:"result_count"`

	// Seed fixes the heuristic draws. Zero means a fresh seed per call.
	Seed int64 `json:"seed,omitempty" koanf:"seed"`
}

// Validate checks every field and fails on the first violation, naming
// the offending field.
func (r Request) Validate() error {
	if r.ResultCount < MinResultCount || r.ResultCount > MaxResultCount {
		return &ValidationError{
			Field:  "result_count",
			Reason: fmt.Sprintf("must be between %d and %d, got %d", MinResultCount, MaxResultCount, r.ResultCount),
		}
	}
	if r.BudgetLimit < 0 {
		return &ValidationError{
			Field:  "budget_limit",
			Reason: fmt.Sprintf("must be positive when set, got %d", r.BudgetLimit),
		}
	}
	if r.MinDPS < 0 {
		return &ValidationError{
			Field:  "min_dps",
			Reason: fmt.Sprintf("must not be negative, got %d", r.MinDPS),
		}
	}
	if r.MaxSupportCount != 0 &&
		(r.MaxSupportCount < model.MinSupports || r.MaxSupportCount > model.MaxSupports) {
		return &ValidationError{
			Field:  "max_support_count",
			Reason: fmt.Sprintf("must be between %d and %d, got %d", model.MinSupports, model.MaxSupports, r.MaxSupportCount),
		}
	}
	if r.InnovationLevel != "" {
		if _, err := rank.WeightsFor(rank.Mode(r.InnovationLevel)); err != nil {
			return &ValidationError{
				Field:  "innovation_level",
				Reason: fmt.Sprintf("must be one of conservative, balanced, experimental, got %q", r.InnovationLevel),
			}
		}
	}
	return nil
}

// mode resolves the ranking preset, defaulting to balanced.
func (r Request) mode() rank.Mode {
	if r.InnovationLevel == "" {
		return rank.ModeBalanced
	}
	return rank.Mode(r.InnovationLevel)
}

// popularityCeiling maps the preset onto the generator's usage cutoff.
// Conservative keeps the whole catalog in play; experimental cuts the
// meta staples out entirely so the pool skews obscure.
func (r Request) popularityCeiling() float64 {
	switch r.mode() {
	case rank.ModeConservative:
		return 1.0
	case rank.ModeExperimental:
		return 0.4
	default:
		return 0.7
	}
}

// Response is the outcome of one recommendation query.
type Response struct {
	// Recommendations are ranked best-first, at most ResultCount long.
	Recommendations []types.Recommendation `json:"recommendations"`

	// Shortfall is set when the pipeline could not fill the requested
	// count. It annotates exhaustion; it is not an error.
	Shortfall bool `json:"shortfall,omitempty"`

	// Seed echoes the seed the heuristic source actually used, so a
	// caller can replay the exact result set.
	Seed int64 `json:"seed"`
}
