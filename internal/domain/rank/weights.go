// Package rank orders the aggregate candidate pool with configurable
// weighted multi-criteria scoring and applies caller preferences.
package rank

import (
	"fmt"
	"math"
)

// Mode names a weight preset keyed to the caller's innovation appetite.
type Mode string

// Ranking modes.
const (
	ModeConservative Mode = "conservative"
	ModeBalanced     Mode = "balanced"
	ModeExperimental Mode = "experimental"
)

// WeightSet defines the relative importance of each composite-score term.
// All weights must sum to 1.0 (±0.001 tolerance).
type WeightSet struct {
	Viability  float64
	Innovation float64
	Popularity float64 // rewards LOW popularity: the term is (1 - popularity)
	DPS        float64
}

// DefaultWeights returns the balanced weight distribution.
func DefaultWeights() WeightSet {
	return WeightSet{
		Viability:  0.4,
		Innovation: 0.2,
		Popularity: 0.3,
		DPS:        0.1,
	}
}

// WeightsFor returns the preset for mode. Conservative favors viability
// and realism; experimental favors innovation.
func WeightsFor(mode Mode) (WeightSet, error) {
	switch mode {
	case ModeConservative:
		return WeightSet{Viability: 0.6, Innovation: 0.05, Popularity: 0.15, DPS: 0.2}, nil
	case ModeBalanced, "":
		return DefaultWeights(), nil
	case ModeExperimental:
		return WeightSet{Viability: 0.2, Innovation: 0.45, Popularity: 0.25, DPS: 0.1}, nil
	default:
		return WeightSet{}, fmt.Errorf("unknown ranking mode: %s", mode)
	}
}

// Sum returns the total of all weights.
func (w WeightSet) Sum() float64 {
	return w.Viability + w.Innovation + w.Popularity + w.DPS
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w WeightSet) Validate() error {
	if math.Abs(w.Sum()-1.0) > 0.001 {
		return fmt.Errorf("weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	for _, v := range []float64{w.Viability, w.Innovation, w.Popularity, w.DPS} {
		if v < 0 {
			return fmt.Errorf("negative weight: %f", v)
		}
	}
	return nil
}
