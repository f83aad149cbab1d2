package rank

import (
	"sort"

	"github.com/okian/metaforge/internal/domain/model"
)

// Ranking constants.
const (
	maxViability  = 10.0
	dpsNormalizer = 500_000.0 // DPS at or above this contributes a full 1.0
)

// Preferences are hard filters applied before scoring: exclusion, never
// down-ranking. Zero values mean "no constraint".
type Preferences struct {
	PreferredClass  string
	BudgetLimit     int // max estimated resource cost
	MinDPS          int
	MaxSupportCount int // 0 or MaxSupports means unconstrained
}

// admits reports whether the candidate survives every hard filter.
func (p Preferences) admits(c *model.Candidate) bool {
	if p.PreferredClass != "" && c.Class() != p.PreferredClass {
		return false
	}
	if p.BudgetLimit > 0 && c.Cost > p.BudgetLimit {
		return false
	}
	if p.MinDPS > 0 && c.DPS < p.MinDPS {
		return false
	}
	if p.MaxSupportCount > 0 && len(c.Supports) > p.MaxSupportCount {
		return false
	}
	return true
}

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithWeights overrides the weight set.
func WithWeights(w WeightSet) Option {
	return func(r *Ranker) {
		r.weights = w
	}
}

// Ranker applies composite scoring, deterministic ordering, and distinct
// top-N selection.
type Ranker struct {
	weights WeightSet
}

// New creates a Ranker with the balanced weight preset unless overridden.
func New(opts ...Option) *Ranker {
	r := &Ranker{
		weights: DefaultWeights(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Composite computes the weighted multi-criteria score for one candidate.
func (r *Ranker) Composite(c *model.Candidate) float64 {
	dpsTerm := float64(c.DPS) / dpsNormalizer
	if dpsTerm > 1 {
		dpsTerm = 1
	}
	return c.Viability/maxViability*r.weights.Viability +
		c.Innovation*r.weights.Innovation +
		dpsTerm*r.weights.DPS +
		(1-c.Popularity())*r.weights.Popularity
}

// Rank filters, scores, orders, and selects up to count distinct
// candidates. Ordering is fully deterministic: stable descending sort by
// composite score, ties broken by lower resource cost, then by
// generation sequence. Distinctness is by build fingerprint; the
// earliest-ranked occurrence wins.
func (r *Ranker) Rank(pool []*model.Candidate, prefs Preferences, count int) []*model.Candidate {
	if count <= 0 {
		return nil
	}

	admitted := make([]*model.Candidate, 0, len(pool))
	for _, c := range pool {
		if prefs.admits(c) {
			admitted = append(admitted, c)
		}
	}

	scores := make(map[*model.Candidate]float64, len(admitted))
	for _, c := range admitted {
		scores[c] = r.Composite(c)
	}

	sort.SliceStable(admitted, func(i, j int) bool {
		a, b := admitted[i], admitted[j]
		if scores[a] != scores[b] {
			return scores[a] > scores[b]
		}
		if a.Cost != b.Cost {
			return a.Cost < b.Cost
		}
		return a.Seq < b.Seq
	})

	out := make([]*model.Candidate, 0, count)
	seen := make(map[string]struct{}, count)
	for _, c := range admitted {
		fp := c.Fingerprint()
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, c)
		if len(out) == count {
			break
		}
	}
	return out
}
