// Package aggregate merges candidates from the three origins (heuristic
// generator, formula generator, curated database) into one normalized
// pool. No deduplication happens here: identical builds arriving from
// several sources are kept on purpose, each tagged with its provenance,
// so the ranker can read cross-source corroboration from the pool
// instead of a collapsed confidence number.
package aggregate

import (
	"github.com/okian/metaforge/internal/domain/model"
)

// Neutral defaults for derived fields a source left unset. Deliberately
// non-zero: a zero here could divide or multiply later ranking terms to
// nothing.
const (
	NeutralSynergy    = 1.0
	NeutralInnovation = 0.5
	NeutralViability  = 5.0
	NeutralDPS        = 1_000
	NeutralCost       = 50
)

// Result is one source's contribution.
type Result struct {
	Source     model.Source
	Candidates []*model.Candidate
}

// Merge normalizes and concatenates the per-source results. Provenance is
// stamped onto every candidate, and each gets a fresh pool-wide sequence
// number preserving per-source generation order, which the ranker uses as
// its final tie-break.
func Merge(results ...Result) []*model.Candidate {
	total := 0
	for _, r := range results {
		total += len(r.Candidates)
	}

	pool := make([]*model.Candidate, 0, total)
	seq := 0
	for _, r := range results {
		for _, c := range r.Candidates {
			c.Source = r.Source
			c.Seq = seq
			seq++
			if c.State == model.StateUnscored || c.State == "" {
				normalize(c)
			}
			pool = append(pool, c)
		}
	}
	return pool
}

// normalize backfills the derived fields of a candidate that never went
// through scoring. Scored candidates keep their values untouched, even
// legitimate zeros such as a free skill's cost.
func normalize(c *model.Candidate) {
	c.Synergy = NeutralSynergy
	c.Innovation = NeutralInnovation
	c.Viability = NeutralViability
	c.DPS = NeutralDPS
	c.Cost = NeutralCost
}
