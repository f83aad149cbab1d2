package sources

import (
	"context"
	"sort"
	"time"

	"github.com/okian/metaforge/internal/domain/catalog"
	"github.com/okian/metaforge/internal/domain/generate"
	"github.com/okian/metaforge/internal/domain/model"
	"github.com/okian/metaforge/pkg/metrics"
)

// formulaSupportCount is how many supports a template build carries.
// Middle of the allowed range, leaves room for the repair pass to add
// or swap without breaching limits.
const formulaSupportCount = 4

// Formula is the template source. It walks the catalog in ID order and
// assembles one build per eligible skill: the ascendancy whose preferred
// tags best match the skill, plus the highest-damage compatible
// supports. No randomness is involved, so the output depends only on
// the catalog and the request constraints.
type Formula struct {
	cat       *catalog.Catalog
	scorer    Scorer
	evaluator Evaluator
}

// NewFormula creates the formula source.
func NewFormula(cat *catalog.Catalog, scorer Scorer, evaluator Evaluator) *Formula {
	return &Formula{cat: cat, scorer: scorer, evaluator: evaluator}
}

// Name identifies the origin.
func (f *Formula) Name() model.Source {
	return model.SourceFormula
}

// Generate assembles, scores and evaluates template builds until
// req.Count accepted candidates exist or the catalog is exhausted.
func (f *Formula) Generate(ctx context.Context, req Request) ([]*model.Candidate, error) {
	start := time.Now()
	defer func() {
		metrics.RecordSourceLatency(string(f.Name()), float64(time.Since(start).Milliseconds()))
	}()

	out := make([]*model.Candidate, 0, req.Count)
	for _, skill := range f.cat.Skills() {
		if len(out) >= req.Count {
			break
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if skill.Usage > req.PopularityCeiling {
			continue
		}

		asc := f.bestAscendancy(skill, req)
		if asc == nil {
			continue
		}

		supports := f.bestSupports(skill)
		if len(supports) < model.MinSupports {
			continue
		}

		c := &model.Candidate{
			Skill:      skill,
			Ascendancy: asc,
			Supports:   supports,
			Source:     model.SourceFormula,
			Seq:        len(out),
		}
		c.Name = generate.DisplayName(c)

		if err := f.scorer.Score(ctx, c); err != nil {
			return out, err
		}
		if err := f.evaluator.Evaluate(ctx, c); err != nil {
			return out, err
		}
		if c.State != model.StateAccepted {
			continue
		}

		metrics.RecordCandidateGenerated(string(f.Name()))
		out = append(out, c)
	}

	metrics.RecordSourceCandidates(string(f.Name()), len(out))
	return out, nil
}

// bestAscendancy picks the ascendancy whose preferred tags overlap the
// skill's tags the most. Catalog order breaks ties, so the choice is
// stable across runs.
func (f *Formula) bestAscendancy(skill *model.SkillDefinition, req Request) *model.AscendancyDefinition {
	var best *model.AscendancyDefinition
	bestOverlap := -1
	for _, asc := range f.cat.Ascendancies() {
		if asc.Usage > req.PopularityCeiling {
			continue
		}
		if req.PreferredClass != "" && asc.Class != req.PreferredClass {
			continue
		}
		if overlap := asc.PreferredTags.IntersectCount(skill.Tags); overlap > bestOverlap {
			best = asc
			bestOverlap = overlap
		}
	}
	return best
}

// bestSupports takes the compatible supports with the highest damage
// multipliers. ID order breaks multiplier ties.
func (f *Formula) bestSupports(skill *model.SkillDefinition) []*model.SupportDefinition {
	pool := f.cat.CompatibleSupports(skill)
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].DamageMult > pool[j].DamageMult
	})
	if len(pool) > formulaSupportCount {
		pool = pool[:formulaSupportCount]
	}
	return pool
}
