// Package generate draws skill + ascendancy + support-set combinations
// from the catalog, biased toward low historical-usage entries. Draws
// that cannot carry enough compatible supports are discarded before
// scoring ever sees them.
package generate

import (
	"context"
	"math/rand"
	"sort"

	"github.com/okian/metaforge/internal/domain/catalog"
	"github.com/okian/metaforge/internal/domain/dedupe"
	"github.com/okian/metaforge/internal/domain/model"
	"github.com/okian/metaforge/pkg/metrics"
)

// Generation bounds.
const (
	// attemptsPerCandidate bounds the draw loop: maxAttempts = count * attemptsPerCandidate.
	attemptsPerCandidate = 5

	// minCompatibleSupports is the smallest compatible-support pool a
	// skill draw needs; thinner pools are resampled.
	minCompatibleSupports = 4
)

// Smart-selection weighting. Compatibility dominates, effectiveness and
// rarity break near-ties between equally synergistic supports.
const (
	damageKindWeight    = 1.5
	effectivenessWeight = 1.0
	rarityWeight        = 0.5
)

// Generator produces unscored candidates from the catalog and an
// injected random source. It has no side effects beyond the draw
// tracker; a fixed catalog and seed reproduce the same sequence.
type Generator struct {
	cat     *catalog.Catalog
	rng     *rand.Rand
	tracker dedupe.Tracker
	smart   bool
}

// New creates a Generator over cat driven by rng.
func New(cat *catalog.Catalog, rng *rand.Rand, opts ...Option) *Generator {
	g := &Generator{
		cat:   cat,
		rng:   rng,
		smart: true,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.tracker == nil {
		g.tracker = dedupe.NewInMemoryTracker()
	}
	return g
}

// Generate draws up to count candidates whose skill and ascendancy both
// have historical usage at or below ceiling. The loop is bounded by
// count * 5 attempts; on exhaustion it returns the shortfall rather than
// an error. Cancellation is honored between draws, never mid-draw.
func (g *Generator) Generate(ctx context.Context, count int, ceiling float64) ([]*model.Candidate, error) {
	if count <= 0 {
		return nil, nil
	}

	skills := eligibleSkills(g.cat, ceiling)
	ascendancies := eligibleAscendancies(g.cat, ceiling)
	if len(skills) == 0 || len(ascendancies) == 0 {
		metrics.RecordGenerationShortfall()
		return nil, nil
	}

	out := make([]*model.Candidate, 0, count)
	maxAttempts := count * attemptsPerCandidate

	for attempt := 0; attempt < maxAttempts && len(out) < count; attempt++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		c := g.draw(ctx, skills, ascendancies)
		if c == nil {
			metrics.RecordCandidateDiscarded()
			continue
		}

		c.Seq = len(out)
		out = append(out, c)
	}

	if len(out) < count {
		metrics.RecordGenerationShortfall()
	}
	return out, nil
}

// draw attempts one candidate. It returns nil when the skill's
// compatible-support pool is too thin or the build was already drawn
// this run.
func (g *Generator) draw(ctx context.Context, skills []*model.SkillDefinition, ascendancies []*model.AscendancyDefinition) *model.Candidate {
	skill := skills[g.rng.Intn(len(skills))]
	asc := ascendancies[g.rng.Intn(len(ascendancies))]

	pool := g.cat.CompatibleSupports(skill)
	if len(pool) < minCompatibleSupports {
		return nil
	}

	n := model.MinSupports + g.rng.Intn(model.MaxSupports-model.MinSupports+1)
	if n > len(pool) {
		n = len(pool)
	}

	var chosen []*model.SupportDefinition
	if g.smart {
		chosen = g.selectSmart(skill, pool, n)
	} else {
		chosen = g.selectUniform(pool, n)
	}

	c := &model.Candidate{
		Skill:      skill,
		Ascendancy: asc,
		Supports:   chosen,
		State:      model.StateUnscored,
	}
	c.Name = DisplayName(c)

	if g.tracker.SeenAndRecord(ctx, c.Fingerprint()) {
		return nil
	}
	return c
}

// selectSmart ranks the pool by compatibility, effectiveness, and rarity
// and takes the top n. The pool arrives in sorted-ID order, so the
// stable sort makes equal-weight picks deterministic.
func (g *Generator) selectSmart(skill *model.SkillDefinition, pool []*model.SupportDefinition, n int) []*model.SupportDefinition {
	ranked := make([]*model.SupportDefinition, len(pool))
	copy(ranked, pool)

	sort.SliceStable(ranked, func(i, j int) bool {
		return supportWeight(skill, ranked[i]) > supportWeight(skill, ranked[j])
	})
	return ranked[:n]
}

// selectUniform picks n supports uniformly at random without replacement.
func (g *Generator) selectUniform(pool []*model.SupportDefinition, n int) []*model.SupportDefinition {
	idx := g.rng.Perm(len(pool))[:n]
	out := make([]*model.SupportDefinition, n)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}

// supportWeight scores one support for the smart variant: synergy-tag
// overlap and damage-kind match first, then raw damage multiplier, then
// a bias toward rarely used supports.
func supportWeight(skill *model.SkillDefinition, s *model.SupportDefinition) float64 {
	w := float64(s.SynergyTags.IntersectCount(skill.Tags))
	if s.SynergyTags.Has(skill.DamageKind) {
		w += damageKindWeight
	}
	w += (s.DamageMult - 1.0) * effectivenessWeight
	w += (1.0 - s.Usage) * rarityWeight
	return w
}

// eligibleSkills filters the catalog's skills by the popularity ceiling.
// A ceiling that excludes everything leaves the pool empty; the caller
// reports that as a shortfall rather than serving builds above the
// ceiling.
func eligibleSkills(cat *catalog.Catalog, ceiling float64) []*model.SkillDefinition {
	var out []*model.SkillDefinition
	for _, s := range cat.Skills() {
		if s.Usage <= ceiling {
			out = append(out, s)
		}
	}
	return out
}

func eligibleAscendancies(cat *catalog.Catalog, ceiling float64) []*model.AscendancyDefinition {
	var out []*model.AscendancyDefinition
	for _, a := range cat.Ascendancies() {
		if a.Usage <= ceiling {
			out = append(out, a)
		}
	}
	return out
}
