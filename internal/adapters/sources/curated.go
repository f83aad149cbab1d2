package sources

import (
	"context"
	"time"

	"github.com/okian/metaforge/internal/adapters/repository"
	"github.com/okian/metaforge/internal/domain/generate"
	"github.com/okian/metaforge/internal/domain/model"
	"github.com/okian/metaforge/pkg/metrics"
)

// Curated serves hand-maintained builds from a repository store. Stored
// builds still go through scoring and evaluation so their numbers stay
// comparable with generated candidates and a stale entry cannot bypass
// the quality gate.
type Curated struct {
	store     repository.Store
	scorer    Scorer
	evaluator Evaluator
}

// NewCurated creates the curated source.
func NewCurated(store repository.Store, scorer Scorer, evaluator Evaluator) *Curated {
	return &Curated{store: store, scorer: scorer, evaluator: evaluator}
}

// Name identifies the origin.
func (c *Curated) Name() model.Source {
	return model.SourceCurated
}

// Generate scores and evaluates stored builds, narrowing to the
// requested class when one is set. Popularity ceilings do not apply
// here, a curated entry earned its place regardless of usage.
func (c *Curated) Generate(ctx context.Context, req Request) ([]*model.Candidate, error) {
	start := time.Now()
	defer func() {
		metrics.RecordSourceLatency(string(c.Name()), float64(time.Since(start).Milliseconds()))
	}()

	var builds []*model.Candidate
	if req.PreferredClass != "" {
		builds = c.store.ByClass(ctx, req.PreferredClass)
	} else {
		builds = c.store.All(ctx)
	}

	out := make([]*model.Candidate, 0, len(builds))
	for _, b := range builds {
		if len(out) >= req.Count {
			break
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}

		b.Source = model.SourceCurated
		b.Seq = len(out)
		if b.Name == "" {
			b.Name = generate.DisplayName(b)
		}

		if err := c.scorer.Score(ctx, b); err != nil {
			return out, err
		}
		if err := c.evaluator.Evaluate(ctx, b); err != nil {
			return out, err
		}
		if b.State != model.StateAccepted {
			continue
		}

		metrics.RecordCandidateGenerated(string(c.Name()))
		out = append(out, b)
	}

	metrics.RecordSourceCandidates(string(c.Name()), len(out))
	return out, nil
}
