// Package sources holds the three candidate origins: the heuristic
// generator backed by the worker pool, the formula-driven generator, and
// the curated build database. Each produces accepted candidates; the
// aggregator merges them and stamps provenance.
package sources

import (
	"context"

	"github.com/okian/metaforge/internal/domain/model"
)

// Request carries the per-invocation generation parameters.
type Request struct {
	// Count bounds how many candidates the source should produce.
	Count int

	// PopularityCeiling excludes skills and ascendancies whose
	// historical usage exceeds it. The curated source ignores it.
	PopularityCeiling float64

	// Seed drives the heuristic source's random draws.
	Seed int64

	// PreferredClass narrows the curated source's query. Empty means
	// all classes.
	PreferredClass string
}

// Source produces evaluated, accepted candidates from one origin.
type Source interface {
	// Name identifies the origin for provenance tagging.
	Name() model.Source

	// Generate produces up to req.Count accepted candidates. A shortfall
	// is not an error; ctx cancellation is.
	Generate(ctx context.Context, req Request) ([]*model.Candidate, error)
}

// Scorer fills a candidate's derived scores.
type Scorer interface {
	Score(ctx context.Context, c *model.Candidate) error
}

// Evaluator drives a scored candidate through filter & repair.
type Evaluator interface {
	Evaluate(ctx context.Context, c *model.Candidate) error
}
