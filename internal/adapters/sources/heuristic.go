package sources

import (
	"context"
	"math/rand"
	"time"

	"github.com/okian/metaforge/internal/adapters/mq/queue"
	"github.com/okian/metaforge/internal/adapters/mq/worker"
	"github.com/okian/metaforge/internal/domain/catalog"
	"github.com/okian/metaforge/internal/domain/dedupe"
	"github.com/okian/metaforge/internal/domain/generate"
	"github.com/okian/metaforge/internal/domain/model"
	"github.com/okian/metaforge/pkg/metrics"
)

// Heuristic is the random-draw source. Draws run through a per-request
// queue and worker pool, so scoring and filtering parallelize across
// candidates while each candidate stays single-owner.
type Heuristic struct {
	cat       *catalog.Catalog
	scorer    Scorer
	evaluator Evaluator
	workers   int
	queueCap  int
	uniform   bool
}

// HeuristicOption applies a configuration option to the Heuristic source.
type HeuristicOption func(*Heuristic)

// WithWorkers sets the evaluation worker count. Values < 1 fall back to
// the pool's CPU-proportional default.
func WithWorkers(n int) HeuristicOption {
	return func(h *Heuristic) {
		h.workers = n
	}
}

// WithQueueCapacity bounds the per-request evaluation queue. Draw counts
// above the bound are clamped before generation, so the clamp never
// races the workers and output stays deterministic.
func WithQueueCapacity(n int) HeuristicOption {
	return func(h *Heuristic) {
		if n > 0 {
			h.queueCap = n
		}
	}
}

// WithUniformSelection switches the generator's support selection from
// smart ranking to uniform sampling.
func WithUniformSelection() HeuristicOption {
	return func(h *Heuristic) {
		h.uniform = true
	}
}

// NewHeuristic creates the heuristic source.
func NewHeuristic(cat *catalog.Catalog, scorer Scorer, evaluator Evaluator, opts ...HeuristicOption) *Heuristic {
	h := &Heuristic{
		cat:       cat,
		scorer:    scorer,
		evaluator: evaluator,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Name identifies the origin.
func (h *Heuristic) Name() model.Source {
	return model.SourceHeuristic
}

// Generate draws candidates with a request-seeded random source and
// evaluates them on the worker pool. Accepted candidates come back in
// generation order regardless of worker completion order.
func (h *Heuristic) Generate(ctx context.Context, req Request) ([]*model.Candidate, error) {
	start := time.Now()
	defer func() {
		metrics.RecordSourceLatency(string(h.Name()), float64(time.Since(start).Milliseconds()))
	}()

	genOpts := []generate.Option{generate.WithTracker(dedupe.NewInMemoryTracker())}
	if h.uniform {
		genOpts = append(genOpts, generate.WithUniformSelection())
	}

	count := req.Count
	if h.queueCap > 0 && count > h.queueCap {
		count = h.queueCap
	}

	gen := generate.New(h.cat, rand.New(rand.NewSource(req.Seed)), genOpts...)
	drawn, err := gen.Generate(ctx, count, req.PopularityCeiling)
	if err != nil {
		return nil, err
	}
	if len(drawn) == 0 {
		metrics.RecordSourceCandidates(string(h.Name()), 0)
		return nil, nil
	}

	for range drawn {
		metrics.RecordCandidateGenerated(string(h.Name()))
	}

	q := queue.NewInMemoryQueue(
		queue.WithCapacity(len(drawn)),
		queue.WithBufferSize(len(drawn)),
	)
	col := newSeqCollector()
	pool := worker.NewPool(h.workers, q, h.scorer, h.evaluator, col)
	pool.Start(ctx)

	for _, c := range drawn {
		c.Source = model.SourceHeuristic
		if !q.Enqueue(ctx, c) {
			break
		}
	}

	// A dead request gets its workers halted instead of drained.
	if err := ctx.Err(); err != nil {
		pool.Stop()
		return nil, err
	}

	if err := pool.Shutdown(ctx); err != nil {
		return nil, err
	}

	accepted := col.sorted()
	metrics.RecordSourceCandidates(string(h.Name()), len(accepted))
	return accepted, nil
}
