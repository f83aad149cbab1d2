// Package worker runs the evaluation stage: workers pull generated
// candidates off the queue, score them, drive them through filter &
// repair, and hand accepted builds to a collector. Each candidate is
// owned by exactly one worker; there is no shared mutable state between
// workers beyond the read-only catalog behind the scorer.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/metaforge/internal/domain/model"
	"github.com/okian/metaforge/pkg/logger"
	"github.com/okian/metaforge/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Scorer fills a candidate's derived scores.
type Scorer interface {
	Score(ctx context.Context, c *model.Candidate) error
}

// Evaluator drives a scored candidate through filter & repair to a
// terminal state.
type Evaluator interface {
	Evaluate(ctx context.Context, c *model.Candidate) error
}

// Collector receives candidates that reached the Accepted state.
type Collector interface {
	Collect(ctx context.Context, c *model.Candidate)
}

// Queue defines how workers receive candidates.
type Queue interface {
	Dequeue(ctx context.Context) <-chan *model.Candidate
}

// Worker processes candidates until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for evaluating candidates.
type InMemoryWorker struct {
	queue     Queue
	scorer    Scorer
	evaluator Evaluator
	collector Collector
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, scorer Scorer, evaluator Evaluator, collector Collector, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		scorer:    scorer,
		evaluator: evaluator,
		collector: collector,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	candidates := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case c, ok := <-candidates:
			if !ok {
				return
			}

			if err := w.process(ctx, c); err != nil {
				w.logger.Error(ctx, "error evaluating candidate", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process evaluates one candidate end to end. Cancellation is honored
// between candidates, never mid-candidate.
func (w *InMemoryWorker) process(ctx context.Context, c *model.Candidate) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	scoreStart := time.Now()
	err := w.scorer.Score(ctx, c)
	metrics.RecordScoringLatency(float64(time.Since(scoreStart).Milliseconds()))

	if err != nil {
		metrics.RecordScoringError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "scoring_error")
		metrics.RecordErrorByType("scoring_error", "high")
		w.logger.Error(ctx, "scoring failed for candidate",
			logger.String("candidate", c.Fingerprint()),
			logger.Error(err),
		)
		return fmt.Errorf("score candidate %s: %w", c.Fingerprint(), err)
	}

	if err := w.evaluator.Evaluate(ctx, c); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "filter_error")
		metrics.RecordErrorByType("filter_error", "high")
		w.logger.Error(ctx, "filter failed for candidate",
			logger.String("candidate", c.Fingerprint()),
			logger.Error(err),
		)
		return fmt.Errorf("evaluate candidate %s: %w", c.Fingerprint(), err)
	}

	if c.State == model.StateAccepted {
		w.collector.Collect(ctx, c)
	}

	return nil
}

// Pool manages multiple workers draining one queue.
type Pool struct {
	workers   []*InMemoryWorker
	queue     Queue
	scorer    Scorer
	evaluator Evaluator
	collector Collector

	shutdown chan struct{}

	logger logger.Logger
}

// NewPool creates a new worker pool. workerCount < 1 falls back to a
// CPU-proportional default.
func NewPool(workerCount int, queue Queue, scorer Scorer, evaluator Evaluator, collector Collector) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:   make([]*InMemoryWorker, workerCount),
		queue:     queue,
		scorer:    scorer,
		evaluator: evaluator,
		collector: collector,
		shutdown:  make(chan struct{}),
		logger:    logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			scorer,
			evaluator,
			collector,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
	defer cancel()

	for _, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker stop timed out", logger.Error(err))
		}
	}
}

// Shutdown closes the queue and waits for every worker to drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	metrics.UpdateWorkerActiveCount(0)

	return nil
}
