// Package service wires the recommendation pipeline together: the three
// candidate sources behind a synchronization barrier, the aggregator,
// and the ranker. It implements the dependencies required by the HTTP
// API.
package service

import (
	"context"
	"sync"
	"time"

	repository "github.com/okian/metaforge/internal/adapters/repository"
	"github.com/okian/metaforge/internal/adapters/sources"
	"github.com/okian/metaforge/internal/domain/aggregate"
	"github.com/okian/metaforge/internal/domain/catalog"
	"github.com/okian/metaforge/internal/domain/filter"
	"github.com/okian/metaforge/internal/domain/model"
	"github.com/okian/metaforge/internal/domain/rank"
	"github.com/okian/metaforge/internal/domain/scoring"
	"github.com/okian/metaforge/internal/domain/types"
	"github.com/okian/metaforge/pkg/logger"
	"github.com/okian/metaforge/pkg/metrics"
)

// poolFactor is how many candidates each source is asked for per
// requested result. Oversampling gives the ranker a real pool to select
// from instead of rubber-stamping whatever survived filtering.
const poolFactor = 3

// Service implements the recommendation pipeline.
type Service struct {
	mu sync.RWMutex

	// Core components
	cat       *catalog.Catalog
	store     repository.Store
	scorer    *scoring.Engine
	evaluator *filter.Stage
	sources   []sources.Source

	// Configuration
	workerCount       int
	queueCapacity     int
	sourceTimeout     time.Duration
	defaultInnovation string

	// State
	started bool
	served  int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the evaluation worker count for the heuristic
// source.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueCapacity bounds the heuristic source's per-request evaluation
// queue.
func WithQueueCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueCapacity = n
		}
	}
}

// WithDefaultInnovationLevel sets the innovation level applied to
// requests that leave the field empty. The value must be a recognized
// level name; config validation guarantees that for loaded values.
func WithDefaultInnovationLevel(level string) Option {
	return func(s *Service) {
		if level != "" {
			s.defaultInnovation = level
		}
	}
}

// WithSourceTimeout bounds how long each source may run per request.
func WithSourceTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sourceTimeout = d
		}
	}
}

// WithCuratedStore attaches the curated build database. Without it the
// curated source is simply absent.
func WithCuratedStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service over the catalog with default configuration.
func New(cat *catalog.Catalog, opts ...Option) *Service {
	s := &Service{
		cat:           cat,
		sourceTimeout: 2 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the scoring engine, the filter stage, and the sources.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.scorer = scoring.NewEngine(s.cat)
	s.evaluator = filter.NewStage(s.cat, s.scorer)

	heuristicOpts := []sources.HeuristicOption{sources.WithWorkers(s.workerCount)}
	if s.queueCapacity > 0 {
		heuristicOpts = append(heuristicOpts, sources.WithQueueCapacity(s.queueCapacity))
	}

	s.sources = []sources.Source{
		sources.NewHeuristic(s.cat, s.scorer, s.evaluator, heuristicOpts...),
		sources.NewFormula(s.cat, s.scorer, s.evaluator),
	}
	if s.store != nil {
		s.sources = append(s.sources, sources.NewCurated(s.store, s.scorer, s.evaluator))
	}

	s.started = true

	skills, supports, ascendancies := s.cat.Counts()
	s.logger.Info(ctx, "recommendation service started",
		logger.Int("skills", skills),
		logger.Int("supports", supports),
		logger.Int("ascendancies", ascendancies),
		logger.Int("sources", len(s.sources)),
		logger.Int("workers", s.workerCount),
	)

	return nil
}

// Stop shuts the service down. Sources hold no long-lived goroutines, so
// this only flips state.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	s.logger.Info(context.Background(), "recommendation service stopped")
}

// Recommend runs the full pipeline for one request: validate, fan out to
// the sources under the barrier, merge, rank, convert.
func (s *Service) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	s.mu.RLock()
	started := s.started
	srcs := s.sources
	timeout := s.sourceTimeout
	defaultInnovation := s.defaultInnovation
	s.mu.RUnlock()

	if !started {
		return nil, ErrNotStarted
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.InnovationLevel == "" {
		req.InnovationLevel = defaultInnovation
	}

	weights, err := rank.WeightsFor(req.mode())
	if err != nil {
		return nil, err
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	srcReq := sources.Request{
		Count:             req.ResultCount * poolFactor,
		PopularityCeiling: req.popularityCeiling(),
		Seed:              seed,
		PreferredClass:    req.PreferredClass,
	}

	pool := s.gather(ctx, srcs, srcReq, timeout)

	ranker := rank.New(rank.WithWeights(weights))
	prefs := rank.Preferences{
		PreferredClass:  req.PreferredClass,
		BudgetLimit:     req.BudgetLimit,
		MinDPS:          req.MinDPS,
		MaxSupportCount: req.MaxSupportCount,
	}
	top := ranker.Rank(pool, prefs, req.ResultCount)

	recs := make([]types.Recommendation, len(top))
	for i, c := range top {
		recs[i] = types.FromCandidate(i+1, c, ranker.Composite(c))
	}

	resp := &Response{
		Recommendations: recs,
		Shortfall:       len(recs) < req.ResultCount,
		Seed:            seed,
	}
	if resp.Shortfall {
		metrics.RecordGenerationShortfall()
		s.logger.Debug(ctx, "recommendation shortfall",
			logger.Int("requested", req.ResultCount),
			logger.Int("returned", len(recs)),
			logger.Int("min_dps", req.MinDPS),
			logger.Int("max_achievable_dps", s.cat.MaxAchievableDPS()),
		)
	}

	s.mu.Lock()
	s.served++
	s.mu.Unlock()

	metrics.RecordRecommendationServed()
	metrics.RecordPipelineDuration(float64(time.Since(start).Milliseconds()))
	return resp, nil
}

// gather fans the request out to every source and waits for all of them.
// A source that errors or overruns its timeout contributes nothing; the
// others still count.
func (s *Service) gather(ctx context.Context, srcs []sources.Source, req sources.Request, timeout time.Duration) []*model.Candidate {
	results := make([]aggregate.Result, len(srcs))

	var wg sync.WaitGroup
	for i, src := range srcs {
		wg.Add(1)
		go func(i int, src sources.Source) {
			defer wg.Done()

			srcCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			cands, err := src.Generate(srcCtx, req)
			if err != nil {
				if srcCtx.Err() != nil {
					metrics.RecordSourceTimeout(string(src.Name()))
				}
				s.logger.Warn(ctx, "source failed, continuing without it",
					logger.String("source", string(src.Name())),
					logger.Error(err),
				)
				cands = nil
			}
			results[i] = aggregate.Result{Source: src.Name(), Candidates: cands}
		}(i, src)
	}
	wg.Wait()

	return aggregate.Merge(results...)
}

// Catalog exposes the immutable catalog for read-only consumers.
func (s *Service) Catalog() *catalog.Catalog {
	return s.cat
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	skills, supports, ascendancies := s.cat.Counts()
	stats := map[string]interface{}{
		"started":          s.started,
		"workerCount":      s.workerCount,
		"queueCapacity":    s.queueCapacity,
		"sourceTimeout":    s.sourceTimeout.String(),
		"served":           s.served,
		"skills":           skills,
		"supports":         supports,
		"ascendancies":     ascendancies,
		"maxAchievableDPS": s.cat.MaxAchievableDPS(),
	}

	if s.store != nil {
		count := s.store.Count(context.Background())
		stats["curatedBuilds"] = count
		metrics.UpdateCatalogEntries("curated_builds", count)
	}

	return stats
}
