// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/talentdb/matchd/internal/adapters/repository"
	"github.com/talentdb/matchd/internal/adapters/workers"
	"github.com/talentdb/matchd/internal/cache"
	"github.com/talentdb/matchd/internal/domain/model"
	"github.com/talentdb/matchd/internal/domain/scoring"
	"github.com/talentdb/matchd/internal/tenant"
	"github.com/talentdb/matchd/internal/weights"
	"github.com/talentdb/matchd/pkg/logger"
	"github.com/talentdb/matchd/pkg/metrics"
)

// Service implements the API dependencies for the matching system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       repository.Store
	weightStore *weights.Store
	matchCache  *cache.MatchCache
	scorer      *scoring.Scorer
	pool        *workers.Pool
	guard       tenant.Guard

	// Configuration
	workerCount    int
	cacheSize      int
	scanLimit      int
	tieEpsilon     float64
	defaultWeights weights.Snapshot

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the entity store. Defaults to an in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithWorkerCount sets the number of scoring goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithCacheSize sets the capacity of the match result cache.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.cacheSize = size
		}
	}
}

// WithScanLimit caps how many counterpart entities one ranking request
// pulls from the store.
func WithScanLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.scanLimit = limit
		}
	}
}

// WithTieEpsilon sets the score-equality tolerance used for tie-breaking.
func WithTieEpsilon(eps float64) Option {
	return func(s *Service) {
		if eps > 0 {
			s.tieEpsilon = eps
		}
	}
}

// WithDefaultWeights sets the initial weight snapshot.
func WithDefaultWeights(w weights.Snapshot) Option {
	return func(s *Service) {
		s.defaultWeights = w
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

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU() * 2,
		cacheSize:      1024,
		scanLimit:      1000,
		defaultWeights: weights.Defaults(),
		logger:         nil, // will be replaced when the service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting matching service...")

	if s.store == nil {
		s.store = repository.NewMemStore(repository.WithScanLimit(s.scanLimit))
		s.logger.Info(ctx, "using in-memory entity store")
	}

	ws, err := weights.NewStore(s.defaultWeights, weights.WithLogger(s.logger))
	if err != nil {
		return fmt.Errorf("initializing weight store: %w", err)
	}
	s.weightStore = ws

	mc, err := cache.New(cache.WithCapacity(s.cacheSize))
	if err != nil {
		return fmt.Errorf("initializing match cache: %w", err)
	}
	s.matchCache = mc

	scorerOpts := []scoring.Option{}
	if s.tieEpsilon > 0 {
		scorerOpts = append(scorerOpts, scoring.WithTieEpsilon(s.tieEpsilon))
	}
	s.scorer = scoring.New(scorerOpts...)

	s.pool = workers.NewPool(s.scorer,
		workers.WithWorkerCount(s.workerCount),
		workers.WithLogger(s.logger.Named("workers")),
	)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "matching service started",
		logger.Int("workers", s.workerCount),
		logger.Int("cacheSize", s.cacheSize),
		logger.Int("scanLimit", s.scanLimit),
		logger.Uint64("weightVersion", ws.Current().Version),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping matching service...")

	if s.pool != nil {
		s.pool.Stop()
	}

	s.started = false
	s.logger.Info(context.Background(), "matching service stopped")
}

// Rank returns the top-k counterparts for the anchor entity, best first.
// Results come from the cache when a previous request already ranked this
// anchor under the current weight version; otherwise the counterpart pool
// is scored in parallel and the result cached. Zero-score pairs are never
// returned.
func (s *Service) Rank(ctx context.Context, tenantID string, kind model.EntityKind, anchorID string, topK int, cityFilter bool) ([]model.MatchResult, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRankRequest()
		metrics.RecordRankLatency(float64(time.Since(start).Microseconds()) / 1e3)
	}()

	anchor, err := s.store.GetEntity(ctx, tenantID, anchorID)
	if err != nil {
		return nil, err
	}
	if anchor.Kind != kind {
		// Anchors requested under the wrong kind are indistinguishable from
		// missing ones to the caller.
		return nil, repository.ErrNotFound
	}

	snap := s.weightStore.Current()

	key := cache.Key{
		TenantID:   tenantID,
		Kind:       kind,
		AnchorID:   anchorID,
		TopK:       topK,
		CityFilter: cityFilter,
		Version:    snap.Version,
	}
	if cached, ok := s.matchCache.Get(key); ok {
		return cached, nil
	}

	filter := repository.Filter{Kind: kind.Opposite(), Limit: s.scanLimit}
	// The city filter hard-restricts the pool only while distance carries no
	// weight; once it does, distance decay handles geography softly and the
	// pool stays city-agnostic.
	if cityFilter && snap.Distance == 0 && anchor.City != "" {
		filter.City = anchor.City
	}

	pool, err := s.store.QueryPool(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	pool = s.guard.FilterPool(anchor, pool)

	results := s.pool.ScoreAll(ctx, anchor, pool, snap)
	if err := ctx.Err(); err != nil {
		// An interrupted score run is incomplete; caching it would serve a
		// truncated result set to later requests under the same key.
		return nil, err
	}

	kept := results[:0]
	for _, r := range results {
		if r.Score > 0 {
			kept = append(kept, r)
		}
	}
	results = kept

	s.scorer.SortResults(results)
	results = scoring.TopK(results, topK)

	s.matchCache.Put(key, results)

	s.logger.Debug(ctx, "ranked pool",
		logger.String("anchorID", anchorID),
		logger.String("kind", string(kind)),
		logger.Int("poolSize", len(pool)),
		logger.Int("results", len(results)),
		logger.Uint64("weightVersion", snap.Version),
	)

	return results, nil
}

// Explain scores one candidate↔job pair and returns the full component
// breakdown. Explanations are always computed fresh against the current
// weight snapshot; the cache is never consulted.
func (s *Service) Explain(ctx context.Context, tenantID, anchorID, counterpartID string) (scoring.Explanation, error) {
	metrics.RecordExplainRequest()

	anchor, err := s.store.GetEntity(ctx, tenantID, anchorID)
	if err != nil {
		return scoring.Explanation{}, err
	}
	counterpart, err := s.store.GetEntity(ctx, tenantID, counterpartID)
	if err != nil {
		return scoring.Explanation{}, err
	}
	if counterpart.Kind != anchor.Kind.Opposite() {
		return scoring.Explanation{}, ErrMismatchedKinds
	}

	snap := s.weightStore.Current()

	result, err := s.scorer.ScorePair(ctx, anchor, counterpart, snap)
	if err != nil {
		// A tenant guard failure here means the store returned entities that
		// do not share a tenant, which only the guard itself can detect.
		return scoring.Explanation{}, repository.ErrNotFound
	}

	return scoring.Explain(result, anchor.Kind, snap), nil
}

// UpdateWeights atomically applies a partial weight update and returns the
// installed snapshot. Every ranking after the update sees the new weights;
// cached results keyed under older versions become unreachable.
func (s *Service) UpdateWeights(ctx context.Context, u weights.Update) (weights.Snapshot, error) {
	return s.weightStore.Update(ctx, u)
}

// Weights returns the current weight snapshot.
func (s *Service) Weights(_ context.Context) weights.Snapshot {
	return s.weightStore.Current()
}

// ClearCache drops all cached match results.
func (s *Service) ClearCache(ctx context.Context) {
	s.matchCache.Purge()
	s.logger.Info(ctx, "match cache cleared")
}

// UpsertEntity inserts or replaces one entity in the store.
func (s *Service) UpsertEntity(ctx context.Context, e model.Entity) error {
	return s.store.Upsert(ctx, e)
}

// GetEntity fetches one entity scoped to the caller's tenant.
func (s *Service) GetEntity(ctx context.Context, tenantID, id string) (model.Entity, error) {
	return s.store.GetEntity(ctx, tenantID, id)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"cacheSize":   s.cacheSize,
		"scanLimit":   s.scanLimit,
	}

	if s.started {
		ctx := context.Background()
		candidates := s.store.Count(ctx, model.KindCandidate)
		jobs := s.store.Count(ctx, model.KindJob)

		stats["candidates"] = candidates
		stats["jobs"] = jobs
		stats["cachedResults"] = s.matchCache.Len()
		stats["weightVersion"] = s.weightStore.Current().Version

		metrics.UpdateStoreEntities(string(model.KindCandidate), candidates)
		metrics.UpdateStoreEntities(string(model.KindJob), jobs)
		metrics.UpdateCacheSize(s.matchCache.Len())
	}

	return stats
}
