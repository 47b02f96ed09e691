// Package workers runs the pair-scoring fan-out: one long-lived goroutine
// pool shared by all ranking requests, so request concurrency does not
// multiply into unbounded scoring goroutines.
package workers

import (
	"context"
	"runtime"
	"sync"

	"github.com/talentdb/matchd/internal/domain/model"
	"github.com/talentdb/matchd/internal/weights"
	"github.com/talentdb/matchd/pkg/logger"
	"github.com/talentdb/matchd/pkg/metrics"
)

// Default pool configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	defaultQueueMultiplier  = 4 // task buffer per worker
)

// PairScorer computes the composite score for a single pair.
type PairScorer interface {
	ScorePair(ctx context.Context, anchor, counterpart model.Entity, w weights.Snapshot) (model.MatchResult, error)
}

// task carries one pair to a worker together with its preassigned result
// slot, so workers never contend on a shared output slice.
type task struct {
	ctx         context.Context
	anchor      model.Entity
	counterpart model.Entity
	snap        weights.Snapshot
	slot        *model.MatchResult
	ok          *bool
	wg          *sync.WaitGroup
}

// Pool fans pair-scoring work out over a fixed set of workers.
type Pool struct {
	scorer PairScorer
	count  int
	tasks  chan task

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
	workers   sync.WaitGroup

	logger logger.Logger
}

// NewPool creates a scoring pool with configuration options. The pool is
// inert until Start is called; ScoreAll on an unstarted pool degrades to
// scoring inline on the calling goroutine.
func NewPool(scorer PairScorer, opts ...Option) *Pool {
	p := &Pool{
		scorer: scorer,
		count:  runtime.NumCPU() * defaultWorkerMultiplier,
		done:   make(chan struct{}),
		logger: logger.Get().Named("workers"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the worker goroutines. Subsequent calls are no-ops.
func (p *Pool) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		p.tasks = make(chan task, p.count*defaultQueueMultiplier)
		for i := 0; i < p.count; i++ {
			p.workers.Add(1)
			go p.run()
		}
		metrics.UpdateWorkerCount(p.count)
		p.logger.Info(ctx, "scoring pool started", logger.Int("workers", p.count))
	})
}

// Stop signals the workers to drain and waits for them to exit.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		p.workers.Wait()
		metrics.UpdateWorkerCount(0)
	})
}

// run lives until Stop; workers do not watch the startup context, so requests
// in flight during shutdown still get their queued pairs scored.
func (p *Pool) run() {
	defer p.workers.Done()
	for {
		select {
		case <-p.done:
			p.drain()
			return
		case t := <-p.tasks:
			p.score(t)
		}
	}
}

// drain consumes tasks already buffered at shutdown so their waiters are
// released rather than blocked forever.
func (p *Pool) drain() {
	for {
		select {
		case t := <-p.tasks:
			p.score(t)
		default:
			return
		}
	}
}

func (p *Pool) score(t task) {
	defer t.wg.Done()
	res, err := p.scorer.ScorePair(t.ctx, t.anchor, t.counterpart, t.snap)
	if err != nil {
		// Pairs that fail the tenant guard are silently excluded from the
		// result set; the guard has already counted the rejection.
		return
	}
	*t.slot = res
	*t.ok = true
}

// ScoreAll scores the anchor against every entity in pool under snapshot
// snap and returns the successful results in pool order. Pairs whose
// scoring fails, or that are skipped because ctx is canceled mid-flight,
// are omitted. If ctx is canceled, or the pool stops, before all pairs
// complete, ScoreAll returns nil instead of blocking.
func (p *Pool) ScoreAll(ctx context.Context, anchor model.Entity, pool []model.Entity, snap weights.Snapshot) []model.MatchResult {
	if len(pool) == 0 {
		return nil
	}

	if p.tasks == nil {
		return p.scoreInline(ctx, anchor, pool, snap)
	}

	slots := make([]model.MatchResult, len(pool))
	oks := make([]bool, len(pool))

	var wg sync.WaitGroup
	wg.Add(len(pool))
	for i := range pool {
		t := task{
			ctx:         ctx,
			anchor:      anchor,
			counterpart: pool[i],
			snap:        snap,
			slot:        &slots[i],
			ok:          &oks[i],
			wg:          &wg,
		}
		select {
		case p.tasks <- t:
		case <-ctx.Done():
			wg.Done()
		case <-p.done:
			wg.Done()
		}
	}
	allDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(allDone)
	}()
	select {
	case <-allDone:
	case <-ctx.Done():
		return nil
	case <-p.done:
		return nil
	}

	out := make([]model.MatchResult, 0, len(pool))
	for i, ok := range oks {
		if ok {
			out = append(out, slots[i])
		}
	}
	return out
}

func (p *Pool) scoreInline(ctx context.Context, anchor model.Entity, pool []model.Entity, snap weights.Snapshot) []model.MatchResult {
	out := make([]model.MatchResult, 0, len(pool))
	for i := range pool {
		res, err := p.scorer.ScorePair(ctx, anchor, pool[i], snap)
		if err != nil {
			continue
		}
		out = append(out, res)
	}
	return out
}
