// Package weights holds the process-wide, hot-swappable scoring weight
// configuration.
//
// Snapshots are immutable: every update installs a fresh snapshot with an
// incremented version, so an in-flight scoring call that has already read a
// snapshot completes consistently on the version it started with. The read
// path is lock-free; writers are serialized by a mutex.
package weights

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/talentdb/matchd/pkg/logger"
	"github.com/talentdb/matchd/pkg/metrics"
)

// sumWarnTolerance bounds how far the top-level weight sum may drift from
// 1.0 before an update logs a warning. The sum is validated, not enforced.
const sumWarnTolerance = 0.1

// Snapshot is one immutable weight configuration.
type Snapshot struct {
	Skill     float64 `json:"skill_weight" koanf:"weight_skill"`
	Title     float64 `json:"title_weight" koanf:"weight_title"`
	Semantic  float64 `json:"semantic_weight" koanf:"weight_semantic"`
	Embedding float64 `json:"embedding_weight" koanf:"weight_embedding"`
	Distance  float64 `json:"distance_weight" koanf:"weight_distance"`

	MustCategory   float64 `json:"must_category_weight" koanf:"must_category_weight"`
	NeededCategory float64 `json:"needed_category_weight" koanf:"needed_category_weight"`

	MinSkillFloor int `json:"min_skill_floor" koanf:"min_skill_floor"`

	Version uint64 `json:"version" koanf:"-"`
}

// Defaults returns the stock configuration: skill-dominated scoring with a
// light title contribution, category split 70/30 must/needed, and the
// optional components switched off until operators opt in.
func Defaults() Snapshot {
	return Snapshot{
		Skill:          0.85,
		Title:          0.15,
		Semantic:       0.0,
		Embedding:      0.0,
		Distance:       0.0,
		MustCategory:   0.7,
		NeededCategory: 0.3,
		MinSkillFloor:  3,
	}
}

// ComponentSum returns the sum of the five top-level component weights.
func (s Snapshot) ComponentSum() float64 {
	return s.Skill + s.Title + s.Semantic + s.Embedding + s.Distance
}

func (s Snapshot) validate() error {
	check := func(name string, v float64) error {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrInvalidWeights, name, v)
		}
		return nil
	}
	for _, w := range []struct {
		name string
		val  float64
	}{
		{"skill_weight", s.Skill},
		{"title_weight", s.Title},
		{"semantic_weight", s.Semantic},
		{"embedding_weight", s.Embedding},
		{"distance_weight", s.Distance},
		{"must_category_weight", s.MustCategory},
		{"needed_category_weight", s.NeededCategory},
	} {
		if err := check(w.name, w.val); err != nil {
			return err
		}
	}
	if s.MinSkillFloor < 0 {
		return fmt.Errorf("%w: min_skill_floor must be >= 0, got %d", ErrInvalidWeights, s.MinSkillFloor)
	}
	return nil
}

// Update is a partial weight change. Nil fields keep the current value, so
// the narrower config endpoints (category weights, distance weight, skill
// floor) can reuse the same atomic install path.
type Update struct {
	Skill          *float64 `json:"skill_weight,omitempty"`
	Title          *float64 `json:"title_weight,omitempty"`
	Semantic       *float64 `json:"semantic_weight,omitempty"`
	Embedding      *float64 `json:"embedding_weight,omitempty"`
	Distance       *float64 `json:"distance_weight,omitempty"`
	MustCategory   *float64 `json:"must_category_weight,omitempty"`
	NeededCategory *float64 `json:"needed_category_weight,omitempty"`
	MinSkillFloor  *int     `json:"min_skill_floor,omitempty"`
}

func (u Update) apply(base Snapshot) Snapshot {
	next := base
	if u.Skill != nil {
		next.Skill = *u.Skill
	}
	if u.Title != nil {
		next.Title = *u.Title
	}
	if u.Semantic != nil {
		next.Semantic = *u.Semantic
	}
	if u.Embedding != nil {
		next.Embedding = *u.Embedding
	}
	if u.Distance != nil {
		next.Distance = *u.Distance
	}
	if u.MustCategory != nil {
		next.MustCategory = *u.MustCategory
	}
	if u.NeededCategory != nil {
		next.NeededCategory = *u.NeededCategory
	}
	if u.MinSkillFloor != nil {
		next.MinSkillFloor = *u.MinSkillFloor
	}
	return next
}

// Store is the versioned, atomically-swappable snapshot shared by all
// concurrent scoring calls.
type Store struct {
	mu   sync.Mutex // serializes writers
	snap atomic.Pointer[Snapshot]
	log  logger.Logger
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStore validates and installs the initial snapshot at version 1.
// A malformed initial configuration is the one fatal condition: every
// scoring call depends on a valid snapshot existing.
func NewStore(initial Snapshot, opts ...Option) (*Store, error) {
	if err := initial.validate(); err != nil {
		return nil, err
	}
	s := &Store{log: logger.Get().Named("weights")}
	for _, opt := range opts {
		opt(s)
	}
	initial.Version = 1
	s.snap.Store(&initial)
	metrics.UpdateWeightVersion(initial.Version)
	return s, nil
}

// Current returns the installed snapshot. Lock-free.
func (s *Store) Current() Snapshot {
	return *s.snap.Load()
}

// Update validates u against the current snapshot and atomically installs
// the result with an incremented version. On validation failure the current
// snapshot is left untouched: atomic reject, not partial apply.
func (s *Store) Update(ctx context.Context, u Update) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.snap.Load()
	next := u.apply(*cur)
	if err := next.validate(); err != nil {
		metrics.RecordWeightUpdateRejected()
		return *cur, err
	}
	next.Version = cur.Version + 1
	s.snap.Store(&next)

	metrics.RecordWeightUpdate()
	metrics.UpdateWeightVersion(next.Version)

	if sum := next.ComponentSum(); math.Abs(sum-1.0) > sumWarnTolerance {
		s.log.Warn(ctx, "component weights sum far from 1.0",
			logger.Float64("sum", sum),
			logger.Uint64("version", next.Version),
		)
	}
	s.log.Info(ctx, "installed weight configuration",
		logger.Uint64("version", next.Version),
		logger.Float64("skill", next.Skill),
		logger.Float64("title", next.Title),
		logger.Float64("semantic", next.Semantic),
		logger.Float64("embedding", next.Embedding),
		logger.Float64("distance", next.Distance),
	)
	return next, nil
}
