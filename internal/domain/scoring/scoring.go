// Package scoring combines the per-component similarity signals into one
// composite, explainable match score.
package scoring

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/talentdb/matchd/internal/domain/geo"
	"github.com/talentdb/matchd/internal/domain/model"
	"github.com/talentdb/matchd/internal/domain/skills"
	"github.com/talentdb/matchd/internal/domain/text"
	"github.com/talentdb/matchd/internal/domain/vector"
	"github.com/talentdb/matchd/internal/tenant"
	"github.com/talentdb/matchd/internal/weights"
	"github.com/talentdb/matchd/pkg/metrics"
)

// defaultTieEpsilon bounds how close two scores must be to count as a tie.
const defaultTieEpsilon = 1e-9

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithTieEpsilon sets the score-equality tolerance used for tie-breaking.
func WithTieEpsilon(eps float64) Option {
	return func(s *Scorer) {
		if eps >= 0 {
			s.epsilon = eps
		}
	}
}

// Scorer computes composite scores for entity pairs against an immutable
// weight snapshot. Safe for concurrent use: scoring touches no mutable
// state beyond the snapshot it is handed.
type Scorer struct {
	epsilon float64
	guard   tenant.Guard
}

// New creates a Scorer with configuration options.
func New(opts ...Option) *Scorer {
	s := &Scorer{epsilon: defaultTieEpsilon}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScorePair scores one anchor↔counterpart pair under snapshot w.
//
// The composite is the weight-normalized sum over the components actually
// computable for this pair: weights of absent components are excluded from
// numerator and denominator alike, so an entity lacking coordinates or an
// embedding is not penalized relative to one that has them. If the present
// weights sum to zero the skill component alone decides, since skill is the
// only component guaranteed computable.
func (s *Scorer) ScorePair(_ context.Context, anchor, counterpart model.Entity, w weights.Snapshot) (model.MatchResult, error) {
	start := time.Now()
	defer func() {
		metrics.RecordPairScored()
		metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1e3)
	}()

	if err := s.guard.Check(anchor, counterpart); err != nil {
		return model.MatchResult{}, err
	}

	sk := skills.Compare(anchor, counterpart, w.MustCategory, w.NeededCategory, w.MinSkillFloor)

	bd := &model.Breakdown{
		SkillScore:        sk.Weighted,
		BaseOverlap:       sk.BaseOverlap,
		MustRatio:         sk.MustRatio,
		NeededRatio:       sk.NeededRatio,
		SkillOverlap:      sk.Overlap,
		AnchorOnlySkills:  sk.AnchorOnly,
		CounterOnlySkills: sk.CounterpartOnly,
		LowSkillFloor:     sk.LowSkillFloor,
	}

	num := w.Skill * sk.Weighted
	den := w.Skill

	if v, ok := text.TitleSimilarity(anchor.Title, counterpart.Title); ok {
		bd.TitleSimilarity = v
		bd.TitlePresent = true
		num += w.Title * v
		den += w.Title
	}
	if v, ok := text.SemanticSimilarity(anchor.TextBlob, counterpart.TextBlob); ok {
		bd.SemanticSimilarity = v
		bd.SemanticPresent = true
		num += w.Semantic * v
		den += w.Semantic
	}
	if v, ok := vector.Similarity(anchor.Embedding, counterpart.Embedding); ok {
		bd.EmbeddingSim = v
		bd.EmbeddingPresent = true
		num += w.Embedding * v
		den += w.Embedding
	}
	if g, ok := geo.Compare(anchor.Location, counterpart.Location); ok {
		bd.DistanceKM = g.KM
		bd.DistanceScore = g.Value
		bd.DistancePresent = true
		num += w.Distance * g.Value
		den += w.Distance
	}

	score := sk.Weighted // degenerate all-zero weights fall back to skill only
	if den > 0 {
		score = num / den
	}
	score = math.Max(0, math.Min(1, score)) // absorb floating-point drift

	return model.MatchResult{
		AnchorID:         anchor.ID,
		CounterpartID:    counterpart.ID,
		CounterpartTitle: counterpart.Title,
		CounterpartCity:  counterpart.City,
		Score:            score,
		Breakdown:        bd,
	}, nil
}

// SortResults orders results by score descending. Scores are quantized to
// the configured epsilon before comparing, so epsilon-close scores land in
// the same bucket and tie-break by counterpart id ascending. Quantizing
// keeps the comparator a strict weak ordering, which sort.Slice requires;
// pairwise |a-b| <= eps checks are not transitive.
func (s *Scorer) SortResults(results []model.MatchResult) {
	sort.Slice(results, func(i, j int) bool {
		bi, bj := s.bucket(results[i].Score), s.bucket(results[j].Score)
		if bi == bj {
			return results[i].CounterpartID < results[j].CounterpartID
		}
		return bi > bj
	})
}

func (s *Scorer) bucket(score float64) float64 {
	if s.epsilon <= 0 {
		return score
	}
	return math.Round(score / s.epsilon)
}

// TopK returns the first k results of an already sorted slice.
func TopK(results []model.MatchResult, k int) []model.MatchResult {
	if k <= 0 || k >= len(results) {
		return results
	}
	return results[:k]
}
