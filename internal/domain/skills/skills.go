// Package skills implements the category-weighted skill overlap scorer.
package skills

import (
	"sort"

	"github.com/talentdb/matchd/internal/domain/model"
)

// Score is the skill component of a pair, with the detail consumers need
// for explainability.
type Score struct {
	Weighted    float64 // mustWeight*MustRatio + neededWeight*NeededRatio, clamped to [0,1]
	BaseOverlap float64 // overlap across all skills regardless of category
	MustRatio   float64
	NeededRatio float64

	Overlap         []string // skills on both sides, sorted
	AnchorOnly      []string // anchor skills the counterpart lacks, sorted
	CounterpartOnly []string // counterpart skills the anchor lacks, sorted

	LowSkillFloor bool
}

// overlap computes |A∩B| / max(|A|,|B|,1). Empty/empty scores 0, not 1:
// entities with no skills at all must not be rewarded.
func overlap(a, b map[string]struct{}) float64 {
	denom := len(a)
	if len(b) > denom {
		denom = len(b)
	}
	if denom == 0 {
		return 0
	}
	inter := 0
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	for s := range small {
		if _, ok := large[s]; ok {
			inter++
		}
	}
	return float64(inter) / float64(denom)
}

func byCategory(set map[string]model.SkillCategory, cat model.SkillCategory) map[string]struct{} {
	out := make(map[string]struct{})
	for name, c := range set {
		if c == cat {
			out[name] = struct{}{}
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Compare scores the skill sets of anchor against counterpart.
// mustWeight and neededWeight come from the current weight snapshot;
// minFloor is the informational minimum-skill floor.
func Compare(anchor, counterpart model.Entity, mustWeight, neededWeight float64, minFloor int) Score {
	aSet := anchor.SkillSet()
	cSet := counterpart.SkillSet()

	aMust, aNeeded := byCategory(aSet, model.SkillMust), byCategory(aSet, model.SkillNeeded)
	cMust, cNeeded := byCategory(cSet, model.SkillMust), byCategory(cSet, model.SkillNeeded)

	s := Score{
		MustRatio:   overlap(aMust, cMust),
		NeededRatio: overlap(aNeeded, cNeeded),
	}
	s.Weighted = clamp01(mustWeight*s.MustRatio + neededWeight*s.NeededRatio)

	// Flat overlap and set detail across all categories.
	aAll := make(map[string]struct{}, len(aSet))
	for name := range aSet {
		aAll[name] = struct{}{}
	}
	cAll := make(map[string]struct{}, len(cSet))
	for name := range cSet {
		cAll[name] = struct{}{}
	}
	s.BaseOverlap = overlap(aAll, cAll)

	for name := range aAll {
		if _, ok := cAll[name]; ok {
			s.Overlap = append(s.Overlap, name)
		} else {
			s.AnchorOnly = append(s.AnchorOnly, name)
		}
	}
	for name := range cAll {
		if _, ok := aAll[name]; !ok {
			s.CounterpartOnly = append(s.CounterpartOnly, name)
		}
	}
	sort.Strings(s.Overlap)
	sort.Strings(s.AnchorOnly)
	sort.Strings(s.CounterpartOnly)

	if minFloor > 0 && (len(aSet) < minFloor || len(cSet) < minFloor) {
		s.LowSkillFloor = true
	}

	return s
}
