package scoring

import (
	"math"

	"github.com/talentdb/matchd/internal/domain/model"
	"github.com/talentdb/matchd/internal/weights"
)

// ComponentDetail reports one composite component in raw and weighted form.
// Absent components carry Present=false and contributed nothing to the score.
type ComponentDetail struct {
	Name     string  `json:"name"`
	Raw      float64 `json:"raw"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
	Present  bool    `json:"present"`
}

// Explanation is the full scoring trace for a single pair: every component,
// the skill-set diff, and the weight snapshot the score was computed under.
type Explanation struct {
	CandidateID         string            `json:"candidate_id"`
	JobID               string            `json:"job_id"`
	Score               float64           `json:"score"`
	SkillOverlap        []string          `json:"skill_overlap"`
	CandidateOnlySkills []string          `json:"candidate_only_skills"`
	JobOnlySkills       []string          `json:"job_only_skills"`
	BaseSkillOverlap    float64           `json:"base_skill_overlap"`
	MustRatio           float64           `json:"must_ratio"`
	NeededRatio         float64           `json:"needed_ratio"`
	WeightedSkillScore  float64           `json:"weighted_skill_score"`
	TitleSimilarity     float64           `json:"title_similarity"`
	SemanticSimilarity  float64           `json:"semantic_similarity"`
	EmbeddingSimilarity float64           `json:"embedding_similarity"`
	DistanceKM          *float64          `json:"distance_km"`
	DistanceScore       *float64          `json:"distance_score"`
	LowSkillFloor       bool              `json:"low_skill_floor"`
	Components          []ComponentDetail `json:"components"`
	Weights             weights.Snapshot  `json:"weights"`
}

// Explain assembles the explanation for a scored pair. anchorKind tells which
// side of the pair is the candidate so the candidate/job wire fields land on
// the right ids regardless of match direction.
func Explain(r model.MatchResult, anchorKind model.EntityKind, w weights.Snapshot) Explanation {
	bd := r.Breakdown

	e := Explanation{
		Score:              Round4(r.Score),
		SkillOverlap:       bd.SkillOverlap,
		BaseSkillOverlap:   Round4(bd.BaseOverlap),
		MustRatio:          Round4(bd.MustRatio),
		NeededRatio:        Round4(bd.NeededRatio),
		WeightedSkillScore: Round4(bd.SkillScore),
		LowSkillFloor:      bd.LowSkillFloor,
		Weights:            w,
	}

	if anchorKind == model.KindCandidate {
		e.CandidateID = r.AnchorID
		e.JobID = r.CounterpartID
		e.CandidateOnlySkills = bd.AnchorOnlySkills
		e.JobOnlySkills = bd.CounterOnlySkills
	} else {
		e.CandidateID = r.CounterpartID
		e.JobID = r.AnchorID
		e.CandidateOnlySkills = bd.CounterOnlySkills
		e.JobOnlySkills = bd.AnchorOnlySkills
	}

	e.TitleSimilarity = Round4(bd.TitleSimilarity)
	e.SemanticSimilarity = Round4(bd.SemanticSimilarity)
	e.EmbeddingSimilarity = Round4(bd.EmbeddingSim)
	if bd.DistancePresent {
		km := bd.DistanceKM
		ds := Round4(bd.DistanceScore)
		e.DistanceKM = &km
		e.DistanceScore = &ds
	}

	e.Components = []ComponentDetail{
		component("skill", bd.SkillScore, w.Skill, true),
		component("title", bd.TitleSimilarity, w.Title, bd.TitlePresent),
		component("semantic", bd.SemanticSimilarity, w.Semantic, bd.SemanticPresent),
		component("embedding", bd.EmbeddingSim, w.Embedding, bd.EmbeddingPresent),
		component("distance", bd.DistanceScore, w.Distance, bd.DistancePresent),
	}

	return e
}

func component(name string, raw, weight float64, present bool) ComponentDetail {
	c := ComponentDetail{Name: name, Weight: weight, Present: present}
	if present {
		c.Raw = Round4(raw)
		c.Weighted = Round4(raw * weight)
	}
	return c
}

// Round4 rounds to four decimal places, the precision scores are reported at.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
