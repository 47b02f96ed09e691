package model

// Breakdown carries the per-component detail behind a composite score.
// Optional components use a presence flag rather than a sentinel value so
// "absent" can never be confused with "zero similarity".
type Breakdown struct {
	// Skill component (always present).
	SkillScore  float64 // category-weighted, clamped to [0,1]
	BaseOverlap float64 // plain overlap across all skills
	MustRatio   float64
	NeededRatio float64

	// Optional components.
	TitleSimilarity    float64
	TitlePresent       bool
	SemanticSimilarity float64
	SemanticPresent    bool
	EmbeddingSim       float64
	EmbeddingPresent   bool
	DistanceKM         float64
	DistanceScore      float64
	DistancePresent    bool

	// Skill set detail, sorted ascending for stable output.
	SkillOverlap      []string
	AnchorOnlySkills  []string
	CounterOnlySkills []string

	// LowSkillFloor flags pairs where either side has fewer skills than the
	// configured floor. Informational; scoring is not modified.
	LowSkillFloor bool
}

// MatchResult is one scored anchor↔counterpart pair. Created fresh per
// scoring call and never persisted by the engine.
type MatchResult struct {
	AnchorID         string
	CounterpartID    string
	CounterpartTitle string
	CounterpartCity  string
	Score            float64
	Breakdown        *Breakdown
}
