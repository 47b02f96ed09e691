// Package model contains domain models passed between layers.
package model

import "time"

// EntityKind distinguishes the two sides of a match.
type EntityKind string

// Entity kinds.
const (
	KindCandidate EntityKind = "candidate"
	KindJob       EntityKind = "job"
)

// Opposite returns the kind on the other side of a match.
func (k EntityKind) Opposite() EntityKind {
	if k == KindCandidate {
		return KindJob
	}
	return KindCandidate
}

// SkillCategory classifies a skill requirement.
type SkillCategory string

// Skill categories. Uncategorized skills from legacy entities are treated
// as SkillNeeded.
const (
	SkillMust   SkillCategory = "must"
	SkillNeeded SkillCategory = "needed"
)

// Provenance records where a skill annotation came from.
type Provenance string

// Skill provenance values.
const (
	ProvenanceExtracted Provenance = "extracted"
	ProvenanceSynthetic Provenance = "synthetic"
)

// SkillRef is one canonical skill annotation on an entity. The ingestion
// collaborator guarantees Name is canonicalized; Category and Provenance
// are always set for freshly ingested entities.
type SkillRef struct {
	Name       string        `json:"name"`
	Category   SkillCategory `json:"category"`
	Provenance Provenance    `json:"provenance"`
}

// Coordinate is a geographic point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Entity is a candidate or job as delivered by the ingestion collaborator.
// The scoring core treats it as read-only input.
type Entity struct {
	ID        string      `json:"id"`
	TenantID  string      `json:"tenant_id"`
	Kind      EntityKind  `json:"kind"`
	Title     string      `json:"title"`
	City      string      `json:"city,omitempty"`
	Location  *Coordinate `json:"location,omitempty"`
	Skills    []SkillRef  `json:"skills"`
	TextBlob  string      `json:"text_blob,omitempty"`
	Embedding []float64   `json:"embedding,omitempty"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// SkillSet returns the entity's skills deduplicated by canonical name,
// mapped to their category. Duplicates keep the strongest category
// (must wins over needed); an empty category falls back to needed so
// legacy flat skill lists still participate in overlap math.
func (e Entity) SkillSet() map[string]SkillCategory {
	set := make(map[string]SkillCategory, len(e.Skills))
	for _, s := range e.Skills {
		if s.Name == "" {
			continue
		}
		cat := s.Category
		if cat != SkillMust {
			cat = SkillNeeded
		}
		if prev, ok := set[s.Name]; ok && prev == SkillMust {
			continue
		}
		set[s.Name] = cat
	}
	return set
}

// SkillCount returns the number of distinct skills across both categories.
func (e Entity) SkillCount() int {
	return len(e.SkillSet())
}
