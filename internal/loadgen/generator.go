package loadgen

import (
	"context"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/talentdb/matchd/internal/domain/model"
	"github.com/talentdb/matchd/pkg/logger"
)

// Skill vocabulary sampled when generating entities. Overlap between the
// candidate and job draws is what produces non-zero scores.
var skillVocab = []string{
	"go", "python", "java", "typescript", "react", "kubernetes", "docker",
	"postgresql", "redis", "kafka", "grpc", "terraform", "aws", "gcp",
	"linux", "prometheus", "ansible", "rust", "sql", "graphql", "c++",
	"machine learning", "data engineering", "ci/cd", "microservices",
}

var titleVocab = []string{
	"backend engineer", "platform engineer", "site reliability engineer",
	"data engineer", "software engineer", "devops engineer",
	"senior backend engineer", "infrastructure engineer",
}

// city locations paired with real coordinates so distance decay has
// something to chew on.
var cityTable = []struct {
	name string
	lat  float64
	lon  float64
}{
	{"berlin", 52.5200, 13.4050},
	{"hamburg", 53.5511, 9.9937},
	{"munich", 48.1351, 11.5820},
	{"cologne", 50.9375, 6.9603},
	{"frankfurt", 50.1109, 8.6821},
	{"leipzig", 51.3397, 12.3731},
	{"amsterdam", 52.3676, 4.9041},
}

const (
	minSkillsPerEntity = 3
	maxSkillsPerEntity = 9
	embeddingDim       = 8
	embeddingChance    = 0.5 // fraction of entities that carry an embedding
	locationChance     = 0.8 // fraction of entities that carry coordinates
)

// generateEntities builds the candidate and job fixtures for one run.
// Generation is deterministic for a given seed, so repeated runs hit the
// service with identical data.
func generateEntities(ctx context.Context, config *Config, stats *Stats) ([]model.Entity, []model.Entity) {
	logger.Get().Info(ctx, "generating entities",
		logger.Int("candidates", config.Candidates),
		logger.Int("jobs", config.Jobs),
		logger.Int("seed", int(config.Seed)),
	)

	rng := rand.New(rand.NewSource(config.Seed))

	candidates := make([]model.Entity, config.Candidates)
	for i := range candidates {
		candidates[i] = generateEntity(rng, config.TenantID, model.KindCandidate)
	}
	jobs := make([]model.Entity, config.Jobs)
	for i := range jobs {
		jobs[i] = generateEntity(rng, config.TenantID, model.KindJob)
	}

	stats.EntitiesGenerated = len(candidates) + len(jobs)
	return candidates, jobs
}

func generateEntity(rng *rand.Rand, tenantID string, kind model.EntityKind) model.Entity {
	title := titleVocab[rng.Intn(len(titleVocab))]

	n := minSkillsPerEntity + rng.Intn(maxSkillsPerEntity-minSkillsPerEntity+1)
	picked := rng.Perm(len(skillVocab))[:n]
	skills := make([]model.SkillRef, 0, n)
	for _, idx := range picked {
		ref := model.SkillRef{
			Name:       skillVocab[idx],
			Category:   model.SkillNeeded,
			Provenance: model.ProvenanceExtracted,
		}
		// Jobs mark roughly half their skills as hard requirements.
		if kind == model.KindJob && rng.Intn(2) == 0 {
			ref.Category = model.SkillMust
		}
		skills = append(skills, ref)
	}

	e := model.Entity{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		Kind:     kind,
		Title:    title,
		Skills:   skills,
		TextBlob: title + " " + joinSkillNames(skills),
	}

	if rng.Float64() < locationChance {
		c := cityTable[rng.Intn(len(cityTable))]
		e.City = c.name
		e.Location = &model.Coordinate{Lat: c.lat, Lon: c.lon}
	}
	if rng.Float64() < embeddingChance {
		vec := make([]float64, embeddingDim)
		for i := range vec {
			vec[i] = rng.NormFloat64()
		}
		e.Embedding = vec
	}

	return e
}

func joinSkillNames(skills []model.SkillRef) string {
	names := make([]string, len(skills))
	for i, s := range skills {
		names[i] = s.Name
	}
	return strings.Join(names, " ")
}
