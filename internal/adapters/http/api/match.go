// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/talentdb/matchd/internal/domain/model"
	"github.com/talentdb/matchd/internal/domain/scoring"
)

// MatchHandler handles ranking requests in both directions.
type MatchHandler struct {
	deps    Dependencies
	maxTopK int
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps Dependencies, maxTopK int) *MatchHandler {
	return &MatchHandler{deps: deps, maxTopK: maxTopK}
}

// matchItem mirrors the wire shape of one ranked counterpart.
type matchItem struct {
	CandidateID         string   `json:"candidate_id"`
	JobID               string   `json:"job_id"`
	Title               string   `json:"title"`
	City                string   `json:"city,omitempty"`
	Score               float64  `json:"score"`
	SkillOverlap        []string `json:"skill_overlap"`
	CandidateOnlySkills []string `json:"candidate_only_skills"`
	JobOnlySkills       []string `json:"job_only_skills"`
	MustRatio           float64  `json:"must_ratio"`
	NeededRatio         float64  `json:"needed_ratio"`
	WeightedSkillScore  float64  `json:"weighted_skill_score"`
	TitleSimilarity     float64  `json:"title_similarity"`
	SemanticSimilarity  float64  `json:"semantic_similarity"`
	EmbeddingSimilarity float64  `json:"embedding_similarity"`
	DistanceKM          *float64 `json:"distance_km"`
	DistanceScore       *float64 `json:"distance_score"`
	LowSkillFloor       bool     `json:"low_skill_floor"`
}

type matchResponse struct {
	Matches []matchItem `json:"matches"`
	Count   int         `json:"count"`
}

// HandleMatchJob handles GET /match/job/{job_id} requests: candidates
// ranked for a job.
func (h *MatchHandler) HandleMatchJob(w http.ResponseWriter, r *http.Request) {
	h.handleMatch(w, r, "/match/job/", model.KindJob)
}

// HandleMatchCandidate handles GET /match/candidate/{candidate_id}
// requests: jobs ranked for a candidate.
func (h *MatchHandler) HandleMatchCandidate(w http.ResponseWriter, r *http.Request) {
	h.handleMatch(w, r, "/match/candidate/", model.KindCandidate)
}

func (h *MatchHandler) handleMatch(w http.ResponseWriter, r *http.Request, prefix string, kind model.EntityKind) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, prefix)
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	topK, err := h.parseTopK(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	cityFilter, err := parseCityFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	results, err := h.deps.Rank(r.Context(), tenantID(r), kind, id, topK, cityFilter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	items := make([]matchItem, len(results))
	for i, res := range results {
		items[i] = toMatchItem(res, kind)
	}
	writeJSON(w, http.StatusOK, matchResponse{Matches: items, Count: len(items)})
}

func (h *MatchHandler) parseTopK(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("top_k")
	if raw == "" {
		return defaultTopK, nil
	}
	k, err := strconv.Atoi(raw)
	if err != nil || k < 1 {
		return 0, ErrBadRequest
	}
	if k > h.maxTopK {
		k = h.maxTopK
	}
	return k, nil
}

func parseCityFilter(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("city_filter")
	if raw == "" {
		return true, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, ErrBadRequest
	}
	return v, nil
}

// toMatchItem maps a result onto the wire shape. anchorKind decides which
// side of the pair the candidate/job fields refer to.
func toMatchItem(r model.MatchResult, anchorKind model.EntityKind) matchItem {
	bd := r.Breakdown

	item := matchItem{
		Title:               r.CounterpartTitle,
		City:                r.CounterpartCity,
		Score:               scoring.Round4(r.Score),
		SkillOverlap:        bd.SkillOverlap,
		MustRatio:           scoring.Round4(bd.MustRatio),
		NeededRatio:         scoring.Round4(bd.NeededRatio),
		WeightedSkillScore:  scoring.Round4(bd.SkillScore),
		TitleSimilarity:     scoring.Round4(bd.TitleSimilarity),
		SemanticSimilarity:  scoring.Round4(bd.SemanticSimilarity),
		EmbeddingSimilarity: scoring.Round4(bd.EmbeddingSim),
		LowSkillFloor:       bd.LowSkillFloor,
	}

	if anchorKind == model.KindCandidate {
		item.CandidateID = r.AnchorID
		item.JobID = r.CounterpartID
		item.CandidateOnlySkills = bd.AnchorOnlySkills
		item.JobOnlySkills = bd.CounterOnlySkills
	} else {
		item.CandidateID = r.CounterpartID
		item.JobID = r.AnchorID
		item.CandidateOnlySkills = bd.CounterOnlySkills
		item.JobOnlySkills = bd.AnchorOnlySkills
	}

	if bd.DistancePresent {
		km := bd.DistanceKM
		ds := scoring.Round4(bd.DistanceScore)
		item.DistanceKM = &km
		item.DistanceScore = &ds
	}

	return item
}
