// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/talentdb/matchd/internal/adapters/repository"
	service "github.com/talentdb/matchd/internal/app"
	"github.com/talentdb/matchd/internal/domain/model"
	"github.com/talentdb/matchd/internal/domain/scoring"
	"github.com/talentdb/matchd/internal/tenant"
	"github.com/talentdb/matchd/internal/weights"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Rank returns the best counterparts for the anchor entity.
	Rank(ctx context.Context, tenantID string, kind model.EntityKind, anchorID string, topK int, cityFilter bool) ([]model.MatchResult, error)

	// Explain scores one pair and returns the full component breakdown.
	Explain(ctx context.Context, tenantID, anchorID, counterpartID string) (scoring.Explanation, error)

	// Weight configuration operations.
	UpdateWeights(ctx context.Context, u weights.Update) (weights.Snapshot, error)
	Weights(ctx context.Context) weights.Snapshot

	// ClearCache drops all cached match results.
	ClearCache(ctx context.Context)

	// Entity ingestion boundary.
	UpsertEntity(ctx context.Context, e model.Entity) error
	GetEntity(ctx context.Context, tenantID, id string) (model.Entity, error)
}

// Default and maximum result-set sizes for ranking requests.
const (
	defaultTopK = 10
	maxTopK     = 100
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	matchHandler    *MatchHandler
	explainHandler  *ExplainHandler
	configHandler   *ConfigHandler
	cacheHandler    *CacheHandler
	entitiesHandler *EntitiesHandler

	maxTopK int
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*Server)

// WithMaxTopK caps the top_k query parameter.
func WithMaxTopK(k int) ServerOption {
	return func(s *Server) {
		if k > 0 {
			s.maxTopK = k
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		maxTopK:       maxTopK,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.matchHandler = NewMatchHandler(deps, s.maxTopK)
	s.explainHandler = NewExplainHandler(deps)
	s.configHandler = NewConfigHandler(deps)
	s.cacheHandler = NewCacheHandler(deps)
	s.entitiesHandler = NewEntitiesHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux. Health and stats stay outside
// the tenant boundary; everything else requires the tenant header.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("/match/job/", MetricsMiddleware(TenantMiddleware(s.matchHandler.HandleMatchJob), "match_job"))
	mux.HandleFunc("/match/candidate/", MetricsMiddleware(TenantMiddleware(s.matchHandler.HandleMatchCandidate), "match_candidate"))
	mux.HandleFunc("/match/explain/", MetricsMiddleware(TenantMiddleware(s.explainHandler.HandleExplain), "match_explain"))

	mux.HandleFunc("/config/weights", MetricsMiddleware(TenantMiddleware(s.configHandler.HandleWeights), "config_weights"))
	mux.HandleFunc("/config/category_weights", MetricsMiddleware(TenantMiddleware(s.configHandler.HandleCategoryWeights), "config_category_weights"))
	mux.HandleFunc("/config/distance_weight", MetricsMiddleware(TenantMiddleware(s.configHandler.HandleDistanceWeight), "config_distance_weight"))
	mux.HandleFunc("/config/min_skill_floor", MetricsMiddleware(TenantMiddleware(s.configHandler.HandleMinSkillFloor), "config_min_skill_floor"))

	mux.HandleFunc("/cache/clear", MetricsMiddleware(TenantMiddleware(s.cacheHandler.HandleClear), "cache_clear"))

	mux.HandleFunc("/entities", MetricsMiddleware(TenantMiddleware(s.entitiesHandler.HandleUpsert), "entities"))
	mux.HandleFunc("/entities/", MetricsMiddleware(TenantMiddleware(s.entitiesHandler.HandleGet), "entities_get"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found conditions to 404. Tenant
// violations are deliberately indistinguishable from missing entities so the
// API never confirms an id exists under another tenant.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, tenant.ErrTenantMismatch) ||
		errors.Is(err, tenant.ErrUnresolvedTenant)
}

// writeServiceError maps a service error to its HTTP response.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case isNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", ErrNotFound)
	case errors.Is(err, weights.ErrInvalidWeights):
		writeError(w, http.StatusBadRequest, "invalid_weights", err)
	case errors.Is(err, service.ErrMismatchedKinds):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, repository.ErrInvalidEntity):
		writeError(w, http.StatusBadRequest, "invalid_entity", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
