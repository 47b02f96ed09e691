// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/talentdb/matchd/internal/domain/model"
)

// EntitiesHandler handles the entity ingestion boundary.
type EntitiesHandler struct {
	deps Dependencies
}

// NewEntitiesHandler creates a new entities handler.
func NewEntitiesHandler(deps Dependencies) *EntitiesHandler {
	return &EntitiesHandler{deps: deps}
}

type upsertResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// HandleUpsert handles POST /entities requests. The entity's tenant always
// comes from the request header; a tenant id in the body is ignored rather
// than trusted.
func (h *EntitiesHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var e model.Entity
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := validateEntity(&e); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_entity", err)
		return
	}
	e.TenantID = tenantID(r)
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now().UTC()
	}

	if err := h.deps.UpsertEntity(r.Context(), e); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, upsertResponse{Status: "stored", ID: e.ID})
}

// HandleGet handles GET /entities/{id} requests.
func (h *EntitiesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/entities/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	e, err := h.deps.GetEntity(r.Context(), tenantID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func validateEntity(e *model.Entity) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	switch e.Kind {
	case model.KindCandidate, model.KindJob:
	default:
		return errors.New("kind must be candidate or job")
	}
	for _, s := range e.Skills {
		if strings.TrimSpace(s.Name) == "" {
			return errors.New("skill name must not be empty")
		}
	}
	return nil
}
