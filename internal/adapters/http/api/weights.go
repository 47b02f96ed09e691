// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/talentdb/matchd/internal/weights"
)

// ConfigHandler handles the runtime weight-configuration surface. Every
// endpoint funnels into the same atomic update path; the narrower routes
// exist so operators can adjust one knob without restating the rest.
type ConfigHandler struct {
	deps Dependencies
}

// NewConfigHandler creates a new config handler.
func NewConfigHandler(deps Dependencies) *ConfigHandler {
	return &ConfigHandler{deps: deps}
}

// HandleWeights handles GET and POST /config/weights requests.
func (h *ConfigHandler) HandleWeights(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Weights(r.Context()))
	case http.MethodPost:
		var u weights.Update
		if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		h.apply(w, r, u)
	default:
		http.NotFound(w, r)
	}
}

// HandleCategoryWeights handles POST /config/category_weights requests.
func (h *ConfigHandler) HandleCategoryWeights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var body struct {
		MustCategory   *float64 `json:"must_category_weight"`
		NeededCategory *float64 `json:"needed_category_weight"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || (body.MustCategory == nil && body.NeededCategory == nil) {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	h.apply(w, r, weights.Update{MustCategory: body.MustCategory, NeededCategory: body.NeededCategory})
}

// HandleDistanceWeight handles POST /config/distance_weight requests.
func (h *ConfigHandler) HandleDistanceWeight(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var body struct {
		Distance *float64 `json:"distance_weight"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Distance == nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	h.apply(w, r, weights.Update{Distance: body.Distance})
}

// HandleMinSkillFloor handles POST /config/min_skill_floor requests.
func (h *ConfigHandler) HandleMinSkillFloor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var body struct {
		MinSkillFloor *int `json:"min_skill_floor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.MinSkillFloor == nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	h.apply(w, r, weights.Update{MinSkillFloor: body.MinSkillFloor})
}

func (h *ConfigHandler) apply(w http.ResponseWriter, r *http.Request, u weights.Update) {
	snap, err := h.deps.UpdateWeights(r.Context(), u)
	if err != nil {
		if errors.Is(err, weights.ErrInvalidWeights) {
			writeError(w, http.StatusBadRequest, "invalid_weights", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
