// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"
)

// ExplainHandler handles single-pair explanation requests.
type ExplainHandler struct {
	deps Dependencies
}

// NewExplainHandler creates a new explain handler.
func NewExplainHandler(deps Dependencies) *ExplainHandler {
	return &ExplainHandler{deps: deps}
}

// HandleExplain handles GET /match/explain/{anchor_id}/{counterpart_id}
// requests. Either ordering of candidate and job is accepted; the response
// labels the ids by kind.
func (h *ExplainHandler) HandleExplain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/match/explain/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	exp, err := h.deps.Explain(r.Context(), tenantID(r), parts[0], parts[1])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}
