// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// CacheHandler handles cache administration requests.
type CacheHandler struct {
	deps Dependencies
}

// NewCacheHandler creates a new cache handler.
func NewCacheHandler(deps Dependencies) *CacheHandler {
	return &CacheHandler{deps: deps}
}

// HandleClear handles POST /cache/clear requests.
func (h *CacheHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	h.deps.ClearCache(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
