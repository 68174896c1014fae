package api

import "net/http"

// MigrationHandler handles data migration requests.
type MigrationHandler struct {
	deps MigrationDependencies
}

// NewMigrationHandler creates a new migration handler.
func NewMigrationHandler(deps MigrationDependencies) *MigrationHandler {
	return &MigrationHandler{deps: deps}
}

// HandlePostBigCatches handles POST /migrations/big-catches.
func (h *MigrationHandler) HandlePostBigCatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.MigrateBigCatches(r.Context()))
}
