package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okian/sectorscore/internal/domain/scoring"
)

// StandingsHandler handles live ranking requests.
type StandingsHandler struct {
	deps StandingsDependencies
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(deps StandingsDependencies) *StandingsHandler {
	return &StandingsHandler{deps: deps}
}

// HandleGetStandings handles GET /standings and GET /standings/{sector}.
func (h *StandingsHandler) HandleGetStandings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_standings"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sector := strings.Trim(strings.TrimPrefix(r.URL.Path, "/standings"), "/")
	if strings.Contains(sector, "/") {
		http.NotFound(w, r)
		return
	}

	st, err := h.deps.Standings(r.Context(), sector)
	switch {
	case errors.Is(err, scoring.ErrUnknownSector):
		writeError(w, http.StatusNotFound, "not_found", err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", wrap(op, ErrUnavailable, err))
	default:
		writeJSON(w, http.StatusOK, st)
	}
}
