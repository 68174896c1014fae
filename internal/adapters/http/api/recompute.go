package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/sectorscore/internal/adapters/mq/queue"
)

// RecomputeHandler handles recomputation requests.
type RecomputeHandler struct {
	deps RecomputeDependencies
}

// NewRecomputeHandler creates a new recompute handler.
func NewRecomputeHandler(deps RecomputeDependencies) *RecomputeHandler {
	return &RecomputeHandler{deps: deps}
}

type triggerResponse struct {
	Status    string `json:"status"`
	TriggerID string `json:"trigger_id"`
}

// HandlePostRecompute handles POST /recompute. With ?async=1 the run is
// queued and the trigger is acknowledged with 202.
//
// A synchronous run always answers 200; failures are reported inside the
// summary.
func (h *RecomputeHandler) HandlePostRecompute(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_recompute"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	async := false
	if v := r.URL.Query().Get("async"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest, err))
			return
		}
		async = b
	}

	if !async {
		writeJSON(w, http.StatusOK, h.deps.Recompute(r.Context()))
		return
	}

	t, err := h.deps.RequestRecompute(r.Context(), "http")
	switch {
	case errors.Is(err, queue.ErrFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", wrap(op, ErrBackpressure, err))
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, "unavailable", wrap(op, ErrUnavailable, err))
	default:
		writeJSON(w, http.StatusAccepted, triggerResponse{Status: "accepted", TriggerID: t.ID})
	}
}

// HandleGetLast handles GET /recompute/last.
func (h *RecomputeHandler) HandleGetLast(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_last_recompute"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sum, ok := h.deps.LastSummary()
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", wrap(op, ErrNoRunYet, nil))
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
