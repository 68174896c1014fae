// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/sectorscore/internal/adapters/mq/queue"
	"github.com/okian/sectorscore/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the scoring service.
type Dependencies interface {
	RecomputeDependencies
	MigrationDependencies
	StandingsDependencies
}

// RecomputeDependencies covers synchronous and queued recomputation.
type RecomputeDependencies interface {
	Recompute(ctx context.Context) types.Summary
	RequestRecompute(ctx context.Context, reason string) (queue.Trigger, error)
	LastSummary() (types.Summary, bool)
}

// MigrationDependencies runs the big-catch field migration.
type MigrationDependencies interface {
	MigrateBigCatches(ctx context.Context) types.MigrationSummary
}

// StandingsDependencies computes live rankings.
type StandingsDependencies interface {
	Standings(ctx context.Context, sector string) (types.Standings, error)
}

// Server wires HTTP routes for the admin API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	recomputeHandler *RecomputeHandler
	migrationHandler *MigrationHandler
	standingsHandler *StandingsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		recomputeHandler: NewRecomputeHandler(deps),
		migrationHandler: NewMigrationHandler(deps),
		standingsHandler: NewStandingsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/recompute", MetricsMiddleware(s.recomputeHandler.HandlePostRecompute, "recompute"))
	mux.HandleFunc("/recompute/last", MetricsMiddleware(s.recomputeHandler.HandleGetLast, "recompute_last"))
	mux.HandleFunc("/migrations/big-catches", MetricsMiddleware(s.migrationHandler.HandlePostBigCatches, "migrate_big_catches"))
	mux.HandleFunc("/standings", MetricsMiddleware(s.standingsHandler.HandleGetStandings, "standings"))
	mux.HandleFunc("/standings/", MetricsMiddleware(s.standingsHandler.HandleGetStandings, "standings"))
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
