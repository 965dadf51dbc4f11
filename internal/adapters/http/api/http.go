// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"blitzlog/internal/app"
	"blitzlog/internal/domain/event"
	"blitzlog/internal/domain/projection"
	"blitzlog/internal/domain/spp"
	"blitzlog/internal/export"
	"blitzlog/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Append(ctx context.Context, candidate event.MatchEvent) (app.AppendResult, error)
	UndoLast(ctx context.Context) (event.MatchEvent, error)
	Reset(ctx context.Context) error
	Events(ctx context.Context) ([]event.MatchEvent, error)
	State(ctx context.Context) (projection.State, error)
	Guards(ctx context.Context) (app.GuardStatus, error)
	SPP(ctx context.Context, roster spp.Roster, mvp map[event.Team]string) (spp.Summary, error)
	Export(ctx context.Context, roster spp.Roster, mvp map[event.Team]string) (export.Document, error)
	Timeline(ctx context.Context, format export.Format) (string, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	eventsHandler  *EventsHandler
	matchHandler   *MatchHandler
	exportHandler  *ExportHandler
	kickoffHandler *KickoffTableHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		eventsHandler:  NewEventsHandler(deps),
		matchHandler:   NewMatchHandler(deps),
		exportHandler:  NewExportHandler(deps),
		kickoffHandler: NewKickoffTableHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandleEvents, "events"))
	mux.HandleFunc("/events/undo", MetricsMiddleware(s.eventsHandler.HandleUndo, "undo"))
	mux.HandleFunc("/match/reset", MetricsMiddleware(s.matchHandler.HandleReset, "reset"))
	mux.HandleFunc("/state", MetricsMiddleware(s.matchHandler.HandleState, "state"))
	mux.HandleFunc("/guards", MetricsMiddleware(s.matchHandler.HandleGuards, "guards"))
	mux.HandleFunc("/spp", MetricsMiddleware(s.exportHandler.HandleSPP, "spp"))
	mux.HandleFunc("/export", MetricsMiddleware(s.exportHandler.HandleExport, "export"))
	mux.HandleFunc("/timeline", MetricsMiddleware(s.exportHandler.HandleTimeline, "timeline"))
	mux.HandleFunc("/kickoff-table", MetricsMiddleware(s.kickoffHandler.HandleTable, "kickoff_table"))
	mux.Handle("/metrics", metrics.Handler())
}

type errorResponse struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Problems []string `json:"problems,omitempty"`
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
