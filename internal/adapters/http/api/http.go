// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	service "github.com/okian/pulso/internal/app"
	"github.com/okian/pulso/internal/domain/filter"
	"github.com/okian/pulso/internal/presentation"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SessionDependencies

	Options(ctx context.Context) (service.Options, error)
	Dashboard(ctx context.Context, sel filter.Selection) (presentation.View, error)
	Ranking(ctx context.Context) (presentation.Section, error)
	Predictions(ctx context.Context) (presentation.Section, error)

	Selection(ctx context.Context, sessionID string) (filter.Selection, error)
	SetSelection(ctx context.Context, sessionID string, sel filter.Selection) (filter.Selection, error)
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	deps Dependencies

	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	dashboardHandler *dashboardHandler
	selectionHandler *SelectionHandler
	datasetsHandler  *DatasetsHandler

	sessionCookie string
	sessionTTL    time.Duration
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithSessionCookie sets the name of the session cookie.
func WithSessionCookie(name string) Option {
	return func(s *Server) {
		if name != "" {
			s.sessionCookie = name
		}
	}
}

// WithSessionTTL sets the session cookie lifetime.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		deps:             deps,
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		dashboardHandler: newDashboardHandler(deps),
		selectionHandler: NewSelectionHandler(deps),
		datasetsHandler:  NewDatasetsHandler(deps),
		sessionCookie:    "pulso_session",
		sessionTTL:       2 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	session := SessionMiddleware(s.deps, s.sessionCookie, s.sessionTTL)

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/dashboard", MetricsMiddleware(session(s.dashboardHandler.HandlePage), "dashboard"))
	mux.HandleFunc("/api/options", MetricsMiddleware(s.selectionHandler.HandleOptions, "options"))
	mux.HandleFunc("/api/selection", MetricsMiddleware(session(s.selectionHandler.HandleSelection), "selection"))
	mux.HandleFunc("/api/dashboard", MetricsMiddleware(session(s.dashboardHandler.HandleData), "api_dashboard"))
	mux.HandleFunc("/api/ranking", MetricsMiddleware(s.datasetsHandler.HandleRanking, "ranking"))
	mux.HandleFunc("/api/predictions", MetricsMiddleware(s.datasetsHandler.HandlePredictions, "predictions"))
}

// selectionRequest mirrors the OpenAPI schema for PUT /api/selection.
type selectionRequest struct {
	Activities []string `json:"activities"`
	Weekdays   []string `json:"weekdays"`
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

// writeErr picks the status and code from the error kind.
func writeErr(w http.ResponseWriter, err error) {
	code, name := statusOf(err)
	writeError(w, code, name, err)
}

// requireMethod writes 405 and returns false when r.Method is not allowed.
func requireMethod(w http.ResponseWriter, r *http.Request, op string, allowed ...string) bool {
	for _, m := range allowed {
		if r.Method == m {
			return true
		}
	}
	for _, m := range allowed {
		w.Header().Add("Allow", m)
	}
	writeErr(w, NewKind(op, ErrMethodNotAllowed))
	return false
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}
