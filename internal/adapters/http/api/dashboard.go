// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/pulso/internal/domain/filter"
	"github.com/okian/pulso/internal/presentation"
)

// Query keys that override the session selection on GET /api/dashboard.
const (
	queryActivity = "activity"
	queryWeekday  = "weekday"
)

// DashboardDependencies defines the operations behind the dashboard.
type DashboardDependencies interface {
	Dashboard(ctx context.Context, sel filter.Selection) (presentation.View, error)
	Selection(ctx context.Context, sessionID string) (filter.Selection, error)
}

// dashboardHandler handles dashboard requests
type dashboardHandler struct {
	deps DashboardDependencies
}

func newDashboardHandler(deps DashboardDependencies) *dashboardHandler {
	return &dashboardHandler{deps: deps}
}

// HandlePage handles GET /dashboard requests by serving the embedded page.
// The page fetches its data from /api/dashboard.
func (h *dashboardHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, "dashboard", http.MethodGet) {
		return
	}
	http.ServeFileFS(w, r, dashboardFS, "dashboard.html")
}

// HandleData handles GET /api/dashboard requests. The session's selection is
// used unless activity or weekday query keys are given; a key that is
// present with no non-empty value selects nothing.
func (h *dashboardHandler) HandleData(w http.ResponseWriter, r *http.Request) {
	const op = "dashboard"
	if !requireMethod(w, r, op, http.MethodGet) {
		return
	}

	var sel filter.Selection
	if id, ok := SessionID(r.Context()); ok {
		s, err := h.deps.Selection(r.Context(), id)
		if err != nil {
			writeErr(w, Wrap(op, err))
			return
		}
		sel = s
	}
	q := r.URL.Query()
	if vals, ok := q[queryActivity]; ok {
		sel.Activities = nonEmpty(vals)
	}
	if vals, ok := q[queryWeekday]; ok {
		sel.Weekdays = nonEmpty(vals)
	}

	view, err := h.deps.Dashboard(r.Context(), sel)
	if err != nil {
		writeErr(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func nonEmpty(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
