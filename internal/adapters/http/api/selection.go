package api

import (
	"context"
	"net/http"

	service "github.com/okian/pulso/internal/app"
	"github.com/okian/pulso/internal/domain/filter"
)

// SelectionDependencies defines the operations behind the filter controls.
type SelectionDependencies interface {
	Options(ctx context.Context) (service.Options, error)
	Selection(ctx context.Context, sessionID string) (filter.Selection, error)
	SetSelection(ctx context.Context, sessionID string, sel filter.Selection) (filter.Selection, error)
}

// SelectionHandler serves the filter options and the session's selection.
type SelectionHandler struct {
	deps SelectionDependencies
}

// NewSelectionHandler creates a new selection handler.
func NewSelectionHandler(deps SelectionDependencies) *SelectionHandler {
	return &SelectionHandler{deps: deps}
}

// HandleOptions handles GET /api/options requests.
func (h *SelectionHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	const op = "options"
	if !requireMethod(w, r, op, http.MethodGet) {
		return
	}
	opts, err := h.deps.Options(r.Context())
	if err != nil {
		writeErr(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// HandleSelection handles GET and PUT /api/selection requests.
func (h *SelectionHandler) HandleSelection(w http.ResponseWriter, r *http.Request) {
	const op = "selection"
	if !requireMethod(w, r, op, http.MethodGet, http.MethodPut) {
		return
	}
	id, ok := SessionID(r.Context())
	if !ok {
		writeErr(w, NewKind(op, ErrNoSession))
		return
	}

	if r.Method == http.MethodGet {
		sel, err := h.deps.Selection(r.Context(), id)
		if err != nil {
			writeErr(w, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, sel.Normalize())
		return
	}

	var req selectionRequest
	if err := strictDecode(r, &req); err != nil {
		writeErr(w, Wrap(op, err))
		return
	}
	sel, err := h.deps.SetSelection(r.Context(), id, filter.Selection{Activities: req.Activities, Weekdays: req.Weekdays})
	if err != nil {
		writeErr(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sel)
}
