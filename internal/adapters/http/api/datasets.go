package api

import (
	"context"
	"net/http"

	"github.com/okian/pulso/internal/presentation"
)

// DatasetsDependencies exposes the ranking and prediction sections.
type DatasetsDependencies interface {
	Ranking(ctx context.Context) (presentation.Section, error)
	Predictions(ctx context.Context) (presentation.Section, error)
}

// DatasetsHandler serves the optional datasets.
type DatasetsHandler struct {
	deps DatasetsDependencies
}

// NewDatasetsHandler creates a new datasets handler.
func NewDatasetsHandler(deps DatasetsDependencies) *DatasetsHandler {
	return &DatasetsHandler{deps: deps}
}

// HandleRanking handles GET /api/ranking requests. An absent ranking is a
// 200 response carrying a placeholder.
func (h *DatasetsHandler) HandleRanking(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "ranking", h.deps.Ranking)
}

// HandlePredictions handles GET /api/predictions requests.
func (h *DatasetsHandler) HandlePredictions(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "predictions", h.deps.Predictions)
}

func (h *DatasetsHandler) serve(w http.ResponseWriter, r *http.Request, op string, get func(context.Context) (presentation.Section, error)) {
	if !requireMethod(w, r, op, http.MethodGet) {
		return
	}
	s, err := get(r.Context())
	if err != nil {
		writeErr(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, s)
}
