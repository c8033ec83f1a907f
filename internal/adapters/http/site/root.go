// Package site serves the root redirect and the dashboard's static assets.
package site

import (
	"context"
	"net/http"
)

// DashboardPath is where GET / redirects.
const DashboardPath = "/dashboard"

// Register attaches the root redirect and /assets/ routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(FS())))
	mux.HandleFunc("/", NewRootHandler().HandleRoot)
}

// RootHandler sends visitors of / to the dashboard page.
type RootHandler struct {
	target string
}

// NewRootHandler creates a root handler redirecting to DashboardPath.
func NewRootHandler() *RootHandler {
	return &RootHandler{target: DashboardPath}
}

// HandleRoot redirects / to the dashboard, keeping the query so filter links
// such as /?activity=Yoga survive. Any other unmatched path is 404.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	target := h.target
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusFound)
}
