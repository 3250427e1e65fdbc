package admin

import (
	"net/http"

	"github.com/johnwards/professionals/internal/store"
)

// RegisterRoutes registers all admin API endpoints on the mux.
func RegisterRoutes(mux *http.ServeMux, s *store.Store) {
	h := &Handler{store: s}

	mux.HandleFunc("POST /_stub/reset", h.Reset)
	mux.HandleFunc("GET /_stub/requests", h.Requests)
	mux.HandleFunc("POST /_stub/seed", h.SeedData)
}
