package professionals

import (
	"net/http"

	"github.com/johnwards/professionals/internal/store"
)

// RegisterRoutes adds all professional endpoints to the given mux.
func RegisterRoutes(mux *http.ServeMux, s store.ProfessionalStore) {
	h := NewHandler(s)

	mux.HandleFunc("GET /api/professionals/{$}", h.List)
	mux.HandleFunc("POST /api/professionals/{$}", h.Create)
	mux.HandleFunc("POST /api/professionals/bulk/{$}", h.Bulk)
}
