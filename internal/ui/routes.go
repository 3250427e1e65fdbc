package ui

import "net/http"

// RegisterRoutes registers the frontend endpoints on the mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.Index)
	mux.HandleFunc("POST /view", s.SelectView)
	mux.HandleFunc("POST /list/filter", s.SetFilter)
	mux.HandleFunc("POST /add/field", s.SetField)
	mux.HandleFunc("POST /add", s.Submit)
	mux.HandleFunc("GET /healthz", s.Healthz)
	mux.Handle("GET /static/", s.static)
}
