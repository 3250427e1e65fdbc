// Package ui is the server-rendered frontend. Each browser session owns a
// views.Shell; handlers translate form posts into view operations and render
// the mounted view's snapshot.
package ui

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/johnwards/professionals/internal/api"
	"github.com/johnwards/professionals/internal/domain"
	"github.com/johnwards/professionals/internal/views"
	"github.com/johnwards/professionals/web"
)

// Options configures a Server.
type Options struct {
	Client     views.Client
	DateLayout string
	Location   *time.Location
	// RenderWait bounds how long GET / waits for an outstanding fetch before
	// rendering the loading state.
	RenderWait time.Duration
	SessionTTL time.Duration
}

// Server serves the frontend.
type Server struct {
	sessions   *SessionStore
	tmpl       *template.Template
	dates      dateFormatter
	renderWait time.Duration
	static     http.Handler
}

// NewServer parses the embedded templates and creates the session store.
func NewServer(opts Options) (*Server, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(web.Assets, "static")
	if err != nil {
		return nil, err
	}

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	layout := opts.DateLayout
	if layout == "" {
		layout = "1/2/2006"
	}

	client := opts.Client
	return &Server{
		sessions:   NewSessionStore(func() *views.Shell { return views.NewShell(client) }, opts.SessionTTL),
		tmpl:       tmpl,
		dates:      dateFormatter{layout: layout, loc: loc},
		renderWait: opts.RenderWait,
		static:     http.StripPrefix("/static/", http.FileServerFS(static)),
	}, nil
}

// Sessions exposes the session store.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// Handler returns the frontend routes wrapped in the shared middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return api.Chain(mux,
		api.Recovery(),
		api.RequestID(),
		api.Logging(),
	)
}

// Close ends every session.
func (s *Server) Close() {
	s.sessions.Close()
}

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	shell := s.sessions.Shell(w, r)

	if lv := shell.Listing(); lv != nil && s.renderWait > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), s.renderWait)
		_ = lv.Settle(ctx)
		cancel()
	}

	p := page{Active: shell.Active()}
	if lv := shell.Listing(); lv != nil {
		snap := lv.Snapshot()
		p.List = newListPage(snap, s.dates)
		p.Refresh = snap.Loading
	}
	if cv := shell.Creation(); cv != nil {
		snap := cv.Snapshot()
		p.Add = newAddPage(snap)
		p.Refresh = snap.State == views.SubmitSubmitting
	}

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		slog.Error("render page", "error", err, "correlation_id", api.CorrelationID(r.Context()))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// SelectView handles POST /view.
func (s *Server) SelectView(w http.ResponseWriter, r *http.Request) {
	v, err := views.ParseView(r.PostFormValue("view"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.sessions.Shell(w, r).SelectView(v)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SetFilter handles POST /list/filter.
func (s *Server) SetFilter(w http.ResponseWriter, r *http.Request) {
	lv := s.sessions.Shell(w, r).Listing()
	if lv == nil {
		http.Error(w, "listing is not active", http.StatusConflict)
		return
	}
	if err := lv.SetFilter(domain.Source(r.PostFormValue("source"))); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SetField handles POST /add/field.
func (s *Server) SetField(w http.ResponseWriter, r *http.Request) {
	f, err := domain.ParseField(r.PostFormValue("name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cv := s.sessions.Shell(w, r).Creation()
	if cv == nil {
		http.Error(w, "add form is not active", http.StatusConflict)
		return
	}
	cv.SetField(f, r.PostFormValue("value"))
	w.WriteHeader(http.StatusNoContent)
}

// Submit handles POST /add. Posted fields are applied to the draft one at a
// time before submitting. The submission outlives the request so that a
// client disconnect does not abandon a creation the API may already have
// accepted.
func (s *Server) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cv := s.sessions.Shell(w, r).Creation()
	if cv == nil {
		http.Error(w, "add form is not active", http.StatusConflict)
		return
	}
	// A rejected second post must leave the in-flight draft alone.
	if cv.Snapshot().State == views.SubmitSubmitting {
		http.Error(w, views.ErrSubmitInFlight.Error(), http.StatusConflict)
		return
	}

	for _, f := range domain.Fields {
		if vals, ok := r.PostForm[f.String()]; ok && len(vals) > 0 {
			cv.SetField(f, vals[0])
		}
	}

	err := cv.Submit(context.WithoutCancel(r.Context()))
	if errors.Is(err, views.ErrSubmitInFlight) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Healthz handles GET /healthz.
func (s *Server) Healthz(w http.ResponseWriter, _ *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
