// Package admin serves the stub API's maintenance endpoints under /_stub/.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/johnwards/professionals/internal/api"
	"github.com/johnwards/professionals/internal/seed"
	"github.com/johnwards/professionals/internal/store"
)

const (
	defaultPageSize = 100
	maxPageSize     = 1000
)

// Handler serves the admin API.
type Handler struct {
	store *store.Store
}

// Reset deletes every professional and logged request, then re-seeds.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := ResetData(r.Context(), h.store); err != nil {
		slog.Error("reset stub data", "error", err, "correlation_id", api.CorrelationID(r.Context()))
		api.WriteDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SeedData seeds the sample professionals without clearing anything. It is a
// no-op when records already exist.
func (h *Handler) SeedData(w http.ResponseWriter, r *http.Request) {
	if err := seed.Seed(r.Context(), h.store.Professionals); err != nil {
		slog.Error("seed stub data", "error", err, "correlation_id", api.CorrelationID(r.Context()))
		api.WriteDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type paging struct {
	Before string `json:"before"`
}

type requestsResponse struct {
	Results []store.RequestLogEntry `json:"results"`
	Paging  *paging                 `json:"paging,omitempty"`
}

// Requests returns logged requests, newest first. ?limit caps the page size
// and ?before continues from the paging cursor of a previous page.
func (h *Handler) Requests(w http.ResponseWriter, r *http.Request) {
	limit := defaultPageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxPageSize {
			limit = n
		}
	}

	var before int64
	if v := r.URL.Query().Get("before"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			before = n
		}
	}

	entries, hasMore, err := h.store.Requests.List(r.Context(), limit, before)
	if err != nil {
		slog.Error("list request log", "error", err, "correlation_id", api.CorrelationID(r.Context()))
		api.WriteDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}

	resp := requestsResponse{Results: entries}
	if hasMore {
		resp.Paging = &paging{Before: strconv.FormatInt(entries[len(entries)-1].ID, 10)}
	}
	api.WriteJSON(w, http.StatusOK, resp)
}

// ResetData clears all stub data and re-seeds it.
func ResetData(ctx context.Context, s *store.Store) error {
	if err := s.Professionals.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear professionals: %w", err)
	}
	if err := s.Requests.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear request log: %w", err)
	}
	return seed.Seed(ctx, s.Professionals)
}
