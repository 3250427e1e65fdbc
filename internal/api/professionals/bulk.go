package professionals

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/johnwards/professionals/internal/api"
	"github.com/johnwards/professionals/internal/store"
)

// Per-item outcomes of a bulk upsert.
const (
	statusCreated = "created"
	statusUpdated = "updated"
	statusError   = "error"
)

const msgNotAList = "'professionals' must be a list."

type bulkResult struct {
	Index        int             `json:"index"`
	Status       string          `json:"status"`
	Professional *response       `json:"professional,omitempty"`
	Errors       api.FieldErrors `json:"errors,omitempty"`
}

type bulkResponse struct {
	Results []bulkResult `json:"results"`
}

// Bulk handles POST /api/professionals/bulk/. The body is either a JSON list
// or {"professionals": [...]}. Each item is upserted by email, falling back
// to phone, and reported on its own so one bad item does not fail the rest.
func (h *Handler) Bulk(w http.ResponseWriter, r *http.Request) {
	raw := json.RawMessage{}
	if !api.DecodeJSON(w, r, &raw) {
		return
	}

	items, ok := bulkItems(raw)
	if !ok {
		api.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": msgNotAList})
		return
	}

	results := make([]bulkResult, 0, len(items))
	for i, item := range items {
		res, err := h.upsert(r.Context(), item)
		if err != nil {
			slog.Error("bulk upsert", "index", i, "error", err, "correlation_id", api.CorrelationID(r.Context()))
			res = bulkResult{Status: statusError, Errors: api.FieldErrors{api.NonFieldErrors: {err.Error()}}}
		}
		res.Index = i
		results = append(results, res)
	}

	api.WriteJSON(w, http.StatusOK, bulkResponse{Results: results})
}

func bulkItems(raw json.RawMessage) ([]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false
	}

	if trimmed[0] == '{' {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, false
		}
		list, present := wrapper["professionals"]
		if !present {
			return []json.RawMessage{}, true
		}
		trimmed = bytes.TrimSpace(list)
	}

	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, false
	}
	return items, true
}

// upsert validates and stores one bulk item. Validation problems are
// reported in the result; only storage failures are returned as errors.
func (h *Handler) upsert(ctx context.Context, item json.RawMessage) (bulkResult, error) {
	var req request
	if !isObject(item) || json.Unmarshal(item, &req) != nil {
		return failed(api.FieldErrors{api.NonFieldErrors: {msgNotAnObject}}), nil
	}

	f, errs := check(h.validate, req)
	if len(errs) == 0 && f.Email == "" && f.Phone == "" {
		errs.Add(api.NonFieldErrors, msgContactRule)
	}
	if len(errs) > 0 {
		return failed(errs), nil
	}

	existing, err := h.findExisting(ctx, f)
	if err != nil {
		return bulkResult{}, err
	}

	var self int64
	if existing != nil {
		self = existing.ID
	}
	if err := checkUnique(ctx, h.store, f, self, errs); err != nil {
		return bulkResult{}, err
	}
	if len(errs) > 0 {
		return failed(errs), nil
	}

	var p *store.Professional
	status := statusCreated
	if existing != nil {
		status = statusUpdated
		p, err = h.store.Update(ctx, existing.ID, f.input())
	} else {
		p, err = h.store.Create(ctx, f.input())
	}
	if err != nil {
		if cerrs, ok := conflictErrors(err); ok {
			return failed(cerrs), nil
		}
		return bulkResult{}, fmt.Errorf("store professional: %w", err)
	}

	resp := toResponse(p)
	return bulkResult{Status: status, Professional: &resp}, nil
}

func (h *Handler) findExisting(ctx context.Context, f fields) (*store.Professional, error) {
	if f.Email != "" {
		p, err := h.store.FindByEmail(ctx, f.Email)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("find by email: %w", err)
		}
	}
	if f.Phone != "" {
		p, err := h.store.FindByPhone(ctx, f.Phone)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("find by phone: %w", err)
		}
	}
	return nil, nil
}

func failed(errs api.FieldErrors) bulkResult {
	return bulkResult{Status: statusError, Errors: errs}
}
