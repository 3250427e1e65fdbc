package professionals

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/johnwards/professionals/internal/api"
	"github.com/johnwards/professionals/internal/domain"
	"github.com/johnwards/professionals/internal/store"
)

// Handler handles professional HTTP requests.
type Handler struct {
	store    store.ProfessionalStore
	validate *validator.Validate
}

// NewHandler creates a Handler backed by s.
func NewHandler(s store.ProfessionalStore) *Handler {
	return &Handler{store: s, validate: newValidator()}
}

// response is the JSON form of a stored professional. Empty contact details
// are rendered as null.
type response struct {
	ID          int64   `json:"id"`
	FullName    string  `json:"full_name"`
	Email       *string `json:"email"`
	CompanyName string  `json:"company_name"`
	JobTitle    string  `json:"job_title"`
	Phone       *string `json:"phone"`
	Source      string  `json:"source"`
	CreatedAt   string  `json:"created_at"`
}

func toResponse(p *store.Professional) response {
	return response{
		ID:          p.ID,
		FullName:    p.FullName,
		Email:       nullString(p.Email),
		CompanyName: p.CompanyName,
		JobTitle:    p.JobTitle,
		Phone:       nullString(p.Phone),
		Source:      string(p.Source),
		CreatedAt:   p.CreatedAt,
	}
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// List handles GET /api/professionals/.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	source := domain.Source(r.URL.Query().Get("source"))

	records, err := h.store.List(r.Context(), source)
	if err != nil {
		slog.Error("list professionals", "error", err, "correlation_id", api.CorrelationID(r.Context()))
		api.WriteDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}

	out := make([]response, len(records))
	for i, p := range records {
		out[i] = toResponse(p)
	}
	api.WriteJSON(w, http.StatusOK, out)
}

// Create handles POST /api/professionals/.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	raw := json.RawMessage{}
	if !api.DecodeJSON(w, r, &raw) {
		return
	}

	var req request
	if !isObject(raw) || json.Unmarshal(raw, &req) != nil {
		errs := api.FieldErrors{}
		errs.Add(api.NonFieldErrors, msgNotAnObject)
		api.WriteFieldErrors(w, errs)
		return
	}

	f, errs, err := h.validateRequest(r.Context(), req, 0)
	if err != nil {
		slog.Error("create professional", "error", err, "correlation_id", api.CorrelationID(r.Context()))
		api.WriteDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}
	if len(errs) > 0 {
		api.WriteFieldErrors(w, errs)
		return
	}

	p, err := h.store.Create(r.Context(), f.input())
	if err != nil {
		if cerrs, ok := conflictErrors(err); ok {
			api.WriteFieldErrors(w, cerrs)
			return
		}
		slog.Error("create professional", "error", err, "correlation_id", api.CorrelationID(r.Context()))
		api.WriteDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}

	api.WriteJSON(w, http.StatusCreated, toResponse(p))
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
