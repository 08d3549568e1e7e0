package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dinardap-console/internal/registry"
	"dinardap-console/internal/transport/http/shared"
	dErrors "dinardap-console/pkg/domain-errors"
)

// RegistryService is the slice of the domain query services the console
// routes expose.
type RegistryService interface {
	LookupCitizen(ctx context.Context, cedula string) (*registry.CitizenRecord, error)
	ValidateIdentity(ctx context.Context, cedula string) (*registry.ValidationResult, error)
	SearchAudit(ctx context.Context, filter registry.AuditFilter) (*registry.AuditPage, error)
	Search(ctx context.Context, params registry.SearchParams) (*registry.SearchResult, error)
	Profile(ctx context.Context, cedula string) (*registry.Profile, error)
}

// RegistryHandler owns the /api/v1 query surface.
type RegistryHandler struct {
	registry RegistryService
}

// NewRegistryHandler builds the registry handler.
func NewRegistryHandler(svc RegistryService) *RegistryHandler {
	return &RegistryHandler{registry: svc}
}

func (h *RegistryHandler) handleLookup(w http.ResponseWriter, r *http.Request) {
	record, err := h.registry.LookupCitizen(r.Context(), chi.URLParam(r, "cedula"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, record)
}

func (h *RegistryHandler) handleValidation(w http.ResponseWriter, r *http.Request) {
	result, err := h.registry.ValidateIdentity(r.Context(), chi.URLParam(r, "cedula"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, result)
}

func (h *RegistryHandler) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.registry.Profile(r.Context(), chi.URLParam(r, "cedula"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, profile)
}

func (h *RegistryHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	var params registry.SearchParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "Solicitud inválida. Por favor, verifique los datos ingresados."))
		return
	}

	result, err := h.registry.Search(r.Context(), params)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, result)
}

func (h *RegistryHandler) handleAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := registry.AuditFilter{
		FechaInicio: q.Get("fechaInicio"),
		FechaFin:    q.Get("fechaFin"),
		Cedula:      q.Get("cedula"),
		Usuario:     q.Get("usuario"),
		Page:        intParam(q.Get("page"), 1),
		Limit:       intParam(q.Get("limit"), 10),
	}

	page, err := h.registry.SearchAudit(r.Context(), filter)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, page)
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
