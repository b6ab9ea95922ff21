package http

import (
	"net/http"

	"github.com/lumiere-academy/backend/internal/domain"
	"github.com/lumiere-academy/backend/internal/http/middleware"
	"github.com/lumiere-academy/backend/pkg/logger"
)

type ContactHandler struct {
	service      domain.ContactService
	logger       logger.Logger
	getJWTSecret func() ([]byte, error)
}

func NewContactHandler(service domain.ContactService, getJWTSecret func() ([]byte, error), logger logger.Logger) *ContactHandler {
	return &ContactHandler{
		service:      service,
		logger:       logger,
		getJWTSecret: getJWTSecret,
	}
}

func (h *ContactHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := middleware.NewAuthMiddleware(h.getJWTSecret).RequireAuth()

	mux.Handle("/api/contacts.upsert", requireAuth(http.HandlerFunc(h.handleUpsert)))
	mux.Handle("/api/contacts.get", requireAuth(http.HandlerFunc(h.handleGet)))
}

func (h *ContactHandler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.UpsertContactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	contact, err := req.Validate()
	if err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Upsert(r.Context(), contact)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to upsert contact")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"contact": contact,
		"created": created,
	})
}

func (h *ContactHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.GetContactRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	contact, err := h.service.GetByID(r.Context(), req.ID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get contact")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"contact": contact,
	})
}
