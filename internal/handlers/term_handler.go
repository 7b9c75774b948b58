package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/models"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/service"
	"github.com/go-chi/chi/v5"
)

// TermHandler handles payment term endpoints
type TermHandler struct {
	terms *service.TermService
	log   *slog.Logger
}

// NewTermHandler creates a new term handler
func NewTermHandler(terms *service.TermService, log *slog.Logger) *TermHandler {
	return &TermHandler{terms: terms, log: log}
}

// Create handles POST /api/term/create
func (h *TermHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.TermCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteServiceError(w, err, h.log)
		return
	}
	raw, err := h.terms.Create(r.Context(), req)
	h.respond(w, raw, err)
}

// Get handles GET /api/term/{referenceId}
func (h *TermHandler) Get(w http.ResponseWriter, r *http.Request) {
	raw, err := h.terms.Get(r.Context(), chi.URLParam(r, "referenceId"))
	h.respond(w, raw, err)
}

// Update handles POST /api/term/update
func (h *TermHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.TermUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteServiceError(w, err, h.log)
		return
	}
	raw, err := h.terms.Update(r.Context(), req)
	h.respond(w, raw, err)
}

// Delete handles POST /api/term/delete
func (h *TermHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req models.TermDeleteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteServiceError(w, err, h.log)
		return
	}
	raw, err := h.terms.Delete(r.Context(), req)
	h.respond(w, raw, err)
}

// Refund handles POST /api/term/refund
func (h *TermHandler) Refund(w http.ResponseWriter, r *http.Request) {
	var req models.TermRefundRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteServiceError(w, err, h.log)
		return
	}
	raw, err := h.terms.Refund(r.Context(), req)
	h.respond(w, raw, err)
}

func (h *TermHandler) respond(w http.ResponseWriter, raw []byte, err error) {
	if err != nil {
		WriteServiceError(w, err, h.log)
		return
	}
	writeRaw(w, raw, h.log)
}
