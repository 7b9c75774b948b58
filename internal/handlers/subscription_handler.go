package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/models"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/service"
)

// SubscriptionHandler handles recurring payment endpoints
type SubscriptionHandler struct {
	subscriptions *service.SubscriptionService
	log           *slog.Logger
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subscriptions *service.SubscriptionService, log *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions, log: log}
}

// SubscriptionResponse is returned by subscription mutations
type SubscriptionResponse struct {
	Success     bool    `json:"success"`
	ReferenceID *string `json:"reference_id,omitempty"`
	CheckoutURL *string `json:"checkout_url,omitempty"`
	Message     string  `json:"message,omitempty"`
}

// Create handles POST /api/subscription/create
func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.SubscriptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteServiceError(w, err, h.log)
		return
	}

	result, err := h.subscriptions.Create(r.Context(), req, baseURL(r))
	if err != nil {
		WriteServiceError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, SubscriptionResponse{
		Success:     true,
		ReferenceID: result.ReferenceID,
		CheckoutURL: result.CheckoutURL,
	}, h.log)
}

// List handles GET /api/subscription/list
func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw, err := h.subscriptions.List(r.Context(), queryInt(q.Get("page")), queryInt(q.Get("per_page")))
	if err != nil {
		WriteServiceError(w, err, h.log)
		return
	}
	writeRaw(w, raw, h.log)
}

// Cancel handles POST /api/subscription/cancel
func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req models.SubscriptionCancelRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteServiceError(w, err, h.log)
		return
	}

	if err := h.subscriptions.Cancel(r.Context(), req); err != nil {
		WriteServiceError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, SubscriptionResponse{Success: true, Message: "Subscription cancelled"}, h.log)
}
