package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/webhook"
)

// maxWebhookBytes caps a single captured notification
const maxWebhookBytes = 1 << 20

// WebhookHandler captures gateway notifications to disk
type WebhookHandler struct {
	store *webhook.Store
	log   *slog.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(store *webhook.Store, log *slog.Logger) *WebhookHandler {
	return &WebhookHandler{store: store, log: log}
}

// Receive returns a handler that stores incoming notifications as kind
func (h *WebhookHandler) Receive(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				h.log.Warn("webhook body too large", "kind", kind, "limit", tooLarge.Limit)
				WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large", h.log)
				return
			}
			h.log.Error("failed to read webhook body", "kind", kind, "error", err)
			WriteError(w, http.StatusInternalServerError, err.Error(), h.log)
			return
		}

		rec, err := h.store.Receive(kind, r.Header.Get("Content-Type"), body)
		if err != nil {
			h.log.Error("failed to store webhook", "kind", kind, "error", err)
			WriteError(w, http.StatusInternalServerError, err.Error(), h.log)
			return
		}

		h.log.Info("webhook received", "kind", rec.Kind, "file", rec.Filename)
		WriteJSON(w, http.StatusOK, map[string]string{"status": "received"}, h.log)
	}
}

// List handles GET /api/webhooks
func (h *WebhookHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.List()
	if err != nil {
		h.log.Error("failed to list webhooks", "dir", h.store.Dir(), "error", err)
		WriteError(w, http.StatusInternalServerError, err.Error(), h.log)
		return
	}
	WriteJSON(w, http.StatusOK, records, h.log)
}
