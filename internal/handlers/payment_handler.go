package handlers

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// PaymentHandler renders the pages the gateway redirects the buyer to
type PaymentHandler struct {
	log *slog.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(log *slog.Logger) *PaymentHandler {
	return &PaymentHandler{log: log}
}

type paymentPage struct {
	Title    string
	Success  bool
	Callback models.PaymentCallback
	Params   []param
}

type param struct {
	Key   string
	Value string
}

// Success handles GET|POST /payment/success
func (h *PaymentHandler) Success(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, true)
}

// Failure handles GET|POST /payment/failure
func (h *PaymentHandler) Failure(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, false)
}

func (h *PaymentHandler) render(w http.ResponseWriter, r *http.Request, success bool) {
	if err := r.ParseForm(); err != nil {
		h.log.Warn("failed to parse payment callback", "error", err)
	}

	cb := parseCallback(r)
	page := paymentPage{
		Title:    "Payment Failed",
		Success:  success,
		Callback: cb,
		Params:   sortedParams(cb.Params),
	}
	if success {
		page.Title = "Payment Successful"
	}

	h.log.Info("payment callback",
		"success", success,
		"reference_id", cb.ReferenceID,
		"conversation_id", cb.ConversationID,
		"status", cb.Status,
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, "payment_result.html", page); err != nil {
		h.log.Error("failed to render payment page", "error", err)
	}
}

// parseCallback collects every query and form parameter; the first value wins
func parseCallback(r *http.Request) models.PaymentCallback {
	params := make(map[string]string, len(r.Form))
	for k, v := range r.Form {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	return models.PaymentCallback{
		ReferenceID:    firstOf(params, "reference_id", "referenceId"),
		ConversationID: firstOf(params, "conversation_id", "conversationId"),
		Status:         firstOf(params, "status"),
		ErrorMessage:   firstOf(params, "error_message", "errorMessage", "error"),
		Params:         params,
	}
}

func firstOf(params map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(params[k]); v != "" {
			return v
		}
	}
	return ""
}

func sortedParams(m map[string]string) []param {
	out := make([]param, 0, len(m))
	for k, v := range m {
		out = append(out, param{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
