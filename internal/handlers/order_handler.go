package handlers

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/checkout"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/models"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/service"
	"github.com/go-chi/chi/v5"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		log:          log,
	}
}

// CreateOrderResponse is returned by POST /api/order/create.
// Gateway carries the gateway's own reply unchanged.
type CreateOrderResponse struct {
	Success             bool            `json:"success"`
	OrderID             *string         `json:"order_id"`
	ReferenceID         *string         `json:"reference_id"`
	CheckoutURL         *string         `json:"checkout_url"`
	Message             string          `json:"message"`
	ExternalReferenceID string          `json:"external_reference_id"`
	ConversationID      string          `json:"conversation_id"`
	Amount              string          `json:"amount"`
	Gateway             json.RawMessage `json:"gateway,omitempty"`
}

// CreateOrder handles POST /api/order/create
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	req, err := checkout.DecodeRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		WriteServiceError(w, err, h.log)
		return
	}

	result, err := h.orderService.CreateOrder(r.Context(), req, requestMeta(r))
	if err != nil {
		WriteServiceError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, CreateOrderResponse{
		Success:             true,
		OrderID:             result.OrderID,
		ReferenceID:         result.ReferenceID,
		CheckoutURL:         result.CheckoutURL,
		Message:             "Order created successfully",
		ExternalReferenceID: result.ExternalReferenceID,
		ConversationID:      result.ConversationID,
		Amount:              result.Amount.StringFixed(2),
		Gateway:             result.Gateway,
	}, h.log)
}

// ListOrders handles GET /api/order/list
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw, err := h.orderService.ListOrders(r.Context(), models.OrderListQuery{
		Page:               queryInt(q.Get("page")),
		PerPage:            queryInt(q.Get("per_page")),
		StartDate:          q.Get("start_date"),
		EndDate:            q.Get("end_date"),
		OrganizationID:     q.Get("organization_id"),
		RelatedReferenceID: q.Get("related_reference_id"),
	})
	h.respondRaw(w, raw, err)
}

// GetOrder handles GET /api/order/{referenceId}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	raw, err := h.orderService.GetOrder(r.Context(), chi.URLParam(r, "referenceId"))
	h.respondRaw(w, raw, err)
}

// GetOrderStatus handles GET /api/order/{referenceId}/status
func (h *OrderHandler) GetOrderStatus(w http.ResponseWriter, r *http.Request) {
	raw, err := h.orderService.GetOrderStatus(r.Context(), chi.URLParam(r, "referenceId"))
	h.respondRaw(w, raw, err)
}

// GetOrderTransactions handles GET /api/order/{referenceId}/transactions
func (h *OrderHandler) GetOrderTransactions(w http.ResponseWriter, r *http.Request) {
	raw, err := h.orderService.GetOrderTransactions(r.Context(), chi.URLParam(r, "referenceId"))
	h.respondRaw(w, raw, err)
}

// GetOrderByConversation handles GET /api/order/conversation/{conversationId}
func (h *OrderHandler) GetOrderByConversation(w http.ResponseWriter, r *http.Request) {
	raw, err := h.orderService.GetOrderByConversationID(r.Context(), chi.URLParam(r, "conversationId"))
	h.respondRaw(w, raw, err)
}

// CancelOrder handles POST /api/order/cancel
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CancelRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteServiceError(w, err, h.log)
		return
	}
	raw, err := h.orderService.CancelOrder(r.Context(), req)
	h.respondRaw(w, raw, err)
}

// RefundOrder handles POST /api/order/refund
func (h *OrderHandler) RefundOrder(w http.ResponseWriter, r *http.Request) {
	var req models.RefundRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteServiceError(w, err, h.log)
		return
	}
	raw, err := h.orderService.RefundOrder(r.Context(), req)
	h.respondRaw(w, raw, err)
}

// TerminateOrder handles POST /api/order/terminate
func (h *OrderHandler) TerminateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.TerminateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteServiceError(w, err, h.log)
		return
	}
	raw, err := h.orderService.TerminateOrder(r.Context(), req)
	h.respondRaw(w, raw, err)
}

// ManualCallback handles POST /api/order/manual-callback
func (h *OrderHandler) ManualCallback(w http.ResponseWriter, r *http.Request) {
	var req models.ManualCallbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteServiceError(w, err, h.log)
		return
	}
	raw, err := h.orderService.ManualCallback(r.Context(), req)
	h.respondRaw(w, raw, err)
}

// Submerchants handles GET /api/order/submerchants
func (h *OrderHandler) Submerchants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw, err := h.orderService.GetOrderSubmerchants(r.Context(), queryInt(q.Get("page")), queryInt(q.Get("per_page")))
	h.respondRaw(w, raw, err)
}

// OrganizationSettings handles GET /api/organization/settings
func (h *OrderHandler) OrganizationSettings(w http.ResponseWriter, r *http.Request) {
	raw, err := h.orderService.GetOrganizationSettings(r.Context())
	h.respondRaw(w, raw, err)
}

func (h *OrderHandler) respondRaw(w http.ResponseWriter, raw []byte, err error) {
	if err != nil {
		WriteServiceError(w, err, h.log)
		return
	}
	writeRaw(w, raw, h.log)
}

// requestMeta captures the caller IP and the externally visible base URL.
// RemoteAddr has already been rewritten by chi's RealIP middleware.
func requestMeta(r *http.Request) checkout.RequestMeta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return checkout.RequestMeta{SourceIP: ip, BaseURL: baseURL(r)}
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func queryInt(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
