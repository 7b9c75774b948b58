package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/checkout"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/gateway"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/models"
	"github.com/shopspring/decimal"
)

// OrderGateway is the subset of the payment gateway client used for orders
type OrderGateway interface {
	CreateOrder(ctx context.Context, order *models.OrderRequest) (*gateway.OrderCreated, error)
	GetCheckoutURL(ctx context.Context, referenceID string) (string, error)
	GetOrder(ctx context.Context, referenceID string) (json.RawMessage, error)
	GetOrderByConversationID(ctx context.Context, conversationID string) (json.RawMessage, error)
	GetOrderStatus(ctx context.Context, referenceID string) (json.RawMessage, error)
	GetOrderTransactions(ctx context.Context, referenceID string) (json.RawMessage, error)
	ListOrders(ctx context.Context, q models.OrderListQuery) (json.RawMessage, error)
	CancelOrder(ctx context.Context, referenceID string) (json.RawMessage, error)
	RefundOrder(ctx context.Context, refund gateway.Refund) (json.RawMessage, error)
	TerminateOrder(ctx context.Context, referenceID string) (json.RawMessage, error)
	ManualCallback(ctx context.Context, referenceID, conversationID string) (json.RawMessage, error)
	GetOrderSubmerchants(ctx context.Context, page, perPage int) (json.RawMessage, error)
	GetOrganizationSettings(ctx context.Context) (json.RawMessage, error)
}

// OrderService normalizes checkout submissions and forwards order operations to the gateway
type OrderService struct {
	gateway    OrderGateway
	normalizer *checkout.Normalizer
	log        *slog.Logger
}

// NewOrderService creates a new order service
func NewOrderService(gw OrderGateway, normalizer *checkout.Normalizer, log *slog.Logger) *OrderService {
	return &OrderService{
		gateway:    gw,
		normalizer: normalizer,
		log:        log,
	}
}

// CreateOrderResult is the outcome of a successful order creation
// Gateway attributes stay nil when the gateway omitted them
type CreateOrderResult struct {
	ReferenceID         *string
	OrderID             *string
	CheckoutURL         *string
	ExternalReferenceID string
	ConversationID      string
	Amount              decimal.Decimal
	Gateway             json.RawMessage
}

// CreateOrder normalizes req and submits it to the gateway.
// A checkout URL lookup failure is logged and does not fail the order.
func (s *OrderService) CreateOrder(ctx context.Context, req *models.CheckoutRequest, meta checkout.RequestMeta) (*CreateOrderResult, error) {
	order, err := s.normalizer.Normalize(req, meta)
	if err != nil {
		return nil, err
	}

	created, err := s.gateway.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	result := &CreateOrderResult{
		ReferenceID:         created.ReferenceID,
		OrderID:             created.OrderID,
		CheckoutURL:         created.CheckoutURL,
		ExternalReferenceID: order.ExternalReferenceID,
		ConversationID:      order.ConversationID,
		Amount:              order.Amount,
		Gateway:             created.Raw,
	}

	if result.CheckoutURL == nil && result.ReferenceID != nil && *result.ReferenceID != "" {
		url, err := s.gateway.GetCheckoutURL(ctx, *result.ReferenceID)
		if err != nil {
			s.log.Warn("failed to get checkout url", "reference_id", *result.ReferenceID, "error", err)
		} else {
			result.CheckoutURL = &url
		}
	}

	s.log.Info("order created",
		"external_reference_id", order.ExternalReferenceID,
		"conversation_id", order.ConversationID,
		"amount", order.Amount.StringFixed(2),
		"basket_lines", len(order.Basket),
	)

	return result, nil
}

// GetOrder returns the gateway's order record
func (s *OrderService) GetOrder(ctx context.Context, referenceID string) (json.RawMessage, error) {
	if err := requireReference(referenceID); err != nil {
		return nil, err
	}
	return s.gateway.GetOrder(ctx, referenceID)
}

// GetOrderByConversationID returns the order matching a conversation ID
func (s *OrderService) GetOrderByConversationID(ctx context.Context, conversationID string) (json.RawMessage, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, checkout.MissingField("conversation_id", "Conversation ID is required")
	}
	return s.gateway.GetOrderByConversationID(ctx, conversationID)
}

// GetOrderStatus returns an order's payment status
func (s *OrderService) GetOrderStatus(ctx context.Context, referenceID string) (json.RawMessage, error) {
	if err := requireReference(referenceID); err != nil {
		return nil, err
	}
	return s.gateway.GetOrderStatus(ctx, referenceID)
}

// GetOrderTransactions returns an order's transactions
func (s *OrderService) GetOrderTransactions(ctx context.Context, referenceID string) (json.RawMessage, error) {
	if err := requireReference(referenceID); err != nil {
		return nil, err
	}
	return s.gateway.GetOrderTransactions(ctx, referenceID)
}

// ListOrders returns a page of orders; page and per_page default to 1 and 10
func (s *OrderService) ListOrders(ctx context.Context, q models.OrderListQuery) (json.RawMessage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 10
	}
	return s.gateway.ListOrders(ctx, q)
}

// CancelOrder cancels an order
func (s *OrderService) CancelOrder(ctx context.Context, req models.CancelRequest) (json.RawMessage, error) {
	if err := requireReference(req.ReferenceID); err != nil {
		return nil, err
	}
	return s.gateway.CancelOrder(ctx, req.ReferenceID)
}

// RefundOrder refunds an order.
// An omitted amount is sent as 0; the gateway decides what that means.
func (s *OrderService) RefundOrder(ctx context.Context, req models.RefundRequest) (json.RawMessage, error) {
	if err := requireReference(req.ReferenceID); err != nil {
		return nil, err
	}

	amount := decimal.Zero
	if req.Amount == nil {
		s.log.Warn("refund amount omitted, sending 0", "reference_id", req.ReferenceID)
	} else {
		if req.Amount.IsNegative() {
			return nil, checkout.InvalidAmount("amount", "Refund amount must not be negative")
		}
		amount = req.Amount.Round(2)
	}

	return s.gateway.RefundOrder(ctx, gateway.Refund{ReferenceID: req.ReferenceID, Amount: amount})
}

// TerminateOrder terminates an order
func (s *OrderService) TerminateOrder(ctx context.Context, req models.TerminateRequest) (json.RawMessage, error) {
	if err := requireReference(req.ReferenceID); err != nil {
		return nil, err
	}
	return s.gateway.TerminateOrder(ctx, req.ReferenceID)
}

// ManualCallback asks the gateway to re-deliver an order callback
func (s *OrderService) ManualCallback(ctx context.Context, req models.ManualCallbackRequest) (json.RawMessage, error) {
	if err := requireReference(req.ReferenceID); err != nil {
		return nil, err
	}
	return s.gateway.ManualCallback(ctx, req.ReferenceID, req.ConversationID)
}

// GetOrderSubmerchants returns a page of sub-merchants; page and per_page default to 1 and 10
func (s *OrderService) GetOrderSubmerchants(ctx context.Context, page, perPage int) (json.RawMessage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	return s.gateway.GetOrderSubmerchants(ctx, page, perPage)
}

// GetOrganizationSettings returns the merchant organization settings
func (s *OrderService) GetOrganizationSettings(ctx context.Context) (json.RawMessage, error) {
	return s.gateway.GetOrganizationSettings(ctx)
}

func requireReference(referenceID string) error {
	if strings.TrimSpace(referenceID) == "" {
		return checkout.MissingField("reference_id", "Reference ID is required")
	}
	return nil
}
