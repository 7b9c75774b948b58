package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/checkout"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/gateway"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/models"
)

const (
	termReferencePrefix = "TRM"
	defaultTermStatus   = "WAITING"
)

// TermGateway is the subset of the payment gateway client used for payment terms
type TermGateway interface {
	GetOrder(ctx context.Context, referenceID string) (json.RawMessage, error)
	CreateOrderTerm(ctx context.Context, term *gateway.Term) (json.RawMessage, error)
	GetOrderTerm(ctx context.Context, termReferenceID string) (json.RawMessage, error)
	UpdateOrderTerm(ctx context.Context, update gateway.TermUpdate) (json.RawMessage, error)
	DeleteOrderTerm(ctx context.Context, orderID, termReferenceID string) (json.RawMessage, error)
	RefundOrderTerm(ctx context.Context, refund gateway.TermRefund) (json.RawMessage, error)
}

// TermService manages the payment terms of installment orders
type TermService struct {
	gateway TermGateway
	log     *slog.Logger
}

// NewTermService creates a new term service
func NewTermService(gw TermGateway, log *slog.Logger) *TermService {
	return &TermService{gateway: gw, log: log}
}

// Create validates req, applies defaults and adds the term.
// When only order_reference_id is given the order ID is looked up first.
func (s *TermService) Create(ctx context.Context, req models.TermCreateRequest) (json.RawMessage, error) {
	if !req.Amount.IsPositive() {
		return nil, checkout.InvalidAmount("amount", "Term amount must be positive")
	}
	if strings.TrimSpace(req.DueDate) == "" {
		return nil, checkout.MissingField("due_date", "due_date field is required")
	}

	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		if strings.TrimSpace(req.OrderReferenceID) == "" {
			return nil, checkout.MissingField("order_id", "order_id or order_reference_id is required")
		}
		resolved, err := s.resolveOrderID(ctx, req.OrderReferenceID)
		if err != nil {
			return nil, err
		}
		orderID = resolved
	}

	term := &gateway.Term{
		OrderID:         orderID,
		TermReferenceID: req.TermReferenceID,
		Amount:          req.Amount.Round(2),
		DueDate:         req.DueDate,
		Sequence:        req.TermSequence,
		Required:        true,
		Status:          req.Status,
	}
	if term.TermReferenceID == "" {
		term.TermReferenceID = checkout.NewReferenceID(termReferencePrefix)
	}
	if term.Sequence < 1 {
		term.Sequence = 1
	}
	if req.Required != nil {
		term.Required = *req.Required
	}
	if term.Status == "" {
		term.Status = defaultTermStatus
	}

	s.log.Info("creating order term",
		"order_id", term.OrderID,
		"term_reference_id", term.TermReferenceID,
		"amount", term.Amount.StringFixed(2),
	)

	return s.gateway.CreateOrderTerm(ctx, term)
}

// Get returns a payment term
func (s *TermService) Get(ctx context.Context, termReferenceID string) (json.RawMessage, error) {
	if err := requireTermReference(termReferenceID); err != nil {
		return nil, err
	}
	return s.gateway.GetOrderTerm(ctx, termReferenceID)
}

// Update changes a payment term
func (s *TermService) Update(ctx context.Context, req models.TermUpdateRequest) (json.RawMessage, error) {
	if err := requireTermReference(req.TermReferenceID); err != nil {
		return nil, err
	}
	update := gateway.TermUpdate{
		TermReferenceID: req.TermReferenceID,
		DueDate:         req.DueDate,
		Required:        req.Required,
		Status:          req.Status,
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, checkout.InvalidAmount("amount", "Term amount must be positive")
		}
		amount := req.Amount.Round(2)
		update.Amount = &amount
	}
	return s.gateway.UpdateOrderTerm(ctx, update)
}

// Delete removes a payment term
func (s *TermService) Delete(ctx context.Context, req models.TermDeleteRequest) (json.RawMessage, error) {
	if err := requireTermReference(req.TermReferenceID); err != nil {
		return nil, err
	}
	return s.gateway.DeleteOrderTerm(ctx, req.OrderID, req.TermReferenceID)
}

// Refund refunds a payment term; an omitted amount refunds the whole term
func (s *TermService) Refund(ctx context.Context, req models.TermRefundRequest) (json.RawMessage, error) {
	if err := requireTermReference(req.TermReferenceID); err != nil {
		return nil, err
	}
	refund := gateway.TermRefund{TermReferenceID: req.TermReferenceID}
	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, checkout.InvalidAmount("amount", "Refund amount must not be negative")
		}
		amount := req.Amount.Round(2)
		refund.Amount = &amount
	}
	return s.gateway.RefundOrderTerm(ctx, refund)
}

func (s *TermService) resolveOrderID(ctx context.Context, referenceID string) (string, error) {
	raw, err := s.gateway.GetOrder(ctx, referenceID)
	if err != nil {
		return "", err
	}

	var order struct {
		ID      string `json:"id"`
		OrderID string `json:"order_id"`
	}
	if err := json.Unmarshal(raw, &order); err != nil {
		return "", fmt.Errorf("decode order %s: %w", referenceID, err)
	}
	if order.ID != "" {
		return order.ID, nil
	}
	if order.OrderID != "" {
		return order.OrderID, nil
	}
	return "", checkout.MissingField("order_id", "Order "+referenceID+" has no order_id")
}

func requireTermReference(termReferenceID string) error {
	if strings.TrimSpace(termReferenceID) == "" {
		return checkout.MissingField("term_reference_id", "Term reference ID is required")
	}
	return nil
}
