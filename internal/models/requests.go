package models

import (
	"github.com/shopspring/decimal"
)

// CancelRequest asks the gateway to cancel an order
type CancelRequest struct {
	ReferenceID string `json:"reference_id"`
}

// RefundRequest asks the gateway to refund an order
// Amount is optional and accepts a JSON number or numeric string
type RefundRequest struct {
	ReferenceID string           `json:"reference_id"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
}

// TerminateRequest asks the gateway to terminate an order
type TerminateRequest struct {
	ReferenceID string `json:"reference_id"`
}

// ManualCallbackRequest asks the gateway to re-send an order callback
type ManualCallbackRequest struct {
	ReferenceID    string `json:"reference_id"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// OrderListQuery filters the gateway order listing
type OrderListQuery struct {
	Page               int
	PerPage            int
	StartDate          string
	EndDate            string
	OrganizationID     string
	RelatedReferenceID string
}

// SubscriptionRequest represents a subscription creation request
type SubscriptionRequest struct {
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	Period          int             `json:"period"`
	PaymentDate     int             `json:"payment_date"`
	Cycle           int             `json:"cycle,omitempty"`
	CardID          string          `json:"card_id,omitempty"`
	SubscriberName  string          `json:"subscriber_name,omitempty"`
	SubscriberEmail string          `json:"subscriber_email"`
	SubscriberPhone string          `json:"subscriber_phone"`
	Address         string          `json:"address,omitempty"`
	City            string          `json:"city,omitempty"`
	ZipCode         string          `json:"zip_code,omitempty"`
	IdentityNumber  string          `json:"identity_number,omitempty"`
}

// SubscriptionCancelRequest cancels a subscription by reference
type SubscriptionCancelRequest struct {
	SubscriptionID string `json:"subscription_id"`
}

// TermCreateRequest adds a payment term to an order.
// OrderID may be omitted when OrderReferenceID identifies the order.
type TermCreateRequest struct {
	OrderID          string          `json:"order_id,omitempty"`
	OrderReferenceID string          `json:"order_reference_id,omitempty"`
	TermReferenceID  string          `json:"term_reference_id,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	DueDate          string          `json:"due_date"`
	TermSequence     int             `json:"term_sequence,omitempty"`
	Required         *bool           `json:"required,omitempty"`
	Status           string          `json:"status,omitempty"`
}

// TermUpdateRequest changes a payment term; omitted fields are left as they are
type TermUpdateRequest struct {
	TermReferenceID string           `json:"term_reference_id"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	DueDate         string           `json:"due_date,omitempty"`
	Required        *bool            `json:"required,omitempty"`
	Status          string           `json:"status,omitempty"`
}

// TermDeleteRequest removes a payment term
type TermDeleteRequest struct {
	OrderID         string `json:"order_id,omitempty"`
	TermReferenceID string `json:"term_reference_id"`
}

// TermRefundRequest refunds a paid payment term
type TermRefundRequest struct {
	TermReferenceID string           `json:"term_reference_id"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
}

// PaymentCallback holds the parameters the gateway appends to redirect URLs
type PaymentCallback struct {
	ReferenceID    string
	ConversationID string
	Status         string
	ErrorMessage   string
	Params         map[string]string
}
