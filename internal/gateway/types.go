package gateway

import (
	"encoding/json"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/models"
	"github.com/shopspring/decimal"
)

// OrderCreated is the gateway reply to an order creation
// Every attribute may be absent
type OrderCreated struct {
	ReferenceID *string         `json:"reference_id,omitempty"`
	OrderID     *string         `json:"order_id,omitempty"`
	CheckoutURL *string         `json:"checkout_url,omitempty"`
	Raw         json.RawMessage `json:"-"`
}

// Refund describes a refund against an order
type Refund struct {
	ReferenceID string
	Amount      decimal.Decimal
}

// Subscription is a normalized subscription creation request
type Subscription struct {
	Title       string
	Amount      decimal.Decimal
	Currency    string
	Period      int
	PaymentDate int
	Cycle       int
	CardID      string
	SuccessURL  string
	FailureURL  string
	User        SubscriptionUser
	Billing     models.Address
}

// SubscriptionUser is the subscriber
type SubscriptionUser struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Address        string
	City           string
	Country        string
	ZipCode        string
	IdentityNumber string
}

// SubscriptionCreated is the gateway reply to a subscription creation
type SubscriptionCreated struct {
	ReferenceID      *string         `json:"reference_id,omitempty"`
	OrderReferenceID *string         `json:"order_reference_id,omitempty"`
	Raw              json.RawMessage `json:"-"`
}

// Term is a payment term (one scheduled installment) attached to an order
type Term struct {
	OrderID         string
	TermReferenceID string
	Amount          decimal.Decimal
	DueDate         string
	Sequence        int
	Required        bool
	Status          string
}

// TermUpdate changes a payment term; zero fields are left untouched
type TermUpdate struct {
	TermReferenceID string
	Amount          *decimal.Decimal
	DueDate         string
	Required        *bool
	Status          string
}

// TermRefund refunds a paid term; a nil Amount refunds it in full
type TermRefund struct {
	TermReferenceID string
	Amount          *decimal.Decimal
}
