package gateway

import (
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/models"
	"github.com/shopspring/decimal"
)

// Wire shapes; amounts travel as JSON numbers

type orderPayload struct {
	Locale              string                 `json:"locale"`
	Currency            string                 `json:"currency"`
	Amount              float64                `json:"amount"`
	ConversationID      string                 `json:"conversation_id,omitempty"`
	ExternalReferenceID string                 `json:"external_reference_id"`
	Description         string                 `json:"description,omitempty"`
	PaymentSuccessURL   string                 `json:"payment_success_url,omitempty"`
	PaymentFailureURL   string                 `json:"payment_failure_url,omitempty"`
	EnabledInstallments []int                  `json:"enabled_installments,omitempty"`
	PaymentOptions      []string               `json:"payment_options,omitempty"`
	ThreeDForce         bool                   `json:"three_d_force"`
	Buyer               models.Buyer           `json:"buyer"`
	BillingAddress      billingAddressPayload  `json:"billing_address"`
	ShippingAddress     shippingAddressPayload `json:"shipping_address"`
	BasketItems         []basketItemPayload    `json:"basket_items"`
	Metadata            []models.MetadataEntry `json:"metadata,omitempty"`
}

type basketItemPayload struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category1 string  `json:"category1"`
	ItemType  string  `json:"item_type"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type billingAddressPayload struct {
	BillingType  string `json:"billing_type"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone,omitempty"`
	Title        string `json:"title,omitempty"`
	City         string `json:"city"`
	Country      string `json:"country"`
	Address      string `json:"address"`
	ZipCode      string `json:"zip_code,omitempty"`
	VatNumber    string `json:"vat_number,omitempty"`
}

type shippingAddressPayload struct {
	ContactName string `json:"contact_name"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Address     string `json:"address"`
	ZipCode     string `json:"zip_code,omitempty"`
}

type referencePayload struct {
	ReferenceID    string `json:"reference_id"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type refundPayload struct {
	ReferenceID string  `json:"reference_id"`
	Amount      float64 `json:"amount"`
}

type subscriptionCancelPayload struct {
	ReferenceID    string `json:"reference_id"`
	SubscriptionID string `json:"subscription_id"`
}

type subscriptionPayload struct {
	Title       string                  `json:"title"`
	Amount      float64                 `json:"amount"`
	Currency    string                  `json:"currency"`
	Period      int                     `json:"period"`
	PaymentDate int                     `json:"payment_date"`
	Cycle       int                     `json:"cycle"`
	CardID      string                  `json:"card_id,omitempty"`
	SuccessURL  string                  `json:"success_url,omitempty"`
	FailureURL  string                  `json:"failure_url,omitempty"`
	User        subscriptionUserPayload `json:"user"`
	Billing     shippingAddressPayload  `json:"billing"`
}

type subscriptionUserPayload struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address,omitempty"`
	City           string `json:"city,omitempty"`
	Country        string `json:"country,omitempty"`
	ZipCode        string `json:"zip_code,omitempty"`
	IdentityNumber string `json:"identity_number,omitempty"`
}

func newOrderPayload(o *models.OrderRequest) orderPayload {
	items := make([]basketItemPayload, 0, len(o.Basket))
	for _, line := range o.Basket {
		items = append(items, basketItemPayload{
			ID:        line.ID,
			Name:      line.Name,
			Category1: line.Category,
			ItemType:  line.ItemType,
			Price:     line.Price.InexactFloat64(),
			Quantity:  line.Quantity,
		})
	}

	return orderPayload{
		Locale:              o.Locale,
		Currency:            o.Currency,
		Amount:              o.Amount.InexactFloat64(),
		ConversationID:      o.ConversationID,
		ExternalReferenceID: o.ExternalReferenceID,
		Description:         o.Description,
		PaymentSuccessURL:   o.SuccessURL,
		PaymentFailureURL:   o.FailureURL,
		EnabledInstallments: o.EnabledInstallments,
		PaymentOptions:      o.PaymentOptions,
		ThreeDForce:         o.ThreeDForce,
		Buyer:               o.Buyer,
		BillingAddress: billingAddressPayload{
			BillingType:  "PERSONAL",
			ContactName:  o.Billing.ContactName,
			ContactPhone: o.Billing.ContactPhone,
			Title:        o.Billing.ContactName,
			City:         o.Billing.City,
			Country:      o.Billing.Country,
			Address:      o.Billing.Address,
			ZipCode:      o.Billing.ZipCode,
			VatNumber:    o.Billing.VatNumber,
		},
		ShippingAddress: shippingAddressPayload{
			ContactName: o.Shipping.ContactName,
			City:        o.Shipping.City,
			Country:     o.Shipping.Country,
			Address:     o.Shipping.Address,
			ZipCode:     o.Shipping.ZipCode,
		},
		BasketItems: items,
		Metadata:    o.Metadata,
	}
}

func newSubscriptionPayload(s *Subscription) subscriptionPayload {
	return subscriptionPayload{
		Title:       s.Title,
		Amount:      s.Amount.InexactFloat64(),
		Currency:    s.Currency,
		Period:      s.Period,
		PaymentDate: s.PaymentDate,
		Cycle:       s.Cycle,
		CardID:      s.CardID,
		SuccessURL:  s.SuccessURL,
		FailureURL:  s.FailureURL,
		User: subscriptionUserPayload{
			FirstName:      s.User.FirstName,
			LastName:       s.User.LastName,
			Email:          s.User.Email,
			Phone:          s.User.Phone,
			Address:        s.User.Address,
			City:           s.User.City,
			Country:        s.User.Country,
			ZipCode:        s.User.ZipCode,
			IdentityNumber: s.User.IdentityNumber,
		},
		Billing: shippingAddressPayload{
			ContactName: s.Billing.ContactName,
			City:        s.Billing.City,
			Country:     s.Billing.Country,
			Address:     s.Billing.Address,
			ZipCode:     s.Billing.ZipCode,
		},
	}
}

type termPayload struct {
	OrderID         string  `json:"order_id"`
	TermReferenceID string  `json:"term_reference_id"`
	Amount          float64 `json:"amount"`
	DueDate         string  `json:"due_date"`
	TermSequence    int     `json:"term_sequence"`
	Required        bool    `json:"required"`
	Status          string  `json:"status"`
}

type termUpdatePayload struct {
	TermReferenceID string   `json:"term_reference_id"`
	Amount          *float64 `json:"amount,omitempty"`
	DueDate         string   `json:"due_date,omitempty"`
	Required        *bool    `json:"required,omitempty"`
	Status          string   `json:"status,omitempty"`
}

type termDeletePayload struct {
	OrderID         string `json:"order_id,omitempty"`
	TermReferenceID string `json:"term_reference_id"`
}

type termRefundPayload struct {
	TermID      string   `json:"term_id"`
	ReferenceID string   `json:"reference_id"`
	Amount      *float64 `json:"amount,omitempty"`
}

func optionalFloat(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}
