package models

import (
	"github.com/shopspring/decimal"
)

// Country is fixed for every address and buyer in this domain
const Country = "Turkey"

// OrderRequest is the canonical order handed to the payment gateway
// Amount always equals the sum of Basket line prices
type OrderRequest struct {
	Amount              decimal.Decimal `json:"amount"`
	Currency            string          `json:"currency"`
	Locale              string          `json:"locale"`
	Buyer               Buyer           `json:"buyer"`
	Basket              []BasketLine    `json:"basket_items"`
	Billing             Address         `json:"billing_address"`
	Shipping            Address         `json:"shipping_address"`
	ExternalReferenceID string          `json:"external_reference_id"`
	ConversationID      string          `json:"conversation_id"`
	Description         string          `json:"description,omitempty"`
	SuccessURL          string          `json:"payment_success_url,omitempty"`
	FailureURL          string          `json:"payment_failure_url,omitempty"`
	EnabledInstallments []int           `json:"enabled_installments,omitempty"`
	PaymentOptions      []string        `json:"payment_options,omitempty"`
	ThreeDForce         bool            `json:"three_d_force"`
	Metadata            []MetadataEntry `json:"metadata,omitempty"`
}

// BasketLine is a single priced entry expressed as a flattened line total
type BasketLine struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category1"`
	ItemType string          `json:"item_type"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Address is a billing or shipping address
type Address struct {
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone,omitempty"`
	City         string `json:"city"`
	Country      string `json:"country"`
	Address      string `json:"address"`
	ZipCode      string `json:"zip_code,omitempty"`
	VatNumber    string `json:"vat_number,omitempty"`
}

// Buyer describes the paying customer
type Buyer struct {
	ID                  string `json:"id,omitempty"`
	Name                string `json:"name"`
	Surname             string `json:"surname"`
	Email               string `json:"email"`
	GsmNumber           string `json:"gsm_number"`
	IdentityNumber      string `json:"identity_number,omitempty"`
	RegistrationAddress string `json:"registration_address,omitempty"`
	City                string `json:"city"`
	Country             string `json:"country"`
	ZipCode             string `json:"zip_code,omitempty"`
	IP                  string `json:"ip,omitempty"`
}
