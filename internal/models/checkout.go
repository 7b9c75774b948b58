package models

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
)

// CheckoutRequest represents an incoming checkout form submission
// Pointer fields distinguish "absent" from a zero value
type CheckoutRequest struct {
	Cart                []CartItem      `json:"cart"`
	Billing             *BillingInput   `json:"billing"`
	Shipping            *ShippingInput  `json:"shipping,omitempty"`
	SameAddress         *bool           `json:"same_address,omitempty"`
	Installment         *FlexString     `json:"installment,omitempty"`
	EnabledInstallments []int           `json:"enabled_installments,omitempty"`
	PaymentOptions      []string        `json:"payment_options,omitempty"`
	ThreeDForce         *bool           `json:"three_d_force,omitempty"`
	Currency            string          `json:"currency,omitempty"`
	Locale              string          `json:"locale,omitempty"`
	ConversationID      string          `json:"conversation_id,omitempty"`
	Description         string          `json:"description,omitempty"`
	Metadata            []MetadataEntry `json:"metadata,omitempty"`
}

// CartItem is a single client-supplied cart entry
type CartItem struct {
	ID       *FlexString      `json:"id"`
	Name     *string          `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Quantity *FlexInt         `json:"quantity"`
	Category string           `json:"category,omitempty"`
}

// BillingInput is the billing block of a checkout form
type BillingInput struct {
	ContactName  string `json:"contact_name"`
	Email        string `json:"email"`
	ContactPhone string `json:"contact_phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	VatNumber    string `json:"vat_number"`
	ZipCode      string `json:"zip_code,omitempty"`
}

// UnmarshalJSON accepts numbers as well as strings for every field,
// so a numeric vat_number or zip_code is kept as its text
func (b *BillingInput) UnmarshalJSON(data []byte) error {
	var raw struct {
		ContactName  FlexString `json:"contact_name"`
		Email        FlexString `json:"email"`
		ContactPhone FlexString `json:"contact_phone"`
		Address      FlexString `json:"address"`
		City         FlexString `json:"city"`
		VatNumber    FlexString `json:"vat_number"`
		ZipCode      FlexString `json:"zip_code"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*b = BillingInput{
		ContactName:  raw.ContactName.String(),
		Email:        raw.Email.String(),
		ContactPhone: raw.ContactPhone.String(),
		Address:      raw.Address.String(),
		City:         raw.City.String(),
		VatNumber:    raw.VatNumber.String(),
		ZipCode:      raw.ZipCode.String(),
	}
	return nil
}

// ShippingInput is the optional distinct shipping block of a checkout form
type ShippingInput struct {
	ContactName string `json:"contact_name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	ZipCode     string `json:"zip_code,omitempty"`
}

// UnmarshalJSON accepts numbers as well as strings for every field
func (s *ShippingInput) UnmarshalJSON(data []byte) error {
	var raw struct {
		ContactName FlexString `json:"contact_name"`
		Address     FlexString `json:"address"`
		City        FlexString `json:"city"`
		ZipCode     FlexString `json:"zip_code"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = ShippingInput{
		ContactName: raw.ContactName.String(),
		Address:     raw.Address.String(),
		City:        raw.City.String(),
		ZipCode:     raw.ZipCode.String(),
	}
	return nil
}

// MetadataEntry is a key/value pair attached to an order
type MetadataEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// FlexString accepts either a JSON string or a JSON number and keeps its text
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return &json.UnmarshalTypeError{Value: string(data), Type: reflect.TypeOf(*f)}
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the raw text
func (f FlexString) String() string {
	return string(f)
}

// FlexInt accepts a JSON integer, an integral float such as 2.0, or a
// numeric string such as "2"
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler
func (n *FlexInt) UnmarshalJSON(data []byte) error {
	var text FlexString
	if err := text.UnmarshalJSON(data); err != nil {
		return &json.UnmarshalTypeError{Value: string(data), Type: reflect.TypeOf(*n)}
	}

	v, ok := ParseIntegral(text.String())
	if !ok {
		return &json.UnmarshalTypeError{Value: string(data), Type: reflect.TypeOf(*n)}
	}
	*n = FlexInt(v)
	return nil
}

// Int returns the value as an int
func (n FlexInt) Int() int {
	return int(n)
}

// ParseIntegral parses "3", "3.0" or "3e0" as 3; fractional or
// non-numeric text is rejected
func ParseIntegral(s string) (int, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsInteger() {
		return 0, false
	}
	return int(d.IntPart()), true
}
