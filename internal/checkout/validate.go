package checkout

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/models"
)

// AllowedInstallments is the fixed set of installment counts the gateway accepts
var AllowedInstallments = []int{1, 2, 3, 6, 9, 12}

// Validate checks the top-level shape of a checkout request
func Validate(req *models.CheckoutRequest) error {
	if req == nil {
		return missingField("body", "JSON data required")
	}

	if len(req.Cart) == 0 {
		return missingField("cart", "Cart information is required")
	}

	if req.Billing == nil {
		return missingField("billing", "Billing address information is required")
	}

	b := req.Billing
	required := []struct {
		name  string
		value string
	}{
		{"contact_name", b.ContactName},
		{"email", b.Email},
		{"contact_phone", b.ContactPhone},
		{"address", b.Address},
		{"city", b.City},
		{"vat_number", b.VatNumber},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return missingField("billing."+f.name, fmt.Sprintf("%s field is required", f.name))
		}
	}

	if !SameAddress(req) && req.Shipping == nil {
		return missingField("shipping", "Shipping address information is required")
	}

	if req.Installment != nil {
		if _, err := ParseInstallment(req.Installment.String()); err != nil {
			return err
		}
	}

	return nil
}

// SameAddress reports whether shipping mirrors billing; an absent flag means true
func SameAddress(req *models.CheckoutRequest) bool {
	return req.SameAddress == nil || *req.SameAddress
}

// ParseInstallment converts a raw installment value and checks it against AllowedInstallments.
// Integral floats such as "12.0" are accepted.
func ParseInstallment(raw string) (int, error) {
	n, ok := models.ParseIntegral(raw)
	if !ok || !slices.Contains(AllowedInstallments, n) {
		return 0, invalidInstallment("installment")
	}
	return n, nil
}
