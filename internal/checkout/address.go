package checkout

import (
	"strings"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/models"
)

// BillingAddress maps the billing block onto a canonical address
func BillingAddress(b *models.BillingInput) models.Address {
	return models.Address{
		ContactName:  b.ContactName,
		ContactPhone: b.ContactPhone,
		City:         b.City,
		Country:      models.Country,
		Address:      b.Address,
		ZipCode:      b.ZipCode,
		VatNumber:    b.VatNumber,
	}
}

// ResolveShippingAddress returns the billing address verbatim when the
// same-address flag is true or absent, otherwise the supplied shipping address
func ResolveShippingAddress(req *models.CheckoutRequest) (models.Address, error) {
	if SameAddress(req) {
		return BillingAddress(req.Billing), nil
	}

	s := req.Shipping
	if s == nil {
		return models.Address{}, missingField("shipping", "Shipping address information is required")
	}

	required := []struct {
		name  string
		value string
	}{
		{"address", s.Address},
		{"city", s.City},
		{"contact_name", s.ContactName},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return models.Address{}, missingField("shipping."+f.name, "shipping "+f.name+" field is required")
		}
	}

	return models.Address{
		ContactName: s.ContactName,
		City:        s.City,
		Country:     models.Country,
		Address:     s.Address,
		ZipCode:     s.ZipCode,
	}, nil
}
