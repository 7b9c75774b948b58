package checkout

import (
	"strings"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/models"
)

// BuildBuyer derives the buyer from the billing block.
// The contact name is split on its first space; sourceIP may be empty.
func BuildBuyer(b *models.BillingInput, sourceIP string) models.Buyer {
	first, last := SplitName(b.ContactName)

	return models.Buyer{
		Name:                first,
		Surname:             last,
		Email:               b.Email,
		GsmNumber:           b.ContactPhone,
		IdentityNumber:      b.VatNumber,
		RegistrationAddress: b.Address,
		City:                b.City,
		Country:             models.Country,
		ZipCode:             b.ZipCode,
		IP:                  sourceIP,
	}
}

// SplitName splits on the first space only
func SplitName(fullName string) (first, last string) {
	first, last, _ = strings.Cut(fullName, " ")
	return first, last
}
