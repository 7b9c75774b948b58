package checkout

import (
	"testing"
	"time"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNormalizer() *Normalizer {
	return NewNormalizer("Tapsilat Go Checkout").WithIDGenerator(IDGenerator{
		Now:    func() time.Time { return time.Unix(1700000000, 0) },
		Random: func() string { return "r" },
	})
}

func metadataValue(entries []models.MetadataEntry, key string) (string, bool) {
	for _, e := range entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

func TestNormalize_Example(t *testing.T) {
	order, err := fixedNormalizer().Normalize(validRequest(), RequestMeta{
		SourceIP: "192.0.2.10",
		BaseURL:  "http://localhost:5005/",
	})
	require.NoError(t, err)

	assert.Equal(t, "21.00", order.Amount.StringFixed(2))
	assert.Equal(t, "Ali", order.Buyer.Name)
	assert.Equal(t, "Veli", order.Buyer.Surname)
	assert.Equal(t, "192.0.2.10", order.Buyer.IP)
	require.Len(t, order.Basket, 1)
	assert.Equal(t, "21.00", order.Basket[0].Price.StringFixed(2))
	assert.Equal(t, 1, order.Basket[0].Quantity)

	assert.Equal(t, "TRY", order.Currency)
	assert.Equal(t, "tr", order.Locale)
	assert.Equal(t, order.Billing, order.Shipping)
	assert.Equal(t, "ORDER_1700000000_r", order.ExternalReferenceID)
	assert.Equal(t, "CONV_1700000000_r", order.ConversationID)
	assert.Equal(t, "BUYER_1700000000_r", order.Buyer.ID)
	assert.Equal(t, "http://localhost:5005/payment/success", order.SuccessURL)
	assert.Equal(t, "http://localhost:5005/payment/failure", order.FailureURL)
	assert.Equal(t, AllowedInstallments, order.EnabledInstallments)
	assert.True(t, order.ThreeDForce)

	v, ok := metadataValue(order.Metadata, "cart_items_count")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	v, _ = metadataValue(order.Metadata, "selected_installment")
	assert.Equal(t, "1", v)
	v, _ = metadataValue(order.Metadata, "application_name")
	assert.Equal(t, "Tapsilat Go Checkout", v)
}

func TestNormalize_AmountMatchesBasket(t *testing.T) {
	req := validRequest()
	req.Cart = []models.CartItem{
		item("1", "Pen", "10.555", 3),
		item("2", "Ink", "0.015", 1),
		item("3", "Paper", "99.99", 10),
	}

	order, err := fixedNormalizer().Normalize(req, RequestMeta{})
	require.NoError(t, err)

	sum := decimal.Zero
	for _, line := range order.Basket {
		assert.Equal(t, 1, line.Quantity)
		sum = sum.Add(line.Price)
	}
	assert.True(t, sum.Equal(order.Amount), "basket sum %s != amount %s", sum, order.Amount)
	assert.Empty(t, order.SuccessURL)
}

func TestNormalize_Overrides(t *testing.T) {
	req := validRequest()
	req.Currency = "usd"
	req.Locale = "en"
	req.ConversationID = "client-conv"
	req.Installment = ptr(models.FlexString("6"))
	req.EnabledInstallments = []int{12, 3, 3}
	req.PaymentOptions = []string{"Card"}
	req.ThreeDForce = ptr(false)
	req.SameAddress = ptr(false)
	req.Shipping = &models.ShippingInput{ContactName: "Ayşe Yılmaz", Address: "Y", City: "Izmir"}
	req.Metadata = []models.MetadataEntry{
		{Key: "campaign", Value: "spring"},
		{Key: "customer_city", Value: "override"},
	}

	order, err := fixedNormalizer().Normalize(req, RequestMeta{})
	require.NoError(t, err)

	assert.Equal(t, "USD", order.Currency)
	assert.Equal(t, "en", order.Locale)
	assert.Equal(t, "client-conv", order.ConversationID)
	assert.Equal(t, []int{3, 12}, order.EnabledInstallments)
	assert.Equal(t, []string{"card"}, order.PaymentOptions)
	assert.False(t, order.ThreeDForce)
	assert.Equal(t, "Izmir", order.Shipping.City)
	assert.Equal(t, "Istanbul", order.Billing.City)

	v, _ := metadataValue(order.Metadata, "selected_installment")
	assert.Equal(t, "6", v)
	v, _ = metadataValue(order.Metadata, "same_billing_shipping")
	assert.Equal(t, "false", v)
	v, _ = metadataValue(order.Metadata, "campaign")
	assert.Equal(t, "spring", v)
	v, _ = metadataValue(order.Metadata, "customer_city")
	assert.Equal(t, "override", v)
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *models.CheckoutRequest)
		wantErr error
	}{
		{"validation runs first", func(r *models.CheckoutRequest) { r.Billing.VatNumber = "" }, ErrMissingField},
		{"bad cart line", func(r *models.CheckoutRequest) { r.Cart[0].Quantity = ptr(models.FlexInt(0)) }, ErrInvalidCartLine},
		{"bad enabled installment", func(r *models.CheckoutRequest) { r.EnabledInstallments = []int{4} }, ErrInvalidInstallment},
		{"unsupported payment option", func(r *models.CheckoutRequest) { r.PaymentOptions = []string{"crypto"} }, ErrInvalidOption},
		{"metadata without key", func(r *models.CheckoutRequest) { r.Metadata = []models.MetadataEntry{{Value: "v"}} }, ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := fixedNormalizer().Normalize(req, RequestMeta{})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidationError(err))
		})
	}
}
