package checkout

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func item(id, name, price string, qty int) models.CartItem {
	fid := models.FlexString(id)
	return models.CartItem{
		ID:       &fid,
		Name:     ptr(name),
		Price:    ptr(decimal.RequireFromString(price)),
		Quantity: ptr(models.FlexInt(qty)),
	}
}

func validBilling() *models.BillingInput {
	return &models.BillingInput{
		ContactName:  "Ali Veli",
		Email:        "a@b.com",
		ContactPhone: "5551234567",
		Address:      "X",
		City:         "Istanbul",
		VatNumber:    "1234567890",
	}
}

func validRequest() *models.CheckoutRequest {
	return &models.CheckoutRequest{
		Cart:    []models.CartItem{item("1", "Pen", "10.5", 2)},
		Billing: validBilling(),
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *models.CheckoutRequest)
		wantErr error
		field   string
	}{
		{name: "valid", mutate: func(r *models.CheckoutRequest) {}},
		{
			name:    "cart absent",
			mutate:  func(r *models.CheckoutRequest) { r.Cart = nil },
			wantErr: ErrMissingField,
			field:   "cart",
		},
		{
			name:    "billing absent",
			mutate:  func(r *models.CheckoutRequest) { r.Billing = nil },
			wantErr: ErrMissingField,
			field:   "billing",
		},
		{
			name:    "vat number absent",
			mutate:  func(r *models.CheckoutRequest) { r.Billing.VatNumber = "" },
			wantErr: ErrMissingField,
			field:   "billing.vat_number",
		},
		{
			name:    "blank contact phone",
			mutate:  func(r *models.CheckoutRequest) { r.Billing.ContactPhone = "   " },
			wantErr: ErrMissingField,
			field:   "billing.contact_phone",
		},
		{
			name:    "distinct shipping requested but absent",
			mutate:  func(r *models.CheckoutRequest) { r.SameAddress = ptr(false) },
			wantErr: ErrMissingField,
			field:   "shipping",
		},
		{
			name:   "same address true without shipping",
			mutate: func(r *models.CheckoutRequest) { r.SameAddress = ptr(true) },
		},
		{
			name:    "installment 4",
			mutate:  func(r *models.CheckoutRequest) { r.Installment = ptr(models.FlexString("4")) },
			wantErr: ErrInvalidInstallment,
			field:   "installment",
		},
		{
			name:   "installment 12",
			mutate: func(r *models.CheckoutRequest) { r.Installment = ptr(models.FlexString("12")) },
		},
		{
			name:    "installment not a number",
			mutate:  func(r *models.CheckoutRequest) { r.Installment = ptr(models.FlexString("six")) },
			wantErr: ErrInvalidInstallment,
			field:   "installment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := Validate(req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidate_NilRequest(t *testing.T) {
	assert.ErrorIs(t, Validate(nil), ErrMissingField)
}

func TestBuildBasket(t *testing.T) {
	t.Run("flattens quantity into line total", func(t *testing.T) {
		lines, err := BuildBasket([]models.CartItem{
			item("1", "Pen", "10.5", 2),
			item("sku-2", "Notebook", "3.333", 3),
			item("3", "Eraser", "0.1", 7),
		})
		require.NoError(t, err)
		require.Len(t, lines, 3)

		want := []string{"21", "9.99", "0.7"}
		for i, line := range lines {
			assert.Equal(t, 1, line.Quantity, "line %d quantity", i)
			assert.True(t, line.Price.Equal(decimal.RequireFromString(want[i])), "line %d price = %s, want %s", i, line.Price, want[i])
			assert.Equal(t, "PHYSICAL", line.ItemType)
			assert.Equal(t, "Electronics", line.Category)
		}
		assert.Equal(t, "sku-2", lines[1].ID)
	})

	t.Run("keeps supplied category", func(t *testing.T) {
		it := item("1", "Pen", "1", 1)
		it.Category = "Stationery"

		lines, err := BuildBasket([]models.CartItem{it})
		require.NoError(t, err)
		assert.Equal(t, "Stationery", lines[0].Category)
	})

	missing := []struct {
		name   string
		mutate func(*models.CartItem)
	}{
		{"id", func(c *models.CartItem) { c.ID = nil }},
		{"name", func(c *models.CartItem) { c.Name = nil }},
		{"price", func(c *models.CartItem) { c.Price = nil }},
		{"quantity", func(c *models.CartItem) { c.Quantity = nil }},
	}
	for _, m := range missing {
		t.Run("missing "+m.name, func(t *testing.T) {
			it := item("1", "Pen", "1", 1)
			m.mutate(&it)

			_, err := BuildBasket([]models.CartItem{it})
			assert.ErrorIs(t, err, ErrMissingField)
		})
	}

	t.Run("zero quantity", func(t *testing.T) {
		_, err := BuildBasket([]models.CartItem{item("1", "Pen", "1", 0)})
		assert.ErrorIs(t, err, ErrInvalidCartLine)
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := BuildBasket([]models.CartItem{item("1", "Pen", "-1", 1)})
		assert.ErrorIs(t, err, ErrInvalidCartLine)
	})
}

func TestComputeOrderTotal_OrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		var items []models.CartItem
		want := decimal.Zero
		for i := 0; i < 1+rng.Intn(8); i++ {
			price := decimal.New(int64(rng.Intn(100000)), -3) // up to 99.999
			qty := 1 + rng.Intn(9)
			items = append(items, item("x", "y", price.String(), qty))
			want = want.Add(price.Round(2).Mul(decimal.NewFromInt(int64(qty))).Round(2))
		}
		want = want.Round(2)

		basket, err := BuildBasket(items)
		require.NoError(t, err)
		got := ComputeOrderTotal(basket)
		assert.True(t, got.Equal(want), "total = %s, want %s", got, want)

		rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
		shuffled, err := BuildBasket(items)
		require.NoError(t, err)
		assert.True(t, ComputeOrderTotal(shuffled).Equal(got), "total depends on item order")
	}
}

func TestResolveShippingAddress(t *testing.T) {
	shipping := &models.ShippingInput{
		ContactName: "Ayşe Yılmaz",
		Address:     "Bağdat Cd. 1",
		City:        "Ankara",
		ZipCode:     "06000",
	}

	t.Run("flag omitted mirrors billing", func(t *testing.T) {
		req := validRequest()
		req.Shipping = shipping

		got, err := ResolveShippingAddress(req)
		require.NoError(t, err)
		assert.Equal(t, BillingAddress(req.Billing), got)
	})

	t.Run("flag true mirrors billing", func(t *testing.T) {
		req := validRequest()
		req.SameAddress = ptr(true)
		req.Shipping = shipping

		got, err := ResolveShippingAddress(req)
		require.NoError(t, err)
		assert.Equal(t, BillingAddress(req.Billing), got)
	})

	t.Run("flag false uses shipping", func(t *testing.T) {
		req := validRequest()
		req.SameAddress = ptr(false)
		req.Shipping = shipping

		got, err := ResolveShippingAddress(req)
		require.NoError(t, err)
		assert.Equal(t, models.Address{
			ContactName: "Ayşe Yılmaz",
			City:        "Ankara",
			Country:     "Turkey",
			Address:     "Bağdat Cd. 1",
			ZipCode:     "06000",
		}, got)
	})

	t.Run("shipping missing city", func(t *testing.T) {
		req := validRequest()
		req.SameAddress = ptr(false)
		req.Shipping = &models.ShippingInput{ContactName: "A", Address: "B"}

		_, err := ResolveShippingAddress(req)
		assert.ErrorIs(t, err, ErrMissingField)
	})
}

func TestBuildBuyer(t *testing.T) {
	tests := []struct {
		contactName string
		first, last string
	}{
		{"Ayşe Yılmaz", "Ayşe", "Yılmaz"},
		{"Madonna", "Madonna", ""},
		{"Mehmet Ali Birand", "Mehmet", "Ali Birand"},
	}

	for _, tt := range tests {
		t.Run(tt.contactName, func(t *testing.T) {
			b := validBilling()
			b.ContactName = tt.contactName

			buyer := BuildBuyer(b, "10.0.0.1")
			assert.Equal(t, tt.first, buyer.Name)
			assert.Equal(t, tt.last, buyer.Surname)
			assert.Equal(t, "Turkey", buyer.Country)
			assert.Equal(t, "10.0.0.1", buyer.IP)
			assert.Equal(t, b.Email, buyer.Email)
		})
	}
}

func TestReferenceID(t *testing.T) {
	t.Run("distinct within the same second", func(t *testing.T) {
		frozen := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		gen := IDGenerator{Now: func() time.Time { return frozen }}

		seen := make(map[string]struct{}, 1000)
		for i := 0; i < 1000; i++ {
			id := gen.Reference("ORDER")
			_, dup := seen[id]
			require.False(t, dup, "duplicate reference %s", id)
			seen[id] = struct{}{}
		}
	})

	t.Run("format", func(t *testing.T) {
		gen := IDGenerator{
			Now:    func() time.Time { return time.Unix(1700000000, 0) },
			Random: func() string { return "abcd" },
		}
		assert.Equal(t, "ORDER_1700000000_abcd", gen.Reference(""))
		assert.Equal(t, "CONV_1700000000_abcd", gen.Reference("CONV"))
	})

	t.Run("package default", func(t *testing.T) {
		id := NewReferenceID("ORDER")
		parts := strings.Split(id, "_")
		require.Len(t, parts, 3)
		assert.Equal(t, "ORDER", parts[0])
		assert.Len(t, parts[2], 16)
		assert.NotEqual(t, id, NewReferenceID("ORDER"))
	})
}

func TestDecodeRequest(t *testing.T) {
	t.Run("numeric id and string installment", func(t *testing.T) {
		body := `{"cart":[{"id":1,"name":"Pen","price":10.5,"quantity":2}],"installment":"3",
			"billing":{"contact_name":"Ali Veli","email":"a@b.com","contact_phone":"5551234567","address":"X","city":"Istanbul","vat_number":"1234567890"}}`

		req, err := DecodeRequest(strings.NewReader(body))
		require.NoError(t, err)
		require.Len(t, req.Cart, 1)
		assert.Equal(t, "1", req.Cart[0].ID.String())
		assert.Equal(t, "3", req.Installment.String())
		require.NoError(t, Validate(req))
	})

	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"empty body", ``, ErrMissingField},
		{"malformed", `{"cart":`, ErrMissingField},
		{"cart not a sequence", `{"cart":{"id":1}}`, ErrMissingField},
		{"cart line quantity wrong type", `{"cart":[{"id":1,"name":"Pen","price":1,"quantity":"x"}]}`, ErrInvalidCartLine},
		{"installment bool", `{"installment":true}`, ErrInvalidInstallment},
		{"cart line fractional quantity", `{"cart":[{"id":1,"name":"Pen","price":1,"quantity":2.5}]}`, ErrInvalidCartLine},
		{"billing field bool", `{"billing":{"vat_number":true}}`, ErrMissingField},
		{"billing not an object", `{"billing":"x"}`, ErrMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRequest(strings.NewReader(tt.body))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecodeRequest_LenientNumbers(t *testing.T) {
	const billing = `"billing":{"contact_name":"Ali Veli","email":"a@b.com","contact_phone":5551234567,"address":"X","city":"Istanbul","vat_number":%s,"zip_code":34000}`

	tests := []struct {
		name            string
		cart            string
		installment     string
		vatNumber       string
		wantInstallment string
	}{
		{"example body", `{"id":"1","name":"Pen","price":10.5,"quantity":2}`, `"installment":3`, `"1234567890"`, "3"},
		{"integral float installment", `{"id":"1","name":"Pen","price":10.5,"quantity":2}`, `"installment":12.0`, `"1234567890"`, "12"},
		{"string quantity", `{"id":"1","name":"Pen","price":10.5,"quantity":"2"}`, `"installment":3`, `"1234567890"`, "3"},
		{"float quantity", `{"id":"1","name":"Pen","price":10.5,"quantity":2.0}`, `"installment":3`, `"1234567890"`, "3"},
		{"numeric vat number", `{"id":"1","name":"Pen","price":10.5,"quantity":2}`, `"installment":3`, `1234567890`, "3"},
		{"null installment defaults to single payment", `{"id":"1","name":"Pen","price":10.5,"quantity":2}`, `"installment":null`, `"1234567890"`, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"cart":[` + tt.cart + `],` + tt.installment + `,` + fmt.Sprintf(billing, tt.vatNumber) + `}`

			req, err := DecodeRequest(strings.NewReader(body))
			require.NoError(t, err)
			assert.Equal(t, "1234567890", req.Billing.VatNumber)
			assert.Equal(t, "5551234567", req.Billing.ContactPhone)
			assert.Equal(t, "34000", req.Billing.ZipCode)

			order, err := fixedNormalizer().Normalize(req, RequestMeta{})
			require.NoError(t, err)
			assert.Equal(t, "21.00", order.Amount.StringFixed(2))
			require.Len(t, order.Basket, 1)
			assert.Equal(t, 1, order.Basket[0].Quantity)

			got, ok := metadataValue(order.Metadata, "selected_installment")
			require.True(t, ok)
			assert.Equal(t, tt.wantInstallment, got)
		})
	}
}

func TestParseInstallment(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{" 6 ", 6, false},
		{"12.0", 12, false},
		{"12.5", 0, true},
		{"5", 0, true},
		{"", 0, true},
		{"six", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseInstallment(tt.raw)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidInstallment, "raw %q", tt.raw)
			continue
		}
		require.NoError(t, err, "raw %q", tt.raw)
		assert.Equal(t, tt.want, got)
	}
}
