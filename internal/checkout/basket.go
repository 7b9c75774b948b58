package checkout

import (
	"fmt"
	"strings"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/models"
	"github.com/shopspring/decimal"
)

const (
	defaultCategory  = "Electronics"
	itemTypePhysical = "PHYSICAL"
)

// BuildBasket flattens cart items into basket lines priced as line totals.
// Every emitted line has quantity 1.
func BuildBasket(items []models.CartItem) ([]models.BasketLine, error) {
	lines := make([]models.BasketLine, 0, len(items))

	for i, item := range items {
		if item.ID == nil || item.Name == nil || item.Price == nil || item.Quantity == nil {
			return nil, missingField(
				fmt.Sprintf("cart[%d]", i),
				"id, name, price and quantity fields required in cart items",
			)
		}

		if item.Price.IsNegative() {
			return nil, invalidCartLine(fmt.Sprintf("cart[%d].price", i), "Cart item price must not be negative")
		}
		if *item.Quantity < 1 {
			return nil, invalidCartLine(fmt.Sprintf("cart[%d].quantity", i), "Cart item quantity must be at least 1")
		}

		category := strings.TrimSpace(item.Category)
		if category == "" {
			category = defaultCategory
		}

		lines = append(lines, models.BasketLine{
			ID:       item.ID.String(),
			Name:     *item.Name,
			Category: category,
			ItemType: itemTypePhysical,
			Price:    LineTotal(*item.Price, item.Quantity.Int()),
			Quantity: 1,
		})
	}

	return lines, nil
}

// LineTotal returns unitPrice × quantity rounded to 2 places.
// The unit price is rounded to 2 places first.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Round(2).Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// ComputeOrderTotal sums basket line totals, rounded to 2 places.
// This is the authoritative order amount.
func ComputeOrderTotal(basket []models.BasketLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range basket {
		total = total.Add(line.Price)
	}
	return total.Round(2)
}
