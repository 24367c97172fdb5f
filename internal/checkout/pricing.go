package checkout

import (
	"github.com/fjod/go_pos/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Subtotal sums the line totals. Price already covers the quantity.
func Subtotal(items []domain.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}
	return total
}

// ApplyDiscount takes the discount percentage off subtotal; a nil discount leaves it unchanged.
func ApplyDiscount(subtotal decimal.Decimal, d *domain.Discount) decimal.Decimal {
	if d == nil {
		return subtotal
	}
	return subtotal.Sub(subtotal.Mul(d.Value).Div(hundred))
}

type Summary struct {
	ItemCount int
	Discount  *domain.Discount
	Subtotal  decimal.Decimal
	Total     decimal.Decimal
}

func summarize(items []domain.LineItem, d *domain.Discount) Summary {
	subtotal := Subtotal(items)
	return Summary{
		ItemCount: len(items),
		Discount:  d,
		Subtotal:  subtotal,
		Total:     ApplyDiscount(subtotal, d),
	}
}
