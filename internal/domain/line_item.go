package domain

import "github.com/shopspring/decimal"

// LineItem is one product variant entry of the in-progress order.
// Price always holds the total for Quantity units, UnitPrice the price captured on first add.
type LineItem struct {
	ProductID        string          `json:"productId" bson:"product_id"`
	ProductVariantID string          `json:"productVariantId" bson:"product_variant_id"`
	Quantity         int             `json:"quantity" bson:"quantity"`
	UnitPrice        decimal.Decimal `json:"unitPrice" bson:"unit_price"`
	Price            decimal.Decimal `json:"price" bson:"price"`
	Note             string          `json:"note" bson:"note"`
}

// WithQuantity returns a copy of the item holding quantity units, price recomputed from the unit price.
func (i LineItem) WithQuantity(quantity int) LineItem {
	i.Quantity = quantity
	i.Price = i.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	return i
}

// Candidate is what the catalog hands to the cart when a variant is picked.
type Candidate struct {
	ProductID        string
	ProductVariantID string
	Price            decimal.Decimal
	Note             *string
}

// NewLineItem builds the first line of a variant: one unit at the candidate price.
func NewLineItem(c Candidate) LineItem {
	note := ""
	if c.Note != nil {
		note = *c.Note
	}
	return LineItem{
		ProductID:        c.ProductID,
		ProductVariantID: c.ProductVariantID,
		Quantity:         1,
		UnitPrice:        c.Price,
		Price:            c.Price,
		Note:             note,
	}
}
