package domain

import "github.com/shopspring/decimal"

// Discount is a promotional code; Value is a percentage of the whole order.
type Discount struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Code  string          `json:"code"`
	Value decimal.Decimal `json:"value"`
}
