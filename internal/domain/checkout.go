package domain

import "github.com/shopspring/decimal"

// ResultCodeCreated is the backend code signalling that the order was created.
const ResultCodeCreated = "CREATED"

// CheckoutPayload is the finalized order handed to the submission collaborator.
// IdempotencyKey stays the same across retries of an unchanged order.
type CheckoutPayload struct {
	IdempotencyKey string
	WaiterID       string
	Customer       string
	OrderType      OrderType
	TotalPrice     decimal.Decimal
	Items          []LineItem
	DiscountID     *string
}

type CheckoutResult struct {
	Code    string
	OrderID string
}

func (r CheckoutResult) Created() bool {
	return r.Code == ResultCodeCreated
}
