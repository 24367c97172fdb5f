package checkout

import "errors"

var (
	ErrEmptyOrder       = errors.New("order has no items")
	ErrMissingCustomer  = errors.New("customer name is required")
	ErrSubmissionFailed = errors.New("failed to create order")
)

// FailureMessage is what the cashier sees when a submission fails.
const FailureMessage = "Failed to create order. Please try again."
