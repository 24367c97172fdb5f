package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fjod/go_pos/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultWaiterID = "Admin Kasir"

// Cart is the part of the cart store the aggregator needs.
type Cart interface {
	Items() []domain.LineItem
	ClearOrder()
}

// Submitter hands a finalized order to the backend.
type Submitter interface {
	Checkout(ctx context.Context, payload domain.CheckoutPayload) (*domain.CheckoutResult, error)
}

// Notifier surfaces user-visible failure messages.
type Notifier interface {
	Notify(message string)
}

type NotifierFunc func(message string)

// ProceedFunc receives the id of the created order and the payload the backend accepted.
type ProceedFunc func(orderID string, payload domain.CheckoutPayload)

func (f NotifierFunc) Notify(message string) { f(message) }

// Aggregator derives totals from the cart and submits the order.
// It keeps the session fields of the order form: customer, order type and discount.
type Aggregator struct {
	cart          Cart
	submitter     Submitter
	notifier      Notifier
	log           *zap.Logger
	defaultWaiter string

	mu        sync.Mutex
	customer  string
	orderType domain.OrderType
	discount  *domain.Discount
	status    domain.SubmissionStatus
	failed    *domain.CheckoutPayload // last payload the backend did not accept
}

type Option func(*Aggregator)

func WithLogger(l *zap.Logger) Option {
	return func(a *Aggregator) { a.log = l }
}

func WithNotifier(n Notifier) Option {
	return func(a *Aggregator) { a.notifier = n }
}

// WithDefaultWaiter sets the waiter id used when the request carries none.
func WithDefaultWaiter(id string) Option {
	return func(a *Aggregator) { a.defaultWaiter = id }
}

func New(cart Cart, submitter Submitter, opts ...Option) *Aggregator {
	a := &Aggregator{
		cart:          cart,
		submitter:     submitter,
		log:           zap.NewNop(),
		defaultWaiter: DefaultWaiterID,
		orderType:     domain.OrderTypeDineIn,
		status:        domain.SubmissionStatusIdle,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.notifier == nil {
		a.notifier = NotifierFunc(func(msg string) {
			a.log.Warn("checkout notification", zap.String("message", msg))
		})
	}
	return a
}

func (a *Aggregator) SetCustomer(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.customer = name
}

func (a *Aggregator) Customer() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.customer
}

func (a *Aggregator) SetOrderType(t domain.OrderType) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.orderType = t
}

func (a *Aggregator) OrderType() domain.OrderType {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.orderType
}

// SelectDiscount replaces any previously selected discount.
func (a *Aggregator) SelectDiscount(d domain.Discount) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.discount = &d
}

func (a *Aggregator) ClearDiscount() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.discount = nil
}

func (a *Aggregator) Discount() *domain.Discount {
	a.mu.Lock()
	defer a.mu.Unlock()
	return copyDiscount(a.discount)
}

func (a *Aggregator) Status() domain.SubmissionStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *Aggregator) Summary() Summary {
	items := a.cart.Items()
	return summarize(items, a.Discount())
}

// Submit validates the order and sends it to the backend.
// A call made while another submission is in flight is ignored and returns nil.
// On success onProceed receives the new order id and the submitted payload; clearing the cart
// is left to the caller. On failure the cashier is notified and the cart is kept for a retry,
// which reuses the idempotency key as long as the order is unchanged.
func (a *Aggregator) Submit(ctx context.Context, onProceed ProceedFunc) error {
	items := a.cart.Items()
	if len(items) == 0 {
		return ErrEmptyOrder
	}

	a.mu.Lock()
	customer := strings.TrimSpace(a.customer)
	if customer == "" {
		a.mu.Unlock()
		return ErrMissingCustomer
	}
	if a.status.InFlight() {
		a.mu.Unlock()
		a.log.Debug("submission already in flight, ignoring")
		return nil
	}
	a.status = domain.SubmissionStatusSubmitting
	payload := a.buildPayload(ctx, customer, items)
	if a.failed != nil && samePayload(*a.failed, payload) {
		payload.IdempotencyKey = a.failed.IdempotencyKey
	} else {
		payload.IdempotencyKey = uuid.NewString()
	}
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.status = domain.SubmissionStatusIdle
		a.mu.Unlock()
	}()

	result, err := a.submitter.Checkout(ctx, payload)
	if err == nil && (result == nil || !result.Created()) {
		code := ""
		if result != nil {
			code = result.Code
		}
		err = fmt.Errorf("unexpected result code %q", code)
	}

	a.mu.Lock()
	if err != nil {
		a.failed = &payload
	} else {
		a.failed = nil
	}
	a.mu.Unlock()

	if err != nil {
		return a.fail(err)
	}

	a.log.Info("order created",
		zap.String("order_id", result.OrderID),
		zap.String("order_type", payload.OrderType.String()),
		zap.String("total", payload.TotalPrice.String()),
		zap.Int("items", len(payload.Items)))

	if onProceed != nil {
		onProceed(result.OrderID, payload)
	}
	return nil
}

// Reset clears the order form and the cart, as after payment or an explicit cancel.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	a.orderType = domain.OrderTypeDineIn
	a.customer = ""
	a.discount = nil
	a.failed = nil
	a.mu.Unlock()

	a.cart.ClearOrder()
}

// buildPayload must be called with a.mu held.
func (a *Aggregator) buildPayload(ctx context.Context, customer string, items []domain.LineItem) domain.CheckoutPayload {
	waiterID, ok := WaiterFromContext(ctx)
	if !ok {
		waiterID = a.defaultWaiter
	}

	var discountID *string
	if a.discount != nil {
		id := a.discount.ID
		discountID = &id
	}

	return domain.CheckoutPayload{
		WaiterID:   waiterID,
		Customer:   customer,
		OrderType:  a.orderType,
		TotalPrice: summarize(items, a.discount).Total,
		Items:      items,
		DiscountID: discountID,
	}
}

func (a *Aggregator) fail(err error) error {
	a.log.Error("order submission failed", zap.Error(err))
	a.notifier.Notify(FailureMessage)
	return fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
}

// samePayload reports whether two payloads describe the same order, ignoring the key.
func samePayload(a, b domain.CheckoutPayload) bool {
	if a.WaiterID != b.WaiterID || a.Customer != b.Customer || a.OrderType != b.OrderType ||
		!a.TotalPrice.Equal(b.TotalPrice) || len(a.Items) != len(b.Items) {
		return false
	}
	if (a.DiscountID == nil) != (b.DiscountID == nil) || (a.DiscountID != nil && *a.DiscountID != *b.DiscountID) {
		return false
	}
	for i := range a.Items {
		x, y := a.Items[i], b.Items[i]
		if x.ProductID != y.ProductID || x.ProductVariantID != y.ProductVariantID ||
			x.Quantity != y.Quantity || !x.Price.Equal(y.Price) || x.Note != y.Note {
			return false
		}
	}
	return true
}

func copyDiscount(d *domain.Discount) *domain.Discount {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
