package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fjod/go_pos/internal/backend"
	"github.com/fjod/go_pos/internal/checkout"
	"github.com/fjod/go_pos/internal/domain"
	"github.com/fjod/go_pos/internal/events"
	"go.uber.org/zap"
)

// Order is the checkout session of the terminal.
type Order interface {
	Summarizer
	SetCustomer(name string)
	Customer() string
	SetOrderType(t domain.OrderType)
	OrderType() domain.OrderType
	SelectDiscount(d domain.Discount)
	ClearDiscount()
	Status() domain.SubmissionStatus
	Submit(ctx context.Context, onProceed checkout.ProceedFunc) error
	Reset()
}

type DiscountSource interface {
	ListDiscounts(ctx context.Context) ([]domain.Discount, error)
	GetDiscount(ctx context.Context, id string) (*domain.Discount, error)
}

// OrderEvents is told about every order the backend accepted.
type OrderEvents interface {
	OrderCreated(ctx context.Context, event events.OrderCreatedEvent) error
}

type OrderHandler struct {
	order      Order
	discounts  DiscountSource
	events     OrderEvents
	terminalID string
	timeout    time.Duration
	log        *zap.Logger
}

// NewOrderHandler builds the order endpoints; orderEvents may be nil.
func NewOrderHandler(order Order, discounts DiscountSource, orderEvents OrderEvents, terminalID string, timeout time.Duration, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		order:      order,
		discounts:  discounts,
		events:     orderEvents,
		terminalID: terminalID,
		timeout:    timeout,
		log:        log,
	}
}

type SelectDiscountRequestDTO struct {
	DiscountID string `json:"discount_id" validate:"required"`
}

type SetCustomerRequestDTO struct {
	Customer string `json:"customer" validate:"max=100"`
}

type SetOrderTypeRequestDTO struct {
	OrderType string `json:"order_type" validate:"required"`
}

type CheckoutResponseDTO struct {
	OrderID string `json:"order_id"`
}

type StatusResponseDTO struct {
	Status string `json:"status"`
}

// GET /api/v1/discounts
func (h *OrderHandler) ListDiscounts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	discounts, err := h.discounts.ListDiscounts(ctx)
	if err != nil {
		h.log.Warn("discount lookup failed", zap.Error(err))
		respondError(w, http.StatusBadGateway, "discounts_unavailable", "failed to load discounts")
		return
	}

	out := make([]DiscountDTO, len(discounts))
	for i, d := range discounts {
		out[i] = toDiscountDTO(d)
	}
	respondJSON(w, http.StatusOK, out)
}

// PUT /api/v1/order/discount
func (h *OrderHandler) SelectDiscount(w http.ResponseWriter, r *http.Request) {
	var req SelectDiscountRequestDTO
	if !decodeRequest(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	d, err := h.discounts.GetDiscount(ctx, req.DiscountID)
	if err != nil {
		if errors.Is(err, backend.ErrDiscountNotFound) {
			respondError(w, http.StatusNotFound, "discount_not_found", "discount not found")
			return
		}
		h.log.Warn("discount lookup failed", zap.String("discount_id", req.DiscountID), zap.Error(err))
		respondError(w, http.StatusBadGateway, "discounts_unavailable", "failed to load discount")
		return
	}

	h.order.SelectDiscount(*d)
	h.respondSummary(w)
}

// DELETE /api/v1/order/discount
func (h *OrderHandler) ClearDiscount(w http.ResponseWriter, r *http.Request) {
	h.order.ClearDiscount()
	h.respondSummary(w)
}

// PUT /api/v1/order/customer
func (h *OrderHandler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	var req SetCustomerRequestDTO
	if !decodeRequest(w, r, &req) {
		return
	}
	h.order.SetCustomer(req.Customer)
	h.respondSummary(w)
}

// PUT /api/v1/order/type
func (h *OrderHandler) SetOrderType(w http.ResponseWriter, r *http.Request) {
	var req SetOrderTypeRequestDTO
	if !decodeRequest(w, r, &req) {
		return
	}

	t, err := domain.ParseOrderType(req.OrderType)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_type", err.Error())
		return
	}
	h.order.SetOrderType(t)
	h.respondSummary(w)
}

// GET /api/v1/order/summary
func (h *OrderHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	h.respondSummary(w)
}

// POST /api/v1/order/checkout
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var (
		orderID   string
		submitted domain.CheckoutPayload
		proceeded bool
	)
	err := h.order.Submit(r.Context(), func(id string, payload domain.CheckoutPayload) {
		orderID = id
		submitted = payload
		proceeded = true
	})
	switch {
	case errors.Is(err, checkout.ErrEmptyOrder):
		respondError(w, http.StatusUnprocessableEntity, "empty_order", err.Error())
		return
	case errors.Is(err, checkout.ErrMissingCustomer):
		respondError(w, http.StatusUnprocessableEntity, "missing_customer", err.Error())
		return
	case err != nil:
		respondError(w, http.StatusBadGateway, "submission_failed", checkout.FailureMessage)
		return
	case !proceeded:
		respondJSON(w, http.StatusAccepted, StatusResponseDTO{Status: domain.SubmissionStatusSubmitting.String()})
		return
	}

	h.publishCreated(r.Context(), orderID, submitted)
	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{OrderID: orderID})
}

// POST /api/v1/order/reset
func (h *OrderHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.order.Reset()
	h.respondSummary(w)
}

// publishCreated describes the order exactly as it was submitted, whatever the cart holds now.
func (h *OrderHandler) publishCreated(ctx context.Context, orderID string, payload domain.CheckoutPayload) {
	if h.events == nil {
		return
	}
	err := h.events.OrderCreated(context.WithoutCancel(ctx), events.OrderCreatedEvent{
		OrderID:    orderID,
		TerminalID: h.terminalID,
		WaiterID:   payload.WaiterID,
		Customer:   payload.Customer,
		OrderType:  payload.OrderType.String(),
		ItemCount:  len(payload.Items),
		Total:      payload.TotalPrice,
	})
	if err != nil {
		h.log.Error("failed to publish order event", zap.String("order_id", orderID), zap.Error(err))
	}
}

func (h *OrderHandler) respondSummary(w http.ResponseWriter) {
	respondJSON(w, http.StatusOK, OrderSummaryDTO{
		SummaryDTO: toSummaryDTO(h.order.Summary()),
		Customer:   h.order.Customer(),
		OrderType:  h.order.OrderType().String(),
		Status:     h.order.Status().String(),
	})
}
