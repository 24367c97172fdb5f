package http

import (
	"errors"
	"net/http"

	"github.com/fjod/go_pos/internal/cart"
	"github.com/fjod/go_pos/internal/checkout"
	"github.com/fjod/go_pos/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type CartStore interface {
	AddItem(c domain.Candidate) error
	RemoveItem(variantID string)
	IncreaseQty(variantID string)
	DecreaseQty(variantID string)
	UpdateNote(variantID, note string)
	ClearOrder()
	Items() []domain.LineItem
}

// Summarizer prices the current cart with the selected discount.
type Summarizer interface {
	Summary() checkout.Summary
}

type CartHandler struct {
	cart  CartStore
	order Summarizer
}

func NewCartHandler(cart CartStore, order Summarizer) *CartHandler {
	return &CartHandler{cart: cart, order: order}
}

type AddItemRequestDTO struct {
	ProductID        string  `json:"product_id" validate:"required"`
	ProductVariantID string  `json:"product_variant_id" validate:"required"`
	Price            float64 `json:"price" validate:"gte=0"`
	Note             *string `json:"note" validate:"omitempty,max=500"`
}

type UpdateNoteRequestDTO struct {
	Note string `json:"note" validate:"max=500"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, http.StatusOK)
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if !decodeRequest(w, r, &req) {
		return
	}

	err := h.cart.AddItem(domain.Candidate{
		ProductID:        req.ProductID,
		ProductVariantID: req.ProductVariantID,
		Price:            decimal.NewFromFloat(req.Price),
		Note:             req.Note,
	})
	if err != nil {
		if errors.Is(err, cart.ErrInvalidCandidate) {
			respondError(w, http.StatusBadRequest, "invalid_item", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	h.respondCart(w, http.StatusCreated)
}

// DELETE /api/v1/cart/items/{variant_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.cart.RemoveItem(chi.URLParam(r, "variant_id"))
	h.respondCart(w, http.StatusOK)
}

// POST /api/v1/cart/items/{variant_id}/increase
func (h *CartHandler) IncreaseQty(w http.ResponseWriter, r *http.Request) {
	h.cart.IncreaseQty(chi.URLParam(r, "variant_id"))
	h.respondCart(w, http.StatusOK)
}

// POST /api/v1/cart/items/{variant_id}/decrease
func (h *CartHandler) DecreaseQty(w http.ResponseWriter, r *http.Request) {
	h.cart.DecreaseQty(chi.URLParam(r, "variant_id"))
	h.respondCart(w, http.StatusOK)
}

// PUT /api/v1/cart/items/{variant_id}/note
func (h *CartHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req UpdateNoteRequestDTO
	if !decodeRequest(w, r, &req) {
		return
	}
	h.cart.UpdateNote(chi.URLParam(r, "variant_id"), req.Note)
	h.respondCart(w, http.StatusOK)
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.ClearOrder()
	h.respondCart(w, http.StatusOK)
}

func (h *CartHandler) respondCart(w http.ResponseWriter, status int) {
	respondJSON(w, status, CartResponseDTO{
		Items:   toLineItemDTOs(h.cart.Items()),
		Summary: toSummaryDTO(h.order.Summary()),
	})
}
