package backend

import (
	"context"
	"net/http"

	"github.com/fjod/go_pos/internal/domain"
	"github.com/google/uuid"
)

type checkoutItemDTO struct {
	ProductID        string  `json:"productId"`
	ProductVariantID string  `json:"productVariantId"`
	Price            float64 `json:"price"`
	Quantity         int     `json:"quantity"`
	Note             string  `json:"note"`
}

type checkoutRequestDTO struct {
	WaiterID   string            `json:"waiterId"`
	Customer   string            `json:"customer"`
	OrderType  string            `json:"orderType"`
	TotalPrice float64           `json:"totalPrice"`
	Items      []checkoutItemDTO `json:"items"`
	DiscountID *string           `json:"discountId"`
}

type createdOrderDTO struct {
	ID string `json:"id"`
}

// Checkout submits the order. A response with a non-CREATED code is returned, not treated as an error.
func (c *Client) Checkout(ctx context.Context, payload domain.CheckoutPayload) (*domain.CheckoutResult, error) {
	req := checkoutRequestDTO{
		WaiterID:   payload.WaiterID,
		Customer:   payload.Customer,
		OrderType:  payload.OrderType.String(),
		TotalPrice: payload.TotalPrice.InexactFloat64(),
		Items:      make([]checkoutItemDTO, len(payload.Items)),
		DiscountID: payload.DiscountID,
	}
	for i, item := range payload.Items {
		req.Items[i] = checkoutItemDTO{
			ProductID:        item.ProductID,
			ProductVariantID: item.ProductVariantID,
			Price:            item.Price.InexactFloat64(),
			Quantity:         item.Quantity,
			Note:             item.Note,
		}
	}

	key := payload.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}
	header := http.Header{}
	header.Set("Idempotency-Key", key)

	var resp envelope[*createdOrderDTO]
	if err := c.do(ctx, http.MethodPost, "/order/checkout", req, &resp, header); err != nil {
		return nil, err
	}

	result := &domain.CheckoutResult{Code: resp.Code}
	if resp.Data != nil {
		result.OrderID = resp.Data.ID
	}
	return result, nil
}
