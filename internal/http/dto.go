package http

import (
	"github.com/fjod/go_pos/internal/checkout"
	"github.com/fjod/go_pos/internal/domain"
)

type LineItemDTO struct {
	ProductID        string  `json:"product_id"`
	ProductVariantID string  `json:"product_variant_id"`
	Quantity         int     `json:"quantity"`
	UnitPrice        float64 `json:"unit_price"`
	Price            float64 `json:"price"`
	Note             string  `json:"note"`
}

type DiscountDTO struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Code  string  `json:"code"`
	Value float64 `json:"value"`
}

type SummaryDTO struct {
	ItemCount int          `json:"item_count"`
	Subtotal  float64      `json:"subtotal"`
	Total     float64      `json:"total"`
	Discount  *DiscountDTO `json:"discount"`
}

type CartResponseDTO struct {
	Items   []LineItemDTO `json:"items"`
	Summary SummaryDTO    `json:"summary"`
}

type OrderSummaryDTO struct {
	SummaryDTO
	Customer  string `json:"customer"`
	OrderType string `json:"order_type"`
	Status    string `json:"status"`
}

func toLineItemDTOs(items []domain.LineItem) []LineItemDTO {
	out := make([]LineItemDTO, len(items))
	for i, item := range items {
		out[i] = LineItemDTO{
			ProductID:        item.ProductID,
			ProductVariantID: item.ProductVariantID,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice.InexactFloat64(),
			Price:            item.Price.InexactFloat64(),
			Note:             item.Note,
		}
	}
	return out
}

func toDiscountDTO(d domain.Discount) DiscountDTO {
	return DiscountDTO{
		ID:    d.ID,
		Name:  d.Name,
		Code:  d.Code,
		Value: d.Value.InexactFloat64(),
	}
}

func toSummaryDTO(s checkout.Summary) SummaryDTO {
	dto := SummaryDTO{
		ItemCount: s.ItemCount,
		Subtotal:  s.Subtotal.InexactFloat64(),
		Total:     s.Total.InexactFloat64(),
	}
	if s.Discount != nil {
		d := toDiscountDTO(*s.Discount)
		dto.Discount = &d
	}
	return dto
}
