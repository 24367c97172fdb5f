package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/fjod/go_pos/internal/domain"
)

var ErrDiscountNotFound = errors.New("discount not found")

// ListDiscounts returns the discounts currently offered, in backend order.
func (c *Client) ListDiscounts(ctx context.Context) ([]domain.Discount, error) {
	v, err, _ := c.sfg.Do("discounts", func() (interface{}, error) {
		var resp envelope[[]domain.Discount]
		if err := c.do(ctx, http.MethodGet, "/discount/all", nil, &resp, nil); err != nil {
			return nil, err
		}
		return resp.Data, nil
	})
	if err != nil {
		return nil, err
	}

	shared := v.([]domain.Discount)
	out := make([]domain.Discount, len(shared))
	copy(out, shared)
	return out, nil
}

func (c *Client) GetDiscount(ctx context.Context, id string) (*domain.Discount, error) {
	var resp envelope[*domain.Discount]
	if err := c.do(ctx, http.MethodGet, "/discount/detail/"+url.PathEscape(id), nil, &resp, nil); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, ErrDiscountNotFound
	}
	return resp.Data, nil
}
