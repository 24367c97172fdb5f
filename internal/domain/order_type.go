package domain

import (
	"errors"
	"fmt"
	"strings"
)

type OrderType string

const (
	OrderTypeDineIn   OrderType = "DINE_IN"
	OrderTypeTakeAway OrderType = "TAKE_AWAY"
	OrderTypeDelivery OrderType = "DELIVERY"
)

var ErrUnknownOrderType = errors.New("unknown order type")

func ParseOrderType(s string) (OrderType, error) {
	switch t := OrderType(strings.ToUpper(strings.TrimSpace(s))); t {
	case OrderTypeDineIn, OrderTypeTakeAway, OrderTypeDelivery:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOrderType, s)
	}
}

func (t OrderType) String() string {
	return string(t)
}
