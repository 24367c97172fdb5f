package events

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

const (
	OrdersTopic = "pos-orders"
	ResetTopic  = "pos-order-resets"

	EventTypeOrderCreated = "order_created"
)

// OrderCreatedEvent is published once the backend accepted an order.
type OrderCreatedEvent struct {
	EventID    string          `json:"event_id"`
	OrderID    string          `json:"order_id"`
	TerminalID string          `json:"terminal_id"`
	WaiterID   string          `json:"waiter_id"`
	Customer   string          `json:"customer"`
	OrderType  string          `json:"order_type"`
	ItemCount  int             `json:"item_count"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ResetMessage asks the terminal to start a new order, usually after payment.
type ResetMessage struct {
	TerminalID string `json:"terminal_id"`
	OrderID    string `json:"order_id"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}
