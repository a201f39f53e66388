package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
)

const (
	TopicOrders   = "order_events"
	TopicProducts = "product_events"
	TopicStock    = "stock_events"
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type OrderEvent struct {
	Type       string             `json:"type"`
	OrderID    uuid.UUID          `json:"order_id"`
	CustomerID uint               `json:"customer_id"`
	Status     models.OrderStatus `json:"status"`
	Total      decimal.Decimal    `json:"total"`
	At         time.Time          `json:"at"`
}

type ProductEvent struct {
	Type      string          `json:"type"`
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name,omitempty"`
	Price     decimal.Decimal `json:"price"`
	At        time.Time       `json:"at"`
}

type StockEvent struct {
	Type        string    `json:"type"`
	ProductID   uint      `json:"product_id"`
	WarehouseID uint      `json:"warehouse_id"`
	Delta       int64     `json:"delta"`
	Reason      string    `json:"reason"`
	At          time.Time `json:"at"`
}

// publish never fails the caller: the state change is already committed.
func publish(ctx context.Context, p Publisher, topic, key string, event any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error", "topic", topic, "key", key, "error", err)
	}
}
