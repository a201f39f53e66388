package models

import (
	"errors"
	"time"
)

type OrderStatus string

// remember to add new statuses to validOrderStatuses
const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

var validOrderStatuses = map[OrderStatus]struct{}{
	OrderStatusProcessing: {},
	OrderStatusShipped:    {},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

var ErrInvalidOrderStatus = errors.New("invalid order status")

func ToOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := validOrderStatuses[status]; ok {
		return status, nil
	}
	return "", ErrInvalidOrderStatus
}

type DeliveryType string

const (
	DeliveryStandard DeliveryType = "Standard"
	DeliveryExpress  DeliveryType = "Express"
)

var ErrInvalidDeliveryType = errors.New("invalid delivery type")

func ToDeliveryType(s string) (DeliveryType, error) {
	switch DeliveryType(s) {
	case DeliveryStandard:
		return DeliveryStandard, nil
	case DeliveryExpress:
		return DeliveryExpress, nil
	}
	return "", ErrInvalidDeliveryType
}

// LeadTime is the gap between ship date and estimated delivery date.
func (t DeliveryType) LeadTime() time.Duration {
	if t == DeliveryExpress {
		return 24 * time.Hour
	}
	return 5 * 24 * time.Hour
}
