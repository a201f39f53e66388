package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

type OrderDetails struct {
	Order    models.Order
	Lines    []models.OrderLine
	Delivery *models.Delivery
}

var nextStatus = map[models.OrderStatus]models.OrderStatus{
	models.OrderStatusProcessing: models.OrderStatusShipped,
	models.OrderStatusShipped:    models.OrderStatusDelivered,
}

// ListOrders returns the caller's order history, newest first, with lines.
func (s *OrderService) ListOrders(ctx context.Context, offset, limit int) (int64, []OrderDetails, error) {
	customerID, err := customerFrom(ctx)
	if err != nil {
		return 0, nil, err
	}

	total, orders, err := s.Repo.ListOrders(ctx, customerID, offset, limit)
	if err != nil {
		return 0, nil, fromRepo(err)
	}

	lines, err := s.Repo.OrderLines(ctx, lo.Map(orders, func(o models.Order, _ int) uuid.UUID { return o.ID })...)
	if err != nil {
		return 0, nil, fromRepo(err)
	}
	byOrder := lo.GroupBy(lines, func(l models.OrderLine) uuid.UUID { return l.OrderID })

	out := lo.Map(orders, func(o models.Order, _ int) OrderDetails {
		ls := byOrder[o.ID]
		if ls == nil {
			ls = []models.OrderLine{}
		}
		return OrderDetails{Order: o, Lines: ls}
	})
	return total, out, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDetails, error) {
	order, err := s.visibleOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	lines, err := s.Repo.OrderLines(ctx, id)
	if err != nil {
		return nil, fromRepo(err)
	}

	d, err := s.Repo.DeliveryForOrder(ctx, id)
	if err != nil {
		return nil, fromRepo(err)
	}

	return &OrderDetails{Order: *order, Lines: lines, Delivery: d}, nil
}

func (s *OrderService) GetDelivery(ctx context.Context, orderID uuid.UUID) (*models.Delivery, error) {
	if _, err := s.visibleOrder(ctx, orderID); err != nil {
		return nil, err
	}
	d, err := s.Repo.DeliveryForOrder(ctx, orderID)
	if err != nil {
		return nil, fromRepo(err)
	}
	return d, nil
}

// UpdateStatus is the staff workflow: Processing -> Shipped -> Delivered,
// and Cancelled from Processing through the cancellation path.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, raw string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.update_status", "order_id", id)

	_, staff, err := viewer(ctx)
	if err != nil {
		return nil, err
	}
	if !staff {
		return nil, fmt.Errorf("%w: order status is managed by staff", ErrForbidden)
	}

	status, err := models.ToOrderStatus(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if status == models.OrderStatusCancelled {
		order, lines, err := s.cancel(ctx, id, 0, true)
		if err != nil {
			l.Warn("update_status_error", "status", status, "error", err)
			return nil, err
		}
		s.publishCancelled(ctx, order, lines)
		return order, nil
	}

	ctx, cancel := s.txContext(ctx)
	defer cancel()

	var order *models.Order
	err = s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		var err error
		order, err = tx.GetOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if nextStatus[order.Status] != status {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidState, order.Status, status)
		}
		if err := tx.SetOrderStatus(ctx, id, order.Status, status); err != nil {
			return err
		}
		order.Status = status
		return nil
	})
	if err != nil {
		err = fromRepo(err)
		l.Warn("update_status_error", "status", status, "error", err)
		return nil, err
	}

	publish(ctx, s.Events, TopicOrders, id.String(), OrderEvent{
		Type:       "order_status_updated",
		OrderID:    id,
		CustomerID: order.CustomerID,
		Status:     status,
		Total:      order.Total,
		At:         s.now(),
	})
	return order, nil
}

func (s *OrderService) visibleOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	customerID, staff, err := viewer(ctx)
	if err != nil {
		return nil, err
	}

	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, fromRepo(err)
	}
	if !staff && order.CustomerID != customerID {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	return order, nil
}
