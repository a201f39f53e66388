package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

// CancelOrder returns every line's quantity to the warehouse it was taken
// from and marks the order Cancelled. Only Processing orders can be
// cancelled, so a repeated cancel is ErrInvalidState and restores nothing.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "order.cancel", "order_id", orderID)

	customerID, staff, err := viewer(ctx)
	if err != nil {
		return err
	}

	order, lines, err := s.cancel(ctx, orderID, customerID, staff)
	if err != nil {
		l.Warn("cancel_order_error", "error", err)
		return err
	}

	l.Info("cancel_order_success", "lines", len(lines))
	s.publishCancelled(ctx, order, lines)
	return nil
}

func (s *OrderService) cancel(ctx context.Context, orderID uuid.UUID, customerID uint, staff bool) (*models.Order, []models.OrderLine, error) {
	ctx, cancel := s.txContext(ctx)
	defer cancel()

	var (
		order *models.Order
		lines []models.OrderLine
	)
	err := s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		var err error
		order, err = tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !staff && order.CustomerID != customerID {
			return fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}
		if order.Status != models.OrderStatusProcessing {
			return fmt.Errorf("%w: order is %s", ErrInvalidState, order.Status)
		}

		if err := tx.SetOrderStatus(ctx, orderID, models.OrderStatusProcessing, models.OrderStatusCancelled); err != nil {
			return err
		}

		lines, err = tx.OrderLines(ctx, orderID)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if err := tx.IncrementStock(ctx, line.ProductID, line.WarehouseID, line.Quantity); err != nil {
				return err
			}
		}
		order.Status = models.OrderStatusCancelled
		return nil
	})
	if err != nil {
		return nil, nil, fromRepo(err)
	}
	return order, lines, nil
}

func (s *OrderService) publishCancelled(ctx context.Context, order *models.Order, lines []models.OrderLine) {
	at := s.now()
	publish(ctx, s.Events, TopicOrders, order.ID.String(), OrderEvent{
		Type:       "order_cancelled",
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Status:     order.Status,
		Total:      order.Total,
		At:         at,
	})
	for _, line := range lines {
		publish(ctx, s.Events, TopicStock, fmt.Sprint(line.ProductID), StockEvent{
			Type:        "stock_restored",
			ProductID:   line.ProductID,
			WarehouseID: line.WarehouseID,
			Delta:       int64(line.Quantity),
			Reason:      "order " + order.ID.String() + " cancelled",
			At:          at,
		})
	}
}
