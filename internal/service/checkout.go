package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

type CheckoutRequest struct {
	AddressID    uint
	CardNumber   string
	DeliveryType models.DeliveryType
}

type placedOrder struct {
	order    models.Order
	lines    []models.OrderLine
	delivery models.Delivery
}

// Checkout turns the caller's cart into an order in a single transaction.
// Every failure comes back as ErrCheckoutFailed wrapping one taxonomy
// category; the underlying cause is only logged.
func (s *OrderService) Checkout(ctx context.Context, req CheckoutRequest) (uuid.UUID, error) {
	l := logging.FromContext(ctx).With("svc", "order.checkout")

	placed, err := s.checkout(ctx, req)
	if err != nil {
		cat := category(err)
		l.Warn("checkout_error", "reason", cat.Error(), "error", err)
		return uuid.Nil, fmt.Errorf("%w: %w", ErrCheckoutFailed, cat)
	}

	l.Info("checkout_success", "order_id", placed.order.ID, "lines", len(placed.lines), "total", placed.order.Total.String())

	publish(ctx, s.Events, TopicOrders, placed.order.ID.String(), OrderEvent{
		Type:       "order_created",
		OrderID:    placed.order.ID,
		CustomerID: placed.order.CustomerID,
		Status:     placed.order.Status,
		Total:      placed.order.Total,
		At:         placed.order.CreatedAt,
	})
	for _, line := range placed.lines {
		publish(ctx, s.Events, TopicStock, fmt.Sprint(line.ProductID), StockEvent{
			Type:        "stock_reserved",
			ProductID:   line.ProductID,
			WarehouseID: line.WarehouseID,
			Delta:       -int64(line.Quantity),
			Reason:      "order " + line.OrderID.String(),
			At:          placed.order.CreatedAt,
		})
	}

	return placed.order.ID, nil
}

func (s *OrderService) checkout(ctx context.Context, req CheckoutRequest) (*placedOrder, error) {
	customerID, err := customerFrom(ctx)
	if err != nil {
		return nil, err
	}

	req.CardNumber = strings.TrimSpace(req.CardNumber)
	if req.AddressID == 0 || req.CardNumber == "" {
		return nil, fmt.Errorf("%w: address_id and card_number required", ErrValidation)
	}
	fee, err := s.Pricing.Quote(req.DeliveryType)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.txContext(ctx)
	defer cancel()

	var placed placedOrder
	err = s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		items, err := tx.GetCart(ctx, customerID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		if _, err := tx.GetOwnedAddress(ctx, customerID, req.AddressID); err != nil {
			return fmt.Errorf("address %d: %w", req.AddressID, err)
		}
		if _, err := tx.GetOwnedCard(ctx, customerID, req.CardNumber); err != nil {
			return fmt.Errorf("card: %w", err)
		}

		products, err := tx.ProductsByIDs(ctx, lo.Map(items, func(it models.CartItem, _ int) uint { return it.ProductID }))
		if err != nil {
			return err
		}
		byID := lo.KeyBy(products, func(p models.Product) uint { return p.ID })

		subtotal := decimal.Zero
		for _, it := range items {
			p, ok := byID[it.ProductID]
			if !ok {
				return fmt.Errorf("%w: product %d in cart no longer exists", ErrNotFound, it.ProductID)
			}
			if err := validQuantity(it.Quantity); err != nil {
				return fmt.Errorf("product %d: %w", it.ProductID, err)
			}
			subtotal = subtotal.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}

		now := s.now()
		placed.order = models.Order{
			ID:         uuid.New(),
			CustomerID: customerID,
			CardNumber: req.CardNumber,
			Status:     models.OrderStatusProcessing,
			Total:      subtotal.Add(fee),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.CreateOrder(ctx, &placed.order); err != nil {
			return err
		}

		// cart rows come back ordered by product id, so concurrent checkouts
		// lock stock rows in the same order
		for _, it := range items {
			st, err := tx.PickWarehouse(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			if err := tx.DecrementStock(ctx, it.ProductID, st.WarehouseID, it.Quantity); err != nil {
				return err
			}

			line := models.OrderLine{
				OrderID:     placed.order.ID,
				ProductID:   it.ProductID,
				WarehouseID: st.WarehouseID,
				Quantity:    it.Quantity,
				UnitPrice:   byID[it.ProductID].Price,
			}
			if err := tx.CreateOrderLine(ctx, &line); err != nil {
				return err
			}
			placed.lines = append(placed.lines, line)
		}

		placed.delivery = models.Delivery{
			ID:           uuid.New(),
			OrderID:      placed.order.ID,
			AddressID:    req.AddressID,
			Type:         req.DeliveryType,
			Price:        fee,
			ShipDate:     now,
			DeliveryDate: now.Add(req.DeliveryType.LeadTime()),
		}
		if err := tx.CreateDelivery(ctx, &placed.delivery); err != nil {
			return err
		}

		_, err = tx.ClearCart(ctx, customerID)
		return err
	})
	if err != nil {
		return nil, fromRepo(err)
	}
	return &placed, nil
}
