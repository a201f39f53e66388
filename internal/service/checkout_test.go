package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Skotchmaster/storefront/internal/models"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestCheckout_ExpressTwoProducts(t *testing.T) {
	f := newFixture(t)
	s := f.newShopper(t)

	p1 := f.product(t, "10.00")
	p2 := f.product(t, "20.00")
	w := f.warehouse(t)
	f.stock(t, p1.ID, w.ID, 5)
	f.stock(t, p2.ID, w.ID, 3)

	f.addToCart(t, s, p1.ID, 2)
	f.addToCart(t, s, p2.ID, 1)

	orderID, err := f.orders.Checkout(s.ctx, CheckoutRequest{
		AddressID:    s.address.ID,
		CardNumber:   s.card.CardNumber,
		DeliveryType: models.DeliveryExpress,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, orderID)

	details, err := f.orders.GetOrder(s.ctx, orderID)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusProcessing, details.Order.Status)
	assert.Equal(t, s.card.CardNumber, details.Order.CardNumber)
	assert.True(t, decimal.RequireFromString("55.00").Equal(details.Order.Total), details.Order.Total.String())

	wantLines := []models.OrderLine{
		{OrderID: orderID, ProductID: p1.ID, WarehouseID: w.ID, Quantity: 2, UnitPrice: p1.Price},
		{OrderID: orderID, ProductID: p2.ID, WarehouseID: w.ID, Quantity: 1, UnitPrice: p2.Price},
	}
	if diff := cmp.Diff(wantLines, details.Lines, decimalEqual, cmpopts.IgnoreFields(models.OrderLine{}, "ID")); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}

	require.NotNil(t, details.Delivery)
	assert.Equal(t, models.DeliveryExpress, details.Delivery.Type)
	assert.Equal(t, s.address.ID, details.Delivery.AddressID)
	assert.True(t, decimal.RequireFromString("15").Equal(details.Delivery.Price))
	assert.WithinDuration(t, f.now, details.Delivery.ShipDate, time.Second)
	assert.WithinDuration(t, f.now.Add(24*time.Hour), details.Delivery.DeliveryDate, time.Second)

	assert.EqualValues(t, 3, f.quantity(t, p1.ID, w.ID))
	assert.EqualValues(t, 2, f.quantity(t, p2.ID, w.ID))

	view, err := f.cart.GetCart(s.ctx)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)

	created := f.pub.byTopic(TopicOrders)
	require.Len(t, created, 1)
	assert.Equal(t, "order_created", created[0].Event.(OrderEvent).Type)
	assert.Len(t, f.pub.byTopic(TopicStock), 2)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newFixture(t)
	s := f.newShopper(t)

	_, err := f.orders.Checkout(s.ctx, CheckoutRequest{AddressID: s.address.ID, CardNumber: s.card.CardNumber, DeliveryType: models.DeliveryStandard})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCheckoutFailed)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.ErrorIs(t, err, ErrValidation)

	assert.Zero(t, f.count(t, &models.Order{}))
}

func TestCheckout_InsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t)
	s := f.newShopper(t)

	p1 := f.product(t, "10.00")
	p2 := f.product(t, "20.00")
	w := f.warehouse(t)
	f.stock(t, p1.ID, w.ID, 5)
	f.stock(t, p2.ID, w.ID, 0)

	f.addToCart(t, s, p1.ID, 2)
	f.addToCart(t, s, p2.ID, 1)

	_, err := f.orders.Checkout(s.ctx, CheckoutRequest{AddressID: s.address.ID, CardNumber: s.card.CardNumber, DeliveryType: models.DeliveryStandard})
	assert.ErrorIs(t, err, ErrCheckoutFailed)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.ErrorIs(t, err, ErrConflict)

	assert.EqualValues(t, 5, f.quantity(t, p1.ID, w.ID))
	assert.EqualValues(t, 0, f.quantity(t, p2.ID, w.ID))
	assert.Zero(t, f.count(t, &models.Order{}))
	assert.Zero(t, f.count(t, &models.OrderLine{}))
	assert.Zero(t, f.count(t, &models.Delivery{}))

	view, err := f.cart.GetCart(s.ctx)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 2)
	assert.Empty(t, f.pub.byTopic(TopicOrders))
}

func TestCheckout_WarehousePolicy(t *testing.T) {
	f := newFixture(t)
	s := f.newShopper(t)

	p := f.product(t, "3.50")
	small, large := f.warehouse(t), f.warehouse(t)
	f.stock(t, p.ID, small.ID, 3)
	f.stock(t, p.ID, large.ID, 5)

	f.addToCart(t, s, p.ID, 4)

	orderID, err := f.orders.Checkout(s.ctx, CheckoutRequest{AddressID: s.address.ID, CardNumber: s.card.CardNumber, DeliveryType: models.DeliveryStandard})
	require.NoError(t, err)

	details, err := f.orders.GetOrder(s.ctx, orderID)
	require.NoError(t, err)
	require.Len(t, details.Lines, 1)
	assert.Equal(t, large.ID, details.Lines[0].WarehouseID)
	assert.EqualValues(t, 3, f.quantity(t, p.ID, small.ID))
	assert.EqualValues(t, 1, f.quantity(t, p.ID, large.ID))
	assert.True(t, decimal.RequireFromString("19.00").Equal(details.Order.Total))
}

func TestCheckout_NoSingleWarehouseCoversLine(t *testing.T) {
	f := newFixture(t)
	s := f.newShopper(t)

	p := f.product(t, "1.00")
	w1, w2 := f.warehouse(t), f.warehouse(t)
	f.stock(t, p.ID, w1.ID, 2)
	f.stock(t, p.ID, w2.ID, 2)
	f.addToCart(t, s, p.ID, 3)

	_, err := f.orders.Checkout(s.ctx, CheckoutRequest{AddressID: s.address.ID, CardNumber: s.card.CardNumber, DeliveryType: models.DeliveryStandard})
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCheckout_RejectsForeignAddressAndCard(t *testing.T) {
	f := newFixture(t)
	s := f.newShopper(t)
	other := f.newShopper(t)

	p := f.product(t, "1.00")
	w := f.warehouse(t)
	f.stock(t, p.ID, w.ID, 10)
	f.addToCart(t, s, p.ID, 1)

	_, err := f.orders.Checkout(s.ctx, CheckoutRequest{AddressID: other.address.ID, CardNumber: s.card.CardNumber, DeliveryType: models.DeliveryStandard})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.orders.Checkout(s.ctx, CheckoutRequest{AddressID: s.address.ID, CardNumber: other.card.CardNumber, DeliveryType: models.DeliveryStandard})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.EqualValues(t, 10, f.quantity(t, p.ID, w.ID))
}

func TestCheckout_InputErrors(t *testing.T) {
	f := newFixture(t)
	s := f.newShopper(t)

	_, err := f.orders.Checkout(context.Background(), CheckoutRequest{AddressID: 1, CardNumber: "4111111111111111", DeliveryType: models.DeliveryStandard})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.orders.Checkout(s.ctx, CheckoutRequest{AddressID: s.address.ID, CardNumber: s.card.CardNumber, DeliveryType: "Overnight"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.orders.Checkout(s.ctx, CheckoutRequest{CardNumber: s.card.CardNumber, DeliveryType: models.DeliveryStandard})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckout_ConcurrentLastUnit(t *testing.T) {
	f := newFixture(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	p := f.product(t, "99.00")
	w := f.warehouse(t)
	f.stock(t, p.ID, w.ID, 1)

	buyers := []shopper{f.newShopper(t), f.newShopper(t)}
	for _, b := range buyers {
		f.addToCart(t, b, p.ID, 1)
	}

	errs := make([]error, len(buyers))
	var wg sync.WaitGroup
	for i, b := range buyers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.orders.Checkout(b.ctx, CheckoutRequest{AddressID: b.address.ID, CardNumber: b.card.CardNumber, DeliveryType: models.DeliveryStandard})
		}()
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)
	assert.EqualValues(t, 0, f.quantity(t, p.ID, w.ID))
	assert.EqualValues(t, 1, f.count(t, &models.Order{}))
}
