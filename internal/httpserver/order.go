package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"golang.org/x/text/currency"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
)

type OrderHTTP struct {
	Svc      *service.OrderService
	Currency currency.Unit
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	var req transport.CheckoutRequest
	if err := bindValid(c, &req); err != nil {
		return badBody(l, "checkout_error", err)
	}

	id, err := h.Svc.Checkout(ctx, service.CheckoutRequest{
		AddressID:    req.AddressID,
		CardNumber:   req.CardNumber,
		DeliveryType: models.DeliveryType(req.DeliveryType),
	})
	if err != nil {
		return fail(l, "checkout_error", err)
	}

	l.Info("checkout_success", "status", 201, "order_id", id)
	return c.JSON(http.StatusCreated, transport.CheckoutResponse{OrderID: id})
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	offset, limit := util.Calculate(page, util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize))

	total, orders, err := h.Svc.ListOrders(ctx, offset, limit)
	if err != nil {
		return fail(l, "list_orders_error", err)
	}

	return c.JSON(http.StatusOK, transport.ListResponse[transport.OrderResponse]{
		Data: lo.Map(orders, func(d service.OrderDetails, _ int) transport.OrderResponse {
			return transport.NewOrderResponse(d, h.Currency)
		}),
		Meta: util.Meta(page, offset, limit, total),
	})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	d, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewOrderResponse(*d, h.Currency))
}

func (h *OrderHTTP) GetDelivery(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delivery")

	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	d, err := h.Svc.GetDelivery(ctx, id)
	if err != nil {
		return fail(l, "get_delivery_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewDeliveryResponse(d, h.Currency))
}

func (h *OrderHTTP) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel")

	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.CancelOrder(ctx, id); err != nil {
		return fail(l, "cancel_order_error", err)
	}

	l.Info("cancel_order_success", "order_id", id)
	return c.JSON(http.StatusOK, echo.Map{"order_id": id, "status": models.OrderStatusCancelled})
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req transport.StatusRequest
	if err := bindValid(c, &req); err != nil {
		return badBody(l, "update_status_error", err)
	}

	order, err := h.Svc.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return fail(l, "update_status_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"order_id": order.ID, "status": order.Status})
}
