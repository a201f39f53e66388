package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type AddressHTTP struct {
	Svc *service.AddressService
}

func (h *AddressHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.list")

	items, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_addresses_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AddressHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.get")

	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	a, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_address_error", err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AddressHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.create")

	var req transport.AddressRequest
	if err := bindValid(c, &req); err != nil {
		return badBody(l, "create_address_error", err)
	}

	a, err := h.Svc.Create(ctx, models.Address{
		Street1: req.Street1,
		Street2: req.Street2,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
	})
	if err != nil {
		return fail(l, "create_address_error", err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *AddressHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.update")

	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var req transport.AddressPatchRequest
	if err := bindValid(c, &req); err != nil {
		return badBody(l, "update_address_error", err)
	}

	a, err := h.Svc.Update(ctx, id, service.AddressPatch{
		Street1: req.Street1,
		Street2: req.Street2,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
	})
	if err != nil {
		return fail(l, "update_address_error", err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AddressHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.delete")

	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_address_error", err)
	}

	l.Info("delete_address_success", "address_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *AddressHTTP) InUse(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.in_use")

	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	used, err := h.Svc.InUse(ctx, id)
	if err != nil {
		return fail(l, "address_in_use_error", err)
	}
	return c.JSON(http.StatusOK, transport.InUseResponse{InUse: used})
}
