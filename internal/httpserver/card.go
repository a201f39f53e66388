package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type CardHTTP struct {
	Svc *service.CardService
}

func cardParam(c echo.Context) (string, error) {
	number, err := service.NormalizeCardNumber(c.Param("number"))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid card number")
	}
	return number, nil
}

func (h *CardHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "card.list")

	cards, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_cards_error", err)
	}
	return c.JSON(http.StatusOK, cards)
}

func (h *CardHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "card.get")

	number, err := cardParam(c)
	if err != nil {
		return err
	}
	card, err := h.Svc.Get(ctx, number)
	if err != nil {
		return fail(l, "get_card_error", err)
	}
	return c.JSON(http.StatusOK, card)
}

func (h *CardHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "card.create")

	var req transport.CardRequest
	if err := bindValid(c, &req); err != nil {
		return badBody(l, "create_card_error", err)
	}

	card, err := h.Svc.Create(ctx, models.CreditCard{
		CardNumber: req.CardNumber,
		ExpiryDate: req.ExpiryDate,
		AddressID:  req.AddressID,
	})
	if err != nil {
		return fail(l, "create_card_error", err)
	}
	return c.JSON(http.StatusCreated, card)
}

func (h *CardHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "card.update")

	number, err := cardParam(c)
	if err != nil {
		return err
	}
	var req transport.CardPatchRequest
	if err := bindValid(c, &req); err != nil {
		return badBody(l, "update_card_error", err)
	}

	card, err := h.Svc.Update(ctx, number, service.CardPatch{ExpiryDate: req.ExpiryDate, AddressID: req.AddressID})
	if err != nil {
		return fail(l, "update_card_error", err)
	}
	return c.JSON(http.StatusOK, card)
}

func (h *CardHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "card.delete")

	number, err := cardParam(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, number); err != nil {
		return fail(l, "delete_card_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CardHTTP) InUse(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "card.in_use")

	number, err := cardParam(c)
	if err != nil {
		return err
	}
	used, err := h.Svc.InUse(ctx, number)
	if err != nil {
		return fail(l, "card_in_use_error", err)
	}
	return c.JSON(http.StatusOK, transport.InUseResponse{InUse: used})
}
