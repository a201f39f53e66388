package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
)

type InventoryHTTP struct {
	Svc *service.InventoryService
}

func (h *InventoryHTTP) ListWarehouses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "warehouse.list")

	items, err := h.Svc.ListWarehouses(ctx)
	if err != nil {
		return fail(l, "list_warehouses_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *InventoryHTTP) GetWarehouse(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "warehouse.get")

	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	w, err := h.Svc.GetWarehouse(ctx, id)
	if err != nil {
		return fail(l, "get_warehouse_error", err)
	}
	return c.JSON(http.StatusOK, w)
}

func (h *InventoryHTTP) CreateWarehouse(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "warehouse.create")

	var req transport.WarehouseRequest
	if err := bindValid(c, &req); err != nil {
		return badBody(l, "create_warehouse_error", err)
	}
	w, err := h.Svc.CreateWarehouse(ctx, models.Warehouse{Name: req.Name, Location: req.Location})
	if err != nil {
		return fail(l, "create_warehouse_error", err)
	}
	return c.JSON(http.StatusCreated, w)
}

func (h *InventoryHTTP) UpdateWarehouse(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "warehouse.update")

	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var req transport.WarehousePatchRequest
	if err := bindValid(c, &req); err != nil {
		return badBody(l, "update_warehouse_error", err)
	}
	w, err := h.Svc.UpdateWarehouse(ctx, id, req.Name, req.Location)
	if err != nil {
		return fail(l, "update_warehouse_error", err)
	}
	return c.JSON(http.StatusOK, w)
}

func (h *InventoryHTTP) DeleteWarehouse(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "warehouse.delete")

	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteWarehouse(ctx, id); err != nil {
		return fail(l, "delete_warehouse_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *InventoryHTTP) UpdateStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "stock.update")

	var req transport.StockUpdateRequest
	if err := bindValid(c, &req); err != nil {
		return badBody(l, "update_stock_error", err)
	}
	st, err := h.Svc.AdjustStock(ctx, req.ProductID, req.WarehouseID, req.AddedQuantity)
	if err != nil {
		return fail(l, "update_stock_error", err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *InventoryHTTP) ListStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "stock.list")

	var productID uint
	if raw := c.QueryParam("product_id"); raw != "" {
		v := util.ParseIntDefault(raw, 0)
		if v <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid product_id")
		}
		productID = uint(v)
	}

	rows, err := h.Svc.ListStock(ctx, productID)
	if err != nil {
		return fail(l, "list_stock_error", err)
	}
	return c.JSON(http.StatusOK, rows)
}
