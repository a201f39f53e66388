package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

type InventoryService struct {
	Repo   *repo.GormRepo
	Events Publisher
}

func validateWarehouse(w *models.Warehouse) error {
	w.Name = strings.TrimSpace(w.Name)
	w.Location = strings.TrimSpace(w.Location)
	if w.Name == "" || w.Location == "" {
		return fmt.Errorf("%w: name and location required", ErrValidation)
	}
	return nil
}

func (s *InventoryService) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	items, err := s.Repo.ListWarehouses(ctx)
	return items, fromRepo(err)
}

func (s *InventoryService) GetWarehouse(ctx context.Context, id uint) (*models.Warehouse, error) {
	w, err := s.Repo.GetWarehouse(ctx, id)
	if err != nil {
		return nil, fromRepo(err)
	}
	return w, nil
}

func (s *InventoryService) CreateWarehouse(ctx context.Context, w models.Warehouse) (*models.Warehouse, error) {
	w.ID = 0
	if err := validateWarehouse(&w); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateWarehouse(ctx, &w); err != nil {
		return nil, fromRepo(err)
	}
	return &w, nil
}

func (s *InventoryService) UpdateWarehouse(ctx context.Context, id uint, name, location *string) (*models.Warehouse, error) {
	var w *models.Warehouse
	err := s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		var err error
		w, err = tx.GetWarehouse(ctx, id)
		if err != nil {
			return err
		}
		if name != nil {
			w.Name = *name
		}
		if location != nil {
			w.Location = *location
		}
		if err := validateWarehouse(w); err != nil {
			return err
		}
		return tx.SaveWarehouse(ctx, w)
	})
	if err != nil {
		return nil, fromRepo(err)
	}
	return w, nil
}

func (s *InventoryService) DeleteWarehouse(ctx context.Context, id uint) error {
	return fromRepo(s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.GetWarehouse(ctx, id); err != nil {
			return err
		}
		used, err := tx.WarehouseInUse(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return fmt.Errorf("%w: warehouse %d holds stock", ErrInUse, id)
		}
		return tx.DeleteWarehouse(ctx, id)
	}))
}

// AdjustStock adds delta to a product's stock in one warehouse. A negative
// delta that would take the row below zero is ErrInsufficientStock.
func (s *InventoryService) AdjustStock(ctx context.Context, productID, warehouseID uint, delta int64) (*models.Stock, error) {
	l := logging.FromContext(ctx).With("svc", "inventory.adjust_stock", "product_id", productID, "warehouse_id", warehouseID)

	if productID == 0 || warehouseID == 0 {
		return nil, fmt.Errorf("%w: product_id and warehouse_id required", ErrValidation)
	}
	if delta == 0 {
		return nil, fmt.Errorf("%w: added_quantity must not be zero", ErrValidation)
	}

	var st *models.Stock
	err := s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.GetProduct(ctx, productID); err != nil {
			return fmt.Errorf("product %d: %w", productID, err)
		}
		if _, err := tx.GetWarehouse(ctx, warehouseID); err != nil {
			return fmt.Errorf("warehouse %d: %w", warehouseID, err)
		}
		var err error
		st, err = tx.AdjustStock(ctx, productID, warehouseID, delta)
		return err
	})
	if err != nil {
		err = fromRepo(err)
		l.Warn("adjust_stock_error", "delta", delta, "error", err)
		return nil, err
	}

	l.Info("adjust_stock_success", "delta", delta, "quantity", st.Quantity)
	publish(ctx, s.Events, TopicStock, fmt.Sprint(productID), StockEvent{
		Type:        "stock_adjusted",
		ProductID:   productID,
		WarehouseID: warehouseID,
		Delta:       delta,
		Reason:      "manual",
		At:          time.Now().UTC(),
	})
	return st, nil
}

func (s *InventoryService) ListStock(ctx context.Context, productID uint) ([]models.Stock, error) {
	rows, err := s.Repo.ListStock(ctx, productID)
	return rows, fromRepo(err)
}
