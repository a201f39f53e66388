package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

type WarehouseStock struct {
	WarehouseID uint   `json:"warehouse_id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Quantity    int64  `json:"quantity"`
}

func (r *GormRepo) ListStock(ctx context.Context, productID uint) ([]models.Stock, error) {
	q := r.DB.WithContext(ctx).Model(&models.Stock{})
	if productID != 0 {
		q = q.Where("product_id = ?", productID)
	}

	var rows []models.Stock
	if err := q.Order("product_id ASC, warehouse_id ASC").Find(&rows).Error; err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

func (r *GormRepo) StockForProduct(ctx context.Context, productID uint) ([]WarehouseStock, error) {
	var rows []WarehouseStock
	err := r.DB.WithContext(ctx).
		Table("stock").
		Select("stock.warehouse_id, warehouses.name, warehouses.location, stock.quantity").
		Joins("JOIN warehouses ON warehouses.id = stock.warehouse_id").
		Where("stock.product_id = ?", productID).
		Order("stock.warehouse_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

// PickWarehouse returns the stock row with the most units of the product
// that can cover qty on its own, ties going to the lowest warehouse id.
func (r *GormRepo) PickWarehouse(ctx context.Context, productID uint, qty uint) (*models.Stock, error) {
	var st models.Stock
	err := r.forUpdate(r.DB.WithContext(ctx)).
		Where("product_id = ? AND quantity >= ?", productID, qty).
		Order("quantity DESC, warehouse_id ASC").
		Take(&st).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d needs %d", ErrStockShortage, productID, qty)
		}
		return nil, classify(err)
	}
	return &st, nil
}

func (r *GormRepo) DecrementStock(ctx context.Context, productID, warehouseID uint, qty uint) error {
	res := r.DB.WithContext(ctx).Model(&models.Stock{}).
		Where("product_id = ? AND warehouse_id = ? AND quantity >= ?", productID, warehouseID, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product %d in warehouse %d", ErrStockShortage, productID, warehouseID)
	}
	return nil
}

func (r *GormRepo) IncrementStock(ctx context.Context, productID, warehouseID uint, qty uint) error {
	db := r.DB.WithContext(ctx)
	res := db.Model(&models.Stock{}).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		Update("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	return classify(db.Create(&models.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: int64(qty)}).Error)
}

// AdjustStock adds delta (possibly negative) to a stock row, creating it
// when absent. The result never drops below zero.
func (r *GormRepo) AdjustStock(ctx context.Context, productID, warehouseID uint, delta int64) (*models.Stock, error) {
	db := r.DB.WithContext(ctx)

	res := db.Model(&models.Stock{}).
		Where("product_id = ? AND warehouse_id = ? AND quantity + ? >= 0", productID, warehouseID, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return nil, classify(res.Error)
	}

	if res.RowsAffected == 0 {
		found, err := exists(db.Model(&models.Stock{}).Where("product_id = ? AND warehouse_id = ?", productID, warehouseID))
		if err != nil {
			return nil, err
		}
		if found || delta < 0 {
			return nil, fmt.Errorf("%w: product %d in warehouse %d", ErrStockShortage, productID, warehouseID)
		}
		if err := db.Create(&models.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: delta}).Error; err != nil {
			return nil, classify(err)
		}
	}

	var st models.Stock
	if err := db.Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).First(&st).Error; err != nil {
		return nil, classify(err)
	}
	return &st, nil
}
