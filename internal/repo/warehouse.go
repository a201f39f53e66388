package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	var items []models.Warehouse
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, classify(err)
	}
	return items, nil
}

func (r *GormRepo) GetWarehouse(ctx context.Context, id uint) (*models.Warehouse, error) {
	var w models.Warehouse
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&w).Error; err != nil {
		return nil, classify(err)
	}
	return &w, nil
}

func (r *GormRepo) CreateWarehouse(ctx context.Context, w *models.Warehouse) error {
	return classify(r.DB.WithContext(ctx).Create(w).Error)
}

func (r *GormRepo) SaveWarehouse(ctx context.Context, w *models.Warehouse) error {
	return classify(r.DB.WithContext(ctx).Save(w).Error)
}

// WarehouseInUse reports whether the warehouse still holds stock or supplied
// a line of an order that can still be cancelled back into it.
func (r *GormRepo) WarehouseInUse(ctx context.Context, id uint) (bool, error) {
	db := r.DB.WithContext(ctx)

	held, err := exists(db.Model(&models.Stock{}).Where("warehouse_id = ? AND quantity > 0", id))
	if err != nil || held {
		return held, err
	}

	return exists(db.Model(&models.OrderLine{}).
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Where("order_lines.warehouse_id = ? AND orders.status = ?", id, models.OrderStatusProcessing))
}

func (r *GormRepo) DeleteWarehouse(ctx context.Context, id uint) error {
	db := r.DB.WithContext(ctx)
	if err := db.Where("warehouse_id = ?", id).Delete(&models.Stock{}).Error; err != nil {
		return classify(err)
	}

	res := db.Delete(&models.Warehouse{}, id)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return classify(gorm.ErrRecordNotFound)
	}
	return nil
}
