package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) GetCart(ctx context.Context, customerID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).Where("customer_id = ?", customerID).Order("product_id ASC").Find(&items).Error; err != nil {
		return nil, classify(err)
	}
	return items, nil
}

// AddToCart adds item.Quantity to the existing entry or creates a new one and
// reloads item with the stored row.
func (r *GormRepo) AddToCart(ctx context.Context, item *models.CartItem) error {
	db := r.DB.WithContext(ctx)

	res := db.Model(&models.CartItem{}).
		Where("customer_id = ? AND product_id = ?", item.CustomerID, item.ProductID).
		Update("quantity", gorm.Expr("quantity + ?", item.Quantity))
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected > 0 {
		return classify(db.Where("customer_id = ? AND product_id = ?", item.CustomerID, item.ProductID).First(item).Error)
	}

	return classify(db.Create(item).Error)
}

func (r *GormRepo) SetCartQuantity(ctx context.Context, customerID, productID uint, qty uint) (*models.CartItem, error) {
	db := r.DB.WithContext(ctx)

	res := db.Model(&models.CartItem{}).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Update("quantity", qty)
	if res.Error != nil {
		return nil, classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, classify(gorm.ErrRecordNotFound)
	}

	var item models.CartItem
	if err := db.Where("customer_id = ? AND product_id = ?", customerID, productID).First(&item).Error; err != nil {
		return nil, classify(err)
	}
	return &item, nil
}

func (r *GormRepo) DeleteFromCart(ctx context.Context, customerID, productID uint) error {
	res := r.DB.WithContext(ctx).Where("customer_id = ? AND product_id = ?", customerID, productID).Delete(&models.CartItem{})
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return classify(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *GormRepo) ClearCart(ctx context.Context, customerID uint) (int64, error) {
	res := r.DB.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&models.CartItem{})
	return res.RowsAffected, classify(res.Error)
}
