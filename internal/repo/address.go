package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) ListAddresses(ctx context.Context, customerID uint) ([]models.Address, error) {
	var items []models.Address
	if err := r.DB.WithContext(ctx).Where("customer_id = ?", customerID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, classify(err)
	}
	return items, nil
}

// GetOwnedAddress reports ErrNotFound both for a missing address and for one
// that belongs to another customer.
func (r *GormRepo) GetOwnedAddress(ctx context.Context, customerID, id uint) (*models.Address, error) {
	var a models.Address
	if err := r.DB.WithContext(ctx).Where("id = ? AND customer_id = ?", id, customerID).First(&a).Error; err != nil {
		return nil, classify(err)
	}
	return &a, nil
}

func (r *GormRepo) CreateAddress(ctx context.Context, a *models.Address) error {
	return classify(r.DB.WithContext(ctx).Create(a).Error)
}

func (r *GormRepo) SaveAddress(ctx context.Context, a *models.Address) error {
	return classify(r.DB.WithContext(ctx).Save(a).Error)
}

func (r *GormRepo) DeleteAddress(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Address{}, id)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return classify(gorm.ErrRecordNotFound)
	}
	return nil
}
