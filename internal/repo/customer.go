package repo

import (
	"context"
	"strings"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) CreateCustomer(ctx context.Context, c *models.Customer) error {
	return classify(r.DB.WithContext(ctx).Create(c).Error)
}

func (r *GormRepo) CustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var c models.Customer
	if err := r.DB.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&c).Error; err != nil {
		return nil, classify(err)
	}
	return &c, nil
}

func (r *GormRepo) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var c models.Customer
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, classify(err)
	}
	return &c, nil
}

func (r *GormRepo) SetCustomerAddress(ctx context.Context, customerID uint, addressID *uint) error {
	return classify(r.DB.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", customerID).Update("address_id", addressID).Error)
}

func (r *GormRepo) CreateStaff(ctx context.Context, s *models.Staff) error {
	return classify(r.DB.WithContext(ctx).Create(s).Error)
}

func (r *GormRepo) StaffByEmail(ctx context.Context, email string) (*models.Staff, error) {
	var s models.Staff
	if err := r.DB.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&s).Error; err != nil {
		return nil, classify(err)
	}
	return &s, nil
}

func (r *GormRepo) GetStaff(ctx context.Context, id uint) (*models.Staff, error) {
	var s models.Staff
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, classify(err)
	}
	return &s, nil
}
