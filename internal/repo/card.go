package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) ListCards(ctx context.Context, customerID uint) ([]models.CreditCard, error) {
	var items []models.CreditCard
	if err := r.DB.WithContext(ctx).Where("customer_id = ?", customerID).Order("card_number ASC").Find(&items).Error; err != nil {
		return nil, classify(err)
	}
	return items, nil
}

func (r *GormRepo) GetOwnedCard(ctx context.Context, customerID uint, number string) (*models.CreditCard, error) {
	var c models.CreditCard
	if err := r.DB.WithContext(ctx).Where("card_number = ? AND customer_id = ?", number, customerID).First(&c).Error; err != nil {
		return nil, classify(err)
	}
	return &c, nil
}

func (r *GormRepo) CreateCard(ctx context.Context, c *models.CreditCard) error {
	return classify(r.DB.WithContext(ctx).Create(c).Error)
}

func (r *GormRepo) SaveCard(ctx context.Context, c *models.CreditCard) error {
	return classify(r.DB.WithContext(ctx).Save(c).Error)
}

func (r *GormRepo) DeleteCard(ctx context.Context, number string) error {
	res := r.DB.WithContext(ctx).Where("card_number = ?", number).Delete(&models.CreditCard{})
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return classify(gorm.ErrRecordNotFound)
	}
	return nil
}
