package repo

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/models"
)

// AddressInUse reports whether any delivery, customer default, staff record
// or card billing address points at the address.
func (r *GormRepo) AddressInUse(ctx context.Context, id uint) (bool, error) {
	db := r.DB.WithContext(ctx)

	for _, m := range []any{&models.Delivery{}, &models.Customer{}, &models.Staff{}, &models.CreditCard{}} {
		used, err := exists(db.Model(m).Where("address_id = ?", id))
		if err != nil || used {
			return used, err
		}
	}
	return false, nil
}

func (r *GormRepo) CardInUse(ctx context.Context, number string) (bool, error) {
	return exists(r.DB.WithContext(ctx).Model(&models.Order{}).Where("card_number = ?", number))
}
