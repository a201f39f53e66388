package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	return classify(r.DB.WithContext(ctx).Create(o).Error)
}

func (r *GormRepo) CreateOrderLine(ctx context.Context, line *models.OrderLine) error {
	return classify(r.DB.WithContext(ctx).Create(line).Error)
}

func (r *GormRepo) CreateDelivery(ctx context.Context, d *models.Delivery) error {
	return classify(r.DB.WithContext(ctx).Create(d).Error)
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, classify(err)
	}
	return &o, nil
}

// GetOrderForUpdate is GetOrder holding the row lock until the transaction ends.
func (r *GormRepo) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	if err := r.forUpdate(r.DB.WithContext(ctx)).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, classify(err)
	}
	return &o, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, customerID uint, offset, limit int) (int64, []models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Where("customer_id = ?", customerID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, classify(err)
	}

	var orders []models.Order
	if err := q.Order("created_at DESC, id ASC").Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
		return 0, nil, classify(err)
	}
	return total, orders, nil
}

func (r *GormRepo) OrderLines(ctx context.Context, orderIDs ...uuid.UUID) ([]models.OrderLine, error) {
	if len(orderIDs) == 0 {
		return []models.OrderLine{}, nil
	}
	var lines []models.OrderLine
	if err := r.DB.WithContext(ctx).Where("order_id IN ?", orderIDs).Order("id ASC").Find(&lines).Error; err != nil {
		return nil, classify(err)
	}
	return lines, nil
}

func (r *GormRepo) DeliveryForOrder(ctx context.Context, orderID uuid.UUID) (*models.Delivery, error) {
	var d models.Delivery
	if err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).First(&d).Error; err != nil {
		return nil, classify(err)
	}
	return &d, nil
}

// SetOrderStatus moves the order from one status to another and fails with
// ErrStateChanged when the stored status is no longer from.
func (r *GormRepo) SetOrderStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: order %s is not %s", ErrStateChanged, id, from)
	}
	return nil
}
