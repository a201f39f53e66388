package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/storefront/internal/repo"
)

type OrderService struct {
	Repo      *repo.GormRepo
	Events    Publisher
	Pricing   DeliveryPricing
	TxTimeout time.Duration
	Now       func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *OrderService) txContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.TxTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.TxTimeout)
}
