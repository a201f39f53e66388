package service

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/session"
)

func customerFrom(ctx context.Context) (uint, error) {
	id, ok := session.CustomerFrom(ctx)
	if !ok {
		return 0, ErrUnauthorized
	}
	return id, nil
}

// viewer returns the calling customer, or staff=true for a staff session.
func viewer(ctx context.Context) (customerID uint, staff bool, err error) {
	if _, ok := session.StaffFrom(ctx); ok {
		return 0, true, nil
	}
	id, err := customerFrom(ctx)
	return id, false, err
}
