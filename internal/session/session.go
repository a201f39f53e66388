// Package session carries the authenticated identity through context.Context.
package session

import "context"

type customerKey struct{}
type staffKey struct{}

func WithCustomer(ctx context.Context, customerID uint) context.Context {
	return context.WithValue(ctx, customerKey{}, customerID)
}

func CustomerFrom(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(customerKey{}).(uint)
	return id, ok && id != 0
}

func WithStaff(ctx context.Context, staffID uint) context.Context {
	return context.WithValue(ctx, staffKey{}, staffID)
}

func StaffFrom(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(staffKey{}).(uint)
	return id, ok && id != 0
}
