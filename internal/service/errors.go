package service

import (
	"errors"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/repo"
)

var (
	ErrValidation   = errors.New("validation")         // 400
	ErrUnauthorized = errors.New("unauthorized")       // 401
	ErrForbidden    = errors.New("forbidden")          // 403
	ErrNotFound     = errors.New("not found")          // 404
	ErrConflict     = errors.New("conflict")           // 409
	ErrTransaction  = errors.New("transaction failed") // 500

	ErrEmptyCart         = fmt.Errorf("cart is empty: %w", ErrValidation)
	ErrInsufficientStock = fmt.Errorf("insufficient stock: %w", ErrConflict)
	ErrInUse             = fmt.Errorf("in use: %w", ErrConflict)
	ErrInvalidState      = fmt.Errorf("invalid state: %w", ErrConflict)

	ErrCheckoutFailed = errors.New("checkout failed")
)

// categories are ordered from most to least specific.
var categories = []error{
	ErrEmptyCart,
	ErrInsufficientStock,
	ErrInUse,
	ErrInvalidState,
	ErrValidation,
	ErrUnauthorized,
	ErrForbidden,
	ErrNotFound,
	ErrConflict,
	ErrTransaction,
}

func category(err error) error {
	for _, c := range categories {
		if errors.Is(err, c) {
			return c
		}
	}
	return ErrTransaction
}

// fromRepo lifts a repository error into the service taxonomy, keeping the cause.
func fromRepo(err error) error {
	if err == nil {
		return nil
	}
	for _, c := range categories {
		if errors.Is(err, c) {
			return err
		}
	}

	var sentinel error
	switch {
	case errors.Is(err, repo.ErrNotFound):
		sentinel = ErrNotFound
	case errors.Is(err, repo.ErrStockShortage):
		sentinel = ErrInsufficientStock
	case errors.Is(err, repo.ErrStateChanged):
		sentinel = ErrInvalidState
	case errors.Is(err, repo.ErrDuplicate), errors.Is(err, repo.ErrSerialization),
		errors.Is(err, repo.ErrForeignKey), errors.Is(err, repo.ErrCheckViolation):
		sentinel = ErrConflict
	default:
		sentinel = ErrTransaction
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
