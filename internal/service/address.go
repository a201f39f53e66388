package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

type AddressPatch struct {
	Street1 *string
	Street2 *string
	City    *string
	State   *string
	ZipCode *string
}

type AddressService struct {
	Repo *repo.GormRepo
}

func validateAddress(a *models.Address) error {
	a.Street1 = strings.TrimSpace(a.Street1)
	a.Street2 = strings.TrimSpace(a.Street2)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.ZipCode = strings.TrimSpace(a.ZipCode)

	switch {
	case a.Street1 == "":
		return fmt.Errorf("%w: street_1 required", ErrValidation)
	case a.City == "":
		return fmt.Errorf("%w: city required", ErrValidation)
	case a.State == "":
		return fmt.Errorf("%w: state required", ErrValidation)
	case a.ZipCode == "":
		return fmt.Errorf("%w: zip_code required", ErrValidation)
	}
	return nil
}

func (s *AddressService) List(ctx context.Context) ([]models.Address, error) {
	customerID, err := customerFrom(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.ListAddresses(ctx, customerID)
	return items, fromRepo(err)
}

func (s *AddressService) Get(ctx context.Context, id uint) (*models.Address, error) {
	customerID, err := customerFrom(ctx)
	if err != nil {
		return nil, err
	}
	a, err := s.Repo.GetOwnedAddress(ctx, customerID, id)
	if err != nil {
		return nil, fromRepo(err)
	}
	return a, nil
}

func (s *AddressService) Create(ctx context.Context, a models.Address) (*models.Address, error) {
	customerID, err := customerFrom(ctx)
	if err != nil {
		return nil, err
	}
	a.ID = 0
	a.CustomerID = customerID
	if err := validateAddress(&a); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateAddress(ctx, &a); err != nil {
		return nil, fromRepo(err)
	}
	return &a, nil
}

func (s *AddressService) Update(ctx context.Context, id uint, patch AddressPatch) (*models.Address, error) {
	customerID, err := customerFrom(ctx)
	if err != nil {
		return nil, err
	}

	var a *models.Address
	err = s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		var err error
		a, err = tx.GetOwnedAddress(ctx, customerID, id)
		if err != nil {
			return err
		}
		if patch.Street1 != nil {
			a.Street1 = *patch.Street1
		}
		if patch.Street2 != nil {
			a.Street2 = *patch.Street2
		}
		if patch.City != nil {
			a.City = *patch.City
		}
		if patch.State != nil {
			a.State = *patch.State
		}
		if patch.ZipCode != nil {
			a.ZipCode = *patch.ZipCode
		}
		if err := validateAddress(a); err != nil {
			return err
		}
		return tx.SaveAddress(ctx, a)
	})
	if err != nil {
		return nil, fromRepo(err)
	}
	return a, nil
}

// Delete refuses with ErrInUse while anything still references the address.
// The check and the delete share one transaction.
func (s *AddressService) Delete(ctx context.Context, id uint) error {
	customerID, err := customerFrom(ctx)
	if err != nil {
		return err
	}

	return fromRepo(s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.GetOwnedAddress(ctx, customerID, id); err != nil {
			return err
		}
		used, err := tx.AddressInUse(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return fmt.Errorf("%w: address %d", ErrInUse, id)
		}
		return tx.DeleteAddress(ctx, id)
	}))
}

func (s *AddressService) InUse(ctx context.Context, id uint) (bool, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return false, err
	}
	used, err := s.Repo.AddressInUse(ctx, id)
	return used, fromRepo(err)
}
