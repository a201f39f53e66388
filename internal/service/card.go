package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

var (
	cardNumberRe = regexp.MustCompile(`^[0-9]{12,19}$`)
	expiryRe     = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
)

type CardPatch struct {
	ExpiryDate *string
	AddressID  *uint
}

type CardService struct {
	Repo *repo.GormRepo
}

// NormalizeCardNumber strips spaces and dashes and checks the digit count.
func NormalizeCardNumber(raw string) (string, error) {
	n := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(raw))
	if !cardNumberRe.MatchString(n) {
		return "", fmt.Errorf("%w: card_number must be 12 to 19 digits", ErrValidation)
	}
	return n, nil
}

func validateExpiry(exp string) error {
	if !expiryRe.MatchString(exp) {
		return fmt.Errorf("%w: expiry_date must be MM/YY", ErrValidation)
	}
	return nil
}

func (s *CardService) List(ctx context.Context) ([]models.CreditCard, error) {
	customerID, err := customerFrom(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.ListCards(ctx, customerID)
	return items, fromRepo(err)
}

func (s *CardService) Get(ctx context.Context, number string) (*models.CreditCard, error) {
	customerID, err := customerFrom(ctx)
	if err != nil {
		return nil, err
	}
	c, err := s.Repo.GetOwnedCard(ctx, customerID, number)
	if err != nil {
		return nil, fromRepo(err)
	}
	return c, nil
}

func (s *CardService) Create(ctx context.Context, c models.CreditCard) (*models.CreditCard, error) {
	customerID, err := customerFrom(ctx)
	if err != nil {
		return nil, err
	}

	c.CardNumber, err = NormalizeCardNumber(c.CardNumber)
	if err != nil {
		return nil, err
	}
	if err := validateExpiry(c.ExpiryDate); err != nil {
		return nil, err
	}
	c.CustomerID = customerID

	err = s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.GetOwnedAddress(ctx, customerID, c.AddressID); err != nil {
			return fmt.Errorf("billing address %d: %w", c.AddressID, err)
		}
		return tx.CreateCard(ctx, &c)
	})
	if err != nil {
		return nil, fromRepo(err)
	}
	return &c, nil
}

func (s *CardService) Update(ctx context.Context, number string, patch CardPatch) (*models.CreditCard, error) {
	customerID, err := customerFrom(ctx)
	if err != nil {
		return nil, err
	}

	var c *models.CreditCard
	err = s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		var err error
		c, err = tx.GetOwnedCard(ctx, customerID, number)
		if err != nil {
			return err
		}
		if patch.ExpiryDate != nil {
			if err := validateExpiry(*patch.ExpiryDate); err != nil {
				return err
			}
			c.ExpiryDate = *patch.ExpiryDate
		}
		if patch.AddressID != nil {
			if _, err := tx.GetOwnedAddress(ctx, customerID, *patch.AddressID); err != nil {
				return fmt.Errorf("billing address %d: %w", *patch.AddressID, err)
			}
			c.AddressID = *patch.AddressID
		}
		return tx.SaveCard(ctx, c)
	})
	if err != nil {
		return nil, fromRepo(err)
	}
	return c, nil
}

// Delete refuses with ErrInUse once any order was paid with the card.
func (s *CardService) Delete(ctx context.Context, number string) error {
	customerID, err := customerFrom(ctx)
	if err != nil {
		return err
	}

	return fromRepo(s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.GetOwnedCard(ctx, customerID, number); err != nil {
			return err
		}
		used, err := tx.CardInUse(ctx, number)
		if err != nil {
			return err
		}
		if used {
			return fmt.Errorf("%w: card", ErrInUse)
		}
		return tx.DeleteCard(ctx, number)
	}))
}

func (s *CardService) InUse(ctx context.Context, number string) (bool, error) {
	if _, err := s.Get(ctx, number); err != nil {
		return false, err
	}
	used, err := s.Repo.CardInUse(ctx, number)
	return used, fromRepo(err)
}
