package service

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

type CartLine struct {
	Product  models.Product
	Quantity uint
	Subtotal decimal.Decimal
}

type CartView struct {
	Lines []CartLine
	Total decimal.Decimal
}

// MaxCartQuantity bounds a single cart line.
const MaxCartQuantity uint = 1000

func validQuantity(qty uint) error {
	if qty == 0 {
		return fmt.Errorf("quantity must be more than zero: %w", ErrValidation)
	}
	if qty > MaxCartQuantity {
		return fmt.Errorf("quantity must not exceed %d: %w", MaxCartQuantity, ErrValidation)
	}
	return nil
}

type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) GetCart(ctx context.Context) (*CartView, error) {
	customerID, err := customerFrom(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.Repo.GetCart(ctx, customerID)
	if err != nil {
		return nil, fromRepo(err)
	}
	products, err := s.Repo.ProductsByIDs(ctx, lo.Map(items, func(it models.CartItem, _ int) uint { return it.ProductID }))
	if err != nil {
		return nil, fromRepo(err)
	}
	byID := lo.KeyBy(products, func(p models.Product) uint { return p.ID })

	view := &CartView{Lines: make([]CartLine, 0, len(items)), Total: decimal.Zero}
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			continue
		}
		sub := p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		view.Lines = append(view.Lines, CartLine{Product: p, Quantity: it.Quantity, Subtotal: sub})
		view.Total = view.Total.Add(sub)
	}
	return view, nil
}

func (s *CartService) AddToCart(ctx context.Context, productID uint, qty uint) (*models.CartItem, error) {
	customerID, err := customerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if productID == 0 {
		return nil, fmt.Errorf("product_id required: %w", ErrValidation)
	}
	if err := validQuantity(qty); err != nil {
		return nil, err
	}

	item := &models.CartItem{CustomerID: customerID, ProductID: productID, Quantity: qty}
	err = s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.GetProduct(ctx, productID); err != nil {
			return err
		}
		items, err := tx.GetCart(ctx, customerID)
		if err != nil {
			return err
		}
		if cur, ok := lo.Find(items, func(it models.CartItem) bool { return it.ProductID == productID }); ok {
			if err := validQuantity(cur.Quantity + qty); err != nil {
				return err
			}
		}
		return tx.AddToCart(ctx, item)
	})
	if err != nil {
		return nil, fromRepo(err)
	}
	return item, nil
}

func (s *CartService) SetQuantity(ctx context.Context, productID uint, qty uint) (*models.CartItem, error) {
	customerID, err := customerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := validQuantity(qty); err != nil {
		return nil, err
	}

	item, err := s.Repo.SetCartQuantity(ctx, customerID, productID, qty)
	if err != nil {
		return nil, fromRepo(err)
	}
	return item, nil
}

func (s *CartService) Remove(ctx context.Context, productID uint) error {
	customerID, err := customerFrom(ctx)
	if err != nil {
		return err
	}
	return fromRepo(s.Repo.DeleteFromCart(ctx, customerID, productID))
}

func (s *CartService) Clear(ctx context.Context) error {
	customerID, err := customerFrom(ctx)
	if err != nil {
		return err
	}
	_, err = s.Repo.ClearCart(ctx, customerID)
	return fromRepo(err)
}
