package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

// ProductIndex is a full-text index over products. Search returns matching
// ids ordered by relevance.
type ProductIndex interface {
	Index(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, q string, offset, limit int) (int64, []uint, error)
}

type ProductPatch struct {
	Name        *string
	Description *string
	Category    *string
	Brand       *string
	Size        *string
	Price       *decimal.Decimal
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Index  ProductIndex
	Events Publisher
}

func validateProduct(p *models.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: name required", ErrValidation)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	return nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, fromRepo(err)
	}
	return p, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, category string, offset, limit int) (int64, []models.Product, error) {
	total, items, err := s.Repo.ListProducts(ctx, strings.TrimSpace(category), offset, limit)
	return total, items, fromRepo(err)
}

// Search asks the index first and falls back to a LIKE scan when no index is
// configured or the index call fails.
func (s *CatalogService) Search(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.search")

	q = strings.TrimSpace(q)
	if q == "" {
		return 0, []models.Product{}, nil
	}

	if s.Index != nil {
		total, ids, err := s.Index.Search(ctx, q, offset, limit)
		if err == nil {
			products, err := s.Repo.ProductsByIDs(ctx, ids)
			if err != nil {
				return 0, nil, fromRepo(err)
			}
			byID := lo.KeyBy(products, func(p models.Product) uint { return p.ID })
			ordered := lo.FilterMap(ids, func(id uint, _ int) (models.Product, bool) {
				p, ok := byID[id]
				return p, ok
			})
			return total, ordered, nil
		}
		l.Warn("search_index_error", "reason", "falling back to sql", "error", err)
	}

	total, items, err := s.Repo.SearchProducts(ctx, q, offset, limit)
	return total, items, fromRepo(err)
}

func (s *CatalogService) ProductStock(ctx context.Context, id uint) ([]repo.WarehouseStock, error) {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.Repo.StockForProduct(ctx, id)
	return rows, fromRepo(err)
}

func (s *CatalogService) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	p.ID = 0
	if err := validateProduct(&p); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateProduct(ctx, &p); err != nil {
		return nil, fromRepo(err)
	}

	s.afterProductChange(ctx, "product_created", p)
	return &p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, patch ProductPatch) (*models.Product, error) {
	var p *models.Product
	err := s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		var err error
		p, err = tx.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.Category != nil {
			p.Category = *patch.Category
		}
		if patch.Brand != nil {
			p.Brand = *patch.Brand
		}
		if patch.Size != nil {
			p.Size = *patch.Size
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if err := validateProduct(p); err != nil {
			return err
		}
		return tx.SaveProduct(ctx, p)
	})
	if err != nil {
		return nil, fromRepo(err)
	}

	s.afterProductChange(ctx, "product_updated", *p)
	return p, nil
}

// DeleteProduct refuses with ErrInUse once the product appears on an order.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	var p *models.Product
	err := s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		var err error
		p, err = tx.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		used, err := tx.ProductInUse(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return fmt.Errorf("%w: product %d is on an order", ErrInUse, id)
		}
		return tx.DeleteProduct(ctx, id)
	})
	if err != nil {
		return fromRepo(err)
	}

	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_index_error", "product_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, TopicProducts, fmt.Sprint(id), ProductEvent{Type: "product_deleted", ProductID: id, Name: p.Name, Price: p.Price, At: time.Now().UTC()})
	return nil
}

func (s *CatalogService) afterProductChange(ctx context.Context, kind string, p models.Product) {
	if s.Index != nil {
		if err := s.Index.Index(ctx, p); err != nil {
			logging.FromContext(ctx).Warn("search_index_error", "product_id", p.ID, "error", err)
		}
	}
	publish(ctx, s.Events, TopicProducts, fmt.Sprint(p.ID), ProductEvent{Type: kind, ProductID: p.ID, Name: p.Name, Price: p.Price, At: time.Now().UTC()})
}
