package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
)

type fakeIndex struct {
	indexed map[uint]models.Product
	ids     []uint
	err     error
}

func (i *fakeIndex) Index(_ context.Context, p models.Product) error {
	if i.indexed == nil {
		i.indexed = map[uint]models.Product{}
	}
	i.indexed[p.ID] = p
	return nil
}

func (i *fakeIndex) Delete(_ context.Context, id uint) error {
	delete(i.indexed, id)
	return nil
}

func (i *fakeIndex) Search(_ context.Context, _ string, _, _ int) (int64, []uint, error) {
	return int64(len(i.ids)), i.ids, i.err
}

func TestCatalog_CreateIndexesAndPublishes(t *testing.T) {
	f := newFixture(t)
	idx := &fakeIndex{}
	f.catalog.Index = idx

	_, err := f.catalog.CreateProduct(context.Background(), models.Product{Name: " ", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.catalog.CreateProduct(context.Background(), models.Product{Name: "Cap", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrValidation)

	p, err := f.catalog.CreateProduct(context.Background(), models.Product{Name: "Cap", Category: "hats", Price: decimal.RequireFromString("9.99")})
	require.NoError(t, err)
	assert.Contains(t, idx.indexed, p.ID)

	name := "Cap v2"
	p, err = f.catalog.UpdateProduct(context.Background(), p.ID, ProductPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Cap v2", idx.indexed[p.ID].Name)

	events := f.pub.byTopic(TopicProducts)
	require.Len(t, events, 2)
	assert.Equal(t, "product_updated", events[1].Event.(ProductEvent).Type)
}

func TestCatalog_SearchUsesIndexOrder(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "1.00")
	b := f.product(t, "2.00")
	f.catalog.Index = &fakeIndex{ids: []uint{b.ID, a.ID, 999}}

	total, items, err := f.catalog.Search(context.Background(), "anything", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, a.ID, items[1].ID)
}

func TestCatalog_SearchFallsBackToSQL(t *testing.T) {
	f := newFixture(t)
	_, err := f.catalog.CreateProduct(context.Background(), models.Product{Name: "Rain Jacket", Price: decimal.NewFromInt(60)})
	require.NoError(t, err)
	f.catalog.Index = &fakeIndex{err: errors.New("connection refused")}

	total, items, err := f.catalog.Search(context.Background(), "jacket", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Rain Jacket", items[0].Name)

	total, items, err = f.catalog.Search(context.Background(), "   ", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestCatalog_DeleteProduct(t *testing.T) {
	f := newFixture(t)
	s := f.newShopper(t)

	sold := f.product(t, "1.00")
	unsold := f.product(t, "1.00")
	w := f.warehouse(t)
	f.stock(t, sold.ID, w.ID, 2)
	f.stock(t, unsold.ID, w.ID, 2)
	placeOrder(t, f, s, sold.ID, 1)

	assert.ErrorIs(t, f.catalog.DeleteProduct(context.Background(), sold.ID), ErrInUse)
	require.NoError(t, f.catalog.DeleteProduct(context.Background(), unsold.ID))

	_, err := f.catalog.GetProduct(context.Background(), unsold.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	rows, err := f.inventory.ListStock(context.Background(), unsold.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCatalog_ListAndStock(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "1.00")
	_, err := f.catalog.CreateProduct(context.Background(), models.Product{Name: "Scarf", Category: "winter", Price: decimal.NewFromInt(15)})
	require.NoError(t, err)

	total, items, err := f.catalog.ListProducts(context.Background(), "winter", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Scarf", items[0].Name)

	w := f.warehouse(t)
	f.stock(t, p.ID, w.ID, 7)
	rows, err := f.catalog.ProductStock(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, w.Location, rows[0].Location)
	assert.EqualValues(t, 7, rows[0].Quantity)

	_, err = f.catalog.ProductStock(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}
