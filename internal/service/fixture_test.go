package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"

	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/session"
)

type recordedEvent struct {
	Topic string
	Key   string
	Event any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Topic: topic, Key: key, Event: event})
	return nil
}

func (p *recordingPublisher) byTopic(topic string) []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []recordedEvent
	for _, e := range p.events {
		if e.Topic == topic {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	repo      *repo.GormRepo
	pub       *recordingPublisher
	orders    *OrderService
	cart      *CartService
	addresses *AddressService
	cards     *CardService
	catalog   *CatalogService
	inventory *InventoryService
	auth      *AuthService
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.Open(ctx, db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.New(gdb)
	pub := &recordingPublisher{}
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	return &fixture{
		repo: r,
		pub:  pub,
		orders: &OrderService{
			Repo:      r,
			Events:    pub,
			Pricing:   DefaultPricing(currency.USD),
			TxTimeout: 5 * time.Second,
			Now:       func() time.Time { return now },
		},
		cart:      &CartService{Repo: r},
		addresses: &AddressService{Repo: r},
		cards:     &CardService{Repo: r},
		catalog:   &CatalogService{Repo: r, Events: pub},
		inventory: &InventoryService{Repo: r, Events: pub},
		auth:      &AuthService{Repo: r, JWTSecret: []byte("test-jwt-secret"), AccessTTL: time.Hour},
		now:       now,
	}
}

type shopper struct {
	ctx     context.Context
	id      uint
	address models.Address
	card    models.CreditCard
}

// newShopper registers a customer with one address and one card.
func (f *fixture) newShopper(t *testing.T) shopper {
	t.Helper()
	ctx := context.Background()

	c := models.Customer{
		Email:        gofakeit.Email(),
		PasswordHash: "x",
		FirstName:    gofakeit.FirstName(),
		LastName:     gofakeit.LastName(),
	}
	require.NoError(t, f.repo.CreateCustomer(ctx, &c))

	a := models.Address{
		CustomerID: c.ID,
		Street1:    gofakeit.Street(),
		City:       gofakeit.City(),
		State:      gofakeit.State(),
		ZipCode:    gofakeit.Zip(),
	}
	require.NoError(t, f.repo.CreateAddress(ctx, &a))

	card := models.CreditCard{
		CardNumber: gofakeit.Numerify("4###############"),
		CustomerID: c.ID,
		ExpiryDate: "12/30",
		AddressID:  a.ID,
	}
	require.NoError(t, f.repo.CreateCard(ctx, &card))

	return shopper{ctx: session.WithCustomer(ctx, c.ID), id: c.ID, address: a, card: card}
}

func (f *fixture) product(t *testing.T, price string) models.Product {
	t.Helper()
	p := models.Product{Name: gofakeit.ProductName(), Category: "shoes", Price: decimal.RequireFromString(price)}
	require.NoError(t, f.repo.CreateProduct(context.Background(), &p))
	return p
}

func (f *fixture) warehouse(t *testing.T) models.Warehouse {
	t.Helper()
	w := models.Warehouse{Name: gofakeit.Company(), Location: gofakeit.City()}
	require.NoError(t, f.repo.CreateWarehouse(context.Background(), &w))
	return w
}

func (f *fixture) stock(t *testing.T, productID, warehouseID uint, qty int64) {
	t.Helper()
	_, err := f.repo.AdjustStock(context.Background(), productID, warehouseID, qty)
	require.NoError(t, err)
}

func (f *fixture) quantity(t *testing.T, productID, warehouseID uint) int64 {
	t.Helper()
	var st models.Stock
	require.NoError(t, f.repo.DB.Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).First(&st).Error)
	return st.Quantity
}

func (f *fixture) addToCart(t *testing.T, s shopper, productID uint, qty uint) {
	t.Helper()
	_, err := f.cart.AddToCart(s.ctx, productID, qty)
	require.NoError(t, err)
}

func (f *fixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.repo.DB.Model(model).Count(&n).Error)
	return n
}

func staffCtx() context.Context {
	return session.WithStaff(context.Background(), 1)
}
