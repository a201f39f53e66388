package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/logging"
	loggingmw "github.com/Skotchmaster/storefront/internal/middleware/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/mykafka"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

const (
	staffEmail    = "ops@shop.test"
	staffPassword = "staff-pass-1"
)

type server struct {
	e  *echo.Echo
	db *gorm.DB
}

func newServer(t *testing.T) *server {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.Open(ctx, db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.New(gdb)
	events := mykafka.Nop{}
	secret := []byte("handler-test-secret")

	authSvc := &service.AuthService{Repo: r, JWTSecret: secret, AccessTTL: time.Hour}
	require.NoError(t, authSvc.EnsureStaff(ctx, staffEmail, staffPassword, "Ops"))

	e := echo.New()
	e.Use(loggingmw.RequestLogger(logging.NewWithWriter(&bytes.Buffer{}, "error")))
	Register(e, &Deps{
		Auth:      &AuthHTTP{Svc: authSvc},
		Cart:      &CartHTTP{Svc: &service.CartService{Repo: r}, Currency: currency.USD},
		Order:     &OrderHTTP{Svc: &service.OrderService{Repo: r, Events: events, Pricing: service.DefaultPricing(currency.USD), TxTimeout: 5 * time.Second}, Currency: currency.USD},
		Address:   &AddressHTTP{Svc: &service.AddressService{Repo: r}},
		Card:      &CardHTTP{Svc: &service.CardService{Repo: r}},
		Product:   &ProductHTTP{Svc: &service.CatalogService{Repo: r, Events: events}},
		Inventory: &InventoryHTTP{Svc: &service.InventoryService{Repo: r, Events: events}},
		JWTSecret: secret,
		Ready:     func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	})
	return &server{e: e, db: gdb}
}

func (s *server) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	switch b := body.(type) {
	case nil:
		reader = strings.NewReader("")
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == tokens.AccessCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", tokens.AccessCookie)
	return nil
}

func (s *server) staff(t *testing.T) *http.Cookie {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/staff/login", map[string]string{"email": staffEmail, "password": staffPassword}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return sessionCookie(t, rec)
}

func (s *server) customer(t *testing.T) *http.Cookie {
	t.Helper()
	email := gofakeit.Email()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"email": email, "password": "customer-pass", "first_name": "Ann", "last_name": "Lee",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": email, "password": "customer-pass"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return sessionCookie(t, rec)
}

type shop struct {
	productID   uint
	warehouseID uint
}

func (s *server) stockedProduct(t *testing.T, staff *http.Cookie, price string, qty int64) shop {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/products", map[string]any{"name": gofakeit.ProductName(), "category": "shoes", "price": price}, staff)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decode[models.Product](t, rec)

	rec = s.do(t, http.MethodPost, "/api/v1/warehouses", map[string]string{"name": gofakeit.Company(), "location": gofakeit.City()}, staff)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	w := decode[models.Warehouse](t, rec)

	rec = s.do(t, http.MethodPost, "/api/v1/stock/update", map[string]any{"product_id": p.ID, "warehouse_id": w.ID, "added_quantity": qty}, staff)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	return shop{productID: p.ID, warehouseID: w.ID}
}

type wallet struct {
	addressID  uint
	cardNumber string
}

func (s *server) wallet(t *testing.T, customer *http.Cookie) wallet {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/addresses", map[string]string{
		"street_1": gofakeit.Street(), "city": gofakeit.City(), "state": gofakeit.State(), "zip_code": gofakeit.Zip(),
	}, customer)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	a := decode[models.Address](t, rec)

	number := gofakeit.Numerify("4###############")
	rec = s.do(t, http.MethodPost, "/api/v1/cards", map[string]any{"card_number": number, "expiry_date": "11/31", "address_id": a.ID}, customer)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	return wallet{addressID: a.ID, cardNumber: number}
}

func (s *server) stockQuantity(t *testing.T, sh shop) int64 {
	t.Helper()
	rec := s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/stock?product_id=%d", sh.productID), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, row := range decode[[]models.Stock](t, rec) {
		if row.WarehouseID == sh.warehouseID {
			return row.Quantity
		}
	}
	return 0
}
