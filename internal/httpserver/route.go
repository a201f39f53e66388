package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	authmw "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type Deps struct {
	Auth      *AuthHTTP
	Cart      *CartHTTP
	Order     *OrderHTTP
	Address   *AddressHTTP
	Card      *CardHTTP
	Product   *ProductHTTP
	Inventory *InventoryHTTP

	JWTSecret    []byte
	CookieSecure bool
	CSRF         bool

	// Ready reports whether the database answers.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.Binder = transport.StrictBinder{}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := d.Ready(ctx); err != nil {
			logging.FromContext(ctx).Error("ready_check_failed", "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api/v1")
	if d.CSRF {
		api.Use(csrf.Middleware(csrf.Config{Secure: d.CookieSecure, EnforceSameOrigin: true}))
	}

	mw := authmw.NewSessionAuth(d.JWTSecret, d.CookieSecure)

	auth := api.Group("/auth")
	auth.POST("/signup", d.Auth.Signup)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/staff/login", d.Auth.StaffLogin)
	auth.POST("/logout", d.Auth.Logout)
	auth.GET("/me", d.Auth.Me, mw.RequireLogin)

	cart := api.Group("/cart", mw.RequireCustomer)
	cart.GET("", d.Cart.GetCart)
	cart.POST("", d.Cart.AddToCart)
	cart.DELETE("", d.Cart.Clear)
	cart.PUT("/:productId", d.Cart.SetQuantity)
	cart.DELETE("/:productId", d.Cart.Remove)

	api.POST("/checkout", d.Order.Checkout, mw.RequireCustomer)

	orders := api.Group("/orders", mw.RequireLogin)
	orders.GET("", d.Order.ListOrders)
	orders.GET("/:id", d.Order.GetOrder)
	orders.GET("/:id/delivery", d.Order.GetDelivery)
	orders.POST("/:id/cancel", d.Order.Cancel)
	orders.PUT("/:id/status", d.Order.UpdateStatus, mw.RequireStaff)

	addresses := api.Group("/addresses", mw.RequireCustomer)
	addresses.GET("", d.Address.List)
	addresses.POST("", d.Address.Create)
	addresses.GET("/:id", d.Address.Get)
	addresses.PUT("/:id", d.Address.Update)
	addresses.DELETE("/:id", d.Address.Delete)
	addresses.GET("/:id/in-use", d.Address.InUse)

	cards := api.Group("/cards", mw.RequireCustomer)
	cards.GET("", d.Card.List)
	cards.POST("", d.Card.Create)
	cards.GET("/:number", d.Card.Get)
	cards.PUT("/:number", d.Card.Update)
	cards.DELETE("/:number", d.Card.Delete)
	cards.GET("/:number/in-use", d.Card.InUse)

	products := api.Group("/products")
	products.GET("", d.Product.ListProducts)
	products.GET("/search", d.Product.Search)
	products.GET("/:id", d.Product.GetProduct)
	products.GET("/:id/stock", d.Product.ProductStock)
	products.POST("", d.Product.CreateProduct, mw.RequireStaff)
	products.PUT("/:id", d.Product.UpdateProduct, mw.RequireStaff)
	products.DELETE("/:id", d.Product.DeleteProduct, mw.RequireStaff)

	warehouses := api.Group("/warehouses")
	warehouses.GET("", d.Inventory.ListWarehouses)
	warehouses.GET("/:id", d.Inventory.GetWarehouse)
	warehouses.POST("", d.Inventory.CreateWarehouse, mw.RequireStaff)
	warehouses.PUT("/:id", d.Inventory.UpdateWarehouse, mw.RequireStaff)
	warehouses.DELETE("/:id", d.Inventory.DeleteWarehouse, mw.RequireStaff)

	stock := api.Group("/stock")
	stock.GET("", d.Inventory.ListStock)
	stock.POST("/update", d.Inventory.UpdateStock, mw.RequireStaff)
}
