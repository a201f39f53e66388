package transport

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
)

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", service.ErrValidation, msg)
}

type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r SignupRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return invalid("email and password required")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return invalid("email and password required")
	}
	return nil
}

type CheckoutRequest struct {
	AddressID    uint   `json:"address_id"`
	CardNumber   string `json:"card_number"`
	DeliveryType string `json:"delivery_type"`
}

func (r CheckoutRequest) Validate() error {
	switch {
	case r.AddressID == 0:
		return invalid("address_id required")
	case strings.TrimSpace(r.CardNumber) == "":
		return invalid("card_number required")
	case r.DeliveryType == "":
		return invalid("delivery_type required")
	}
	if _, err := models.ToDeliveryType(r.DeliveryType); err != nil {
		return fmt.Errorf("%w: %w", service.ErrValidation, err)
	}
	return nil
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

func (r AddToCartRequest) Validate() error {
	if r.ProductID == 0 {
		return invalid("product_id required")
	}
	return validQuantity(r.Quantity)
}

func validQuantity(q uint) error {
	if q == 0 {
		return invalid("quantity must be > 0")
	}
	if q > service.MaxCartQuantity {
		return invalid(fmt.Sprintf("quantity must be <= %d", service.MaxCartQuantity))
	}
	return nil
}

type SetQuantityRequest struct {
	Quantity uint `json:"quantity"`
}

func (r SetQuantityRequest) Validate() error {
	return validQuantity(r.Quantity)
}

type AddressRequest struct {
	Street1 string `json:"street_1"`
	Street2 string `json:"street_2"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

func (r AddressRequest) Validate() error {
	if r.Street1 == "" || r.City == "" || r.State == "" || r.ZipCode == "" {
		return invalid("street_1, city, state and zip_code required")
	}
	return nil
}

type AddressPatchRequest struct {
	Street1 *string `json:"street_1"`
	Street2 *string `json:"street_2"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	ZipCode *string `json:"zip_code"`
}

func (r AddressPatchRequest) Validate() error {
	if r.Street1 == nil && r.Street2 == nil && r.City == nil && r.State == nil && r.ZipCode == nil {
		return invalid("nothing to update")
	}
	return nil
}

type CardRequest struct {
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	AddressID  uint   `json:"address_id"`
}

func (r CardRequest) Validate() error {
	if r.CardNumber == "" || r.ExpiryDate == "" || r.AddressID == 0 {
		return invalid("card_number, expiry_date and address_id required")
	}
	return nil
}

type CardPatchRequest struct {
	ExpiryDate *string `json:"expiry_date"`
	AddressID  *uint   `json:"address_id"`
}

func (r CardPatchRequest) Validate() error {
	if r.ExpiryDate == nil && r.AddressID == nil {
		return invalid("nothing to update")
	}
	return nil
}

type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Size        string          `json:"size"`
	Price       decimal.Decimal `json:"price"`
}

func (r ProductRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return invalid("name required")
	}
	if r.Price.IsNegative() {
		return invalid("price must be >= 0")
	}
	return nil
}

type ProductPatchRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Brand       *string          `json:"brand"`
	Size        *string          `json:"size"`
	Price       *decimal.Decimal `json:"price"`
}

func (r ProductPatchRequest) Validate() error {
	if r.Price != nil && r.Price.IsNegative() {
		return invalid("price must be >= 0")
	}
	return nil
}

type WarehouseRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

func (r WarehouseRequest) Validate() error {
	if r.Name == "" || r.Location == "" {
		return invalid("name and location required")
	}
	return nil
}

type WarehousePatchRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
}

func (r WarehousePatchRequest) Validate() error {
	if r.Name == nil && r.Location == nil {
		return invalid("nothing to update")
	}
	return nil
}

type StockUpdateRequest struct {
	ProductID     uint  `json:"product_id"`
	WarehouseID   uint  `json:"warehouse_id"`
	AddedQuantity int64 `json:"added_quantity"`
}

func (r StockUpdateRequest) Validate() error {
	if r.ProductID == 0 || r.WarehouseID == 0 {
		return invalid("product_id and warehouse_id required")
	}
	if r.AddedQuantity == 0 {
		return invalid("added_quantity must not be zero")
	}
	return nil
}

type StatusRequest struct {
	Status string `json:"status"`
}

func (r StatusRequest) Validate() error {
	if r.Status == "" {
		return invalid("status required")
	}
	return nil
}
