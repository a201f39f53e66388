package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/text/currency"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/util"
)

type ListResponse[T any] struct {
	Data []T           `json:"data"`
	Meta util.PageMeta `json:"meta"`
}

type CheckoutResponse struct {
	OrderID uuid.UUID `json:"order_id"`
}

type InUseResponse struct {
	InUse bool `json:"in_use"`
}

type CartItemResponse struct {
	ProductID uint          `json:"product_id"`
	Name      string        `json:"name"`
	UnitPrice service.Money `json:"unit_price"`
	Quantity  uint          `json:"quantity"`
	Subtotal  service.Money `json:"subtotal"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total service.Money      `json:"total"`
}

func NewCartResponse(v *service.CartView, unit currency.Unit) CartResponse {
	return CartResponse{
		Items: lo.Map(v.Lines, func(l service.CartLine, _ int) CartItemResponse {
			return CartItemResponse{
				ProductID: l.Product.ID,
				Name:      l.Product.Name,
				UnitPrice: service.NewMoney(l.Product.Price, unit),
				Quantity:  l.Quantity,
				Subtotal:  service.NewMoney(l.Subtotal, unit),
			}
		}),
		Total: service.NewMoney(v.Total, unit),
	}
}

type OrderLineResponse struct {
	ProductID   uint          `json:"product_id"`
	WarehouseID uint          `json:"warehouse_id"`
	Quantity    uint          `json:"quantity"`
	UnitPrice   service.Money `json:"unit_price"`
}

type DeliveryResponse struct {
	ID           uuid.UUID           `json:"id"`
	AddressID    uint                `json:"address_id"`
	Type         models.DeliveryType `json:"type"`
	Price        service.Money       `json:"price"`
	ShipDate     time.Time           `json:"ship_date"`
	DeliveryDate time.Time           `json:"delivery_date"`
}

type OrderResponse struct {
	ID         uuid.UUID           `json:"id"`
	Status     models.OrderStatus  `json:"status"`
	CardNumber string              `json:"card_number"`
	Total      service.Money       `json:"total"`
	CreatedAt  time.Time           `json:"created_at"`
	Lines      []OrderLineResponse `json:"lines"`
	Delivery   *DeliveryResponse   `json:"delivery,omitempty"`
}

// MaskCard keeps the last four digits.
func MaskCard(number string) string {
	if len(number) <= 4 {
		return number
	}
	return "****" + number[len(number)-4:]
}

func NewDeliveryResponse(d *models.Delivery, unit currency.Unit) *DeliveryResponse {
	if d == nil {
		return nil
	}
	return &DeliveryResponse{
		ID:           d.ID,
		AddressID:    d.AddressID,
		Type:         d.Type,
		Price:        service.NewMoney(d.Price, unit),
		ShipDate:     d.ShipDate,
		DeliveryDate: d.DeliveryDate,
	}
}

func NewOrderResponse(d service.OrderDetails, unit currency.Unit) OrderResponse {
	return OrderResponse{
		ID:         d.Order.ID,
		Status:     d.Order.Status,
		CardNumber: MaskCard(d.Order.CardNumber),
		Total:      service.NewMoney(d.Order.Total, unit),
		CreatedAt:  d.Order.CreatedAt,
		Lines: lo.Map(d.Lines, func(l models.OrderLine, _ int) OrderLineResponse {
			return OrderLineResponse{
				ProductID:   l.ProductID,
				WarehouseID: l.WarehouseID,
				Quantity:    l.Quantity,
				UnitPrice:   service.NewMoney(l.UnitPrice, unit),
			}
		}),
		Delivery: NewDeliveryResponse(d.Delivery, unit),
	}
}

type MeResponse struct {
	Role      string `json:"role"`
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Name      string `json:"name,omitempty"`
}

func NewMeResponse(me *service.Me) MeResponse {
	if me.Staff != nil {
		return MeResponse{Role: me.Role, ID: me.Staff.ID, Email: me.Staff.Email, Name: me.Staff.Name}
	}
	return MeResponse{Role: me.Role, ID: me.Customer.ID, Email: me.Customer.Email, FirstName: me.Customer.FirstName, LastName: me.Customer.LastName}
}
