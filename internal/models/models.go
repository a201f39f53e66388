package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Customer struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	FirstName    string    `gorm:"not null"                 json:"first_name"`
	LastName     string    `gorm:"not null"                 json:"last_name"`
	AddressID    *uint     `gorm:"index"                    json:"address_id,omitempty"`
	CreatedAt    time.Time `                                json:"created_at"`
}

func (Customer) TableName() string { return "customers" }

type Staff struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Name         string `gorm:"not null"                 json:"name"`
	AddressID    *uint  `gorm:"index"                    json:"address_id,omitempty"`
}

func (Staff) TableName() string { return "staff" }

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"     json:"id"`
	Name        string          `gorm:"not null"                     json:"name"`
	Description string          `gorm:"not null;default:''"          json:"description"`
	Category    string          `gorm:"index;not null;default:''"    json:"category"`
	Brand       string          `gorm:"not null;default:''"          json:"brand"`
	Size        string          `gorm:"not null;default:''"          json:"size"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"  json:"price"`
	CreatedAt   time.Time       `                                    json:"created_at"`
	UpdatedAt   time.Time       `                                    json:"updated_at"`
}

func (Product) TableName() string { return "products" }

type Warehouse struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"not null"                 json:"name"`
	Location string `gorm:"not null"                 json:"location"`
}

func (Warehouse) TableName() string { return "warehouses" }

type Stock struct {
	ProductID   uint  `gorm:"primaryKey;autoIncrement:false"      json:"product_id"`
	WarehouseID uint  `gorm:"primaryKey;autoIncrement:false"      json:"warehouse_id"`
	Quantity    int64 `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
}

func (Stock) TableName() string { return "stock" }

type Address struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID uint   `gorm:"index;not null"           json:"customer_id"`
	Street1    string `gorm:"not null"                 json:"street_1"`
	Street2    string `gorm:"not null;default:''"      json:"street_2"`
	City       string `gorm:"not null"                 json:"city"`
	State      string `gorm:"not null"                 json:"state"`
	ZipCode    string `gorm:"not null"                 json:"zip_code"`
}

func (Address) TableName() string { return "addresses" }

type CreditCard struct {
	CardNumber string `gorm:"primaryKey;size:19"       json:"card_number"`
	CustomerID uint   `gorm:"index;not null"           json:"customer_id"`
	ExpiryDate string `gorm:"size:5;not null"          json:"expiry_date"`
	AddressID  uint   `gorm:"index;not null"           json:"address_id"`
}

func (CreditCard) TableName() string { return "credit_cards" }

type CartItem struct {
	ID         uint `gorm:"primaryKey;autoIncrement"                  json:"id"`
	CustomerID uint `gorm:"uniqueIndex:idx_customer_product;not null" json:"customer_id"`
	ProductID  uint `gorm:"uniqueIndex:idx_customer_product;not null" json:"product_id"`
	Quantity   uint `gorm:"not null;default:1;check:quantity > 0"     json:"quantity"`
}

func (CartItem) TableName() string { return "cart_items" }

type Order struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"          json:"id"`
	CustomerID uint            `gorm:"index;not null"                json:"customer_id"`
	CardNumber string          `gorm:"index;size:19;not null"        json:"card_number"`
	Status     OrderStatus     `gorm:"type:varchar(32);not null"     json:"status"`
	Total      decimal.Decimal `gorm:"type:numeric(12,2);not null"   json:"total"`
	CreatedAt  time.Time       `gorm:"not null"                      json:"created_at"`
	UpdatedAt  time.Time       `                                     json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OrderLine struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;index;not null"    json:"order_id"`
	ProductID   uint            `gorm:"index;not null"              json:"product_id"`
	WarehouseID uint            `gorm:"not null"                    json:"warehouse_id"`
	Quantity    uint            `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
}

func (OrderLine) TableName() string { return "order_lines" }

type Delivery struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"          json:"id"`
	OrderID      uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"order_id"`
	AddressID    uint            `gorm:"index;not null"                json:"address_id"`
	Type         DeliveryType    `gorm:"type:varchar(16);not null"     json:"type"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null"   json:"price"`
	ShipDate     time.Time       `gorm:"not null"                      json:"ship_date"`
	DeliveryDate time.Time       `gorm:"not null"                      json:"delivery_date"`
}

func (Delivery) TableName() string { return "deliveries" }

func (d *Delivery) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// All lists every table in migration order.
func All() []any {
	return []any{
		&Customer{}, &Staff{}, &Product{}, &Warehouse{}, &Stock{},
		&Address{}, &CreditCard{}, &CartItem{},
		&Order{}, &OrderLine{}, &Delivery{},
	}
}
