package service

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/Skotchmaster/storefront/internal/models"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal, unit currency.Unit) Money {
	return Money{Amount: amount, Currency: unit}
}

// Fixed renders the amount with the currency's standard number of decimals.
func (m Money) Fixed() string {
	scale, _ := currency.Standard.Rounding(m.Currency)
	return m.Amount.StringFixed(int32(scale))
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency, m.Fixed())
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
	}{m.Fixed(), m.Currency.String()})
}

// DeliveryPricing holds the flat fee of every delivery type.
type DeliveryPricing struct {
	Currency currency.Unit
	Fees     map[models.DeliveryType]decimal.Decimal
}

func DefaultPricing(unit currency.Unit) DeliveryPricing {
	return DeliveryPricing{
		Currency: unit,
		Fees: map[models.DeliveryType]decimal.Decimal{
			models.DeliveryStandard: decimal.RequireFromString("5.00"),
			models.DeliveryExpress:  decimal.RequireFromString("15.00"),
		},
	}
}

func (p DeliveryPricing) Quote(t models.DeliveryType) (decimal.Decimal, error) {
	fee, ok := p.Fees[t]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: delivery type %q", ErrValidation, t)
	}
	return fee, nil
}
