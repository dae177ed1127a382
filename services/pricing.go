package services

import (
	"fabstore/promo"

	"github.com/shopspring/decimal"
)

var (
	taxRate      = decimal.RequireFromString("0.18")
	flatShipping = decimal.Zero
	hundred      = decimal.NewFromInt(100)
)

// Quote is the price breakdown of one order, each part rounded to 2 places.
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`

	// PromoCode is empty unless the code matched the table.
	PromoCode string `json:"promoCode,omitempty"`
}

func NewQuote(subtotal decimal.Decimal, promoCode string, promos *promo.Table) Quote {
	q := Quote{
		Subtotal: subtotal.Round(2),
		Shipping: flatShipping,
	}
	q.Tax = q.Subtotal.Mul(taxRate).Round(2)
	if promos.Percent(promoCode) > 0 {
		q.PromoCode = promoCode
		q.Discount = promos.Discount(promoCode, q.Subtotal).Round(2)
	}
	q.Total = q.Subtotal.Add(q.Tax).Sub(q.Discount).Add(q.Shipping).Round(2)
	return q
}

// MinorUnits is the total in the currency's smallest unit (paise for INR).
func (q Quote) MinorUnits() int64 {
	return q.Total.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits converts a gateway amount back to major units.
func FromMinorUnits(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount).Div(hundred)
}
