package services

import (
	"testing"

	"fabstore/promo"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestNewQuote_SAVE10(t *testing.T) {
	q := NewQuote(decimal.NewFromInt(2000), "SAVE10", promo.Default())

	assertDecimal(t, "2000", q.Subtotal)
	assertDecimal(t, "360", q.Tax)
	assertDecimal(t, "200", q.Discount)
	assertDecimal(t, "0", q.Shipping)
	assertDecimal(t, "2160", q.Total)
	assert.Equal(t, "SAVE10", q.PromoCode)
	assert.Equal(t, int64(216000), q.MinorUnits())
}

func TestNewQuote_PromoCodes(t *testing.T) {
	tests := []struct {
		code     string
		discount string
		total    string
	}{
		{"", "0", "1180"},
		{"WELCOME15", "150", "1030"},
		{"FIRST20", "200", "980"},
		{"TEST100", "1000", "180"},
		{"save10", "0", "1180"},
		{"BOGUS", "0", "1180"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			q := NewQuote(decimal.NewFromInt(1000), tt.code, promo.Default())
			assertDecimal(t, tt.discount, q.Discount)
			assertDecimal(t, tt.total, q.Total)
			if tt.discount == "0" {
				assert.Empty(t, q.PromoCode)
			}
		})
	}
}

func TestNewQuote_RoundsToCents(t *testing.T) {
	q := NewQuote(decimal.RequireFromString("33.33"), "WELCOME15", promo.Default())

	assertDecimal(t, "6", q.Tax)
	assertDecimal(t, "5", q.Discount)
	assertDecimal(t, "34.33", q.Total)
	assert.Equal(t, int64(3433), q.MinorUnits())
}

func TestQuote_TotalIdentity(t *testing.T) {
	for _, sub := range []string{"0", "0.01", "999.99", "12345.67"} {
		q := NewQuote(decimal.RequireFromString(sub), "FIRST20", promo.Default())
		want := q.Subtotal.Add(q.Tax).Sub(q.Discount).Add(q.Shipping)
		assert.True(t, want.Equal(q.Total), "subtotal %s", sub)
	}
}

func TestFromMinorUnits(t *testing.T) {
	assertDecimal(t, "2160", FromMinorUnits(216000))
	assertDecimal(t, "0.5", FromMinorUnits(50))
}
