package routes

import (
	"testing"

	"github.com/jeyapragash1/Smart-Citizen-sub000/models"

	"github.com/shopspring/decimal"
)

func TestOrderTotal(t *testing.T) {
	price := func(s string) decimal.Decimal {
		d, err := decimal.NewFromString(s)
		if err != nil {
			t.Fatalf("bad price %q: %v", s, err)
		}
		return d
	}

	tests := []struct {
		name  string
		items []models.OrderItem
		want  string
	}{
		{"empty cart", nil, "0"},
		{"single item", []models.OrderItem{
			{Quantity: 1, UnitPrice: price("450.00")},
		}, "450"},
		{"quantity multiplies", []models.OrderItem{
			{Quantity: 3, UnitPrice: price("120.50")},
		}, "361.5"},
		{"mixed lines", []models.OrderItem{
			{Quantity: 2, UnitPrice: price("99.99")},
			{Quantity: 1, UnitPrice: price("1500.00")},
			{Quantity: 5, UnitPrice: price("10.01")},
		}, "1750.03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OrderTotal(tt.items)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("OrderTotal() = %s, want %s", got, tt.want)
			}
		})
	}
}
