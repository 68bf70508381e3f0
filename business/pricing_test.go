package business

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/elsenior/tailoring-api/models"
)

func TestPrice(t *testing.T) {
	pricing := DefaultPricingTable()

	tests := []struct {
		name        string
		garmentType string
		expected    string
	}{
		{"Blouse", models.GarmentBlouse, "550"},
		{"Pants", models.GarmentPants, "650"},
		{"Skirt", models.GarmentSkirt, "500"},
		{"Dress", models.GarmentDress, "800"},
		{"Jacket", models.GarmentJacket, "750"},
		{"Others", models.GarmentOthers, "600"},
		{"Unknown code falls back to others", "CAPE", "600"},
		{"Polo has no price entry and falls back to others", models.GarmentPolo, "600"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, pricing.Price(tt.garmentType).Equal(decimal.RequireFromString(tt.expected)),
				"expected %s, got %s", tt.expected, pricing.Price(tt.garmentType))
		})
	}
}

func TestTotal(t *testing.T) {
	pricing := DefaultPricingTable()

	tests := []struct {
		name        string
		garmentType string
		quantity    int
		expected    string
	}{
		{"Single blouse", models.GarmentBlouse, 1, "550"},
		{"Three blouses", models.GarmentBlouse, 3, "1650"},
		{"Two dresses", models.GarmentDress, 2, "1600"},
		{"Five unknown garments", "CAPE", 5, "3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := pricing.Total(tt.garmentType, tt.quantity)
			assert.True(t, total.Equal(decimal.RequireFromString(tt.expected)),
				"expected %s, got %s", tt.expected, total)
		})
	}
}

func TestDownPayment(t *testing.T) {
	pricing := DefaultPricingTable()

	tests := []struct {
		name     string
		total    string
		expected string
	}{
		{"Half of 550", "550", "275"},
		{"Half of 1650", "1650", "825"},
		{"Odd amount keeps cents", "551", "275.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			down := pricing.DownPayment(decimal.RequireFromString(tt.total))
			assert.True(t, down.Equal(decimal.RequireFromString(tt.expected)),
				"expected %s, got %s", tt.expected, down)
		})
	}
}

func TestDownPaymentPlusBalanceEqualsTotal(t *testing.T) {
	pricing := DefaultPricingTable()

	for _, garmentType := range []string{
		models.GarmentBlouse, models.GarmentPants, models.GarmentSkirt,
		models.GarmentDress, models.GarmentJacket, models.GarmentOthers,
	} {
		for quantity := 1; quantity <= 4; quantity++ {
			total := pricing.Total(garmentType, quantity)
			down := pricing.DownPayment(total)
			balance := total.Sub(down)
			assert.True(t, down.Add(balance).Equal(total),
				"%s x%d: %s + %s != %s", garmentType, quantity, down, balance, total)
		}
	}
}
