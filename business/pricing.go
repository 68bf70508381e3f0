package business

import (
	"github.com/shopspring/decimal"

	"github.com/elsenior/tailoring-api/models"
)

// PricingTable maps garment type codes to fixed prices. The table is built
// once at startup and injected where needed; it is never mutated afterwards.
type PricingTable struct {
	prices map[string]decimal.Decimal
}

// DefaultPricingTable returns the shop's standard price list
func DefaultPricingTable() *PricingTable {
	return &PricingTable{
		prices: map[string]decimal.Decimal{
			models.GarmentBlouse: decimal.RequireFromString("550.00"),
			models.GarmentPants:  decimal.RequireFromString("650.00"),
			models.GarmentSkirt:  decimal.RequireFromString("500.00"),
			models.GarmentDress:  decimal.RequireFromString("800.00"),
			models.GarmentJacket: decimal.RequireFromString("750.00"),
			models.GarmentOthers: decimal.RequireFromString("600.00"),
		},
	}
}

// Price returns the fixed price for a garment type. Unknown codes fall back
// to the OTHERS tariff.
func (t *PricingTable) Price(garmentType string) decimal.Decimal {
	if price, ok := t.prices[garmentType]; ok {
		return price
	}
	return t.prices[models.GarmentOthers]
}

// Total calculates the total order amount for a garment type and quantity
func (t *PricingTable) Total(garmentType string, quantity int) decimal.Decimal {
	return t.Price(garmentType).Mul(decimal.NewFromInt(int64(quantity)))
}

// DownPayment calculates the 50% down payment of a total amount
func (t *PricingTable) DownPayment(total decimal.Decimal) decimal.Decimal {
	return total.Mul(decimal.RequireFromString("0.5"))
}
