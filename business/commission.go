package business

import (
	"github.com/shopspring/decimal"

	"github.com/elsenior/tailoring-api/models"
)

// CommissionAmount calculates what a tailor earns for an order. The policy
// has two explicit branches: a fixed tariff configured for the garment type
// wins; otherwise the legacy percentage of the order total applies.
func CommissionAmount(tailor *models.Tailor, order *models.Order) decimal.Decimal {
	if fixed := tailor.FixedTariff(order.GarmentType); fixed != nil {
		return *fixed
	}
	return tailor.CommissionRate.Div(decimal.NewFromInt(100)).Mul(order.TotalAmount)
}
