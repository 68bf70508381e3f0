package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Fabric unit types
const (
	UnitMeters = "METERS"
	UnitYards  = "YARDS"
)

// Fabric represents a fabric stock item. Quantity is decimal because fabric
// is cut in fractional meters/yards.
type Fabric struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Name              string          `gorm:"not null" json:"name"`
	Description       string          `json:"description"`
	UnitType          string          `gorm:"not null;default:'METERS'" json:"unit_type"` // METERS or YARDS
	Quantity          decimal.Decimal `gorm:"type:decimal(10,2);default:0.00" json:"quantity"`
	PricePerUnit      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_per_unit"`
	LowStockThreshold decimal.Decimal `gorm:"type:decimal(10,2);default:10.00" json:"low_stock_threshold"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Fabric model
func (Fabric) TableName() string {
	return "fabrics"
}

// IsLowStock reports whether the quantity has fallen to or below the
// restock threshold.
func (f *Fabric) IsLowStock() bool {
	return f.Quantity.LessThanOrEqual(f.LowStockThreshold)
}
