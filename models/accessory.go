package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Accessory represents an accessory stock item (buttons, zippers, thread).
// Unlike fabric, accessories are counted in whole units.
type Accessory struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Name              string          `gorm:"not null" json:"name"`
	Description       string          `json:"description"`
	Quantity          int             `gorm:"default:0" json:"quantity"`
	PricePerUnit      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_per_unit"`
	LowStockThreshold int             `gorm:"default:10" json:"low_stock_threshold"`
	// Garment types this accessory applies to. Empty means universally
	// applicable.
	ApplicableGarments []GarmentType  `gorm:"many2many:accessory_garment_types" json:"applicable_garments,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Accessory model
func (Accessory) TableName() string {
	return "accessories"
}

// IsLowStock reports whether the quantity has fallen to or below the
// restock threshold.
func (a *Accessory) IsLowStock() bool {
	return a.Quantity <= a.LowStockThreshold
}

// AppliesTo reports whether the accessory can be used for the given garment
// type. An accessory with no applicable garments configured applies to all.
func (a *Accessory) AppliesTo(garmentType string) bool {
	if len(a.ApplicableGarments) == 0 {
		return true
	}
	for i := range a.ApplicableGarments {
		if a.ApplicableGarments[i].Code == garmentType {
			return true
		}
	}
	return false
}
