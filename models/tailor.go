package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tailor represents a tailor employed by the shop
type Tailor struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	User           User            `gorm:"foreignKey:UserID" json:"user"`
	Phone          string          `gorm:"not null" json:"phone"`
	Specialty      string          `json:"specialty"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(5,2);default:10.00" json:"commission_rate"` // legacy percentage fallback
	Tariffs        []TailorTariff  `gorm:"foreignKey:TailorID" json:"tariffs,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Tailor model
func (Tailor) TableName() string {
	return "tailors"
}

// FixedTariff returns the fixed commission amount this tailor has configured
// for a garment type, or nil if none exists.
func (t *Tailor) FixedTariff(garmentType string) *decimal.Decimal {
	for i := range t.Tariffs {
		if t.Tariffs[i].GarmentType == garmentType {
			amount := t.Tariffs[i].Amount
			return &amount
		}
	}
	return nil
}

// TailorTariff is a fixed per-garment commission amount for a tailor.
// Commission rows snapshot this amount at approval time, so later tariff
// edits do not change existing commissions.
type TailorTariff struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	TailorID    uint            `gorm:"not null;uniqueIndex:idx_tailor_garment" json:"tailor_id"`
	GarmentType string          `gorm:"not null;uniqueIndex:idx_tailor_garment" json:"garment_type"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the TailorTariff model
func (TailorTariff) TableName() string {
	return "tailor_tariffs"
}
