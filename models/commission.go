package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CommissionStatus is the payout status of a commission
type CommissionStatus string

const (
	CommissionApproved CommissionStatus = "APPROVED"
	CommissionPaid     CommissionStatus = "PAID"
)

// Commission is a tailor's earning for one order. Created exactly once per
// order, only when the admin approves the completed task. The amount is a
// snapshot: later tariff or rate changes do not affect existing rows.
type Commission struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	TailorID  uint             `gorm:"not null;index" json:"tailor_id"`
	Tailor    Tailor           `gorm:"foreignKey:TailorID" json:"tailor"`
	OrderID   uint             `gorm:"uniqueIndex;not null" json:"order_id"`
	Order     Order            `gorm:"foreignKey:OrderID" json:"order"`
	Amount    decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status    CommissionStatus `gorm:"not null;default:'APPROVED'" json:"status"`
	PaidAt    *time.Time       `json:"paid_at"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Commission model
func (Commission) TableName() string {
	return "commissions"
}
