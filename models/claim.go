package models

import (
	"time"

	"gorm.io/gorm"
)

// Claim is an append-only audit record of a garment pickup. Records are never
// deleted; a mistaken claim is marked reversed and keeps its reversal
// metadata.
type Claim struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	OrderID       uint       `gorm:"not null;index" json:"order_id"`
	Order         Order      `gorm:"foreignKey:OrderID" json:"order"`
	ClaimantName  string     `gorm:"not null" json:"claimant_name"`
	ClaimantPhone string     `json:"claimant_phone"`
	RecordedByID  uint       `gorm:"not null;index" json:"recorded_by_id"`
	RecordedBy    User       `gorm:"foreignKey:RecordedByID" json:"recorded_by"`
	Notes         string     `json:"notes"`
	Reversed      bool       `gorm:"default:false" json:"reversed"`
	ReversedByID  *uint      `json:"reversed_by_id,omitempty"`
	ReversedAt    *time.Time `json:"reversed_at,omitempty"`
	ReversalNotes string     `json:"reversal_notes,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Claim model
func (Claim) TableName() string {
	return "claims"
}
