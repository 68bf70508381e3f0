package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a customer record maintained by the shop admin
type Customer struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       *uint          `gorm:"index" json:"user_id"` // nullable, walk-in customers have no login
	User         *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Name         string         `gorm:"not null" json:"name"`
	Phone        string         `gorm:"not null" json:"phone"`
	Address      string         `json:"address"`
	Measurements Measurements   `gorm:"type:text" json:"measurements"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
