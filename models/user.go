package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values assigned to users. Admins run the shop, tailors work tasks,
// customers own orders.
const (
	RoleAdmin    = "admin"
	RoleTailor   = "tailor"
	RoleCustomer = "customer"
)

// User represents an authenticated user in the system
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Auth0ID   string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Role      string         `gorm:"not null;default:'customer'" json:"role"` // admin, tailor or customer
	Phone     string         `json:"phone"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
