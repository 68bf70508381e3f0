package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus is the lifecycle status of an order
type OrderStatus string

// Order lifecycle states. APPROVED and CANCELLED are terminal.
const (
	OrderPending    OrderStatus = "PENDING"
	OrderAssigned   OrderStatus = "ASSIGNED"
	OrderInProgress OrderStatus = "IN_PROGRESS"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderApproved   OrderStatus = "APPROVED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// orderTransitions is the allowed-transitions table for order statuses.
// CANCELLED is reachable from any non-terminal state.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderAssigned, OrderCancelled},
	OrderAssigned:   {OrderInProgress, OrderCancelled},
	OrderInProgress: {OrderCompleted, OrderCancelled},
	OrderCompleted:  {OrderApproved, OrderCancelled},
	OrderApproved:   {},
	OrderCancelled:  {},
}

// CanTransitionTo reports whether moving from s to next is a valid order
// status transition.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// PaymentStatus tracks how much of the order total has been paid
type PaymentStatus string

const (
	PaymentPending         PaymentStatus = "PENDING"
	PaymentDownPaymentPaid PaymentStatus = "DOWN_PAYMENT_PAID"
	PaymentPaid            PaymentStatus = "PAID"
)

// DownPaymentStatus tracks the 50% down payment on its own
type DownPaymentStatus string

const (
	DownPaymentPending DownPaymentStatus = "PENDING"
	DownPaymentPaid    DownPaymentStatus = "PAID"
)

// Order is the central aggregate binding customer, fabric, accessories,
// garment attributes, payment state and lifecycle status.
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	CustomerID  uint        `gorm:"not null;index" json:"customer_id"`
	Customer    Customer    `gorm:"foreignKey:CustomerID" json:"customer"`
	FabricID    uint        `gorm:"not null;index" json:"fabric_id"`
	Fabric      Fabric      `gorm:"foreignKey:FabricID" json:"fabric"`
	Accessories []Accessory `gorm:"many2many:order_accessories" json:"accessories"`

	Category    string `json:"category"`
	GarmentType string `gorm:"not null;default:'OTHERS'" json:"garment_type"`
	Quantity    int    `gorm:"not null;check:quantity > 0" json:"quantity"`

	// Per-garment measurements in centimeters. Only the subset relevant to
	// the garment type is filled in.
	Bust          *float64 `json:"bust,omitempty"`
	Waist         *float64 `json:"waist,omitempty"`
	Hips          *float64 `json:"hips,omitempty"`
	ShoulderWidth *float64 `json:"shoulder_width,omitempty"`
	SleeveLength  *float64 `json:"sleeve_length,omitempty"`
	Inseam        *float64 `json:"inseam,omitempty"`
	GarmentLength *float64 `json:"garment_length,omitempty"`

	TotalAmount       decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	DownPaymentAmount decimal.Decimal   `gorm:"type:decimal(10,2)" json:"down_payment_amount"`
	RemainingBalance  decimal.Decimal   `gorm:"type:decimal(10,2)" json:"remaining_balance"`
	Status            OrderStatus       `gorm:"not null;default:'PENDING'" json:"status"`
	PaymentStatus     PaymentStatus     `gorm:"not null;default:'PENDING'" json:"payment_status"`
	DownPaymentStatus DownPaymentStatus `gorm:"not null;default:'PENDING'" json:"down_payment_status"`
	InventoryDeducted bool              `gorm:"default:false" json:"inventory_deducted"`
	PaidAt            *time.Time        `json:"paid_at"`
	ClaimedAt         *time.Time        `json:"claimed_at"`
	ClaimedBy         *string           `json:"claimed_by"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
