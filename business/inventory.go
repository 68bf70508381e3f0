package business

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/elsenior/tailoring-api/models"
)

// Requirement is the stock consumed per garment item
type Requirement struct {
	FabricUnits    int `json:"fabric_units"`
	AccessoryUnits int `json:"accessory_units"`
}

// InventoryLedger answers how much fabric and accessory stock an order needs
// and performs the deduction. The requirement table is built once at startup
// and never mutated.
type InventoryLedger struct {
	requirements map[string]Requirement
}

// DefaultInventoryLedger returns the standard per-garment requirement table
func DefaultInventoryLedger() *InventoryLedger {
	return &InventoryLedger{
		requirements: map[string]Requirement{
			models.GarmentBlouse: {FabricUnits: 2, AccessoryUnits: 1},
			models.GarmentPants:  {FabricUnits: 3, AccessoryUnits: 1},
			models.GarmentSkirt:  {FabricUnits: 2, AccessoryUnits: 1},
			models.GarmentDress:  {FabricUnits: 4, AccessoryUnits: 2},
			models.GarmentJacket: {FabricUnits: 3, AccessoryUnits: 2},
			models.GarmentOthers: {FabricUnits: 2, AccessoryUnits: 1},
		},
	}
}

// Requirement returns the stock requirement for a garment type. Unknown
// codes fall back to the OTHERS requirement.
func (l *InventoryLedger) Requirement(garmentType string) Requirement {
	if req, ok := l.requirements[garmentType]; ok {
		return req
	}
	return l.requirements[models.GarmentOthers]
}

// fabricNeeded returns the fabric units required for the whole order
func (l *InventoryLedger) fabricNeeded(order *models.Order) decimal.Decimal {
	req := l.Requirement(order.GarmentType)
	return decimal.NewFromInt(int64(req.FabricUnits * order.Quantity))
}

// accessoriesNeeded returns the units required of each associated accessory
func (l *InventoryLedger) accessoriesNeeded(order *models.Order) int {
	req := l.Requirement(order.GarmentType)
	return req.AccessoryUnits * order.Quantity
}

// Check reports whether the loaded stock covers the order. The order must
// have its Fabric and Accessories loaded. When the answer is no, the reason
// names the deficient resource. Check is advisory; Deduct enforces the same
// condition against live rows.
func (l *InventoryLedger) Check(order *models.Order) (bool, string) {
	fabricNeeded := l.fabricNeeded(order)
	accessoriesNeeded := l.accessoriesNeeded(order)

	if order.Fabric.Quantity.LessThan(fabricNeeded) {
		return false, fmt.Sprintf("Insufficient fabric: %s. Need %s units, have %s",
			order.Fabric.Name, fabricNeeded.String(), order.Fabric.Quantity.String())
	}

	for i := range order.Accessories {
		if order.Accessories[i].Quantity < accessoriesNeeded {
			return false, fmt.Sprintf("Insufficient accessory: %s. Need %d units, have %d",
				order.Accessories[i].Name, accessoriesNeeded, order.Accessories[i].Quantity)
		}
	}

	return true, "Sufficient inventory"
}

// FabricDeduction records what was taken from a fabric
type FabricDeduction struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	DeductedUnits decimal.Decimal `json:"deducted_units"`
	Remaining     decimal.Decimal `json:"remaining"`
}

// AccessoryDeduction records what was taken from an accessory
type AccessoryDeduction struct {
	ID            uint `json:"id"`
	Name          string `json:"name"`
	DeductedUnits int  `json:"deducted_units"`
	Remaining     int  `json:"remaining"`
}

// DeductionReport is the per-resource audit of one deduction
type DeductionReport struct {
	OrderID     uint                 `json:"order_id"`
	Fabric      FabricDeduction      `json:"fabric"`
	Accessories []AccessoryDeduction `json:"accessories"`
}

// Deduct is the single deduction entry point. It subtracts the required
// units from the order's fabric and every associated accessory, marks the
// order deducted and returns a before/after audit report.
//
// Each decrement re-checks stock in its WHERE clause, so the guard runs
// against the row as this transaction sees it, not against whatever the
// caller preloaded. Two concurrent orders cannot both draw down the same
// stock: the second decrement matches no row and the order fails.
//
// The inventory_deducted flag makes the operation run at most once per
// order; callers must run it inside the same transaction that creates or
// updates the order so a failed check leaves no partial state.
func (l *InventoryLedger) Deduct(tx *gorm.DB, order *models.Order) (*DeductionReport, error) {
	if order.InventoryDeducted {
		return nil, NewValidationError(fmt.Sprintf("Inventory already deducted for order %d", order.ID))
	}

	fabricNeeded := l.fabricNeeded(order)
	accessoriesNeeded := l.accessoriesNeeded(order)

	res := tx.Model(&models.Fabric{}).
		Where("id = ? AND quantity >= ?", order.FabricID, fabricNeeded).
		Update("quantity", gorm.Expr("quantity - ?", fabricNeeded))
	if res.Error != nil {
		return nil, fmt.Errorf("failed to deduct fabric stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if err := tx.First(&order.Fabric, order.FabricID).Error; err != nil {
			return nil, fmt.Errorf("failed to load fabric stock: %w", err)
		}
		return nil, NewValidationError(fmt.Sprintf("Insufficient fabric: %s. Need %s units, have %s",
			order.Fabric.Name, fabricNeeded.String(), order.Fabric.Quantity.String()))
	}
	if err := tx.First(&order.Fabric, order.FabricID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload fabric stock: %w", err)
	}

	report := &DeductionReport{
		OrderID: order.ID,
		Fabric: FabricDeduction{
			ID:            order.Fabric.ID,
			Name:          order.Fabric.Name,
			DeductedUnits: fabricNeeded,
			Remaining:     order.Fabric.Quantity,
		},
	}

	for i := range order.Accessories {
		accessory := &order.Accessories[i]
		res := tx.Model(&models.Accessory{}).
			Where("id = ? AND quantity >= ?", accessory.ID, accessoriesNeeded).
			Update("quantity", gorm.Expr("quantity - ?", accessoriesNeeded))
		if res.Error != nil {
			return nil, fmt.Errorf("failed to deduct accessory stock: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			if err := tx.First(accessory, accessory.ID).Error; err != nil {
				return nil, fmt.Errorf("failed to load accessory stock: %w", err)
			}
			return nil, NewValidationError(fmt.Sprintf("Insufficient accessory: %s. Need %d units, have %d",
				accessory.Name, accessoriesNeeded, accessory.Quantity))
		}
		if err := tx.First(accessory, accessory.ID).Error; err != nil {
			return nil, fmt.Errorf("failed to reload accessory stock: %w", err)
		}
		report.Accessories = append(report.Accessories, AccessoryDeduction{
			ID:            accessory.ID,
			Name:          accessory.Name,
			DeductedUnits: accessoriesNeeded,
			Remaining:     accessory.Quantity,
		})
	}

	order.InventoryDeducted = true
	if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("inventory_deducted", true).Error; err != nil {
		return nil, fmt.Errorf("failed to mark order deducted: %w", err)
	}

	return report, nil
}

// FabricPreview describes what a deduction would take from a fabric
type FabricPreview struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	RequiredUnits decimal.Decimal `json:"required_units"`
	Available     decimal.Decimal `json:"available"`
}

// AccessoryPreview describes what a deduction would take from an accessory
type AccessoryPreview struct {
	ID            uint `json:"id"`
	Name          string `json:"name"`
	RequiredUnits int  `json:"required_units"`
	Available     int  `json:"available"`
}

// PreviewReport is the non-mutating counterpart of DeductionReport
type PreviewReport struct {
	OrderID     uint               `json:"order_id"`
	Fabric      FabricPreview      `json:"fabric"`
	Accessories []AccessoryPreview `json:"accessories"`
}

// Preview computes the same figures as Deduct without mutating stock. Used
// by audit and preview endpoints.
func (l *InventoryLedger) Preview(order *models.Order) *PreviewReport {
	fabricNeeded := l.fabricNeeded(order)
	accessoriesNeeded := l.accessoriesNeeded(order)

	report := &PreviewReport{
		OrderID: order.ID,
		Fabric: FabricPreview{
			ID:            order.Fabric.ID,
			Name:          order.Fabric.Name,
			RequiredUnits: fabricNeeded,
			Available:     order.Fabric.Quantity,
		},
	}

	for i := range order.Accessories {
		report.Accessories = append(report.Accessories, AccessoryPreview{
			ID:            order.Accessories[i].ID,
			Name:          order.Accessories[i].Name,
			RequiredUnits: accessoriesNeeded,
			Available:     order.Accessories[i].Quantity,
		})
	}

	return report
}
