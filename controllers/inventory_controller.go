package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/elsenior/tailoring-api/business"
	"github.com/elsenior/tailoring-api/config"
	"github.com/elsenior/tailoring-api/models"
)

// RestockFabricRequest represents the request body for restocking a fabric
type RestockFabricRequest struct {
	Units decimal.Decimal `json:"units" binding:"required"`
}

// RestockAccessoryRequest represents the request body for restocking an accessory
type RestockAccessoryRequest struct {
	Units int `json:"units" binding:"required"`
}

// BulkRestockRequest restocks several items in one transaction
type BulkRestockRequest struct {
	Fabrics []struct {
		ID    uint            `json:"id" binding:"required"`
		Units decimal.Decimal `json:"units" binding:"required"`
	} `json:"fabrics"`
	Accessories []struct {
		ID    uint `json:"id" binding:"required"`
		Units int  `json:"units" binding:"required"`
	} `json:"accessories"`
}

// RestockFabric handles POST /api/v1/fabrics/:id/restock (admin only)
func RestockFabric(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req RestockFabricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if !req.Units.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Restock units must be greater than zero",
			},
		})
		return
	}

	db := config.GetDB()
	var fabric models.Fabric
	if err := db.First(&fabric, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FABRIC_NOT_FOUND",
				"message": "Fabric not found",
			},
		})
		return
	}

	fabric.Quantity = fabric.Quantity.Add(req.Units)
	if err := db.Model(&fabric).Update("quantity", fabric.Quantity).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to restock fabric",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    fabric,
	})
}

// RestockAccessory handles POST /api/v1/accessories/:id/restock (admin only)
func RestockAccessory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req RestockAccessoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if req.Units <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Restock units must be greater than zero",
			},
		})
		return
	}

	db := config.GetDB()
	var accessory models.Accessory
	if err := db.First(&accessory, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ACCESSORY_NOT_FOUND",
				"message": "Accessory not found",
			},
		})
		return
	}

	accessory.Quantity += req.Units
	if err := db.Model(&accessory).Update("quantity", accessory.Quantity).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to restock accessory",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    accessory,
	})
}

// BulkRestock handles POST /api/v1/inventory/bulk-restock - restocks several
// items atomically (admin only)
func BulkRestock(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	var req BulkRestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if len(req.Fabrics) == 0 && len(req.Accessories) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "At least one fabric or accessory is required",
			},
		})
		return
	}

	db := config.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, item := range req.Fabrics {
			if !item.Units.IsPositive() {
				return business.NewValidationError("Restock units must be greater than zero")
			}
			var fabric models.Fabric
			if err := tx.First(&fabric, item.ID).Error; err != nil {
				return business.NewValidationError("Fabric not found")
			}
			if err := tx.Model(&fabric).
				Update("quantity", fabric.Quantity.Add(item.Units)).Error; err != nil {
				return err
			}
		}
		for _, item := range req.Accessories {
			if item.Units <= 0 {
				return business.NewValidationError("Restock units must be greater than zero")
			}
			var accessory models.Accessory
			if err := tx.First(&accessory, item.ID).Error; err != nil {
				return business.NewValidationError("Accessory not found")
			}
			if err := tx.Model(&accessory).
				Update("quantity", accessory.Quantity+item.Units).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"restocked_fabrics":     len(req.Fabrics),
			"restocked_accessories": len(req.Accessories),
		},
	})
}

// LowStock handles GET /api/v1/inventory/low-stock - lists every item at or
// below its restock threshold (admin only)
func LowStock(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	db := config.GetDB()

	var fabrics []models.Fabric
	if err := db.Where("quantity <= low_stock_threshold").Order("name ASC").Find(&fabrics).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch low stock fabrics",
			},
		})
		return
	}

	var accessories []models.Accessory
	if err := db.Where("quantity <= low_stock_threshold").Order("name ASC").Find(&accessories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch low stock accessories",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"fabrics":     fabrics,
			"accessories": accessories,
		},
	})
}

// InventorySummary handles GET /api/v1/inventory/summary - stock counts and
// valuation across the whole inventory (admin only)
func InventorySummary(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	db := config.GetDB()

	var fabrics []models.Fabric
	if err := db.Find(&fabrics).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch fabrics",
			},
		})
		return
	}

	var accessories []models.Accessory
	if err := db.Find(&accessories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch accessories",
			},
		})
		return
	}

	fabricValue := decimal.Zero
	lowFabrics := 0
	for i := range fabrics {
		fabricValue = fabricValue.Add(fabrics[i].Quantity.Mul(fabrics[i].PricePerUnit))
		if fabrics[i].IsLowStock() {
			lowFabrics++
		}
	}

	accessoryValue := decimal.Zero
	lowAccessories := 0
	for i := range accessories {
		accessoryValue = accessoryValue.Add(
			decimal.NewFromInt(int64(accessories[i].Quantity)).Mul(accessories[i].PricePerUnit))
		if accessories[i].IsLowStock() {
			lowAccessories++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"fabric_count":          len(fabrics),
			"accessory_count":       len(accessories),
			"fabric_value":          fabricValue,
			"accessory_value":       accessoryValue,
			"total_value":           fabricValue.Add(accessoryValue),
			"low_stock_fabrics":     lowFabrics,
			"low_stock_accessories": lowAccessories,
		},
	})
}

// DeductInventory handles POST /api/v1/orders/:id/deduct-inventory - manual
// deduction for orders created before the automatic deduction existed. The
// deducted flag makes this a no-op-with-error on the second call (admin only).
func DeductInventory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Preload("Fabric").Preload("Accessories").First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	ledger := business.DefaultInventoryLedger()
	var report *business.DeductionReport
	err := db.Transaction(func(tx *gorm.DB) error {
		deduction, err := ledger.Deduct(tx, &order)
		if err != nil {
			return err
		}
		report = deduction
		return nil
	})
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}

// DeductionReport handles GET /api/v1/orders/:id/deduction-report - shows
// what a deduction would take without mutating stock (admin only)
func DeductionReport(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Preload("Fabric").Preload("Accessories").First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	ledger := business.DefaultInventoryLedger()
	sufficient, reason := ledger.Check(&order)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"report":             ledger.Preview(&order),
			"inventory_deducted": order.InventoryDeducted,
			"sufficient":         sufficient,
			"reason":             reason,
		},
	})
}
