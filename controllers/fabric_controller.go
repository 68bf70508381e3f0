package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/elsenior/tailoring-api/config"
	"github.com/elsenior/tailoring-api/models"
)

// CreateFabricRequest represents the request body for adding a fabric
type CreateFabricRequest struct {
	Name              string           `json:"name" binding:"required"`
	Description       string           `json:"description"`
	UnitType          string           `json:"unit_type"`
	Quantity          decimal.Decimal  `json:"quantity"`
	PricePerUnit      decimal.Decimal  `json:"price_per_unit" binding:"required"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold"`
}

// UpdateFabricRequest represents the request body for updating a fabric.
// Quantity is deliberately absent: stock changes go through the restock and
// deduction endpoints so every movement is accounted for.
type UpdateFabricRequest struct {
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	UnitType          string           `json:"unit_type"`
	PricePerUnit      *decimal.Decimal `json:"price_per_unit"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold"`
}

// CreateFabric handles POST /api/v1/fabrics (admin only)
func CreateFabric(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	var req CreateFabricRequest
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

	unitType := strings.ToUpper(req.UnitType)
	if unitType == "" {
		unitType = models.UnitMeters
	}
	if unitType != models.UnitMeters && unitType != models.UnitYards {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Unit type must be METERS or YARDS",
			},
		})
		return
	}

	if req.Quantity.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Quantity cannot be negative",
			},
		})
		return
	}

	fabric := models.Fabric{
		Name:         req.Name,
		Description:  req.Description,
		UnitType:     unitType,
		Quantity:     req.Quantity,
		PricePerUnit: req.PricePerUnit,
	}
	if req.LowStockThreshold != nil {
		fabric.LowStockThreshold = *req.LowStockThreshold
	} else {
		fabric.LowStockThreshold = decimal.NewFromInt(10)
	}

	db := config.GetDB()
	if err := db.Create(&fabric).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create fabric",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    fabric,
	})
}

// ListFabrics handles GET /api/v1/fabrics
func ListFabrics(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	page, limit := paginationParams(c)
	db := config.GetDB()

	query := db.Model(&models.Fabric{})
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count fabrics",
			},
		})
		return
	}

	var fabrics []models.Fabric
	if err := query.Order("name ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&fabrics).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch fabrics",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       fabrics,
		"pagination": paginationEnvelope(page, limit, total),
	})
}

// GetFabric handles GET /api/v1/fabrics/:id
func GetFabric(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
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

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    fabric,
	})
}

// UpdateFabric handles PUT /api/v1/fabrics/:id (admin only)
func UpdateFabric(c *gin.Context) {
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

	var req UpdateFabricRequest
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

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.UnitType != "" {
		unitType := strings.ToUpper(req.UnitType)
		if unitType != models.UnitMeters && unitType != models.UnitYards {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Unit type must be METERS or YARDS",
				},
			})
			return
		}
		updates["unit_type"] = unitType
	}
	if req.PricePerUnit != nil {
		updates["price_per_unit"] = *req.PricePerUnit
	}
	if req.LowStockThreshold != nil {
		updates["low_stock_threshold"] = *req.LowStockThreshold
	}

	if len(updates) > 0 {
		if err := db.Model(&fabric).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update fabric",
				},
			})
			return
		}
	}

	if err := db.First(&fabric, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch updated fabric",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    fabric,
	})
}

// DeleteFabric handles DELETE /api/v1/fabrics/:id (admin only, soft delete)
func DeleteFabric(c *gin.Context) {
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

	// Fabrics referenced by open orders stay in place
	var open int64
	if err := db.Model(&models.Order{}).
		Where("fabric_id = ? AND status NOT IN ?", id,
			[]models.OrderStatus{models.OrderApproved, models.OrderCancelled}).
		Count(&open).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to check fabric usage",
			},
		})
		return
	}
	if open > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FABRIC_IN_USE",
				"message": "Fabric is referenced by open orders and cannot be deleted",
			},
		})
		return
	}

	if err := db.Delete(&fabric).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete fabric",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": "Fabric deleted",
		},
	})
}
