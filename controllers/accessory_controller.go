package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/elsenior/tailoring-api/config"
	"github.com/elsenior/tailoring-api/models"
)

// CreateAccessoryRequest represents the request body for adding an accessory.
// ApplicableGarments lists garment type codes; empty means the accessory can
// be used on any garment.
type CreateAccessoryRequest struct {
	Name               string          `json:"name" binding:"required"`
	Description        string          `json:"description"`
	Quantity           int             `json:"quantity"`
	PricePerUnit       decimal.Decimal `json:"price_per_unit" binding:"required"`
	LowStockThreshold  *int            `json:"low_stock_threshold"`
	ApplicableGarments []string        `json:"applicable_garments"`
}

// UpdateAccessoryRequest represents the request body for updating an
// accessory. Quantity changes go through the restock endpoints.
type UpdateAccessoryRequest struct {
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	PricePerUnit       *decimal.Decimal `json:"price_per_unit"`
	LowStockThreshold  *int             `json:"low_stock_threshold"`
	ApplicableGarments *[]string        `json:"applicable_garments"`
}

// resolveGarmentTypes maps garment codes to catalogue rows, rejecting
// unknown codes.
func resolveGarmentTypes(c *gin.Context, codes []string) ([]models.GarmentType, bool) {
	if len(codes) == 0 {
		return nil, true
	}

	db := config.GetDB()
	var garments []models.GarmentType
	if err := db.Where("code IN ?", codes).Find(&garments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to look up garment types",
			},
		})
		return nil, false
	}

	if len(garments) != len(codes) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "One or more garment type codes are unknown",
			},
		})
		return nil, false
	}

	return garments, true
}

// CreateAccessory handles POST /api/v1/accessories (admin only)
func CreateAccessory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	var req CreateAccessoryRequest
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

	if req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Quantity cannot be negative",
			},
		})
		return
	}

	garments, ok := resolveGarmentTypes(c, req.ApplicableGarments)
	if !ok {
		return
	}

	accessory := models.Accessory{
		Name:               req.Name,
		Description:        req.Description,
		Quantity:           req.Quantity,
		PricePerUnit:       req.PricePerUnit,
		ApplicableGarments: garments,
	}
	if req.LowStockThreshold != nil {
		accessory.LowStockThreshold = *req.LowStockThreshold
	} else {
		accessory.LowStockThreshold = 10
	}

	db := config.GetDB()
	if err := db.Create(&accessory).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create accessory",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    accessory,
	})
}

// ListAccessories handles GET /api/v1/accessories
func ListAccessories(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	page, limit := paginationParams(c)
	db := config.GetDB()

	query := db.Model(&models.Accessory{})
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count accessories",
			},
		})
		return
	}

	var accessories []models.Accessory
	if err := query.Preload("ApplicableGarments").Order("name ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&accessories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch accessories",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       accessories,
		"pagination": paginationEnvelope(page, limit, total),
	})
}

// GetAccessory handles GET /api/v1/accessories/:id
func GetAccessory(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var accessory models.Accessory
	if err := db.Preload("ApplicableGarments").First(&accessory, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ACCESSORY_NOT_FOUND",
				"message": "Accessory not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    accessory,
	})
}

// UpdateAccessory handles PUT /api/v1/accessories/:id (admin only)
func UpdateAccessory(c *gin.Context) {
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

	var req UpdateAccessoryRequest
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
	if req.PricePerUnit != nil {
		updates["price_per_unit"] = *req.PricePerUnit
	}
	if req.LowStockThreshold != nil {
		updates["low_stock_threshold"] = *req.LowStockThreshold
	}

	if len(updates) > 0 {
		if err := db.Model(&accessory).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update accessory",
				},
			})
			return
		}
	}

	// A present applicable_garments list replaces the association; an empty
	// list makes the accessory universal.
	if req.ApplicableGarments != nil {
		garments, ok := resolveGarmentTypes(c, *req.ApplicableGarments)
		if !ok {
			return
		}
		if err := db.Model(&accessory).Association("ApplicableGarments").Replace(garments); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update applicable garments",
				},
			})
			return
		}
	}

	if err := db.Preload("ApplicableGarments").First(&accessory, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch updated accessory",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    accessory,
	})
}

// DeleteAccessory handles DELETE /api/v1/accessories/:id (admin only, soft delete)
func DeleteAccessory(c *gin.Context) {
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

	if err := db.Delete(&accessory).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete accessory",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": "Accessory deleted",
		},
	})
}
