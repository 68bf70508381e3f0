package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/elsenior/tailoring-api/config"
	"github.com/elsenior/tailoring-api/models"
)

// CreateTailorRequest represents the request body for registering a tailor
type CreateTailorRequest struct {
	UserID         uint             `json:"user_id" binding:"required"`
	Phone          string           `json:"phone" binding:"required"`
	Specialty      string           `json:"specialty"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
}

// UpdateTailorRequest represents the request body for updating a tailor
type UpdateTailorRequest struct {
	Phone          string           `json:"phone"`
	Specialty      string           `json:"specialty"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
}

// SetTariffRequest represents the request body for setting a fixed tariff
type SetTariffRequest struct {
	GarmentType string          `json:"garment_type" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
}

// CreateTailor handles POST /api/v1/tailors - registers a user as a tailor (admin only)
func CreateTailor(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	var req CreateTailorRequest
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

	db := config.GetDB()
	var account models.User
	if err := db.First(&account, req.UserID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User account does not exist",
			},
		})
		return
	}

	tailor := models.Tailor{
		UserID:    req.UserID,
		Phone:     req.Phone,
		Specialty: req.Specialty,
	}
	if req.CommissionRate != nil {
		tailor.CommissionRate = *req.CommissionRate
	}

	if err := db.Create(&tailor).Error; err != nil {
		if isDuplicateError(err) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "TAILOR_EXISTS",
					"message": "This user is already registered as a tailor",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create tailor",
			},
		})
		return
	}

	// Keep the account role in step with the tailor registration
	if account.Role != models.RoleTailor {
		if err := db.Model(&account).Update("role", models.RoleTailor).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update user role",
				},
			})
			return
		}
	}

	if err := db.Preload("User").First(&tailor, tailor.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load tailor details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    tailor,
	})
}

// ListTailors handles GET /api/v1/tailors (admin only)
func ListTailors(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	page, limit := paginationParams(c)
	db := config.GetDB()

	var total int64
	if err := db.Model(&models.Tailor{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count tailors",
			},
		})
		return
	}

	var tailors []models.Tailor
	if err := db.Preload("User").Preload("Tariffs").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&tailors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch tailors",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       tailors,
		"pagination": paginationEnvelope(page, limit, total),
	})
}

// GetTailor handles GET /api/v1/tailors/:id (admin only)
func GetTailor(c *gin.Context) {
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
	var tailor models.Tailor
	if err := db.Preload("User").Preload("Tariffs").First(&tailor, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TAILOR_NOT_FOUND",
				"message": "Tailor not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tailor,
	})
}

// UpdateTailor handles PUT /api/v1/tailors/:id (admin only)
func UpdateTailor(c *gin.Context) {
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
	var tailor models.Tailor
	if err := db.First(&tailor, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TAILOR_NOT_FOUND",
				"message": "Tailor not found",
			},
		})
		return
	}

	var req UpdateTailorRequest
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
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Specialty != "" {
		updates["specialty"] = req.Specialty
	}
	if req.CommissionRate != nil {
		if req.CommissionRate.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Commission rate cannot be negative",
				},
			})
			return
		}
		updates["commission_rate"] = *req.CommissionRate
	}

	if len(updates) > 0 {
		if err := db.Model(&tailor).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update tailor",
				},
			})
			return
		}
	}

	if err := db.Preload("User").Preload("Tariffs").First(&tailor, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch updated tailor",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tailor,
	})
}

// SetTariff handles PUT /api/v1/tailors/:id/tariffs - creates or updates the
// fixed commission amount for one garment type (admin only). Existing
// commission rows are snapshots and are not recalculated.
func SetTariff(c *gin.Context) {
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
	var tailor models.Tailor
	if err := db.First(&tailor, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TAILOR_NOT_FOUND",
				"message": "Tailor not found",
			},
		})
		return
	}

	var req SetTariffRequest
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

	if req.Amount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Tariff amount cannot be negative",
			},
		})
		return
	}

	var garment models.GarmentType
	if err := db.Where("code = ?", req.GarmentType).First(&garment).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Unknown garment type: " + req.GarmentType,
			},
		})
		return
	}

	var tariff models.TailorTariff
	err := db.Where("tailor_id = ? AND garment_type = ?", tailor.ID, req.GarmentType).First(&tariff).Error
	if err == nil {
		if err := db.Model(&tariff).Update("amount", req.Amount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update tariff",
				},
			})
			return
		}
		tariff.Amount = req.Amount
	} else {
		tariff = models.TailorTariff{
			TailorID:    tailor.ID,
			GarmentType: req.GarmentType,
			Amount:      req.Amount,
		}
		if err := db.Create(&tariff).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to create tariff",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tariff,
	})
}

// ListTariffs handles GET /api/v1/tailors/:id/tariffs (admin only)
func ListTariffs(c *gin.Context) {
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
	var tailor models.Tailor
	if err := db.First(&tailor, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TAILOR_NOT_FOUND",
				"message": "Tailor not found",
			},
		})
		return
	}

	var tariffs []models.TailorTariff
	if err := db.Where("tailor_id = ?", tailor.ID).Order("garment_type ASC").Find(&tariffs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch tariffs",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tariffs,
	})
}

// DeleteTariff handles DELETE /api/v1/tailors/:id/tariffs/:garmentType - the
// tailor falls back to the percentage rate for that garment type (admin only)
func DeleteTariff(c *gin.Context) {
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

	garmentType := c.Param("garmentType")
	db := config.GetDB()

	var tariff models.TailorTariff
	if err := db.Where("tailor_id = ? AND garment_type = ?", id, garmentType).First(&tariff).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TARIFF_NOT_FOUND",
				"message": "No tariff found for this tailor and garment type",
			},
		})
		return
	}

	if err := db.Delete(&tariff).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete tariff",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": "Tariff removed",
		},
	})
}
