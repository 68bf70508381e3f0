package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/elsenior/tailoring-api/config"
	"github.com/elsenior/tailoring-api/models"
)

// ListCommissions handles GET /api/v1/commissions - all commissions with
// optional status and tailor filters (admin only)
func ListCommissions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	page, limit := paginationParams(c)
	db := config.GetDB()

	query := db.Model(&models.Commission{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if tailorID := c.Query("tailor_id"); tailorID != "" {
		query = query.Where("tailor_id = ?", tailorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count commissions",
			},
		})
		return
	}

	var commissions []models.Commission
	if err := query.Preload("Tailor.User").Preload("Order").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&commissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch commissions",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       commissions,
		"pagination": paginationEnvelope(page, limit, total),
	})
}

// MyCommissions handles GET /api/v1/tailor/commissions - the authenticated
// tailor's own earnings
func MyCommissions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleTailor) {
		return
	}

	db := config.GetDB()
	var tailor models.Tailor
	if err := db.Where("user_id = ?", user.ID).First(&tailor).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TAILOR_NOT_FOUND",
				"message": "No tailor record is linked to this account",
			},
		})
		return
	}

	page, limit := paginationParams(c)
	query := db.Model(&models.Commission{}).Where("tailor_id = ?", tailor.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count commissions",
			},
		})
		return
	}

	var commissions []models.Commission
	if err := query.Preload("Order").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&commissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch commissions",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       commissions,
		"pagination": paginationEnvelope(page, limit, total),
	})
}

// PayCommission handles POST /api/v1/commissions/:id/pay - marks a commission
// paid out (admin only)
func PayCommission(c *gin.Context) {
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
	var commission models.Commission
	if err := db.Preload("Tailor.User").First(&commission, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "COMMISSION_NOT_FOUND",
				"message": "Commission not found",
			},
		})
		return
	}

	if err := orderWorkflow().PayCommission(db, &commission); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    commission,
	})
}
