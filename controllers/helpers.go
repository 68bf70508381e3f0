package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/elsenior/tailoring-api/business"
	"github.com/elsenior/tailoring-api/config"
	"github.com/elsenior/tailoring-api/middleware"
	"github.com/elsenior/tailoring-api/models"
	"github.com/elsenior/tailoring-api/services"
)

// orderWorkflow builds the workflow with the standard pricing table,
// inventory ledger and the configured SMS gateway.
func orderWorkflow() *business.Workflow {
	return business.NewWorkflow(
		business.DefaultPricingTable(),
		business.DefaultInventoryLedger(),
		services.GetSMSService(),
	)
}

// currentUser resolves the authenticated user's database record. On failure
// it writes the error response and returns false.
func currentUser(c *gin.Context) (*models.User, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User profile not found. Please create a profile first.",
			},
		})
		return nil, false
	}

	return &user, true
}

// requireRole checks the resolved user's role against the allowed set. On
// failure it writes the 403 response and returns false.
func requireRole(c *gin.Context, user *models.User, roles ...string) bool {
	for _, role := range roles {
		if user.Role == role {
			return true
		}
	}

	c.JSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "FORBIDDEN",
			"message": "Insufficient permissions to access this resource",
		},
	})
	return false
}

// paginationParams reads page and limit query parameters with the standard
// defaults (page 1, limit 10, limit capped at 100).
func paginationParams(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

// paginationEnvelope builds the standard pagination block for list responses
func paginationEnvelope(page, limit int, total int64) gin.H {
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	return gin.H{
		"page":       page,
		"limit":      limit,
		"total":      total,
		"totalPages": totalPages,
	}
}

// isDuplicateError reports whether a database error is a unique constraint
// violation. Works with both PostgreSQL and SQLite wording.
func isDuplicateError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique")
}

// respondWorkflowError maps business layer errors onto the response envelope.
// Validation errors become 400s with the rule text; everything else is a
// generic database failure.
func respondWorkflowError(c *gin.Context, err error) {
	if business.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": "Failed to process the request",
		},
	})
}

// pathID parses a numeric path parameter. On failure it writes the error
// response and returns false.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid " + name + " parameter",
			},
		})
		return 0, false
	}
	return uint(id), true
}
