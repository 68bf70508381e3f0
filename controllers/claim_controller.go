package controllers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/elsenior/tailoring-api/config"
	"github.com/elsenior/tailoring-api/models"
)

// ReverseClaimRequest represents the request body for reversing a claim
type ReverseClaimRequest struct {
	Notes string `json:"notes" binding:"required"`
}

// ListClaims handles GET /api/v1/claims - the claim audit trail with optional
// filters; format=csv streams the result as a CSV export (admin only)
func ListClaims(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	db := config.GetDB()
	query := db.Model(&models.Claim{})

	if reversed := c.Query("reversed"); reversed != "" {
		query = query.Where("reversed = ?", reversed == "true")
	}
	if from := c.Query("date_from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "date_from must be YYYY-MM-DD",
				},
			})
			return
		}
		query = query.Where("created_at >= ?", t)
	}
	if to := c.Query("date_to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "date_to must be YYYY-MM-DD",
				},
			})
			return
		}
		query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
	}

	if c.Query("format") == "csv" {
		var claims []models.Claim
		if err := query.Preload("RecordedBy").Order("created_at DESC").Find(&claims).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to fetch claims",
				},
			})
			return
		}
		writeClaimsCSV(c, claims)
		return
	}

	page, limit := paginationParams(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count claims",
			},
		})
		return
	}

	var claims []models.Claim
	if err := query.Preload("RecordedBy").Preload("Order").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&claims).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch claims",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       claims,
		"pagination": paginationEnvelope(page, limit, total),
	})
}

// writeClaimsCSV streams the claim list as a CSV attachment
func writeClaimsCSV(c *gin.Context, claims []models.Claim) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"id", "order_id", "claimant_name", "claimant_phone",
		"recorded_by", "claimed_at", "reversed", "reversed_at", "notes"}
	if err := writer.Write(header); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXPORT_ERROR",
				"message": "Failed to build CSV export",
			},
		})
		return
	}

	for i := range claims {
		claim := &claims[i]
		reversedAt := ""
		if claim.ReversedAt != nil {
			reversedAt = claim.ReversedAt.Format(time.RFC3339)
		}
		row := []string{
			fmt.Sprintf("%d", claim.ID),
			fmt.Sprintf("%d", claim.OrderID),
			claim.ClaimantName,
			claim.ClaimantPhone,
			claim.RecordedBy.Name,
			claim.CreatedAt.Format(time.RFC3339),
			fmt.Sprintf("%t", claim.Reversed),
			reversedAt,
			claim.Notes,
		}
		if err := writer.Write(row); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "EXPORT_ERROR",
					"message": "Failed to build CSV export",
				},
			})
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXPORT_ERROR",
				"message": "Failed to build CSV export",
			},
		})
		return
	}

	filename := fmt.Sprintf("claims_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ReverseClaim handles POST /api/v1/claims/:id/reverse - flags a mistaken
// claim without deleting it and reopens the order for pickup (admin only)
func ReverseClaim(c *gin.Context) {
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

	var req ReverseClaimRequest
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
	var claim models.Claim
	if err := db.First(&claim, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CLAIM_NOT_FOUND",
				"message": "Claim not found",
			},
		})
		return
	}

	if err := orderWorkflow().ReverseClaim(db, &claim, user, req.Notes); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    claim,
	})
}
