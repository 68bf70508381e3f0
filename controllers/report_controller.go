package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/elsenior/tailoring-api/config"
	"github.com/elsenior/tailoring-api/models"
	"github.com/elsenior/tailoring-api/services"
)

// periodRange resolves a period shortcut to a date range ending now
func periodRange(period string, now time.Time) (time.Time, time.Time, bool) {
	switch period {
	case "last_week":
		return now.AddDate(0, 0, -7), now, true
	case "last_month":
		return now.AddDate(0, -1, 0), now, true
	case "last_quarter":
		return now.AddDate(0, -3, 0), now, true
	case "ytd":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), now, true
	case "all_time":
		return time.Time{}, now, true
	}
	return time.Time{}, time.Time{}, false
}

// GenerateReport handles GET /api/v1/reports/:type - renders a business
// report as PDF or CSV. The range comes either from a period shortcut or from
// explicit date_from/date_to parameters; default is the last month.
// (admin only)
func GenerateReport(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	reportType := c.Param("type")
	format := c.DefaultQuery("format", services.FormatPDF)

	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now

	if period := c.Query("period"); period != "" {
		var ok bool
		from, to, ok = periodRange(period, now)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Unknown period: " + period,
				},
			})
			return
		}
	} else {
		if raw := c.Query("date_from"); raw != "" {
			t, err := time.Parse("2006-01-02", raw)
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
			from = t
		}
		if raw := c.Query("date_to"); raw != "" {
			t, err := time.Parse("2006-01-02", raw)
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
			// Inclusive end date
			to = t.AddDate(0, 0, 1)
		}
	}

	if !from.Before(to) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "date_from must be before date_to",
			},
		})
		return
	}

	req := services.ReportRequest{
		Type:   reportType,
		From:   from,
		To:     to,
		Format: format,
	}

	if reportType == services.ReportTailor {
		tailorID, err := strconv.ParseUint(c.Query("tailor_id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "tailor_id is required for tailor reports",
				},
			})
			return
		}
		var tailor models.Tailor
		if err := config.GetDB().First(&tailor, uint(tailorID)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "TAILOR_NOT_FOUND",
					"message": "Tailor not found",
				},
			})
			return
		}
		req.TailorID = uint(tailorID)
	}

	generator := services.NewReportGenerator(config.GetDB())
	doc, filename, err := generator.Generate(req)
	if err != nil {
		if req.Format != services.FormatPDF && req.Format != services.FormatCSV {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Format must be pdf or csv",
				},
			})
			return
		}
		switch reportType {
		case services.ReportOverview, services.ReportFinancial,
			services.ReportInventory, services.ReportTailor:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "REPORT_ERROR",
					"message": "Failed to generate report",
				},
			})
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Unknown report type: " + reportType,
				},
			})
		}
		return
	}

	contentType := "application/pdf"
	if req.Format == services.FormatCSV {
		contentType = "text/csv"
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, doc)
}
