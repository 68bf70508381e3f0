package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/elsenior/tailoring-api/config"
	"github.com/elsenior/tailoring-api/models"
)

// taskForTailor loads a task and verifies it belongs to the authenticated
// tailor. On failure it writes the error response and returns false.
func taskForTailor(c *gin.Context, user *models.User, taskID uint) (*models.Task, bool) {
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
		return nil, false
	}

	var task models.Task
	if err := db.Preload("Order.Customer").Preload("Tailor").First(&task, taskID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TASK_NOT_FOUND",
				"message": "Task not found",
			},
		})
		return nil, false
	}

	if task.TailorID != tailor.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "This task belongs to another tailor",
			},
		})
		return nil, false
	}

	return &task, true
}

// ListTasks handles GET /api/v1/tasks - all tasks with optional status filter
// (admin only)
func ListTasks(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	page, limit := paginationParams(c)
	db := config.GetDB()

	query := db.Model(&models.Task{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count tasks",
			},
		})
		return
	}

	var tasks []models.Task
	if err := query.Preload("Order.Customer").Preload("Tailor.User").
		Order("assigned_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch tasks",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       tasks,
		"pagination": paginationEnvelope(page, limit, total),
	})
}

// MyTasks handles GET /api/v1/tailor/tasks - the authenticated tailor's own
// tasks
func MyTasks(c *gin.Context) {
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
	query := db.Model(&models.Task{}).Where("tailor_id = ?", tailor.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count tasks",
			},
		})
		return
	}

	var tasks []models.Task
	if err := query.Preload("Order.Customer").Preload("Order.Fabric").
		Order("assigned_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch tasks",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       tasks,
		"pagination": paginationEnvelope(page, limit, total),
	})
}

// StartTask handles POST /api/v1/tasks/:id/start - the assigned tailor starts
// working (tailor only)
func StartTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleTailor) {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, ok := taskForTailor(c, user, id)
	if !ok {
		return
	}

	if err := orderWorkflow().StartTask(config.GetDB(), task); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    task,
	})
}

// CompleteTask handles POST /api/v1/tasks/:id/complete - the assigned tailor
// finishes the work (tailor only). The order waits for admin approval.
func CompleteTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleTailor) {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, ok := taskForTailor(c, user, id)
	if !ok {
		return
	}

	if err := orderWorkflow().CompleteTask(config.GetDB(), task); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    task,
	})
}

// ApproveTask handles POST /api/v1/tasks/:id/approve - admin approves the
// completed work, which creates the commission and notifies the customer
// (admin only)
func ApproveTask(c *gin.Context) {
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
	var task models.Task
	if err := db.Preload("Order.Customer").Preload("Tailor.Tariffs").
		First(&task, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TASK_NOT_FOUND",
				"message": "Task not found",
			},
		})
		return
	}

	commission, err := orderWorkflow().ApproveTask(db, &task)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"task":       task,
			"commission": commission,
		},
	})
}
